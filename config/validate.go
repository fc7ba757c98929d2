package config

import "fmt"

// Validate checks runtime node config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}
	if cfg.RPC.Port < 0 || cfg.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port must be in range [0, 65535]")
	}
	if cfg.RPC.Enabled && cfg.RPC.Port == 0 {
		return fmt.Errorf("rpc.port must be set when rpc is enabled")
	}
	if cfg.ParentChain.Endpoint == "" {
		return fmt.Errorf("parentchain.endpoint must be set")
	}
	if cfg.ParentChain.PollInterval <= 0 {
		return fmt.Errorf("parentchain.pollinterval must be positive")
	}
	if cfg.Mempool.BlockSizeLimit <= 0 {
		return fmt.Errorf("mempool.blocksizelimit must be positive")
	}

	return nil
}
