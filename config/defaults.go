package config

import "time"

// DefaultMainnet returns the default node configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		RPC: RPCConfig{
			Enabled:    true,
			Addr:       "127.0.0.1",
			Port:       8645,
			AllowedIPs: []string{"127.0.0.1"},
		},
		ParentChain: ParentChainConfig{
			Endpoint:        "http://127.0.0.1:8332",
			PollInterval:    5 * time.Second,
			SidechainNumber: 0,
		},
		Mempool: MempoolConfig{
			BlockSizeLimit: BlockSizeLimit,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns the default node configuration for testnet.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Testnet
	cfg.RPC.Port = 18645
	cfg.ParentChain.Endpoint = "http://127.0.0.1:18332"
	return cfg
}

// Default returns the default node configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Testnet:
		return DefaultTestnet()
	default:
		return DefaultMainnet()
	}
}
