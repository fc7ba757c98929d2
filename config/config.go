// Package config handles node configuration.
//
// Configuration is split into two categories:
//   - Protocol parameters: defined in params.go, fixed by the
//     implementation, must match across every node.
//   - Node settings: runtime configuration, can vary per node.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Config holds node-specific runtime configuration. These settings can
// vary between nodes without breaking consensus.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// RPC server (the node's external boundary)
	RPC RPCConfig

	// Parent-chain client (source of BMM commitments, deposits, and
	// withdrawal bundle status events)
	ParentChain ParentChainConfig

	// Mempool
	Mempool MempoolConfig

	// Logging
	Log LogConfig

	// Maintenance (not persisted in config file)
	RebuildIndexes bool
}

// RPCConfig holds RPC server settings.
type RPCConfig struct {
	Enabled     bool     `conf:"rpc.enabled"`
	Addr        string   `conf:"rpc.addr"`
	Port        int      `conf:"rpc.port"`
	AllowedIPs  []string `conf:"rpc.allowed"`
	CORSOrigins []string `conf:"rpc.cors"` // Allowed CORS origins ("*" = all).
}

// ParentChainConfig holds the parent-chain client connection settings.
type ParentChainConfig struct {
	Endpoint        string        `conf:"parentchain.endpoint"`
	PollInterval    time.Duration `conf:"parentchain.pollinterval"`
	SidechainNumber uint32        `conf:"parentchain.sidechainnumber"`
}

// MempoolConfig holds mempool/block-assembly settings.
type MempoolConfig struct {
	BlockSizeLimit int `conf:"mempool.blocksizelimit"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.bmmd
//	macOS:   ~/Library/Application Support/bmmd
//	Windows: %APPDATA%\bmmd
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bmmd"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "bmmd")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "bmmd")
		}
		return filepath.Join(home, "AppData", "Roaming", "bmmd")
	default:
		return filepath.Join(home, ".bmmd")
	}
}

// ChainDataDir returns the chain-specific data directory.
func (c *Config) ChainDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// UTXODir returns the UTXO store directory.
func (c *Config) UTXODir() string {
	return filepath.Join(c.ChainDataDir(), "utxo")
}

// ArchiveDir returns the block archive store directory.
func (c *Config) ArchiveDir() string {
	return filepath.Join(c.ChainDataDir(), "archive")
}

// MempoolDir returns the mempool store directory.
func (c *Config) MempoolDir() string {
	return filepath.Join(c.ChainDataDir(), "mempool")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "bmmd.conf")
}
