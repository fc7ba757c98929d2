package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	Network string
	DataDir string
	Config  string

	// RPC
	RPC        bool
	RPCAddr    string
	RPCPort    int
	RPCAllowed string
	RPCCORS    string

	// Parent chain
	ParentChainEndpoint string
	ParentChainPoll     time.Duration
	SidechainNumber     uint
	SetSidechainNumber  bool

	// Mempool
	BlockSizeLimit int

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetRPC     bool
	SetLogJSON bool
}

// ParseFlags parses command-line flags.
func ParseFlags() *Flags {
	f := &Flags{}
	fs := flag.NewFlagSet("sidechaind", flag.ContinueOnError)

	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")
	fs.BoolVar(&f.Version, "v", false, "Show version (shorthand)")

	fs.StringVar(&f.Network, "network", "", "Network type (mainnet or testnet)")
	fs.BoolFunc("testnet", "Use testnet (shorthand for --network=testnet)", func(string) error {
		f.Network = "testnet"
		return nil
	})
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	fs.BoolVar(&f.RPC, "rpc", true, "Enable RPC server")
	fs.StringVar(&f.RPCAddr, "rpc-addr", "", "RPC listen address")
	fs.IntVar(&f.RPCPort, "rpc-port", 0, "RPC listen port")
	fs.StringVar(&f.RPCAllowed, "rpc-allowed", "", "Allowed IPs for RPC")
	fs.StringVar(&f.RPCCORS, "rpc-cors", "", "Allowed CORS origins for RPC (comma-separated)")

	fs.StringVar(&f.ParentChainEndpoint, "parentchain-endpoint", "", "Parent-chain client RPC endpoint")
	fs.DurationVar(&f.ParentChainPoll, "parentchain-poll", 0, "Parent-chain poll interval")
	fs.UintVar(&f.SidechainNumber, "sidechain-number", 0, "Sidechain slot number registered with the parent chain")

	fs.IntVar(&f.BlockSizeLimit, "block-size-limit", 0, "Maximum assembled block size in bytes")

	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	fs.Usage = func() {
		printUsage()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if isFlagSet(fs, "testnet") {
		f.Network = "testnet"
	}
	f.SetRPC = isFlagSet(fs, "rpc")
	f.SetLogJSON = isFlagSet(fs, "log-json")
	f.SetSidechainNumber = isFlagSet(fs, "sidechain-number")

	f.Args = fs.Args()

	for _, arg := range f.Args {
		if strings.HasPrefix(arg, "-") {
			fmt.Fprintf(os.Stderr, "Error: flag %q was not parsed (positional argument stopped parsing)\n", arg)
			os.Exit(1)
		}
	}

	return f
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	if f.Network != "" {
		cfg.Network = NetworkType(f.Network)
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	if f.SetRPC {
		cfg.RPC.Enabled = f.RPC
	}
	if f.RPCAddr != "" {
		cfg.RPC.Addr = f.RPCAddr
	}
	if f.RPCPort != 0 {
		cfg.RPC.Port = f.RPCPort
	}
	if f.RPCAllowed != "" {
		cfg.RPC.AllowedIPs = parseStringList(f.RPCAllowed)
	}
	if f.RPCCORS != "" {
		cfg.RPC.CORSOrigins = parseStringList(f.RPCCORS)
	}

	if f.ParentChainEndpoint != "" {
		cfg.ParentChain.Endpoint = f.ParentChainEndpoint
	}
	if f.ParentChainPoll != 0 {
		cfg.ParentChain.PollInterval = f.ParentChainPoll
	}
	if f.SetSidechainNumber {
		cfg.ParentChain.SidechainNumber = uint32(f.SidechainNumber)
	}

	if f.BlockSizeLimit != 0 {
		cfg.Mempool.BlockSizeLimit = f.BlockSizeLimit
	}

	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// isFlagSet checks if a flag was explicitly set.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func printUsage() {
	usage := `sidechaind - blind-merge-mined sidechain node

Usage:
  sidechaind [options]
  sidechaind --help

Commands:
  --help, -h      Show this help message
  --version, -v   Show version information

Core Options:
  --network               Network type: mainnet (default) or testnet
  --testnet               Shorthand for --network=testnet
  --datadir               Data directory (default: ~/.bmmd)
  --config, -c            Config file path (default: <datadir>/bmmd.conf)

RPC Options:
  --rpc                   Enable RPC server (default: true)
  --rpc-addr              RPC listen address (default: 127.0.0.1)
  --rpc-port              RPC port (mainnet: 8645, testnet: 18645)
  --rpc-allowed           Allowed IPs for RPC (comma-separated)
  --rpc-cors              Allowed CORS origins for RPC (comma-separated)

Parent Chain Options:
  --parentchain-endpoint  Parent-chain client RPC endpoint
  --parentchain-poll      Parent-chain poll interval (e.g. 5s)
  --sidechain-number      Sidechain slot number registered with the parent chain

Mempool Options:
  --block-size-limit      Maximum assembled block size in bytes

Logging Options:
  --log-level     Log level: debug, info, warn, error (default: info)
  --log-file      Log file path (default: <datadir>/logs/bmmd.log)
  --log-json      Output logs as JSON

Examples:
  # Start mainnet node
  sidechaind

  # Start testnet node
  sidechaind --network=testnet

  # Point at a non-default parent-chain client
  sidechaind --parentchain-endpoint=http://127.0.0.1:8332
`
	fmt.Print(usage)
}

// Load loads configuration with the following precedence:
// 1. Default values
// 2. Auto-create data dirs + default config (idempotent)
// 3. Config file
// 4. Command-line flags
func Load() (*Config, *Flags, error) {
	flags := ParseFlags()

	if flags.Help {
		printUsage()
		os.Exit(0)
	}
	if flags.Version {
		fmt.Println("sidechaind version 0.1.0")
		os.Exit(0)
	}

	network := Mainnet
	if strings.ToLower(flags.Network) == "testnet" {
		network = Testnet
	}

	cfg := Default(network)

	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}

	if err := EnsureDataDirs(cfg); err != nil {
		return nil, nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	configPath := flags.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}

	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config file: %w", err)
	}

	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, nil, fmt.Errorf("applying config file: %w", err)
	}

	ApplyFlags(cfg, flags)
	if err := Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, flags, nil
}

// EnsureDataDirs creates the data directory structure and a default
// config file if they don't already exist. Idempotent.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.ChainDataDir(),
		cfg.UTXODir(),
		cfg.ArchiveDir(),
		cfg.MempoolDir(),
		cfg.LogsDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath, cfg.Network); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}

	return nil
}
