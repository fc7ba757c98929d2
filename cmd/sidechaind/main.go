// Sidechain consensus node daemon.
//
// Usage:
//
//	sidechaind [options]  Run node
//	sidechaind --help     Show help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sidechain-labs/bmmd/config"
	klog "github.com/sidechain-labs/bmmd/internal/log"
	"github.com/sidechain-labs/bmmd/internal/parentchain"
	"github.com/sidechain-labs/bmmd/internal/rpc"
	"github.com/sidechain-labs/bmmd/internal/state"
)

func main() {
	// ── 1. Load config (defaults → file → flags) ────────────────────────
	cfg, _, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
		os.Exit(1)
	}

	// ── 2. Init logger ──────────────────────────────────────────────────
	// Default to logging to <datadir>/logs/bmmd.log alongside console.
	logFile := cfg.Log.File
	if logFile == "" {
		logsDir := cfg.LogsDir()
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating logs dir: %v\n", err)
			os.Exit(1)
		}
		logFile = logsDir + "/bmmd.log"
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	logger := klog.WithComponent("node")

	logger.Info().
		Str("network", string(cfg.Network)).
		Uint32("sidechain_number", cfg.ParentChain.SidechainNumber).
		Str("parentchain_endpoint", cfg.ParentChain.Endpoint).
		Msg("Starting sidechain node")

	// ── 3. Open state (UTXO set, archive, mempool) ──────────────────────
	coord, err := state.New(cfg.ChainDataDir())
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.ChainDataDir()).Msg("Failed to open state store")
	}
	defer coord.Close()

	if clean, err := coord.IsClean(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to inspect state store")
	} else if clean {
		logger.Info().Msg("Starting from an empty state store, awaiting initial deposit sync")
	} else {
		height, tip, ok, err := coord.GetChainTip()
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to read chain tip")
		}
		if ok {
			logger.Info().
				Uint32("height", height).
				Str("tip", tip.String()[:16]+"...").
				Msg("State store resumed")
		} else {
			logger.Info().Msg("State store resumed, no sidechain blocks connected yet")
		}
	}

	// ── 4. Parent-chain poller ───────────────────────────────────────────
	// Feeds deposits and MainBlock (BMM commitment / withdrawal event)
	// data from the parent chain's enforcer node into the coordinator.
	pcClient := parentchain.NewRPCClient(cfg.ParentChain.Endpoint)
	poller := parentchain.NewPoller(pcClient, coord, cfg.ParentChain.SidechainNumber,
		cfg.ParentChain.PollInterval, klog.WithComponent("parentchain"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("Parent-chain poller stopped unexpectedly")
		}
	}()

	// ── 5. Start RPC server ──────────────────────────────────────────────
	var rpcServer *rpc.Server
	if cfg.RPC.Enabled {
		rpcAddr := fmt.Sprintf("%s:%d", cfg.RPC.Addr, cfg.RPC.Port)
		rpcServer = rpc.New(rpcAddr, coord, cfg.Mempool.BlockSizeLimit, cfg.RPC)
		if err := rpcServer.Start(); err != nil {
			logger.Fatal().Err(err).Str("addr", rpcAddr).Msg("Failed to start RPC server")
		}
		logger.Info().Str("addr", rpcServer.Addr()).Msg("RPC server started")
	} else {
		logger.Info().Msg("RPC server disabled")
	}

	logger.Info().Msg("Node started successfully")

	// ── 6. Wait for shutdown ─────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case <-pollerDone:
	}

	// Graceful shutdown: stop the poller, stop accepting RPC requests,
	// then close the state store (via defer).
	cancel()
	select {
	case <-pollerDone:
	case <-time.After(5 * time.Second):
		logger.Warn().Msg("Timed out waiting for parent-chain poller to stop")
	}

	if rpcServer != nil {
		if err := rpcServer.Stop(); err != nil {
			logger.Warn().Err(err).Msg("Error stopping RPC server")
		}
	}

	logger.Info().Msg("Goodbye!")
}
