package parentchain

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sidechain-labs/bmmd/internal/state"
)

// Poller periodically pulls parent-chain events through a Client and
// applies them to the coordinator: an initial deposit sync if the UTXO
// set is empty, then one ConnectMainBlock call per newly observed
// MainBlock, in height order.
type Poller struct {
	client          Client
	coord           *state.Coordinator
	sidechainNumber uint32
	interval        time.Duration
	logger          zerolog.Logger
}

// NewPoller creates a Poller. interval is how often Run polls for new
// MainBlocks once the initial sync has completed.
func NewPoller(client Client, coord *state.Coordinator, sidechainNumber uint32, interval time.Duration, logger zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Poller{
		client:          client,
		coord:           coord,
		sidechainNumber: sidechainNumber,
		interval:        interval,
		logger:          logger,
	}
}

// Run blocks, polling until ctx is canceled. It performs the initial sync
// synchronously before entering the polling loop, returning an error if
// that fails (the node cannot proceed without it).
func (p *Poller) Run(ctx context.Context) error {
	if err := p.syncIfClean(ctx); err != nil {
		return fmt.Errorf("parentchain: initial sync: %w", err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.poll(ctx); err != nil {
				p.logger.Error().Err(err).Msg("parent-chain poll failed")
			}
		}
	}
}

// syncIfClean performs the one-time deposit/height/tip bootstrap when the
// UTXO set is empty, per is_clean()'s role as the "needs initial sync"
// signal.
func (p *Poller) syncIfClean(ctx context.Context) error {
	clean, err := p.coord.IsClean()
	if err != nil {
		return err
	}
	if !clean {
		return nil
	}

	deposits, err := p.client.GetDeposits(ctx, p.sidechainNumber)
	if err != nil {
		return fmt.Errorf("get_deposits: %w", err)
	}
	height, err := p.client.GetMainBlockHeight(ctx)
	if err != nil {
		return fmt.Errorf("get_main_block_height: %w", err)
	}
	tip, err := p.client.GetMainChainTip(ctx)
	if err != nil {
		return fmt.Errorf("get_main_chain_tip: %w", err)
	}

	if err := p.coord.LoadDeposits(deposits, height, tip); err != nil {
		return err
	}
	p.logger.Info().
		Int("deposits", len(deposits)).
		Uint32("main_block_height", height).
		Msg("initial sync complete")
	return nil
}

// poll fetches every MainBlock above the last applied height and connects
// them in order. Any ConnectMainBlock failure, ErrInvalidMainHeight
// included, ends this poll and is returned; blocks connected before the
// failure stay connected, and the next poll resumes from the new height.
func (p *Poller) poll(ctx context.Context) error {
	current, err := p.coord.CurrentMainBlockHeight()
	if err != nil {
		return err
	}

	blocks, err := p.client.GetMainBlocks(ctx, current+1)
	if err != nil {
		return fmt.Errorf("get_main_blocks: %w", err)
	}

	for i := range blocks {
		if err := p.coord.ConnectMainBlock(&blocks[i]); err != nil {
			return fmt.Errorf("connect main block %d: %w", blocks[i].BlockHeight, err)
		}
		p.logger.Info().
			Uint32("height", blocks[i].BlockHeight).
			Int("deposits", len(blocks[i].Deposits)).
			Int("bmm_hashes", len(blocks[i].BmmHashes)).
			Msg("connected main block")
	}
	return nil
}
