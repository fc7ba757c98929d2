package state

import (
	"fmt"

	"github.com/sidechain-labs/bmmd/internal/archive"
	klog "github.com/sidechain-labs/bmmd/internal/log"
	"github.com/sidechain-labs/bmmd/internal/mempool"
	"github.com/sidechain-labs/bmmd/internal/storage"
	"github.com/sidechain-labs/bmmd/internal/utxo"
	"github.com/sidechain-labs/bmmd/pkg/block"
	txpkg "github.com/sidechain-labs/bmmd/pkg/tx"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// Each store owns a disjoint namespace within the one shared database, so
// a single Update call can mount all three as independent storage.Tx
// values and commit their writes together.
var (
	prefixUTXO    = []byte("u/")
	prefixArchive = []byte("a/")
	prefixMempool = []byte("m/")
)

// Coordinator is the sidechain node's state: the UTXO set, block archive,
// and mempool, layered over one key-value environment so every
// externally-visible operation commits or aborts as a whole.
type Coordinator struct {
	db storage.DB
}

// New opens (creating if absent) the on-disk environment at datadir and
// wraps it for all three stores.
func New(datadir string) (*Coordinator, error) {
	db, err := storage.NewBadger(datadir)
	if err != nil {
		return nil, err
	}
	return &Coordinator{db: db}, nil
}

// NewWithDB wraps an already-open storage.DB — used by tests and by
// callers that want an in-memory environment.
func NewWithDB(db storage.DB) *Coordinator {
	return &Coordinator{db: db}
}

// Close releases the underlying environment.
func (c *Coordinator) Close() error {
	return c.db.Close()
}

func (c *Coordinator) mount(tx storage.Tx) (utxoTx, archiveTx, mempoolTx storage.Tx) {
	return storage.Prefix(tx, prefixUTXO), storage.Prefix(tx, prefixArchive), storage.Prefix(tx, prefixMempool)
}

// IsClean reports whether the UTXO set is empty — the node's proxy for
// "needs an initial sync from the parent chain".
func (c *Coordinator) IsClean() (bool, error) {
	var clean bool
	err := c.db.View(func(tx storage.Tx) error {
		utxoTx, _, _ := c.mount(tx)
		empty, err := utxo.IsEmpty(utxoTx)
		if err != nil {
			return err
		}
		clean = empty
		return nil
	})
	return clean, err
}

// CurrentMainBlockHeight returns the height of the most recently connected
// parent-chain block, or 0 if none has connected yet.
func (c *Coordinator) CurrentMainBlockHeight() (uint32, error) {
	var height uint32
	err := c.db.View(func(tx storage.Tx) error {
		utxoTx, _, _ := c.mount(tx)
		h, err := utxo.GetMainBlockHeight(utxoTx)
		if err != nil {
			return err
		}
		height = h
		return nil
	})
	return height, err
}

// SubmitTransaction prices transaction against the current UTXO set and
// adds it to the mempool.
func (c *Coordinator) SubmitTransaction(transaction *txpkg.Transaction) error {
	return c.db.Update(func(tx storage.Tx) error {
		utxoTx, _, mempoolTx := c.mount(tx)
		fee, err := utxo.GetTransactionFee(utxoTx, transaction)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
		}
		return mempool.SubmitTransaction(mempoolTx, transaction, fee)
	})
}

// LoadDeposits performs the initial sync: every deposit becomes a
// Deposit-outpoint Regular UTXO, and the main-chain cursors are set to
// the parent-chain height/tip observed alongside them.
func (c *Coordinator) LoadDeposits(deposits []Deposit, mainHeight uint32, mainTip types.Hash) error {
	return c.db.Update(func(tx storage.Tx) error {
		utxoTx, _, _ := c.mount(tx)
		for _, d := range deposits {
			op := types.NewDepositOutPoint(d.SequenceNumber)
			out := types.NewRegularOutput(d.Address, d.Value)
			if err := utxo.AddUTXO(utxoTx, op, out); err != nil {
				return err
			}
		}
		if err := utxo.SetMainBlockHeight(utxoTx, mainHeight); err != nil {
			return err
		}
		return utxo.SetMainChainTip(utxoTx, mainTip)
	})
}

// ConnectMainBlock applies one parent-chain block's events: deposits,
// any withdrawal-bundle status change, the new BMM commitments, and the
// advanced main-chain cursors. Fails with ErrInvalidMainHeight if
// mb.BlockHeight isn't exactly one past the currently recorded height.
func (c *Coordinator) ConnectMainBlock(mb *MainBlock) error {
	return c.db.Update(func(tx storage.Tx) error {
		utxoTx, archiveTx, _ := c.mount(tx)

		for _, d := range mb.Deposits {
			op := types.NewDepositOutPoint(d.SequenceNumber)
			out := types.NewRegularOutput(d.Address, d.Value)
			if err := utxo.AddUTXO(utxoTx, op, out); err != nil {
				return err
			}
		}

		if mb.WithdrawalBundleEvent != nil {
			var err error
			switch mb.WithdrawalBundleEvent.Type {
			case WithdrawalSubmitted:
				err = utxo.SubmitBundle(utxoTx)
			case WithdrawalSucceeded:
				err = utxo.SucceedBundle(utxoTx)
			case WithdrawalFailed:
				err = utxo.FailBundle(utxoTx)
			}
			if err != nil {
				return err
			}
		}

		current, err := utxo.GetMainBlockHeight(utxoTx)
		if err != nil {
			return err
		}
		if mb.BlockHeight != current+1 {
			return ErrInvalidMainHeight
		}

		if err := archive.AddBmmHashes(archiveTx, mb.BmmHashes); err != nil {
			return err
		}

		if err := utxo.SetMainBlockHeight(utxoTx, mb.BlockHeight); err != nil {
			return err
		}
		if err := utxo.SetMainChainTip(utxoTx, mb.BlockHash); err != nil {
			return err
		}
		klog.State.Info().
			Uint32("main_height", mb.BlockHeight).
			Int("deposits", len(mb.Deposits)).
			Int("bmm_hashes", len(mb.BmmHashes)).
			Msg("parent-chain block connected")
		return nil
	})
}

// Connect applies one externally-submitted sidechain block: the header
// must be BMM-committed and link to the current tip, the block must
// validate against the UTXO set, and only then do the archive, UTXO set,
// and mempool all advance together. On any failing step nothing is
// mutated.
func (c *Coordinator) Connect(header *block.Header, coinbase []types.Output, txs []txpkg.Transaction) error {
	return c.db.Update(func(tx storage.Tx) error {
		utxoTx, archiveTx, mempoolTx := c.mount(tx)

		blk := &block.Block{Header: header, Coinbase: coinbase, Transactions: txs}
		if err := blk.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBlock, err)
		}

		if err := archive.ValidateHeader(archiveTx, header); err != nil {
			return err
		}

		tip, _, _, _, ok, err := archive.GetChainTip(archiveTx)
		if err != nil {
			return err
		}
		blockHeight := uint32(1)
		if ok {
			blockHeight = tip + 1
		}

		valid, err := utxo.Validate(utxoTx, coinbase, txs)
		if err != nil {
			return err
		}
		if !valid {
			return ErrInvalidBlock
		}

		if _, err := archive.Connect(archiveTx, header, coinbase, txs); err != nil {
			return err
		}
		if err := utxo.Connect(utxoTx, blockHeight, coinbase, txs); err != nil {
			return err
		}
		if err := mempool.Connect(mempoolTx, txs); err != nil {
			return err
		}
		klog.State.Info().Uint32("height", blockHeight).Str("hash", header.Hash().String()).Msg("sidechain block connected")
		return nil
	})
}

// Disconnect reverses the last n connected sidechain blocks as a unit:
// archive headers/coinbases/transactions are truncated and the UTXO set's
// spends and emissions for each block are undone in reverse order. The
// mempool is left untouched — nothing in this protocol recovers a
// disconnected block's transactions back into pending_selected.
func (c *Coordinator) Disconnect(n uint32) error {
	return c.db.Update(func(tx storage.Tx) error {
		utxoTx, archiveTx, _ := c.mount(tx)

		tip, _, _, _, ok, err := archive.GetChainTip(archiveTx)
		if err != nil {
			return err
		}
		if !ok || n > tip {
			return fmt.Errorf("%w: cannot disconnect %d blocks from tip %d", ErrInvalidBlock, n, tip)
		}

		for bn := tip; bn > tip-n; bn-- {
			header, txStart, txEnd, ok, err := archive.GetHeaderAt(archiveTx, bn)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("archive: header %d missing during disconnect", bn)
			}
			coinbase, _, err := archive.GetCoinbase(archiveTx, bn)
			if err != nil {
				return err
			}
			txs := make([]txpkg.Transaction, 0, txEnd-txStart)
			for i := txStart; i < txEnd; i++ {
				t, ok, err := archive.GetTransaction(archiveTx, i)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("archive: transaction %d missing during disconnect", i)
				}
				txs = append(txs, *t)
			}
			_ = header
			if err := utxo.Disconnect(utxoTx, bn, coinbase, txs); err != nil {
				return err
			}
		}

		if err := archive.Disconnect(archiveTx, n); err != nil {
			return err
		}
		klog.State.Info().Uint32("blocks", n).Uint32("from_tip", tip).Msg("sidechain blocks disconnected")
		return nil
	})
}

// DisconnectMainBlock reverses the node's view of the most recently
// observed parent-chain block, restoring the previous height and tip. It
// does not reverse the deposits, withdrawal-bundle event, or BMM
// commitments that block carried — the parent chain's own reorg handling
// is responsible for re-delivering those via a fresh ConnectMainBlock.
func (c *Coordinator) DisconnectMainBlock(previousHeight uint32, previousTip types.Hash) error {
	return c.db.Update(func(tx storage.Tx) error {
		utxoTx, _, _ := c.mount(tx)
		current, err := utxo.GetMainBlockHeight(utxoTx)
		if err != nil {
			return err
		}
		if current == 0 || previousHeight != current-1 {
			return ErrInvalidMainHeight
		}
		if err := utxo.SetMainBlockHeight(utxoTx, previousHeight); err != nil {
			return err
		}
		if err := utxo.SetMainChainTip(utxoTx, previousTip); err != nil {
			return err
		}
		klog.State.Info().Uint32("main_height", previousHeight).Msg("parent-chain block disconnected")
		return nil
	})
}

// GetChainTip returns the archive's highest-numbered connected header.
func (c *Coordinator) GetChainTip() (blockNumber uint32, hash types.Hash, ok bool, err error) {
	err = c.db.View(func(tx storage.Tx) error {
		_, archiveTx, _ := c.mount(tx)
		n, header, _, _, present, e := archive.GetChainTip(archiveTx)
		if e != nil || !present {
			blockNumber, hash, ok = 0, types.Hash{}, false
			return e
		}
		blockNumber, hash, ok = n, header.Hash(), true
		return nil
	})
	return
}

// GetUtxoSet returns a full snapshot of the UTXO set.
func (c *Coordinator) GetUtxoSet() (map[types.OutPoint]types.Output, error) {
	var set map[types.OutPoint]types.Output
	err := c.db.View(func(tx storage.Tx) error {
		utxoTx, _, _ := c.mount(tx)
		s, err := utxo.GetUTXOSet(utxoTx)
		if err != nil {
			return err
		}
		set = s
		return nil
	})
	return set, err
}

// CollectTransactions recomputes and returns the mempool's current block-
// packing decision.
func (c *Coordinator) CollectTransactions(blockSizeLimit int) ([]txpkg.Transaction, error) {
	var txs []txpkg.Transaction
	err := c.db.Update(func(tx storage.Tx) error {
		_, _, mempoolTx := c.mount(tx)
		if err := mempool.CollectTransactions(mempoolTx, blockSizeLimit); err != nil {
			return err
		}
		selected, err := mempool.GetPendingTransactions(mempoolTx)
		if err != nil {
			return err
		}
		txs = selected
		return nil
	})
	return txs, err
}

// GetWithdrawalBundle forms (and persists, per utxo.CollectWithdrawals) a
// pending withdrawal bundle from every currently unlocked withdrawal, then
// returns the set of outpoints now locked awaiting a parent-chain verdict.
func (c *Coordinator) GetWithdrawalBundle() ([]types.OutPoint, error) {
	var locked []types.OutPoint
	err := c.db.Update(func(tx storage.Tx) error {
		utxoTx, _, _ := c.mount(tx)
		if err := utxo.CollectWithdrawals(utxoTx); err != nil {
			return err
		}
		outpoints, err := utxo.GetLockedWithdrawals(utxoTx)
		if err != nil {
			return err
		}
		locked = outpoints
		return nil
	})
	return locked, err
}
