package utxo

import (
	txpkg "github.com/sidechain-labs/bmmd/pkg/tx"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// Connect applies one already-validated block: coinbase outputs are
// emitted first, then each transaction's inputs are deleted and its
// outputs emitted in order, then the side-block-height counter advances.
// Both coinbase and each transaction's outputs are capped at
// tx.MaxOutputsPerTx; a violation fails with ErrOutputLimit and leaves the
// store untouched.
func Connect(tx store, blockHeight uint32, coinbase []types.Output, txs []txpkg.Transaction) error {
	if len(coinbase) > txpkg.MaxOutputsPerTx {
		return ErrOutputLimit
	}
	for i := range txs {
		if len(txs[i].Outputs) > txpkg.MaxOutputsPerTx {
			return ErrOutputLimit
		}
	}

	for i, out := range coinbase {
		if err := AddUTXO(tx, types.NewCoinbaseOutPoint(blockHeight, uint8(i)), out); err != nil {
			return err
		}
	}

	startTxNumber, err := GetTransactionNumber(tx)
	if err != nil {
		return err
	}
	next := startTxNumber
	undo := &blockUndo{StartTxNumber: startTxNumber}

	for i := range txs {
		t := &txs[i]
		for _, in := range t.Inputs {
			out, ok, err := GetUTXO(tx, in)
			if err != nil {
				return err
			}
			if !ok {
				return ErrMissingInput
			}
			undo.Spent = append(undo.Spent, spentEntry{Outpoint: in, Output: out})
			if err := RemoveUTXO(tx, in); err != nil {
				return err
			}
		}
		for j, out := range t.Outputs {
			op := types.NewRegularOutPoint(next, uint8(j))
			if err := AddUTXO(tx, op, out); err != nil {
				return err
			}
			if out.Kind == types.OutputWithdrawal {
				if err := tx.Put(unlockedKey(op), nil); err != nil {
					return err
				}
			}
		}
		next++
	}

	if err := SetTransactionNumber(tx, next); err != nil {
		return err
	}
	if err := putBlockUndo(tx, blockHeight, undo); err != nil {
		return err
	}

	sideHeight, err := GetSideBlockHeight(tx)
	if err != nil {
		return err
	}
	return SetSideBlockHeight(tx, sideHeight+1)
}

// Disconnect reverses Connect for the given block, using the undo record
// Connect recorded for it: removes the regular outputs each transaction
// created (and their unlocked-withdrawal entries), restores the inputs
// those transactions spent, removes the block's coinbase outputs, rewinds
// transaction_number and side_block_height, and discards the undo record.
func Disconnect(tx store, blockHeight uint32, coinbase []types.Output, txs []txpkg.Transaction) error {
	undo, err := getBlockUndo(tx, blockHeight)
	if err != nil {
		return err
	}

	txNumber := undo.StartTxNumber
	for i := range txs {
		t := &txs[i]
		for j, out := range t.Outputs {
			op := types.NewRegularOutPoint(txNumber, uint8(j))
			if out.Kind == types.OutputWithdrawal {
				if err := tx.Delete(unlockedKey(op)); err != nil {
					return err
				}
			}
			if err := RemoveUTXO(tx, op); err != nil {
				return err
			}
		}
		txNumber++
	}

	for _, s := range undo.Spent {
		if err := AddUTXO(tx, s.Outpoint, s.Output); err != nil {
			return err
		}
	}

	for i := range coinbase {
		if err := RemoveUTXO(tx, types.NewCoinbaseOutPoint(blockHeight, uint8(i))); err != nil {
			return err
		}
	}

	if err := SetTransactionNumber(tx, undo.StartTxNumber); err != nil {
		return err
	}
	if err := deleteBlockUndo(tx, blockHeight); err != nil {
		return err
	}

	sideHeight, err := GetSideBlockHeight(tx)
	if err != nil {
		return err
	}
	if sideHeight == 0 {
		return nil
	}
	return SetSideBlockHeight(tx, sideHeight-1)
}
