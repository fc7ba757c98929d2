package utxo

import (
	"bytes"
	"fmt"
	"sort"

	klog "github.com/sidechain-labs/bmmd/internal/log"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// MaxWithdrawalBundleOutputs caps the size of a single collected bundle
// (spec constant MAX_WITHDRAWAL_BUNDLE_OUTPUTS = 6000).
const MaxWithdrawalBundleOutputs = 6000

type withdrawalCandidate struct {
	Outpoint types.OutPoint
	Output   types.Output
}

// CollectWithdrawals forms a pending bundle from every currently unlocked
// withdrawal, sorted ascending by fee with a tiebreak on the serialized
// outpoint, capped at MaxWithdrawalBundleOutputs, and moves the selected
// entries from unlocked to locked. It fails with ErrBundlePending if a
// bundle is already locked awaiting a parent-chain verdict.
func CollectWithdrawals(tx store) error {
	locked, err := isLockedNonEmpty(tx)
	if err != nil {
		return err
	}
	if locked {
		return ErrBundlePending
	}

	var candidates []withdrawalCandidate
	err = tx.ForEach(prefixUnlocked, func(key, _ []byte) error {
		outpoint, err := types.DecodeOutPointBytes(key[len(prefixUnlocked):])
		if err != nil {
			return fmt.Errorf("utxo: decode unlocked withdrawal key: %w", err)
		}
		out, ok, err := GetUTXO(tx, outpoint)
		if err != nil {
			return err
		}
		if !ok || out.Kind != types.OutputWithdrawal {
			return fmt.Errorf("utxo: unlocked withdrawal %s has no matching withdrawal UTXO", outpoint)
		}
		candidates = append(candidates, withdrawalCandidate{Outpoint: outpoint, Output: out})
		return nil
	})
	if err != nil {
		return err
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Output.Fee != candidates[j].Output.Fee {
			return candidates[i].Output.Fee < candidates[j].Output.Fee
		}
		return bytes.Compare(candidates[i].Outpoint.Bytes(), candidates[j].Outpoint.Bytes()) < 0
	})

	if len(candidates) > MaxWithdrawalBundleOutputs {
		candidates = candidates[:MaxWithdrawalBundleOutputs]
	}

	for _, c := range candidates {
		if err := tx.Delete(unlockedKey(c.Outpoint)); err != nil {
			return err
		}
		if err := tx.Put(lockedKey(c.Outpoint), nil); err != nil {
			return err
		}
	}
	klog.Utxo.Info().Int("outputs", len(candidates)).Msg("withdrawal bundle locked")
	return nil
}

// GetLockedWithdrawals returns every outpoint in the currently locked
// bundle, if any.
func GetLockedWithdrawals(tx store) ([]types.OutPoint, error) {
	return lockedOutpoints(tx)
}

// SubmitBundle records that a locked bundle has been submitted to the
// parent chain. The UTXO set does not change — the bundle stays locked
// until a Succeeded or Failed event resolves it.
func SubmitBundle(tx store) error {
	return nil
}

// SucceedBundle removes every locked withdrawal's UTXO and clears the
// locked set, finalizing the bundle.
func SucceedBundle(tx store) error {
	outpoints, err := lockedOutpoints(tx)
	if err != nil {
		return err
	}
	for _, op := range outpoints {
		if err := RemoveUTXO(tx, op); err != nil {
			return err
		}
		if err := tx.Delete(lockedKey(op)); err != nil {
			return err
		}
	}
	klog.Utxo.Info().Int("outputs", len(outpoints)).Msg("withdrawal bundle succeeded")
	return nil
}

// FailBundle deletes each locked withdrawal's UTXO and credits a refund
// Regular output for value+fee at the same OutPoint, then clears the
// locked set.
func FailBundle(tx store) error {
	outpoints, err := lockedOutpoints(tx)
	if err != nil {
		return err
	}
	for _, op := range outpoints {
		out, ok, err := GetUTXO(tx, op)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("utxo: locked withdrawal %s has no matching UTXO", op)
		}
		refund := types.NewRegularOutput(out.Address, out.TotalValue())
		if err := AddUTXO(tx, op, refund); err != nil {
			return err
		}
		if err := tx.Delete(lockedKey(op)); err != nil {
			return err
		}
	}
	klog.Utxo.Info().Int("outputs", len(outpoints)).Msg("withdrawal bundle failed, refunds credited")
	return nil
}

func isLockedNonEmpty(tx store) (bool, error) {
	nonEmpty := false
	err := tx.ForEach(prefixLocked, func(key, value []byte) error {
		nonEmpty = true
		return errStopIteration
	})
	if err != nil && err != errStopIteration {
		return false, err
	}
	return nonEmpty, nil
}

func lockedOutpoints(tx store) ([]types.OutPoint, error) {
	var outpoints []types.OutPoint
	err := tx.ForEach(prefixLocked, func(key, _ []byte) error {
		op, err := types.DecodeOutPointBytes(key[len(prefixLocked):])
		if err != nil {
			return fmt.Errorf("utxo: decode locked withdrawal key: %w", err)
		}
		outpoints = append(outpoints, op)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outpoints, nil
}
