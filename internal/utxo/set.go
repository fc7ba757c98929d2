package utxo

import (
	"errors"
	"fmt"

	"github.com/sidechain-labs/bmmd/internal/storage"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// AddUTXO unconditionally inserts an outpoint/output pair. Used by deposit
// application and by Connect for newly emitted outputs.
func AddUTXO(tx store, outpoint types.OutPoint, output types.Output) error {
	return tx.Put(utxoKey(outpoint), output.Bytes())
}

// RemoveUTXO unconditionally deletes an outpoint.
func RemoveUTXO(tx store, outpoint types.OutPoint) error {
	return tx.Delete(utxoKey(outpoint))
}

// GetUTXO looks up a single outpoint.
func GetUTXO(tx store, outpoint types.OutPoint) (types.Output, bool, error) {
	v, err := tx.Get(utxoKey(outpoint))
	if errors.Is(err, storage.ErrNotFound) {
		return types.Output{}, false, nil
	}
	if err != nil {
		return types.Output{}, false, err
	}
	out, err := types.DecodeOutputBytes(v)
	if err != nil {
		return types.Output{}, false, fmt.Errorf("utxo: decode stored output: %w", err)
	}
	return out, true, nil
}

// GetUTXOSet returns a full, snapshot-consistent enumeration of the set.
func GetUTXOSet(tx store) (map[types.OutPoint]types.Output, error) {
	set := make(map[types.OutPoint]types.Output)
	err := tx.ForEach(prefixUTXO, func(key, value []byte) error {
		outpoint, err := types.DecodeOutPointBytes(key[len(prefixUTXO):])
		if err != nil {
			return fmt.Errorf("utxo: decode key: %w", err)
		}
		output, err := types.DecodeOutputBytes(value)
		if err != nil {
			return fmt.Errorf("utxo: decode value: %w", err)
		}
		set[outpoint] = output
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// IsEmpty reports whether the UTXO set has no entries — the coordinator's
// proxy for "this store needs an initial sync".
func IsEmpty(tx store) (bool, error) {
	empty := true
	err := tx.ForEach(prefixUTXO, func(key, value []byte) error {
		empty = false
		return errStopIteration
	})
	if err != nil && err != errStopIteration {
		return false, err
	}
	return empty, nil
}
