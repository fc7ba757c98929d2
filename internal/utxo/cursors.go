package utxo

import (
	"encoding/binary"
	"errors"

	"github.com/sidechain-labs/bmmd/internal/storage"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// GetMainBlockHeight returns the height of the most recently connected
// parent block, or 0 if none has connected yet.
func GetMainBlockHeight(tx store) (uint32, error) {
	v, err := tx.Get(keyMainHeight)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(v), nil
}

// SetMainBlockHeight records the height of the most recently connected
// parent block.
func SetMainBlockHeight(tx store, height uint32) error {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, height)
	return tx.Put(keyMainHeight, b)
}

// GetMainChainTip returns the hash of the most recently connected parent
// block, or the zero hash if none has connected yet.
func GetMainChainTip(tx store) (types.Hash, error) {
	v, err := tx.Get(keyMainTip)
	if errors.Is(err, storage.ErrNotFound) {
		return types.Hash{}, nil
	}
	if err != nil {
		return types.Hash{}, err
	}
	var h types.Hash
	copy(h[:], v)
	return h, nil
}

// SetMainChainTip records the hash of the most recently connected parent
// block.
func SetMainChainTip(tx store, hash types.Hash) error {
	return tx.Put(keyMainTip, hash.Bytes())
}

// GetSideBlockHeight returns the number of connected non-genesis sidechain
// blocks.
func GetSideBlockHeight(tx store) (uint32, error) {
	v, err := tx.Get(keySideHeight)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(v), nil
}

// SetSideBlockHeight records the number of connected non-genesis sidechain
// blocks.
func SetSideBlockHeight(tx store, height uint32) error {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, height)
	return tx.Put(keySideHeight, b)
}

// GetTransactionNumber returns the next unused transaction-number index.
func GetTransactionNumber(tx store) (uint64, error) {
	v, err := tx.Get(keyTxNumber)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(v), nil
}

// SetTransactionNumber records the next unused transaction-number index.
func SetTransactionNumber(tx store, n uint64) error {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return tx.Put(keyTxNumber, b)
}
