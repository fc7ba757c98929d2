package archive

import (
	"encoding/binary"
	"errors"

	"github.com/sidechain-labs/bmmd/internal/storage"
)

var (
	keyTipNumber = []byte("s/tip")
	keyTxCounter = []byte("s/txn")
)

// getTipNumber returns the highest connected block number, or 0 if no
// block has been connected yet (block 0 is genesis and is never written
// through Connect, so 0 doubles as "empty").
func getTipNumber(tx store) (uint32, error) {
	v, err := tx.Get(keyTipNumber)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(v), nil
}

func setTipNumber(tx store, n uint32) error {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, n)
	return tx.Put(keyTipNumber, b)
}

// getTxCounter returns the next unused global transaction index.
func getTxCounter(tx store) (uint64, error) {
	v, err := tx.Get(keyTxCounter)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(v), nil
}

func setTxCounter(tx store, n uint64) error {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return tx.Put(keyTxCounter, b)
}
