// Package mempool implements the sidechain's pending-transaction pool: a
// KV-backed index keyed by hash, a fee-bucketed index ordered ascending by
// (size, timestamp) within each fee, and the most recent block-packing
// decision. Like internal/utxo and internal/archive, every exported
// function takes an explicit storage.Tx so the state coordinator can fold
// mempool writes into the same transaction as the other stores.
package mempool

import (
	"encoding/binary"

	"github.com/sidechain-labs/bmmd/internal/storage"
)

// store is a convenience alias for the storage.Tx every method receives.
type store = storage.Tx

var (
	prefixByHash    = []byte("h/") // h/<txhash(32)> -> tx + fee + timestamp
	prefixByFee     = []byte("f/") // f/<fee(8)> -> ordered (hash,size,timestamp) list
	prefixPending   = []byte("p/") // p/<index(4)> -> txhash(32)
	keyPendingCount = []byte("s/pending_count")
)

func byHashKey(hash [32]byte) []byte {
	k := make([]byte, len(prefixByHash)+32)
	copy(k, prefixByHash)
	copy(k[len(prefixByHash):], hash[:])
	return k
}

func byFeeKey(fee uint64) []byte {
	k := make([]byte, len(prefixByFee)+8)
	copy(k, prefixByFee)
	binary.BigEndian.PutUint64(k[len(prefixByFee):], fee)
	return k
}

func pendingKey(index uint32) []byte {
	k := make([]byte, len(prefixPending)+4)
	copy(k, prefixPending)
	binary.BigEndian.PutUint32(k[len(prefixPending):], index)
	return k
}
