// Package utxo implements the sidechain UTXO set: the spendable-output
// index, the withdrawal-bundle lifecycle, and the cursors (chain tip,
// main-chain heights, transaction counter) the consensus engine advances
// as blocks connect and disconnect.
//
// Every exported method takes an explicit storage.Tx so the coordinator in
// internal/state can fold a write across the UTXO set, the block archive
// and the mempool into one underlying transaction; this package never
// opens a transaction itself.
package utxo

import (
	"github.com/sidechain-labs/bmmd/internal/storage"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// Key namespaces, mirroring the original store's separate logical tables.
// Each is a distinct prefix within whatever namespace the caller mounts
// this store's keys under (see internal/state, which wraps a shared
// storage.Tx with storage.Prefix(tx, "u/")).
var (
	prefixUTXO       = []byte("o/")
	prefixUnlocked   = []byte("w/u/")
	prefixLocked     = []byte("w/l/")
	keyTxNumber      = []byte("c/txn")
	keyMainHeight    = []byte("c/mh")
	keyMainTip       = []byte("c/mt")
	keySideHeight    = []byte("c/sh")
)

func utxoKey(o types.OutPoint) []byte {
	return append(append([]byte{}, prefixUTXO...), o.Bytes()...)
}

func unlockedKey(o types.OutPoint) []byte {
	return append(append([]byte{}, prefixUnlocked...), o.Bytes()...)
}

func lockedKey(o types.OutPoint) []byte {
	return append(append([]byte{}, prefixLocked...), o.Bytes()...)
}

// store is a convenience alias used throughout this package's doc
// comments to refer to the storage.Tx each method receives.
type store = storage.Tx
