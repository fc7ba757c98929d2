// Package archive implements the sidechain's append-only block archive:
// headers indexed by block number, each paired with the half-open range
// of global transaction indices it owns, a flat per-block coinbase list,
// a global append-only transaction log, and the set of parent-chain BMM
// commitments headers are validated against.
//
// Like internal/utxo, every exported function takes an explicit
// storage.Tx so the state coordinator can fold archive writes into the
// same transaction as the UTXO set and mempool.
package archive

import (
	"encoding/binary"

	"github.com/sidechain-labs/bmmd/internal/storage"
)

// store is a convenience alias for the storage.Tx every method receives.
type store = storage.Tx

var (
	prefixHeader = []byte("h/") // h/<block_number(4)> -> header + tx range
	prefixCoin   = []byte("c/") // c/<block_number(4)> -> coinbase outputs
	prefixTx     = []byte("t/") // t/<tx_number(8)> -> transaction
	prefixBmm    = []byte("m/") // m/<hash(32)> -> presence marker
)

func headerKey(blockNumber uint32) []byte {
	k := make([]byte, len(prefixHeader)+4)
	copy(k, prefixHeader)
	binary.BigEndian.PutUint32(k[len(prefixHeader):], blockNumber)
	return k
}

func coinbaseKey(blockNumber uint32) []byte {
	k := make([]byte, len(prefixCoin)+4)
	copy(k, prefixCoin)
	binary.BigEndian.PutUint32(k[len(prefixCoin):], blockNumber)
	return k
}

func txKey(txNumber uint64) []byte {
	k := make([]byte, len(prefixTx)+8)
	copy(k, prefixTx)
	binary.BigEndian.PutUint64(k[len(prefixTx):], txNumber)
	return k
}

func bmmKey(hash [32]byte) []byte {
	k := make([]byte, len(prefixBmm)+32)
	copy(k, prefixBmm)
	copy(k[len(prefixBmm):], hash[:])
	return k
}
