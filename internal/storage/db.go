// Package storage provides transactional key-value storage abstractions
// shared by the UTXO set, block archive, and mempool stores.
package storage

import "errors"

// ErrNotFound is returned by Tx.Get when the key is absent. Callers that
// need to distinguish genuine absence from a storage failure should
// compare against this sentinel with errors.Is rather than treating
// every Get error as "not found".
var ErrNotFound = errors.New("storage: key not found")

// Tx is a view of a DB scoped to one atomic unit of work. Every read and
// write made through a Tx inside an Update call commits together, or not
// at all.
type Tx interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix, in key order.
	// Return a non-nil error from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
}

// DB is the interface for key-value storage. Connecting a main-chain
// block, a sidechain block, or a mempool submission each touches more
// than one logical store (UTXO set, block archive, mempool); Update
// gives callers a single write transaction spanning all of them so a
// partial failure can never leave the stores inconsistent with each
// other.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	ForEach(prefix []byte, fn func(key, value []byte) error) error

	// Update runs fn in a single read-write transaction. If fn returns
	// an error, none of the writes made through tx are persisted.
	Update(fn func(tx Tx) error) error
	// View runs fn in a read-only transaction.
	View(fn func(tx Tx) error) error

	Close() error
}
