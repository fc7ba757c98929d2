package storage

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// BadgerDB implements DB using Badger.
type BadgerDB struct {
	db *badger.DB
}

// NewBadger creates a new Badger database at the given path.
func NewBadger(path string) (*BadgerDB, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger's built-in logging.

	db, err := badger.Open(opts)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "Cannot acquire directory lock") ||
			strings.Contains(errMsg, "resource temporarily unavailable") {
			return nil, fmt.Errorf("database at %s is locked by another process (is another sidechaind instance running?): %w", path, err)
		}
		return nil, fmt.Errorf("open database at %s: %w", path, err)
	}
	return &BadgerDB{db: db}, nil
}

// badgerTx adapts a *badger.Txn to the Tx interface.
type badgerTx struct {
	txn *badger.Txn
}

func (t *badgerTx) Get(key []byte) ([]byte, error) {
	item, err := t.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return item.ValueCopy(nil)
}

func (t *badgerTx) Put(key, value []byte) error {
	return t.txn.Set(key, value)
}

func (t *badgerTx) Delete(key []byte) error {
	return t.txn.Delete(key)
}

func (t *badgerTx) Has(key []byte) (bool, error) {
	_, err := t.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("badger has: %w", err)
	}
	return true, nil
}

func (t *badgerTx) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := t.txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		key := item.KeyCopy(nil)
		err := item.Value(func(val []byte) error {
			return fn(key, val)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Update runs fn in a single read-write Badger transaction.
func (b *BadgerDB) Update(fn func(Tx) error) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return fn(&badgerTx{txn: txn})
	})
	if err != nil {
		return fmt.Errorf("badger update: %w", err)
	}
	return nil
}

// View runs fn in a read-only Badger transaction.
func (b *BadgerDB) View(fn func(Tx) error) error {
	err := b.db.View(func(txn *badger.Txn) error {
		return fn(&badgerTx{txn: txn})
	})
	if err != nil {
		return fmt.Errorf("badger view: %w", err)
	}
	return nil
}

// Get retrieves a value by key. Returns an error if the key does not exist.
func (b *BadgerDB) Get(key []byte) ([]byte, error) {
	var val []byte
	err := b.View(func(tx Tx) error {
		v, err := tx.Get(key)
		val = v
		return err
	})
	return val, err
}

// Put stores a key-value pair.
func (b *BadgerDB) Put(key, value []byte) error {
	return b.Update(func(tx Tx) error {
		return tx.Put(key, value)
	})
}

// Delete removes a key.
func (b *BadgerDB) Delete(key []byte) error {
	return b.Update(func(tx Tx) error {
		return tx.Delete(key)
	})
}

// Has checks if a key exists.
func (b *BadgerDB) Has(key []byte) (bool, error) {
	var exists bool
	err := b.View(func(tx Tx) error {
		v, err := tx.Has(key)
		exists = v
		return err
	})
	return exists, err
}

// ForEach iterates over all keys with the given prefix.
func (b *BadgerDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	return b.View(func(tx Tx) error {
		return tx.ForEach(prefix, fn)
	})
}

// Close closes the database.
func (b *BadgerDB) Close() error {
	return b.db.Close()
}
