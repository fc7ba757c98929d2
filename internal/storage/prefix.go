package storage

// PrefixDB wraps a DB and prepends a fixed prefix to all keys, isolating
// one logical store's keyspace within a single underlying database.
type PrefixDB struct {
	inner  DB
	prefix []byte
}

// NewPrefixDB creates a new PrefixDB wrapping inner with the given prefix.
func NewPrefixDB(inner DB, prefix []byte) *PrefixDB {
	p := make([]byte, len(prefix))
	copy(p, prefix)
	return &PrefixDB{inner: inner, prefix: p}
}

// Prefix returns a Tx that transparently prepends prefix to every key a
// caller supplies. It lets several logical stores (each built against its
// own prefix) compose their writes into one transaction opened against
// their shared underlying DB: open one Update/View on the root DB, then
// wrap the resulting Tx once per store with Prefix.
func Prefix(tx Tx, prefix []byte) Tx {
	p := make([]byte, len(prefix))
	copy(p, prefix)
	return &prefixTx{inner: tx, prefix: p}
}

// prefixed returns key with the prefix prepended.
func (p *PrefixDB) prefixed(key []byte) []byte {
	out := make([]byte, len(p.prefix)+len(key))
	copy(out, p.prefix)
	copy(out[len(p.prefix):], key)
	return out
}

// prefixTx wraps an inner Tx, prepending prefix to every key the caller
// supplies and stripping it back off ForEach results.
type prefixTx struct {
	inner  Tx
	prefix []byte
}

func (t *prefixTx) prefixed(key []byte) []byte {
	out := make([]byte, len(t.prefix)+len(key))
	copy(out, t.prefix)
	copy(out[len(t.prefix):], key)
	return out
}

func (t *prefixTx) Get(key []byte) ([]byte, error) {
	return t.inner.Get(t.prefixed(key))
}

func (t *prefixTx) Put(key, value []byte) error {
	return t.inner.Put(t.prefixed(key), value)
}

func (t *prefixTx) Delete(key []byte) error {
	return t.inner.Delete(t.prefixed(key))
}

func (t *prefixTx) Has(key []byte) (bool, error) {
	return t.inner.Has(t.prefixed(key))
}

func (t *prefixTx) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	fullPrefix := t.prefixed(prefix)
	return t.inner.ForEach(fullPrefix, func(key, value []byte) error {
		stripped := key[len(t.prefix):]
		return fn(stripped, value)
	})
}

// Update runs fn in a single write transaction against the inner DB,
// scoped to this PrefixDB's namespace. Combine several stores built on
// PrefixDBs over the same inner DB and call Update on the inner DB
// directly (wrapping each with its own prefixTx) to make a write span
// all of them atomically.
func (p *PrefixDB) Update(fn func(Tx) error) error {
	return p.inner.Update(func(tx Tx) error {
		return fn(&prefixTx{inner: tx, prefix: p.prefix})
	})
}

// View runs fn in a read-only transaction scoped to this PrefixDB's
// namespace.
func (p *PrefixDB) View(fn func(Tx) error) error {
	return p.inner.View(func(tx Tx) error {
		return fn(&prefixTx{inner: tx, prefix: p.prefix})
	})
}

// Get retrieves a value by key.
func (p *PrefixDB) Get(key []byte) ([]byte, error) {
	return p.inner.Get(p.prefixed(key))
}

// Put stores a key-value pair.
func (p *PrefixDB) Put(key, value []byte) error {
	return p.inner.Put(p.prefixed(key), value)
}

// Delete removes a key.
func (p *PrefixDB) Delete(key []byte) error {
	return p.inner.Delete(p.prefixed(key))
}

// Has checks if a key exists.
func (p *PrefixDB) Has(key []byte) (bool, error) {
	return p.inner.Has(p.prefixed(key))
}

// ForEach iterates over all keys with the given prefix (within the
// PrefixDB namespace). The callback receives keys with the PrefixDB
// prefix stripped, so callers see only their logical keyspace.
func (p *PrefixDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	fullPrefix := p.prefixed(prefix)
	return p.inner.ForEach(fullPrefix, func(key, value []byte) error {
		stripped := key[len(p.prefix):]
		return fn(stripped, value)
	})
}

// DeleteAll removes all keys under this PrefixDB's namespace from the
// inner DB, in a single write transaction.
func (p *PrefixDB) DeleteAll() error {
	return p.Update(func(tx Tx) error {
		var keys [][]byte
		if err := tx.ForEach(nil, func(key, _ []byte) error {
			k := make([]byte, len(key))
			copy(k, key)
			keys = append(keys, k)
			return nil
		}); err != nil {
			return err
		}
		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close is a no-op — the outer DB manages its own lifecycle.
func (p *PrefixDB) Close() error {
	return nil
}
