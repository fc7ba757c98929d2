package storage

import (
	"sort"
	"strings"
	"sync"
)

// MemoryDB implements DB using an in-memory map guarded by a single
// mutex; Update holds the write lock and View holds a read lock for the
// duration of the callback, so both behave as true transactions against
// the map even though there's no MVCC underneath.
type MemoryDB struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates a new in-memory database.
func NewMemory() *MemoryDB {
	return &MemoryDB{
		data: make(map[string][]byte),
	}
}

// memTx operates directly on the MemoryDB's map; callers must hold the
// appropriate lock for the duration of its use.
type memTx struct {
	db *MemoryDB
}

func (t *memTx) Get(key []byte) ([]byte, error) {
	v, ok := t.db.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (t *memTx) Put(key, value []byte) error {
	t.db.data[string(key)] = value
	return nil
}

func (t *memTx) Delete(key []byte) error {
	delete(t.db.data, string(key))
	return nil
}

func (t *memTx) Has(key []byte) (bool, error) {
	_, ok := t.db.data[string(key)]
	return ok, nil
}

func (t *memTx) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	p := string(prefix)
	var keys []string
	for k := range t.db.data {
		if strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, ok := t.db.data[k]
		if !ok {
			continue
		}
		if err := fn([]byte(k), v); err != nil {
			return err
		}
	}
	return nil
}

// Update runs fn while holding the write lock. If fn returns an error,
// the map is restored to its contents from before fn ran.
func (m *MemoryDB) Update(fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		snapshot[k] = v
	}
	if err := fn(&memTx{db: m}); err != nil {
		m.data = snapshot
		return err
	}
	return nil
}

// View runs fn while holding the read lock.
func (m *MemoryDB) View(fn func(Tx) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(&memTx{db: m})
}

// Get retrieves a value by key.
func (m *MemoryDB) Get(key []byte) ([]byte, error) {
	var val []byte
	err := m.View(func(tx Tx) error {
		v, err := tx.Get(key)
		val = v
		return err
	})
	return val, err
}

// Put stores a key-value pair.
func (m *MemoryDB) Put(key, value []byte) error {
	return m.Update(func(tx Tx) error {
		return tx.Put(key, value)
	})
}

// Delete removes a key.
func (m *MemoryDB) Delete(key []byte) error {
	return m.Update(func(tx Tx) error {
		return tx.Delete(key)
	})
}

// Has checks if a key exists.
func (m *MemoryDB) Has(key []byte) (bool, error) {
	var exists bool
	err := m.View(func(tx Tx) error {
		v, err := tx.Has(key)
		exists = v
		return err
	})
	return exists, err
}

// ForEach iterates over all keys with the given prefix.
func (m *MemoryDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	return m.View(func(tx Tx) error {
		return tx.ForEach(prefix, fn)
	})
}

// Close closes the database.
func (m *MemoryDB) Close() error {
	return nil
}
