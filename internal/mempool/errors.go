package mempool

import "errors"

// ErrNotInMempool is returned by Remove when asked to remove a
// transaction hash that isn't present in the pool.
var ErrNotInMempool = errors.New("mempool: transaction not found")
