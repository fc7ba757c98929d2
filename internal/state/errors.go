package state

import (
	"errors"

	"github.com/sidechain-labs/bmmd/internal/archive"
	"github.com/sidechain-labs/bmmd/internal/mempool"
	"github.com/sidechain-labs/bmmd/internal/utxo"
)

// Coordinator-level error taxonomy. Several of these alias a sub-store's
// own sentinel so callers at the boundary only ever need to check
// against this package, regardless of which store actually detected the
// problem.
var (
	// ErrInvalidTransaction: input missing, or value_out > value_in.
	ErrInvalidTransaction = errors.New("state: invalid transaction")

	// ErrInvalidBlock: double-spend, coinbase exceeds fees, or a missing
	// input, detected by utxo.Validate during Connect.
	ErrInvalidBlock = errors.New("state: invalid block")

	// ErrOutputLimit aliases utxo.ErrOutputLimit: coinbase or a
	// transaction exceeds MaxOutputsPerTx outputs.
	ErrOutputLimit = utxo.ErrOutputLimit

	// ErrNotBmmCommitted aliases archive.ErrNotBmmCommitted.
	ErrNotBmmCommitted = archive.ErrNotBmmCommitted

	// ErrWrongPrev aliases archive.ErrWrongPrev.
	ErrWrongPrev = archive.ErrWrongPrev

	// ErrInvalidMainHeight: a MainBlock's height isn't current+1.
	ErrInvalidMainHeight = errors.New("state: main block height is not current height + 1")

	// ErrBundlePending aliases utxo.ErrBundlePending.
	ErrBundlePending = utxo.ErrBundlePending

	// ErrNotInMempool aliases mempool.ErrNotInMempool.
	ErrNotInMempool = mempool.ErrNotInMempool

	// ErrStoreFailure names the category of underlying I/O, codec, or
	// transaction errors. The coordinator does not wrap store errors
	// with it; they are returned as the store reported them.
	ErrStoreFailure = errors.New("state: store failure")
)
