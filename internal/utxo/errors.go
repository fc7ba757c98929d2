package utxo

import "errors"

var (
	// ErrOutputLimit is returned by Connect when a block's coinbase or a
	// transaction's outputs exceed MaxOutputsPerTx.
	ErrOutputLimit = errors.New("utxo: output count exceeds limit")

	// ErrBundlePending is returned by CollectWithdrawals when a
	// previously-collected bundle is still locked awaiting a parent-chain
	// verdict.
	ErrBundlePending = errors.New("utxo: a withdrawal bundle is already locked")

	// ErrMissingInput is returned when a transaction spends an outpoint
	// that is not in the UTXO set.
	ErrMissingInput = errors.New("utxo: input not found")

	// ErrValueOverflow is returned when a transaction's outputs exceed its
	// inputs.
	ErrValueOverflow = errors.New("utxo: outputs exceed inputs")

	// errStopIteration is a private sentinel used to break out of a
	// ForEach early; it never escapes this package.
	errStopIteration = errors.New("utxo: stop iteration")
)
