package tx

import (
	"errors"
	"fmt"
	"math"

	"github.com/sidechain-labs/bmmd/pkg/types"
)

// Structural validation errors. These are checked independently of the
// UTXO set; utxo.Validate performs the stateful checks (input
// existence, conservation, double-spend across a block).
var (
	ErrNoInputs        = errors.New("transaction has no inputs")
	ErrNoOutputs       = errors.New("transaction has no outputs")
	ErrDuplicateInput  = errors.New("duplicate input")
	ErrTooManyOutputs  = errors.New("too many outputs")
	ErrOutputOverflow  = errors.New("output values overflow")
	ErrZeroValueOutput = errors.New("output value is zero")

	errTrailing = errors.New("trailing bytes after transaction")
)

// MaxOutputsPerTx caps both transaction and coinbase output counts (spec
// constant MAX_OUTPUTS_PER_TX = MAX_COINBASE_OUTPUTS = 256).
const MaxOutputsPerTx = 256

// Validate checks transaction structure independent of any UTXO set: a
// non-empty input list, a non-empty output list bounded by
// MaxOutputsPerTx, no duplicate inputs, no zero-value outputs, and no
// output-sum overflow.
func (t *Transaction) Validate() error {
	if len(t.Inputs) == 0 {
		return ErrNoInputs
	}
	if len(t.Outputs) == 0 {
		return ErrNoOutputs
	}
	if len(t.Outputs) > MaxOutputsPerTx {
		return fmt.Errorf("%w: %d outputs, max %d", ErrTooManyOutputs, len(t.Outputs), MaxOutputsPerTx)
	}

	seen := make(map[types.OutPoint]bool, len(t.Inputs))
	for i, in := range t.Inputs {
		if seen[in] {
			return fmt.Errorf("input %d: %w", i, ErrDuplicateInput)
		}
		seen[in] = true
	}

	var total uint64
	for i, out := range t.Outputs {
		v := out.TotalValue()
		if v == 0 {
			return fmt.Errorf("output %d: %w", i, ErrZeroValueOutput)
		}
		if total > math.MaxUint64-v {
			return fmt.Errorf("output %d: %w", i, ErrOutputOverflow)
		}
		total += v
	}

	return nil
}
