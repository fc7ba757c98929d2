package utxo

import (
	txpkg "github.com/sidechain-labs/bmmd/pkg/tx"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// Validate checks a candidate block against the current UTXO set without
// mutating it: every input exists and is spent at most once across the
// block's transactions, every transaction has non-negative fee, and the
// coinbase does not exceed the sum of fees. It reports false (not an
// error) on any rule violation; a non-nil error indicates a store failure.
func Validate(tx store, coinbase []types.Output, txs []txpkg.Transaction) (bool, error) {
	spent := make(map[types.OutPoint]bool)
	var totalFees uint64

	for i := range txs {
		t := &txs[i]
		for _, in := range t.Inputs {
			if spent[in] {
				return false, nil
			}
			_, ok, err := GetUTXO(tx, in)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
			spent[in] = true
		}

		fee, err := GetTransactionFee(tx, t)
		if err != nil {
			return false, nil
		}
		totalFees += fee
	}

	var coinbaseTotal uint64
	for _, out := range coinbase {
		coinbaseTotal += out.TotalValue()
	}
	if coinbaseTotal > totalFees {
		return false, nil
	}

	return true, nil
}
