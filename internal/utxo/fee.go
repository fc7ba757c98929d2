package utxo

import (
	txpkg "github.com/sidechain-labs/bmmd/pkg/tx"
)

// GetTransactionFee sums input values from the UTXO set and returns
// value_in - value_out. It fails with ErrMissingInput if any input is
// absent from the set, or ErrValueOverflow if outputs exceed inputs.
func GetTransactionFee(tx store, transaction *txpkg.Transaction) (uint64, error) {
	var valueIn uint64
	for _, in := range transaction.Inputs {
		out, ok, err := GetUTXO(tx, in)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, ErrMissingInput
		}
		valueIn += out.TotalValue()
	}
	valueOut := transaction.ValueOut()
	if valueOut > valueIn {
		return 0, ErrValueOverflow
	}
	return valueIn - valueOut, nil
}
