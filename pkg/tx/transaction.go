// Package tx defines the sidechain transaction type: a list of spent
// outpoints and a list of newly created outputs.
package tx

import (
	"github.com/sidechain-labs/bmmd/pkg/crypto"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// Transaction moves value from existing outpoints to new outputs.
type Transaction struct {
	Inputs  []types.OutPoint
	Outputs []types.Output
}

// New builds a transaction from inputs and outputs.
func New(inputs []types.OutPoint, outputs []types.Output) *Transaction {
	return &Transaction{Inputs: inputs, Outputs: outputs}
}

// ValueOut returns the sum of TotalValue() over all outputs.
func (t *Transaction) ValueOut() uint64 {
	var total uint64
	for _, out := range t.Outputs {
		total += out.TotalValue()
	}
	return total
}

// Hash computes the transaction hash (BLAKE3 of the canonical encoding).
func (t *Transaction) Hash() types.Hash {
	return crypto.Hash(t.SigningBytes())
}

// SigningBytes returns the canonical binary encoding of the transaction:
// input count, then each outpoint, output count, then each output.
func (t *Transaction) SigningBytes() []byte {
	var buf []byte
	buf = types.AppendUint32(buf, uint32(len(t.Inputs)))
	for _, in := range t.Inputs {
		buf = in.AppendBinary(buf)
	}
	buf = types.AppendUint32(buf, uint32(len(t.Outputs)))
	for _, out := range t.Outputs {
		buf = out.AppendBinary(buf)
	}
	return buf
}

// Decode reads a Transaction from its canonical binary encoding.
func Decode(d *types.Decoder) (*Transaction, error) {
	inCount, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}
	inputs := make([]types.OutPoint, inCount)
	for i := range inputs {
		o, err := types.DecodeOutPoint(d)
		if err != nil {
			return nil, err
		}
		inputs[i] = o
	}

	outCount, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}
	outputs := make([]types.Output, outCount)
	for i := range outputs {
		o, err := types.DecodeOutput(d)
		if err != nil {
			return nil, err
		}
		outputs[i] = o
	}

	return &Transaction{Inputs: inputs, Outputs: outputs}, nil
}

// Bytes returns the canonical binary encoding as a standalone slice.
func (t *Transaction) Bytes() []byte {
	return t.SigningBytes()
}

// DecodeBytes decodes a standalone encoded transaction, requiring that it
// consume the entire buffer.
func DecodeBytes(b []byte) (*Transaction, error) {
	d := types.NewDecoder(b)
	t, err := Decode(d)
	if err != nil {
		return nil, err
	}
	if d.Remaining() != 0 {
		return nil, errTrailing
	}
	return t, nil
}
