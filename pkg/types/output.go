package types

import "fmt"

// OutputKind tags which variant of the Output sum a value holds.
type OutputKind uint8

const (
	// OutputRegular pays a sidechain address.
	OutputRegular OutputKind = 1
	// OutputWithdrawal commits value to be redeemed on the parent chain.
	OutputWithdrawal OutputKind = 2
)

func (k OutputKind) String() string {
	switch k {
	case OutputRegular:
		return "regular"
	case OutputWithdrawal:
		return "withdrawal"
	default:
		return "unknown"
	}
}

// Output is the closed tagged union of spendable output variants. Only the
// fields relevant to Kind are meaningful.
type Output struct {
	Kind OutputKind

	// Regular & Withdrawal
	Address Address
	Value   uint64

	// Withdrawal only
	MainAddress MainAddress
	Fee         uint64
}

// NewRegularOutput builds a plain sidechain-address output.
func NewRegularOutput(address Address, value uint64) Output {
	return Output{Kind: OutputRegular, Address: address, Value: value}
}

// NewWithdrawalOutput builds a withdrawal output. The total value consumed
// from the spending transaction is value+fee.
func NewWithdrawalOutput(address Address, mainAddress MainAddress, value, fee uint64) Output {
	return Output{Kind: OutputWithdrawal, Address: address, MainAddress: mainAddress, Value: value, Fee: fee}
}

// TotalValue returns the value a spending transaction must account for:
// Value for Regular, Value+Fee for Withdrawal.
func (o Output) TotalValue() uint64 {
	switch o.Kind {
	case OutputWithdrawal:
		return o.Value + o.Fee
	default:
		return o.Value
	}
}

// GetAddress returns the sidechain address the output pays.
func (o Output) GetAddress() Address {
	return o.Address
}

// AppendBinary appends the canonical binary encoding: a tag byte followed
// by the variant's fields.
func (o Output) AppendBinary(b []byte) []byte {
	b = AppendUint8(b, uint8(o.Kind))
	b = AppendFixed(b, o.Address[:])
	b = AppendUint64(b, o.Value)
	if o.Kind == OutputWithdrawal {
		b = AppendFixed(b, o.MainAddress[:])
		b = AppendUint64(b, o.Fee)
	}
	return b
}

// Bytes returns the canonical binary encoding as a standalone slice.
func (o Output) Bytes() []byte {
	return o.AppendBinary(nil)
}

// DecodeOutput reads an Output from d, rejecting unknown tag bytes.
func DecodeOutput(d *Decoder) (Output, error) {
	tag, err := d.ReadUint8()
	if err != nil {
		return Output{}, err
	}
	addr, err := d.ReadAddress()
	if err != nil {
		return Output{}, err
	}
	value, err := d.ReadUint64()
	if err != nil {
		return Output{}, err
	}
	switch OutputKind(tag) {
	case OutputRegular:
		return NewRegularOutput(addr, value), nil
	case OutputWithdrawal:
		mainAddr, err := d.ReadMainAddress()
		if err != nil {
			return Output{}, err
		}
		fee, err := d.ReadUint64()
		if err != nil {
			return Output{}, err
		}
		return NewWithdrawalOutput(addr, mainAddr, value, fee), nil
	default:
		return Output{}, fmt.Errorf("%w: output tag %d", ErrUnknownTag, tag)
	}
}

// DecodeOutputBytes decodes a standalone encoded output, requiring that it
// consume the entire buffer.
func DecodeOutputBytes(b []byte) (Output, error) {
	d := NewDecoder(b)
	o, err := DecodeOutput(d)
	if err != nil {
		return Output{}, err
	}
	if d.Remaining() != 0 {
		return Output{}, fmt.Errorf("trailing bytes after output")
	}
	return o, nil
}
