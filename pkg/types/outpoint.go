package types

import "fmt"

// OutPointKind tags which variant of the OutPoint sum a value holds.
type OutPointKind uint8

const (
	// OutPointRegular identifies an output of a confirmed sidechain transaction.
	OutPointRegular OutPointKind = 1
	// OutPointDeposit identifies value credited from the parent chain.
	OutPointDeposit OutPointKind = 2
	// OutPointCoinbase identifies a block reward/fee output.
	OutPointCoinbase OutPointKind = 3
)

func (k OutPointKind) String() string {
	switch k {
	case OutPointRegular:
		return "regular"
	case OutPointDeposit:
		return "deposit"
	case OutPointCoinbase:
		return "coinbase"
	default:
		return "unknown"
	}
}

// OutPoint is the closed tagged union identifying a spendable unit: the
// output of a transaction, a parent-chain deposit, or a block's coinbase.
// Only the fields relevant to Kind are meaningful.
type OutPoint struct {
	Kind OutPointKind

	// Regular
	TransactionNumber uint64
	OutputNumber      uint8

	// Deposit
	SequenceNumber uint64

	// Coinbase
	BlockNumber uint32
	// Coinbase also uses OutputNumber above.
}

// NewRegularOutPoint builds an OutPoint referencing a transaction output.
func NewRegularOutPoint(transactionNumber uint64, outputNumber uint8) OutPoint {
	return OutPoint{Kind: OutPointRegular, TransactionNumber: transactionNumber, OutputNumber: outputNumber}
}

// NewDepositOutPoint builds an OutPoint referencing a parent-chain deposit.
func NewDepositOutPoint(sequenceNumber uint64) OutPoint {
	return OutPoint{Kind: OutPointDeposit, SequenceNumber: sequenceNumber}
}

// NewCoinbaseOutPoint builds an OutPoint referencing a block's coinbase output.
func NewCoinbaseOutPoint(blockNumber uint32, outputNumber uint8) OutPoint {
	return OutPoint{Kind: OutPointCoinbase, BlockNumber: blockNumber, OutputNumber: outputNumber}
}

// String renders a short, unambiguous representation of the outpoint.
func (o OutPoint) String() string {
	switch o.Kind {
	case OutPointRegular:
		return fmt.Sprintf("r:%d:%d", o.TransactionNumber, o.OutputNumber)
	case OutPointDeposit:
		return fmt.Sprintf("d:%d", o.SequenceNumber)
	case OutPointCoinbase:
		return fmt.Sprintf("c:%d:%d", o.BlockNumber, o.OutputNumber)
	default:
		return "invalid-outpoint"
	}
}

// AppendBinary appends the canonical binary encoding of the outpoint: a tag
// byte followed by the variant's fixed-width payload. This is both the
// hashing representation and the storage-key suffix used by the UTXO store.
func (o OutPoint) AppendBinary(b []byte) []byte {
	b = AppendUint8(b, uint8(o.Kind))
	switch o.Kind {
	case OutPointRegular:
		b = AppendUint64(b, o.TransactionNumber)
		b = AppendUint8(b, o.OutputNumber)
	case OutPointDeposit:
		b = AppendUint64(b, o.SequenceNumber)
	case OutPointCoinbase:
		b = AppendUint32(b, o.BlockNumber)
		b = AppendUint8(b, o.OutputNumber)
	}
	return b
}

// Bytes returns the canonical binary encoding as a standalone slice.
func (o OutPoint) Bytes() []byte {
	return o.AppendBinary(nil)
}

// DecodeOutPoint reads an OutPoint from d, rejecting unknown tag bytes.
func DecodeOutPoint(d *Decoder) (OutPoint, error) {
	tag, err := d.ReadUint8()
	if err != nil {
		return OutPoint{}, err
	}
	switch OutPointKind(tag) {
	case OutPointRegular:
		txn, err := d.ReadUint64()
		if err != nil {
			return OutPoint{}, err
		}
		outN, err := d.ReadUint8()
		if err != nil {
			return OutPoint{}, err
		}
		return NewRegularOutPoint(txn, outN), nil
	case OutPointDeposit:
		seq, err := d.ReadUint64()
		if err != nil {
			return OutPoint{}, err
		}
		return NewDepositOutPoint(seq), nil
	case OutPointCoinbase:
		blockN, err := d.ReadUint32()
		if err != nil {
			return OutPoint{}, err
		}
		outN, err := d.ReadUint8()
		if err != nil {
			return OutPoint{}, err
		}
		return NewCoinbaseOutPoint(blockN, outN), nil
	default:
		return OutPoint{}, fmt.Errorf("%w: outpoint tag %d", ErrUnknownTag, tag)
	}
}

// DecodeOutPointBytes decodes a standalone encoded outpoint, requiring that
// it consume the entire buffer.
func DecodeOutPointBytes(b []byte) (OutPoint, error) {
	d := NewDecoder(b)
	o, err := DecodeOutPoint(d)
	if err != nil {
		return OutPoint{}, err
	}
	if d.Remaining() != 0 {
		return OutPoint{}, fmt.Errorf("trailing bytes after outpoint")
	}
	return o, nil
}
