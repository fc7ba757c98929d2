package block

import (
	"errors"
	"fmt"

	"github.com/sidechain-labs/bmmd/pkg/tx"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// Structural validation errors, checked independent of any UTXO set or
// chain state. A block that passes Validate is internally well-formed;
// it may still be rejected by the state coordinator (wrong prev hash,
// missing BMM commitment, a transaction whose inputs don't exist).
var (
	ErrNilHeader        = errors.New("block has no header")
	ErrBadMerkleRoot    = errors.New("merkle root does not match transactions")
	ErrTooManyCoinbase  = errors.New("too many coinbase outputs")
	ErrBlockTooLarge    = errors.New("block exceeds size limit")
	ErrDuplicateTxInput = errors.New("outpoint spent twice within block")
)

// MaxBlockSize bounds the serialized size of a block in bytes.
const MaxBlockSize = 2_000_000

// Validate checks a block's structural invariants: it has a header, its
// merkle root matches its transactions, the coinbase output count is
// within bounds, every transaction is individually well-formed, no
// outpoint is spent twice across the block's transactions, and the
// block's encoded size is within MaxBlockSize.
func (b *Block) Validate() error {
	if b.Header == nil {
		return ErrNilHeader
	}
	if len(b.Coinbase) > tx.MaxOutputsPerTx {
		return fmt.Errorf("%w: %d outputs, max %d", ErrTooManyCoinbase, len(b.Coinbase), tx.MaxOutputsPerTx)
	}

	root := ComputeMerkleRoot(b.TxHashes())
	if root != b.Header.MerkleRoot {
		return fmt.Errorf("%w: have %s, want %s", ErrBadMerkleRoot, b.Header.MerkleRoot, root)
	}

	spent := make(map[types.OutPoint]int, len(b.Transactions))
	for i := range b.Transactions {
		txn := &b.Transactions[i]
		if err := txn.Validate(); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		for _, in := range txn.Inputs {
			if j, ok := spent[in]; ok {
				return fmt.Errorf("%w: %s (tx %d and tx %d)", ErrDuplicateTxInput, in, j, i)
			}
			spent[in] = i
		}
	}

	if size := len(b.Bytes()); size > MaxBlockSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrBlockTooLarge, size, MaxBlockSize)
	}

	return nil
}

// Bytes returns the canonical binary encoding of the block, used for
// size-limit checks and storage.
func (b *Block) Bytes() []byte {
	buf := make([]byte, 0, 1024)
	buf = types.AppendFixed(buf, b.Header.PrevSideBlockHash[:])
	buf = types.AppendFixed(buf, b.Header.MerkleRoot[:])

	buf = types.AppendUint32(buf, uint32(len(b.Coinbase)))
	for i := range b.Coinbase {
		buf = b.Coinbase[i].AppendBinary(buf)
	}

	buf = types.AppendUint32(buf, uint32(len(b.Transactions)))
	for i := range b.Transactions {
		buf = types.AppendBytes(buf, b.Transactions[i].Bytes())
	}

	return buf
}

// Decode reads a Block from its canonical binary encoding.
func Decode(d *types.Decoder) (*Block, error) {
	header, err := DecodeHeader(d)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	coinbaseCount, err := d.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("coinbase count: %w", err)
	}
	coinbase := make([]types.Output, coinbaseCount)
	for i := range coinbase {
		out, err := types.DecodeOutput(d)
		if err != nil {
			return nil, fmt.Errorf("coinbase %d: %w", i, err)
		}
		coinbase[i] = out
	}

	txCount, err := d.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("transaction count: %w", err)
	}
	txs := make([]tx.Transaction, txCount)
	for i := range txs {
		raw, err := d.ReadBytes()
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		decoded, err := tx.DecodeBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		txs[i] = *decoded
	}

	return &Block{Header: header, Coinbase: coinbase, Transactions: txs}, nil
}

// DecodeBytes decodes a Block from a full buffer, rejecting trailing bytes.
func DecodeBytes(b []byte) (*Block, error) {
	d := types.NewDecoder(b)
	blk, err := Decode(d)
	if err != nil {
		return nil, err
	}
	if d.Remaining() != 0 {
		return nil, fmt.Errorf("block: %d trailing bytes", d.Remaining())
	}
	return blk, nil
}
