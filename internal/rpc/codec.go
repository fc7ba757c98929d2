package rpc

import (
	"fmt"

	"github.com/sidechain-labs/bmmd/pkg/block"
	txpkg "github.com/sidechain-labs/bmmd/pkg/tx"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// encodeBlockSubmission canonically encodes a (header, coinbase, txs)
// triple for block_submit: the header's signing bytes, then the coinbase
// output count and outputs, then the transaction count and each
// transaction length-prefixed.
func encodeBlockSubmission(header *block.Header, coinbase []types.Output, txs []txpkg.Transaction) []byte {
	var buf []byte
	buf = types.AppendFixed(buf, header.PrevSideBlockHash[:])
	buf = types.AppendFixed(buf, header.MerkleRoot[:])

	buf = types.AppendUint32(buf, uint32(len(coinbase)))
	for _, out := range coinbase {
		buf = out.AppendBinary(buf)
	}

	buf = types.AppendUint32(buf, uint32(len(txs)))
	for i := range txs {
		buf = types.AppendBytes(buf, txs[i].Bytes())
	}
	return buf
}

func decodeBlockSubmission(raw []byte) (*block.Header, []types.Output, []txpkg.Transaction, error) {
	d := types.NewDecoder(raw)

	prev, err := d.ReadHash()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("header prev hash: %w", err)
	}
	merkle, err := d.ReadHash()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("header merkle root: %w", err)
	}
	header := &block.Header{PrevSideBlockHash: prev, MerkleRoot: merkle}

	cbCount, err := d.ReadUint32()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("coinbase count: %w", err)
	}
	coinbase := make([]types.Output, cbCount)
	for i := range coinbase {
		out, err := types.DecodeOutput(d)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("coinbase output %d: %w", i, err)
		}
		coinbase[i] = out
	}

	txCount, err := d.ReadUint32()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("transaction count: %w", err)
	}
	txs := make([]txpkg.Transaction, txCount)
	for i := range txs {
		raw, err := d.ReadBytes()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		t, err := txpkg.DecodeBytes(raw)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		txs[i] = *t
	}

	if d.Remaining() != 0 {
		return nil, nil, nil, fmt.Errorf("trailing bytes in block submission")
	}
	return header, coinbase, txs, nil
}

// encodeTransactionList canonically encodes a transaction list for
// mempool_collect: count, then each transaction length-prefixed.
func encodeTransactionList(txs []txpkg.Transaction) []byte {
	var buf []byte
	buf = types.AppendUint32(buf, uint32(len(txs)))
	for i := range txs {
		buf = types.AppendBytes(buf, txs[i].Bytes())
	}
	return buf
}

// encodeUtxoSet canonically encodes a UTXO set snapshot: entry count, then
// each (OutPoint, Output) pair. Map iteration order is not stable across
// calls; clients should not assume entry order is meaningful.
func encodeUtxoSet(set map[types.OutPoint]types.Output) []byte {
	var buf []byte
	buf = types.AppendUint32(buf, uint32(len(set)))
	for op, out := range set {
		buf = op.AppendBinary(buf)
		buf = out.AppendBinary(buf)
	}
	return buf
}
