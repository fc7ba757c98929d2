// Package block defines the sidechain block type and its structural
// validation.
package block

import (
	"github.com/sidechain-labs/bmmd/pkg/tx"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// Block is a sidechain block: a header, the coinbase outputs funded by
// the block's transaction fees, and the transactions themselves.
type Block struct {
	Header       *Header          `json:"header"`
	Coinbase     []types.Output   `json:"coinbase"`
	Transactions []tx.Transaction `json:"transactions"`
}

// New creates a Block from its parts.
func New(header *Header, coinbase []types.Output, txs []tx.Transaction) *Block {
	return &Block{Header: header, Coinbase: coinbase, Transactions: txs}
}

// Hash returns the block header hash.
func (b *Block) Hash() types.Hash {
	if b.Header == nil {
		return types.Hash{}
	}
	return b.Header.Hash()
}

// TxHashes returns the hash of every transaction in order, for merkle root
// computation.
func (b *Block) TxHashes() []types.Hash {
	hashes := make([]types.Hash, len(b.Transactions))
	for i := range b.Transactions {
		hashes[i] = b.Transactions[i].Hash()
	}
	return hashes
}
