package block

import (
	"github.com/sidechain-labs/bmmd/pkg/crypto"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// Header is the sidechain block header: a link to the previous sidechain
// block and a commitment to the block's transactions. Its hash is what
// must appear in the parent chain's BMM commitment set before the block
// it heads can be connected.
type Header struct {
	PrevSideBlockHash types.Hash `json:"prev_side_block_hash"`
	MerkleRoot        types.Hash `json:"merkle_root"`
}

// Hash computes the header hash over its canonical encoding.
func (h *Header) Hash() types.Hash {
	return crypto.Hash(h.SigningBytes())
}

// SigningBytes returns the canonical byte representation used for hashing.
// Format: prev_side_block_hash(32) | merkle_root(32)
func (h *Header) SigningBytes() []byte {
	buf := make([]byte, 0, types.HashSize*2)
	buf = types.AppendFixed(buf, h.PrevSideBlockHash[:])
	buf = types.AppendFixed(buf, h.MerkleRoot[:])
	return buf
}

// DecodeHeader reads a Header from its canonical binary encoding.
func DecodeHeader(d *types.Decoder) (*Header, error) {
	prev, err := d.ReadHash()
	if err != nil {
		return nil, err
	}
	root, err := d.ReadHash()
	if err != nil {
		return nil, err
	}
	return &Header{PrevSideBlockHash: prev, MerkleRoot: root}, nil
}
