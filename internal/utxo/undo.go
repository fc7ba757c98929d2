package utxo

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sidechain-labs/bmmd/internal/storage"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// prefixUndo holds one record per connected block, keyed by block height,
// recording everything Connect removed or advanced so Disconnect can
// reverse it without replaying the full history. OutPoints spent by a
// block's transactions are deleted from `utxos` by Connect and have no
// other record of their prior value, so Disconnect cannot reconstruct
// them from first principles; this undo log is the store's equivalent of
// a write-ahead log entry for the one block it describes.
var prefixUndo = []byte("z/")

func undoKey(blockHeight uint32) []byte {
	b := make([]byte, 2+4)
	copy(b, prefixUndo)
	binary.BigEndian.PutUint32(b[2:], blockHeight)
	return b
}

type spentEntry struct {
	Outpoint types.OutPoint
	Output   types.Output
}

type blockUndo struct {
	StartTxNumber uint64
	Spent         []spentEntry
}

func (u *blockUndo) encode() []byte {
	var b []byte
	b = types.AppendUint64(b, u.StartTxNumber)
	b = types.AppendUint32(b, uint32(len(u.Spent)))
	for _, s := range u.Spent {
		b = types.AppendBytes(b, s.Outpoint.Bytes())
		b = types.AppendBytes(b, s.Output.Bytes())
	}
	return b
}

func decodeBlockUndo(raw []byte) (*blockUndo, error) {
	d := types.NewDecoder(raw)
	start, err := d.ReadUint64()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}
	spent := make([]spentEntry, count)
	for i := range spent {
		opBytes, err := d.ReadBytes()
		if err != nil {
			return nil, err
		}
		op, err := types.DecodeOutPointBytes(opBytes)
		if err != nil {
			return nil, err
		}
		outBytes, err := d.ReadBytes()
		if err != nil {
			return nil, err
		}
		out, err := types.DecodeOutputBytes(outBytes)
		if err != nil {
			return nil, err
		}
		spent[i] = spentEntry{Outpoint: op, Output: out}
	}
	if d.Remaining() != 0 {
		return nil, fmt.Errorf("utxo: trailing bytes in undo record")
	}
	return &blockUndo{StartTxNumber: start, Spent: spent}, nil
}

func putBlockUndo(tx store, blockHeight uint32, u *blockUndo) error {
	return tx.Put(undoKey(blockHeight), u.encode())
}

func getBlockUndo(tx store, blockHeight uint32) (*blockUndo, error) {
	raw, err := tx.Get(undoKey(blockHeight))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("utxo: no undo record for block %d", blockHeight)
	}
	if err != nil {
		return nil, err
	}
	return decodeBlockUndo(raw)
}

func deleteBlockUndo(tx store, blockHeight uint32) error {
	return tx.Delete(undoKey(blockHeight))
}
