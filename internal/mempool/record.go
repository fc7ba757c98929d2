package mempool

import (
	txpkg "github.com/sidechain-labs/bmmd/pkg/tx"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// txRecord is what's stored under tx_by_hash: the transaction itself, the
// fee it was submitted with, and the Unix-second timestamp of submission.
type txRecord struct {
	Tx        *txpkg.Transaction
	Fee       uint64
	Timestamp uint64
}

func (r *txRecord) encode() []byte {
	var b []byte
	b = types.AppendBytes(b, r.Tx.Bytes())
	b = types.AppendUint64(b, r.Fee)
	b = types.AppendUint64(b, r.Timestamp)
	return b
}

func decodeTxRecord(raw []byte) (*txRecord, error) {
	d := types.NewDecoder(raw)
	txBytes, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	t, err := txpkg.DecodeBytes(txBytes)
	if err != nil {
		return nil, err
	}
	fee, err := d.ReadUint64()
	if err != nil {
		return nil, err
	}
	ts, err := d.ReadUint64()
	if err != nil {
		return nil, err
	}
	return &txRecord{Tx: t, Fee: fee, Timestamp: ts}, nil
}

// feeBucketEntry is one member of a by_fee bucket's ordered list.
type feeBucketEntry struct {
	Hash      types.Hash
	Size      uint32
	Timestamp uint64
}

func encodeFeeBucket(entries []feeBucketEntry) []byte {
	var b []byte
	b = types.AppendUint32(b, uint32(len(entries)))
	for _, e := range entries {
		b = types.AppendFixed(b, e.Hash[:])
		b = types.AppendUint32(b, e.Size)
		b = types.AppendUint64(b, e.Timestamp)
	}
	return b
}

func decodeFeeBucket(raw []byte) ([]feeBucketEntry, error) {
	d := types.NewDecoder(raw)
	count, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}
	entries := make([]feeBucketEntry, count)
	for i := range entries {
		hash, err := d.ReadHash()
		if err != nil {
			return nil, err
		}
		size, err := d.ReadUint32()
		if err != nil {
			return nil, err
		}
		ts, err := d.ReadUint64()
		if err != nil {
			return nil, err
		}
		entries[i] = feeBucketEntry{Hash: hash, Size: size, Timestamp: ts}
	}
	return entries, nil
}
