package mempool

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"time"

	klog "github.com/sidechain-labs/bmmd/internal/log"
	"github.com/sidechain-labs/bmmd/internal/storage"
	txpkg "github.com/sidechain-labs/bmmd/pkg/tx"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// SubmitTransaction records transaction at the current Unix-second
// timestamp under its hash, and appends it to its fee bucket, keeping
// that bucket sorted ascending by (size, timestamp). Idempotent: a
// transaction already present is a no-op.
func SubmitTransaction(tx store, transaction *txpkg.Transaction, fee uint64) error {
	hash := transaction.Hash()
	exists, err := tx.Has(byHashKey(hash))
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	ts := uint64(time.Now().Unix())
	record := &txRecord{Tx: transaction, Fee: fee, Timestamp: ts}
	if err := tx.Put(byHashKey(hash), record.encode()); err != nil {
		return err
	}

	size := uint32(len(transaction.Bytes()))
	bucket, err := getFeeBucket(tx, fee)
	if err != nil {
		return err
	}
	bucket = append(bucket, feeBucketEntry{Hash: hash, Size: size, Timestamp: ts})
	sort.Slice(bucket, func(i, j int) bool {
		if bucket[i].Size != bucket[j].Size {
			return bucket[i].Size < bucket[j].Size
		}
		return bucket[i].Timestamp < bucket[j].Timestamp
	})
	return putFeeBucket(tx, fee, bucket)
}

// Remove deletes a transaction from both the hash index and its fee
// bucket. ErrNotInMempool if it isn't present.
func Remove(tx store, hash types.Hash) error {
	raw, err := tx.Get(byHashKey(hash))
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotInMempool
	}
	if err != nil {
		return err
	}
	record, err := decodeTxRecord(raw)
	if err != nil {
		return err
	}
	if err := tx.Delete(byHashKey(hash)); err != nil {
		return err
	}

	bucket, err := getFeeBucket(tx, record.Fee)
	if err != nil {
		return err
	}
	filtered := bucket[:0]
	for _, e := range bucket {
		if e.Hash != hash {
			filtered = append(filtered, e)
		}
	}
	if err := putFeeBucket(tx, record.Fee, filtered); err != nil {
		return err
	}
	klog.Mempool.Info().Str("tx", hash.String()).Msg("transaction evicted from mempool")
	return nil
}

func getFeeBucket(tx store, fee uint64) ([]feeBucketEntry, error) {
	raw, err := tx.Get(byFeeKey(fee))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeFeeBucket(raw)
}

func putFeeBucket(tx store, fee uint64, entries []feeBucketEntry) error {
	if len(entries) == 0 {
		return tx.Delete(byFeeKey(fee))
	}
	return tx.Put(byFeeKey(fee), encodeFeeBucket(entries))
}

// GetPendingTransactions returns the transactions selected by the most
// recent CollectTransactions call, in selection order.
func GetPendingTransactions(tx store) ([]txpkg.Transaction, error) {
	count, err := getPendingCount(tx)
	if err != nil {
		return nil, err
	}
	txs := make([]txpkg.Transaction, 0, count)
	for i := uint32(0); i < count; i++ {
		raw, err := tx.Get(pendingKey(i))
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("mempool: pending entry %d missing", i)
		}
		if err != nil {
			return nil, err
		}
		var hash types.Hash
		copy(hash[:], raw)
		record, ok, err := getTxRecord(tx, hash)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("mempool: pending transaction %s no longer in pool", hash)
		}
		txs = append(txs, *record.Tx)
	}
	return txs, nil
}

func getTxRecord(tx store, hash types.Hash) (*txRecord, bool, error) {
	raw, err := tx.Get(byHashKey(hash))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	record, err := decodeTxRecord(raw)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

func getPendingCount(tx store) (uint32, error) {
	raw, err := tx.Get(keyPendingCount)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(raw), nil
}

func setPendingCount(tx store, count uint32) error {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, count)
	return tx.Put(keyPendingCount, b)
}

func clearPending(tx store) error {
	count, err := getPendingCount(tx)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if err := tx.Delete(pendingKey(i)); err != nil {
			return err
		}
	}
	return setPendingCount(tx, 0)
}

// CollectTransactions recomputes the packing decision: it walks fee
// buckets in descending fee order (ascending (size, timestamp) within
// each bucket), greedily selecting transactions whose inputs don't
// conflict with an already-selected one, until adding the next
// transaction would exceed blockSizeLimit.
func CollectTransactions(tx store, blockSizeLimit int) error {
	if err := clearPending(tx); err != nil {
		return err
	}

	var feeKeys []uint64
	if err := tx.ForEach(prefixByFee, func(key, _ []byte) error {
		if len(key) != len(prefixByFee)+8 {
			return fmt.Errorf("mempool: malformed fee bucket key")
		}
		feeKeys = append(feeKeys, binary.BigEndian.Uint64(key[len(prefixByFee):]))
		return nil
	}); err != nil {
		return err
	}
	sort.Slice(feeKeys, func(i, j int) bool { return feeKeys[i] > feeKeys[j] })

	spent := make(map[types.OutPoint]bool)
	var selected []types.Hash
	totalSize := 0

outer:
	for _, fee := range feeKeys {
		bucket, err := getFeeBucket(tx, fee)
		if err != nil {
			return err
		}
		for _, e := range bucket {
			record, ok, err := getTxRecord(tx, e.Hash)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			conflict := false
			for _, in := range record.Tx.Inputs {
				if spent[in] {
					conflict = true
					break
				}
			}
			if conflict {
				continue
			}
			if totalSize+int(e.Size) > blockSizeLimit {
				break outer
			}
			selected = append(selected, e.Hash)
			totalSize += int(e.Size)
			for _, in := range record.Tx.Inputs {
				spent[in] = true
			}
		}
	}

	for i, hash := range selected {
		if err := tx.Put(pendingKey(uint32(i)), hash.Bytes()); err != nil {
			return err
		}
	}
	return setPendingCount(tx, uint32(len(selected)))
}

// Connect clears the packing decision and removes every transaction in
// txs (by hash) from the pool — called when a block containing them
// connects.
func Connect(tx store, txs []txpkg.Transaction) error {
	if err := clearPending(tx); err != nil {
		return err
	}
	for i := range txs {
		hash := txs[i].Hash()
		if err := Remove(tx, hash); err != nil && err != ErrNotInMempool {
			return err
		}
	}
	klog.Mempool.Info().Int("txs", len(txs)).Msg("mempool cleared of confirmed transactions")
	return nil
}
