package archive

import (
	"errors"
	"fmt"

	klog "github.com/sidechain-labs/bmmd/internal/log"
	"github.com/sidechain-labs/bmmd/internal/storage"
	"github.com/sidechain-labs/bmmd/pkg/block"
	txpkg "github.com/sidechain-labs/bmmd/pkg/tx"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// AddBmmHashes inserts each hash into the BMM commitment set. Idempotent.
func AddBmmHashes(tx store, hashes []types.Hash) error {
	for _, h := range hashes {
		if err := tx.Put(bmmKey(h), nil); err != nil {
			return err
		}
	}
	return nil
}

// ValidateHeader requires that header's hash is BMM-committed and that it
// links to the current chain tip (the zero hash at genesis).
func ValidateHeader(tx store, header *block.Header) error {
	committed, err := tx.Has(bmmKey(header.Hash()))
	if err != nil {
		return err
	}
	if !committed {
		return ErrNotBmmCommitted
	}

	_, tipRecord, ok, err := chainTip(tx)
	if err != nil {
		return err
	}
	var prevHash types.Hash
	if ok {
		prevHash = tipRecord.Header.Hash()
	}
	if header.PrevSideBlockHash != prevHash {
		return ErrWrongPrev
	}
	return nil
}

// GetChainTip returns the highest-numbered connected header along with its
// block number and transaction range, or ok=false if the archive is empty.
func GetChainTip(tx store) (blockNumber uint32, header *block.Header, txStart, txEnd uint64, ok bool, err error) {
	n, record, present, err := chainTip(tx)
	if err != nil || !present {
		return 0, nil, 0, 0, false, err
	}
	return n, record.Header, record.TxStart, record.TxEnd, true, nil
}

// GetHeaderAt returns the header and transaction range recorded for
// blockNumber, or ok=false if no such block was ever connected.
func GetHeaderAt(tx store, blockNumber uint32) (header *block.Header, txStart, txEnd uint64, ok bool, err error) {
	raw, err := tx.Get(headerKey(blockNumber))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, 0, 0, false, nil
	}
	if err != nil {
		return nil, 0, 0, false, err
	}
	record, err := decodeHeaderRecord(raw)
	if err != nil {
		return nil, 0, 0, false, err
	}
	return record.Header, record.TxStart, record.TxEnd, true, nil
}

func chainTip(tx store) (uint32, *headerRecord, bool, error) {
	n, err := getTipNumber(tx)
	if err != nil {
		return 0, nil, false, err
	}
	if n == 0 {
		return 0, nil, false, nil
	}
	raw, err := tx.Get(headerKey(n))
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil, false, fmt.Errorf("archive: tip header %d missing", n)
	}
	if err != nil {
		return 0, nil, false, err
	}
	record, err := decodeHeaderRecord(raw)
	if err != nil {
		return 0, nil, false, err
	}
	return n, record, true, nil
}

// GetCoinbase returns the coinbase outputs recorded for blockNumber.
func GetCoinbase(tx store, blockNumber uint32) ([]types.Output, bool, error) {
	raw, err := tx.Get(coinbaseKey(blockNumber))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	outputs, err := decodeCoinbase(raw)
	if err != nil {
		return nil, false, err
	}
	return outputs, true, nil
}

// Connect appends one header, assigning it the next block number (tip+1,
// or 1 if the archive is empty so block 0 stays genesis), records its
// transactions into the global append-only log starting at the current
// transaction counter, and stores its coinbase outputs.
func Connect(tx store, header *block.Header, coinbase []types.Output, txs []txpkg.Transaction) (uint32, error) {
	tip, err := getTipNumber(tx)
	if err != nil {
		return 0, err
	}
	blockNumber := tip + 1

	txStart, err := getTxCounter(tx)
	if err != nil {
		return 0, err
	}
	for i := range txs {
		if err := tx.Put(txKey(txStart+uint64(i)), txs[i].Bytes()); err != nil {
			return 0, err
		}
	}
	txEnd := txStart + uint64(len(txs))

	record := &headerRecord{Header: header, TxStart: txStart, TxEnd: txEnd}
	if err := tx.Put(headerKey(blockNumber), record.encode()); err != nil {
		return 0, err
	}
	if err := tx.Put(coinbaseKey(blockNumber), encodeCoinbase(coinbase)); err != nil {
		return 0, err
	}
	if err := setTxCounter(tx, txEnd); err != nil {
		return 0, err
	}
	if err := setTipNumber(tx, blockNumber); err != nil {
		return 0, err
	}
	klog.Archive.Info().Uint32("block_number", blockNumber).Int("txs", len(txs)).Msg("block connected")
	return blockNumber, nil
}

// Disconnect reverses the last n connected blocks: removes their headers
// and coinbases, and truncates the transaction log back to the smallest
// tx_start among them.
func Disconnect(tx store, n uint32) error {
	if n == 0 {
		return nil
	}
	tip, err := getTipNumber(tx)
	if err != nil {
		return err
	}
	if n > tip {
		return ErrNoSuchBlock
	}

	minTxStart := uint64(0)
	first := true
	for bn := tip; bn > tip-n; bn-- {
		raw, err := tx.Get(headerKey(bn))
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("archive: header %d missing during disconnect", bn)
		}
		if err != nil {
			return err
		}
		record, err := decodeHeaderRecord(raw)
		if err != nil {
			return err
		}
		if first || record.TxStart < minTxStart {
			minTxStart = record.TxStart
			first = false
		}
		if err := tx.Delete(headerKey(bn)); err != nil {
			return err
		}
		if err := tx.Delete(coinbaseKey(bn)); err != nil {
			return err
		}
	}

	txEnd, err := getTxCounter(tx)
	if err != nil {
		return err
	}
	for i := minTxStart; i < txEnd; i++ {
		if err := tx.Delete(txKey(i)); err != nil {
			return err
		}
	}
	if err := setTxCounter(tx, minTxStart); err != nil {
		return err
	}
	if err := setTipNumber(tx, tip-n); err != nil {
		return err
	}
	klog.Archive.Info().Uint32("blocks", n).Uint32("new_tip", tip-n).Msg("blocks disconnected")
	return nil
}

// GetTransaction returns the transaction stored at the given global index.
func GetTransaction(tx store, txNumber uint64) (*txpkg.Transaction, bool, error) {
	raw, err := tx.Get(txKey(txNumber))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	t, err := txpkg.DecodeBytes(raw)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}
