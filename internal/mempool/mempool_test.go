package mempool

import (
	"testing"

	"github.com/sidechain-labs/bmmd/internal/storage"
	txpkg "github.com/sidechain-labs/bmmd/pkg/tx"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

func addr(b byte) types.Address {
	var a types.Address
	for i := range a {
		a[i] = b
	}
	return a
}

func withTx(t *testing.T, db storage.DB, fn func(storage.Tx)) {
	t.Helper()
	if err := db.Update(func(tx storage.Tx) error {
		fn(tx)
		return nil
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func mkTx(seq uint64, value uint64) *txpkg.Transaction {
	return txpkg.New(
		[]types.OutPoint{types.NewDepositOutPoint(seq)},
		[]types.Output{types.NewRegularOutput(addr(1), value)},
	)
}

func TestSubmitTransactionIdempotent(t *testing.T) {
	db := storage.NewMemory()
	transaction := mkTx(0, 100)

	withTx(t, db, func(tx storage.Tx) {
		if err := SubmitTransaction(tx, transaction, 10); err != nil {
			t.Fatalf("SubmitTransaction: %v", err)
		}
		// Second submission is a no-op, not an error.
		if err := SubmitTransaction(tx, transaction, 10); err != nil {
			t.Fatalf("SubmitTransaction (resubmit): %v", err)
		}
	})

	db.View(func(tx storage.Tx) error {
		bucket, err := getFeeBucket(tx, 10)
		if err != nil {
			t.Fatalf("getFeeBucket: %v", err)
		}
		if len(bucket) != 1 {
			t.Fatalf("bucket len = %d, want 1 (idempotent)", len(bucket))
		}
		return nil
	})
}

func TestCollectTransactionsFeeOrdering(t *testing.T) {
	db := storage.NewMemory()
	low := mkTx(0, 100)
	high := mkTx(1, 100)
	mid := mkTx(2, 100)

	withTx(t, db, func(tx storage.Tx) {
		SubmitTransaction(tx, low, 5)
		SubmitTransaction(tx, high, 50)
		SubmitTransaction(tx, mid, 20)
	})

	withTx(t, db, func(tx storage.Tx) {
		if err := CollectTransactions(tx, 1_000_000); err != nil {
			t.Fatalf("CollectTransactions: %v", err)
		}
	})

	db.View(func(tx storage.Tx) error {
		pending, err := GetPendingTransactions(tx)
		if err != nil {
			t.Fatalf("GetPendingTransactions: %v", err)
		}
		if len(pending) != 3 {
			t.Fatalf("pending count = %d, want 3", len(pending))
		}
		if pending[0].Hash() != high.Hash() {
			t.Errorf("first selected should be highest fee")
		}
		if pending[1].Hash() != mid.Hash() {
			t.Errorf("second selected should be mid fee")
		}
		if pending[2].Hash() != low.Hash() {
			t.Errorf("third selected should be lowest fee")
		}
		return nil
	})
}

func TestCollectTransactionsSkipsConflicts(t *testing.T) {
	db := storage.NewMemory()
	shared := types.NewDepositOutPoint(0)
	expensive := txpkg.New([]types.OutPoint{shared}, []types.Output{types.NewRegularOutput(addr(1), 100)})
	cheap := txpkg.New([]types.OutPoint{shared}, []types.Output{types.NewRegularOutput(addr(2), 100)})

	withTx(t, db, func(tx storage.Tx) {
		SubmitTransaction(tx, expensive, 50)
		SubmitTransaction(tx, cheap, 5)
		if err := CollectTransactions(tx, 1_000_000); err != nil {
			t.Fatalf("CollectTransactions: %v", err)
		}
	})

	db.View(func(tx storage.Tx) error {
		pending, err := GetPendingTransactions(tx)
		if err != nil {
			t.Fatalf("GetPendingTransactions: %v", err)
		}
		if len(pending) != 1 || pending[0].Hash() != expensive.Hash() {
			t.Fatalf("expected only the higher-fee transaction selected")
		}
		return nil
	})
}

func TestCollectTransactionsRespectsSizeLimit(t *testing.T) {
	db := storage.NewMemory()
	a := mkTx(0, 100)
	b := mkTx(1, 100)

	withTx(t, db, func(tx storage.Tx) {
		SubmitTransaction(tx, a, 50)
		SubmitTransaction(tx, b, 40)
	})

	limit := len(a.Bytes())
	withTx(t, db, func(tx storage.Tx) {
		if err := CollectTransactions(tx, limit); err != nil {
			t.Fatalf("CollectTransactions: %v", err)
		}
	})

	db.View(func(tx storage.Tx) error {
		pending, err := GetPendingTransactions(tx)
		if err != nil {
			t.Fatalf("GetPendingTransactions: %v", err)
		}
		if len(pending) != 1 {
			t.Fatalf("pending count = %d, want 1 under tight size limit", len(pending))
		}
		return nil
	})
}

func TestConnectClearsAndRemoves(t *testing.T) {
	db := storage.NewMemory()
	a := mkTx(0, 100)
	b := mkTx(1, 100)

	withTx(t, db, func(tx storage.Tx) {
		SubmitTransaction(tx, a, 10)
		SubmitTransaction(tx, b, 20)
		CollectTransactions(tx, 1_000_000)
	})

	withTx(t, db, func(tx storage.Tx) {
		if err := Connect(tx, []txpkg.Transaction{*a}); err != nil {
			t.Fatalf("Connect: %v", err)
		}
	})

	db.View(func(tx storage.Tx) error {
		pending, err := GetPendingTransactions(tx)
		if err != nil || len(pending) != 0 {
			t.Fatalf("pending after Connect = %v, err=%v, want empty", pending, err)
		}
		if _, err := tx.Get(byHashKey(a.Hash())); err == nil {
			t.Error("a should be removed from tx_by_hash")
		}
		bucket, _ := getFeeBucket(tx, 20)
		if len(bucket) != 1 {
			t.Errorf("b should still be in its fee bucket")
		}
		return nil
	})
}

func TestRemoveNotInMempool(t *testing.T) {
	db := storage.NewMemory()
	withTx(t, db, func(tx storage.Tx) {
		if err := Remove(tx, types.Hash{0x01}); err != ErrNotInMempool {
			t.Fatalf("err = %v, want ErrNotInMempool", err)
		}
	})
}
