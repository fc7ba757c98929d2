package utxo

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

func mainAddr(b byte) types.MainAddress {
	var a types.MainAddress
	for i := range a {
		a[i] = b
	}
	return a
}

func withTx(t *testing.T, db storage.DB, fn func(storage.Tx)) {
	t.Helper()
	err := db.Update(func(tx storage.Tx) error {
		fn(tx)
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestAddGetRemoveUTXO(t *testing.T) {
	db := storage.NewMemory()
	op := types.NewDepositOutPoint(0)
	out := types.NewRegularOutput(addr(1), 1000)

	withTx(t, db, func(tx storage.Tx) {
		if err := AddUTXO(tx, op, out); err != nil {
			t.Fatalf("AddUTXO: %v", err)
		}
	})

	db.View(func(tx storage.Tx) error {
		got, ok, err := GetUTXO(tx, op)
		if err != nil || !ok {
			t.Fatalf("GetUTXO: ok=%v err=%v", ok, err)
		}
		if got.Value != 1000 {
			t.Errorf("Value = %d, want 1000", got.Value)
		}
		return nil
	})

	withTx(t, db, func(tx storage.Tx) {
		if err := RemoveUTXO(tx, op); err != nil {
			t.Fatalf("RemoveUTXO: %v", err)
		}
	})

	db.View(func(tx storage.Tx) error {
		_, ok, _ := GetUTXO(tx, op)
		if ok {
			t.Error("expected UTXO removed")
		}
		return nil
	})
}

func TestGetUTXOSetAndIsEmpty(t *testing.T) {
	db := storage.NewMemory()

	db.View(func(tx storage.Tx) error {
		empty, err := IsEmpty(tx)
		if err != nil || !empty {
			t.Fatalf("IsEmpty = %v, %v, want true, nil", empty, err)
		}
		return nil
	})

	withTx(t, db, func(tx storage.Tx) {
		AddUTXO(tx, types.NewDepositOutPoint(0), types.NewRegularOutput(addr(1), 100))
		AddUTXO(tx, types.NewDepositOutPoint(1), types.NewRegularOutput(addr(2), 200))
	})

	db.View(func(tx storage.Tx) error {
		empty, _ := IsEmpty(tx)
		if empty {
			t.Error("expected non-empty set")
		}
		set, err := GetUTXOSet(tx)
		if err != nil {
			t.Fatalf("GetUTXOSet: %v", err)
		}
		if len(set) != 2 {
			t.Fatalf("len(set) = %d, want 2", len(set))
		}
		return nil
	})
}

func TestGetTransactionFee(t *testing.T) {
	db := storage.NewMemory()
	in := types.NewDepositOutPoint(0)
	withTx(t, db, func(tx storage.Tx) {
		AddUTXO(tx, in, types.NewRegularOutput(addr(1), 1000))
	})

	t.Run("OK", func(t *testing.T) {
		transaction := txpkg.New([]types.OutPoint{in}, []types.Output{types.NewRegularOutput(addr(2), 900)})
		db.View(func(tx storage.Tx) error {
			fee, err := GetTransactionFee(tx, transaction)
			if err != nil {
				t.Fatalf("GetTransactionFee: %v", err)
			}
			if fee != 100 {
				t.Errorf("fee = %d, want 100", fee)
			}
			return nil
		})
	})

	t.Run("MissingInput", func(t *testing.T) {
		missing := types.NewDepositOutPoint(99)
		transaction := txpkg.New([]types.OutPoint{missing}, []types.Output{types.NewRegularOutput(addr(2), 1)})
		db.View(func(tx storage.Tx) error {
			_, err := GetTransactionFee(tx, transaction)
			if err != ErrMissingInput {
				t.Fatalf("err = %v, want ErrMissingInput", err)
			}
			return nil
		})
	})

	t.Run("ValueOverflow", func(t *testing.T) {
		transaction := txpkg.New([]types.OutPoint{in}, []types.Output{types.NewRegularOutput(addr(2), 2000)})
		db.View(func(tx storage.Tx) error {
			_, err := GetTransactionFee(tx, transaction)
			if err != ErrValueOverflow {
				t.Fatalf("err = %v, want ErrValueOverflow", err)
			}
			return nil
		})
	})
}

func TestValidate(t *testing.T) {
	db := storage.NewMemory()
	in1 := types.NewDepositOutPoint(0)
	in2 := types.NewDepositOutPoint(1)
	withTx(t, db, func(tx storage.Tx) {
		AddUTXO(tx, in1, types.NewRegularOutput(addr(1), 1000))
		AddUTXO(tx, in2, types.NewRegularOutput(addr(1), 1000))
	})

	t.Run("OK", func(t *testing.T) {
		txs := []txpkg.Transaction{
			*txpkg.New([]types.OutPoint{in1}, []types.Output{types.NewRegularOutput(addr(2), 900)}),
		}
		coinbase := []types.Output{types.NewRegularOutput(addr(3), 100)}
		db.View(func(tx storage.Tx) error {
			ok, err := Validate(tx, coinbase, txs)
			if err != nil || !ok {
				t.Fatalf("Validate = %v, %v, want true, nil", ok, err)
			}
			return nil
		})
	})

	t.Run("DoubleSpendWithinBlock", func(t *testing.T) {
		txs := []txpkg.Transaction{
			*txpkg.New([]types.OutPoint{in1}, []types.Output{types.NewRegularOutput(addr(2), 500)}),
			*txpkg.New([]types.OutPoint{in1}, []types.Output{types.NewRegularOutput(addr(2), 500)}),
		}
		db.View(func(tx storage.Tx) error {
			ok, err := Validate(tx, nil, txs)
			if err != nil || ok {
				t.Fatalf("Validate = %v, %v, want false, nil", ok, err)
			}
			return nil
		})
	})

	t.Run("CoinbaseExceedsFees", func(t *testing.T) {
		txs := []txpkg.Transaction{
			*txpkg.New([]types.OutPoint{in2}, []types.Output{types.NewRegularOutput(addr(2), 950)}),
		}
		coinbase := []types.Output{types.NewRegularOutput(addr(3), 100)}
		db.View(func(tx storage.Tx) error {
			ok, err := Validate(tx, coinbase, txs)
			if err != nil || ok {
				t.Fatalf("Validate = %v, %v, want false, nil", ok, err)
			}
			return nil
		})
	})
}

func TestConnectDisconnectRoundTrip(t *testing.T) {
	db := storage.NewMemory()
	deposit := types.NewDepositOutPoint(0)
	withTx(t, db, func(tx storage.Tx) {
		AddUTXO(tx, deposit, types.NewRegularOutput(addr(1), 1000))
	})

	txs := []txpkg.Transaction{
		*txpkg.New([]types.OutPoint{deposit}, []types.Output{
			types.NewRegularOutput(addr(2), 900),
			types.NewWithdrawalOutput(addr(2), mainAddr(9), 50, 10),
		}),
	}
	coinbase := []types.Output{types.NewRegularOutput(addr(3), 40)}

	withTx(t, db, func(tx storage.Tx) {
		if err := Connect(tx, 1, coinbase, txs); err != nil {
			t.Fatalf("Connect: %v", err)
		}
	})

	db.View(func(tx storage.Tx) error {
		_, ok, _ := GetUTXO(tx, deposit)
		if ok {
			t.Error("deposit should be spent")
		}
		regular, ok, err := GetUTXO(tx, types.NewRegularOutPoint(0, 0))
		if err != nil || !ok || regular.Value != 900 {
			t.Fatalf("regular output missing or wrong: ok=%v err=%v val=%d", ok, err, regular.Value)
		}
		cb, ok, err := GetUTXO(tx, types.NewCoinbaseOutPoint(1, 0))
		if err != nil || !ok || cb.Value != 40 {
			t.Fatalf("coinbase output missing or wrong")
		}
		height, _ := GetSideBlockHeight(tx)
		if height != 1 {
			t.Errorf("side block height = %d, want 1", height)
		}
		txn, _ := GetTransactionNumber(tx)
		if txn != 1 {
			t.Errorf("transaction number = %d, want 1", txn)
		}
		return nil
	})

	withTx(t, db, func(tx storage.Tx) {
		if err := Disconnect(tx, 1, coinbase, txs); err != nil {
			t.Fatalf("Disconnect: %v", err)
		}
	})

	db.View(func(tx storage.Tx) error {
		restored, ok, err := GetUTXO(tx, deposit)
		if err != nil || !ok || restored.Value != 1000 {
			t.Fatalf("deposit not restored: ok=%v err=%v", ok, err)
		}
		if _, ok, _ := GetUTXO(tx, types.NewRegularOutPoint(0, 0)); ok {
			t.Error("regular output should be gone after disconnect")
		}
		height, _ := GetSideBlockHeight(tx)
		if height != 0 {
			t.Errorf("side block height = %d, want 0", height)
		}
		txn, _ := GetTransactionNumber(tx)
		if txn != 0 {
			t.Errorf("transaction number = %d, want 0", txn)
		}
		return nil
	})
}

func TestConnectOutputLimit(t *testing.T) {
	db := storage.NewMemory()
	coinbase := make([]types.Output, txpkg.MaxOutputsPerTx+1)
	for i := range coinbase {
		coinbase[i] = types.NewRegularOutput(addr(1), 1)
	}
	withTx(t, db, func(tx storage.Tx) {
		err := Connect(tx, 1, coinbase, nil)
		if err != ErrOutputLimit {
			t.Fatalf("err = %v, want ErrOutputLimit", err)
		}
	})
}

func TestCollectWithdrawalsLocksAllAndRejectsSecondCollect(t *testing.T) {
	db := storage.NewMemory()

	withTx(t, db, func(tx storage.Tx) {
		// Three withdrawals, deliberately inserted out of fee order.
		w1 := types.NewWithdrawalOutput(addr(1), mainAddr(1), 100, 30)
		w2 := types.NewWithdrawalOutput(addr(1), mainAddr(1), 100, 10)
		w3 := types.NewWithdrawalOutput(addr(1), mainAddr(1), 100, 20)
		op1 := types.NewRegularOutPoint(1, 0)
		op2 := types.NewRegularOutPoint(2, 0)
		op3 := types.NewRegularOutPoint(3, 0)
		for _, p := range []struct {
			op  types.OutPoint
			out types.Output
		}{{op1, w1}, {op2, w2}, {op3, w3}} {
			AddUTXO(tx, p.op, p.out)
			tx.Put(unlockedKey(p.op), nil)
		}
	})

	withTx(t, db, func(tx storage.Tx) {
		if err := CollectWithdrawals(tx); err != nil {
			t.Fatalf("CollectWithdrawals: %v", err)
		}
	})

	db.View(func(tx storage.Tx) error {
		var order []uint64
		tx.ForEach(prefixLocked, func(key, _ []byte) error {
			op, err := types.DecodeOutPointBytes(key[len(prefixLocked):])
			if err != nil {
				return err
			}
			order = append(order, op.TransactionNumber)
			return nil
		})
		if len(order) != 3 {
			t.Fatalf("locked count = %d, want 3", len(order))
		}
		empty, _ := func() (bool, error) {
			nonEmpty := false
			tx.ForEach(prefixUnlocked, func(key, _ []byte) error {
				nonEmpty = true
				return nil
			})
			return !nonEmpty, nil
		}()
		if !empty {
			t.Error("unlocked set should be empty after collect")
		}
		return nil
	})

	// A second collect while the bundle is still locked must fail.
	withTx(t, db, func(tx storage.Tx) {
		if err := CollectWithdrawals(tx); err != ErrBundlePending {
			t.Fatalf("err = %v, want ErrBundlePending", err)
		}
	})
}

func TestSucceedAndFailBundle(t *testing.T) {
	t.Run("Succeed", func(t *testing.T) {
		db := storage.NewMemory()
		op := types.NewRegularOutPoint(1, 0)
		w := types.NewWithdrawalOutput(addr(1), mainAddr(1), 100, 10)
		withTx(t, db, func(tx storage.Tx) {
			AddUTXO(tx, op, w)
			tx.Put(lockedKey(op), nil)
		})
		withTx(t, db, func(tx storage.Tx) {
			if err := SucceedBundle(tx); err != nil {
				t.Fatalf("SucceedBundle: %v", err)
			}
		})
		db.View(func(tx storage.Tx) error {
			if _, ok, _ := GetUTXO(tx, op); ok {
				t.Error("withdrawal UTXO should be removed")
			}
			nonEmpty, _ := isLockedNonEmpty(tx)
			if nonEmpty {
				t.Error("locked set should be cleared")
			}
			return nil
		})
	})

	t.Run("Fail", func(t *testing.T) {
		db := storage.NewMemory()
		op := types.NewRegularOutPoint(1, 0)
		w := types.NewWithdrawalOutput(addr(1), mainAddr(1), 100, 10)
		withTx(t, db, func(tx storage.Tx) {
			AddUTXO(tx, op, w)
			tx.Put(lockedKey(op), nil)
		})
		withTx(t, db, func(tx storage.Tx) {
			if err := FailBundle(tx); err != nil {
				t.Fatalf("FailBundle: %v", err)
			}
		})
		db.View(func(tx storage.Tx) error {
			refund, ok, err := GetUTXO(tx, op)
			if err != nil || !ok {
				t.Fatalf("refund UTXO missing: %v", err)
			}
			if refund.Kind != types.OutputRegular || refund.Value != 110 {
				t.Fatalf("refund = %+v, want Regular value 110", refund)
			}
			nonEmpty, _ := isLockedNonEmpty(tx)
			if nonEmpty {
				t.Error("locked set should be cleared")
			}
			return nil
		})
	})
}

func TestCursors(t *testing.T) {
	db := storage.NewMemory()
	hash := [32]byte{}
	for i := range hash {
		hash[i] = 0xAB
	}

	withTx(t, db, func(tx storage.Tx) {
		SetMainBlockHeight(tx, 100)
		SetMainChainTip(tx, types.Hash(hash))
		SetSideBlockHeight(tx, 5)
		SetTransactionNumber(tx, 42)
	})

	db.View(func(tx storage.Tx) error {
		h, _ := GetMainBlockHeight(tx)
		if h != 100 {
			t.Errorf("main height = %d, want 100", h)
		}
		tipGot, _ := GetMainChainTip(tx)
		if tipGot != types.Hash(hash) {
			t.Errorf("tip = %v, want %v", tipGot, hash)
		}
		sh, _ := GetSideBlockHeight(tx)
		if sh != 5 {
			t.Errorf("side height = %d, want 5", sh)
		}
		txn, _ := GetTransactionNumber(tx)
		if txn != 42 {
			t.Errorf("transaction number = %d, want 42", txn)
		}
		return nil
	})
}
