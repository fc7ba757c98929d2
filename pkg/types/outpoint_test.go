package types

import "testing"

func TestOutPoint_EncodeDecode_Regular(t *testing.T) {
	o := NewRegularOutPoint(42, 3)
	b := o.Bytes()

	got, err := DecodeOutPointBytes(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != o {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, o)
	}
	if got.String() != "r:42:3" {
		t.Errorf("String() = %s, want r:42:3", got.String())
	}
}

func TestOutPoint_EncodeDecode_Deposit(t *testing.T) {
	o := NewDepositOutPoint(7)
	got, err := DecodeOutPointBytes(o.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != o {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, o)
	}
	if got.String() != "d:7" {
		t.Errorf("String() = %s, want d:7", got.String())
	}
}

func TestOutPoint_EncodeDecode_Coinbase(t *testing.T) {
	o := NewCoinbaseOutPoint(12, 0)
	got, err := DecodeOutPointBytes(o.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != o {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, o)
	}
	if got.String() != "c:12:0" {
		t.Errorf("String() = %s, want c:12:0", got.String())
	}
}

func TestDecodeOutPoint_UnknownTag(t *testing.T) {
	b := []byte{0xff, 0, 0, 0, 0, 0, 0, 0, 0}
	if _, err := DecodeOutPointBytes(b); err == nil {
		t.Error("expected error decoding unknown outpoint tag")
	}
}

func TestDecodeOutPoint_ShortBuffer(t *testing.T) {
	o := NewRegularOutPoint(1, 2)
	b := o.Bytes()
	if _, err := DecodeOutPointBytes(b[:len(b)-1]); err == nil {
		t.Error("expected error decoding truncated outpoint")
	}
}

func TestOutPoint_DistinctVariantsDifferentEncoding(t *testing.T) {
	regular := NewRegularOutPoint(0, 0)
	deposit := NewDepositOutPoint(0)
	coinbase := NewCoinbaseOutPoint(0, 0)

	if string(regular.Bytes()) == string(deposit.Bytes()) {
		t.Error("regular and deposit outpoints with matching numeric fields must encode differently")
	}
	if string(regular.Bytes()) == string(coinbase.Bytes()) {
		t.Error("regular and coinbase outpoints with matching numeric fields must encode differently")
	}
}
