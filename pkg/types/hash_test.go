package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestHash_IsZero(t *testing.T) {
	var zero Hash
	if !zero.IsZero() {
		t.Error("zero-value Hash should be zero")
	}

	nonZero := Hash{0x01}
	if nonZero.IsZero() {
		t.Error("non-zero Hash should not be zero")
	}
}

func TestHash_String(t *testing.T) {
	var h Hash
	s := h.String()
	if len(s) != 64 {
		t.Errorf("String() length = %d, want 64", len(s))
	}
	if s != strings.Repeat("0", 64) {
		t.Errorf("zero hash String() = %s, want all zeros", s)
	}

	h[0] = 0xab
	if !strings.HasPrefix(h.String(), "ab") {
		t.Errorf("String() = %s, expected to start with 'ab'", h.String())
	}
}

func TestHash_Bytes(t *testing.T) {
	h := Hash{0x01, 0x02}
	b := h.Bytes()
	if len(b) != HashSize {
		t.Fatalf("Bytes() length = %d, want %d", len(b), HashSize)
	}
	b[0] = 0xff
	if h[0] == 0xff {
		t.Error("Bytes() should return a copy, not share storage")
	}
}

func TestHash_JSONRoundTrip(t *testing.T) {
	h, err := HexToHash(strings.Repeat("ab", HashSize))
	if err != nil {
		t.Fatalf("HexToHash: %v", err)
	}

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Hash
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != h {
		t.Errorf("round-trip mismatch: got %s, want %s", got, h)
	}
}

func TestHash_UnmarshalJSON_Empty(t *testing.T) {
	var h Hash
	h[0] = 0xff
	if err := json.Unmarshal([]byte(`""`), &h); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !h.IsZero() {
		t.Error("empty string should decode to the zero hash")
	}
}

func TestHexToHash_WrongLength(t *testing.T) {
	if _, err := HexToHash("abcd"); err == nil {
		t.Error("expected error for short hex string")
	}
}
