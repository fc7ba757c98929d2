package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAddress_IsZero(t *testing.T) {
	var zero Address
	if !zero.IsZero() {
		t.Error("zero-value Address should be zero")
	}

	nonZero := Address{0x01}
	if nonZero.IsZero() {
		t.Error("non-zero Address should not be zero")
	}
}

func TestAddress_String(t *testing.T) {
	oldHRP := activeHRP
	defer func() { activeHRP = oldHRP }()

	SetAddressHRP(MainnetHRP)

	var a Address
	s := a.String()
	if !strings.HasPrefix(s, "side1") {
		t.Errorf("String() should start with 'side1', got %s", s)
	}

	a[0] = 0xab
	a[19] = 0xcd
	s = a.String()
	if !strings.HasPrefix(s, "side1") {
		t.Errorf("String() should start with 'side1', got %s", s)
	}
}

func TestAddress_String_Testnet(t *testing.T) {
	oldHRP := activeHRP
	defer func() { activeHRP = oldHRP }()

	SetAddressHRP(TestnetHRP)
	var a Address
	s := a.String()
	if !strings.HasPrefix(s, "tside1") {
		t.Errorf("String() should start with 'tside1', got %s", s)
	}
}

func TestParseAddress_RoundTrip(t *testing.T) {
	var a Address
	a[0] = 0xab
	a[19] = 0xcd

	encoded := a.String()
	parsed, err := ParseAddress(encoded)
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if parsed != a {
		t.Errorf("round-trip mismatch: got %s, want %s", parsed, a)
	}
}

func TestParseAddress_Hex(t *testing.T) {
	rawHex := strings.Repeat("ab", AddressSize)
	a, err := ParseAddress(rawHex)
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if a.Hex() != rawHex {
		t.Errorf("Hex() = %s, want %s", a.Hex(), rawHex)
	}
}

func TestParseAddress_Errors(t *testing.T) {
	cases := []string{"", "kgx1invalid!!!", "abcd"}
	for _, c := range cases {
		if _, err := ParseAddress(c); err == nil {
			t.Errorf("ParseAddress(%q) expected error", c)
		}
	}
}

func TestAddress_MarshalJSON(t *testing.T) {
	oldHRP := activeHRP
	defer func() { activeHRP = oldHRP }()
	SetAddressHRP(MainnetHRP)

	var a Address
	a[0] = 0xab
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), "side1") {
		t.Errorf("marshaled address should contain 'side1', got %s", data)
	}

	var got Address
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != a {
		t.Errorf("round-trip mismatch: got %s, want %s", got, a)
	}
}

func TestHexToAddress_WrongLength(t *testing.T) {
	if _, err := HexToAddress("abcd"); err == nil {
		t.Error("expected error for short hex string")
	}
}

func TestMainAddress_IsZero(t *testing.T) {
	var zero MainAddress
	if !zero.IsZero() {
		t.Error("zero-value MainAddress should be zero")
	}
}

func TestMainAddress_JSONRoundTrip(t *testing.T) {
	var m MainAddress
	m[0] = 0x42
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got MainAddress
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != m {
		t.Errorf("round-trip mismatch: got %v, want %v", got, m)
	}
}
