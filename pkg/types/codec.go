package types

import (
	"encoding/binary"
	"fmt"
)

// ErrUnknownTag is returned when decoding a sum type whose tag byte does not
// match any known variant. Implementations must reject unknown tags rather
// than guess at forward-compatible behavior.
var ErrUnknownTag = fmt.Errorf("unknown tag byte")

// ErrShortBuffer is returned when a decode reads past the end of the input.
var ErrShortBuffer = fmt.Errorf("buffer too short")

// Canonical binary encoding: every composite key/value used by the stores
// and the client-facing boundary is built from these primitives. Multi-byte
// integers are big-endian so that fixed-width encodings sort the same way
// numerically and lexicographically — required for the "descending fee" /
// "greatest block number" ordered lookups the stores depend on.

// AppendUint8 appends a single byte.
func AppendUint8(b []byte, v uint8) []byte {
	return append(b, v)
}

// AppendUint32 appends a big-endian uint32.
func AppendUint32(b []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(b, v)
}

// AppendUint64 appends a big-endian uint64.
func AppendUint64(b []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(b, v)
}

// AppendFixed appends a fixed-width field verbatim (hashes, addresses).
func AppendFixed(b []byte, data []byte) []byte {
	return append(b, data...)
}

// AppendBytes appends a length-prefixed variable-width field.
func AppendBytes(b []byte, data []byte) []byte {
	b = AppendUint32(b, uint32(len(data)))
	return append(b, data...)
}

// Decoder reads values off a byte slice in the same order Append* wrote
// them, advancing an internal cursor and reporting short reads.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder wraps buf for sequential decoding.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining reports how many bytes are left to read.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

func (d *Decoder) need(n int) error {
	if d.Remaining() < n {
		return ErrShortBuffer
	}
	return nil
}

// ReadUint8 reads a single byte.
func (d *Decoder) ReadUint8() (uint8, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	v := d.buf[d.pos]
	d.pos++
	return v, nil
}

// ReadUint32 reads a big-endian uint32.
func (d *Decoder) ReadUint32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(d.buf[d.pos:])
	d.pos += 4
	return v, nil
}

// ReadUint64 reads a big-endian uint64.
func (d *Decoder) ReadUint64() (uint64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(d.buf[d.pos:])
	d.pos += 8
	return v, nil
}

// ReadFixed reads exactly n bytes verbatim.
func (d *Decoder) ReadFixed(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	v := d.buf[d.pos : d.pos+n]
	d.pos += n
	return v, nil
}

// ReadBytes reads a length-prefixed variable-width field.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}
	return d.ReadFixed(int(n))
}

// ReadHash reads a fixed 32-byte hash.
func (d *Decoder) ReadHash() (Hash, error) {
	b, err := d.ReadFixed(HashSize)
	if err != nil {
		return Hash{}, err
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// ReadAddress reads a fixed 20-byte sidechain address.
func (d *Decoder) ReadAddress() (Address, error) {
	b, err := d.ReadFixed(AddressSize)
	if err != nil {
		return Address{}, err
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// ReadMainAddress reads a fixed 20-byte parent-chain address.
func (d *Decoder) ReadMainAddress() (MainAddress, error) {
	b, err := d.ReadFixed(AddressSize)
	if err != nil {
		return MainAddress{}, err
	}
	var a MainAddress
	copy(a[:], b)
	return a, nil
}
