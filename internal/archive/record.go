package archive

import (
	"github.com/sidechain-labs/bmmd/pkg/block"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// headerRecord pairs a header with the half-open [TxStart, TxEnd) range of
// global transaction indices it owns.
type headerRecord struct {
	Header  *block.Header
	TxStart uint64
	TxEnd   uint64
}

func (r *headerRecord) encode() []byte {
	var b []byte
	b = types.AppendFixed(b, r.Header.SigningBytes())
	b = types.AppendUint64(b, r.TxStart)
	b = types.AppendUint64(b, r.TxEnd)
	return b
}

func decodeHeaderRecord(raw []byte) (*headerRecord, error) {
	d := types.NewDecoder(raw)
	h, err := block.DecodeHeader(d)
	if err != nil {
		return nil, err
	}
	start, err := d.ReadUint64()
	if err != nil {
		return nil, err
	}
	end, err := d.ReadUint64()
	if err != nil {
		return nil, err
	}
	return &headerRecord{Header: h, TxStart: start, TxEnd: end}, nil
}

func encodeCoinbase(outputs []types.Output) []byte {
	var b []byte
	b = types.AppendUint32(b, uint32(len(outputs)))
	for _, o := range outputs {
		b = types.AppendBytes(b, o.Bytes())
	}
	return b
}

func decodeCoinbase(raw []byte) ([]types.Output, error) {
	d := types.NewDecoder(raw)
	count, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}
	outputs := make([]types.Output, count)
	for i := range outputs {
		ob, err := d.ReadBytes()
		if err != nil {
			return nil, err
		}
		out, err := types.DecodeOutputBytes(ob)
		if err != nil {
			return nil, err
		}
		outputs[i] = out
	}
	return outputs, nil
}
