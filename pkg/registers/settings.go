package registers

import "fmt"

// Setting is one entry of a configuration batch: a register address, the value
// to write, and whether the register reads back reliably enough to verify.
// Calibration registers are written-only; verifying them would compare against
// chip-updated values.
type Setting struct {
	Addr   uint8
	Value  uint8
	Verify bool
}

// Source yields configuration entries one at a time. The accessor is chosen
// when the table is constructed: a SliceSource reads structs straight out of
// memory, a PackedSource decodes records from a read-only byte image (e.g. an
// embedded table file).
type Source interface {
	Len() int
	At(i int) (Setting, error)
}

// SliceSource serves settings directly from an in-memory slice.
type SliceSource []Setting

func (s SliceSource) Len() int { return len(s) }

func (s SliceSource) At(i int) (Setting, error) {
	if i < 0 || i >= len(s) {
		return Setting{}, fmt.Errorf("setting index %d out of range (%d entries)", i, len(s))
	}
	return s[i], nil
}

// packedRecordLen is the size of one PackedSource record: address, value,
// flags. Bit 0 of the flags byte is the verify flag.
const packedRecordLen = 3

// PackedSource serves settings from a packed read-only image of 3-byte
// records. The image is decoded per access, never copied out wholesale.
type PackedSource []byte

func (p PackedSource) Len() int { return len(p) / packedRecordLen }

func (p PackedSource) At(i int) (Setting, error) {
	if len(p)%packedRecordLen != 0 {
		return Setting{}, fmt.Errorf("packed settings image truncated: %d bytes", len(p))
	}
	if i < 0 || i >= p.Len() {
		return Setting{}, fmt.Errorf("setting index %d out of range (%d entries)", i, p.Len())
	}
	rec := p[i*packedRecordLen:]
	return Setting{
		Addr:   rec[0],
		Value:  rec[1],
		Verify: rec[2]&0x01 != 0,
	}, nil
}

// Packed renders the slice as a PackedSource image, the inverse of
// PackedSource.At. Used to generate embedded table files and by tests to
// cross-check the two storage forms.
func (s SliceSource) Packed() PackedSource {
	out := make(PackedSource, 0, len(s)*packedRecordLen)
	for _, st := range s {
		flags := uint8(0)
		if st.Verify {
			flags |= 0x01
		}
		out = append(out, st.Addr, st.Value, flags)
	}
	return out
}
