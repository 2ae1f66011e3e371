package registers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackedRoundTrip(t *testing.T) {
	src := SliceSource{
		{Addr: RegIOCFG0, Value: 0x2E, Verify: true},
		{Addr: RegFSCAL3, Value: 0xE9, Verify: false},
		{Addr: RegFREND0, Value: 0x11, Verify: true},
	}

	packed := src.Packed()
	require.Equal(t, src.Len(), packed.Len())

	for i := 0; i < src.Len(); i++ {
		want, err := src.At(i)
		require.NoError(t, err)
		got, err := packed.At(i)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPackedSourceRejectsBadIndex(t *testing.T) {
	p := PackedSource{0x02, 0x2E, 0x01}
	_, err := p.At(1)
	assert.Error(t, err)
	_, err = p.At(-1)
	assert.Error(t, err)
}

func TestSliceSourceRejectsBadIndex(t *testing.T) {
	s := SliceSource{{Addr: RegIOCFG0, Value: 0x2E, Verify: true}}
	_, err := s.At(1)
	assert.Error(t, err)
}

func TestDecodeStatus(t *testing.T) {
	info := DecodeStatus(0x2F)
	assert.Equal(t, StateTX, info.ChipState)
	assert.Equal(t, uint8(15), info.FIFOBytes)
	assert.Equal(t, "CHIP STATE: TX (0x02), FIFO Bytes: 15", info.String())

	idle := DecodeStatus(0x00)
	assert.Equal(t, StateIdle, idle.ChipState)
	assert.Equal(t, "IDLE", idle.ChipState.String())
}
