package profiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorianoartal/Door-Garage-Opener/pkg/config"
	"github.com/sorianoartal/Door-Garage-Opener/pkg/registers"
)

func TestPackedImageMatchesSliceTable(t *testing.T) {
	packed := Packed315OOK()
	require.Equal(t, Settings315OOK.Len(), packed.Len())

	for i := 0; i < packed.Len(); i++ {
		want, err := Settings315OOK.At(i)
		require.NoError(t, err)
		got, err := packed.At(i)
		require.NoError(t, err)
		assert.Equal(t, want, got, "entry %d", i)
	}
}

func TestSettings315CarrierWord(t *testing.T) {
	// The static table carries the canonical 315 MHz frequency word.
	byAddr := make(map[uint8]uint8)
	for _, s := range Settings315OOK {
		byAddr[s.Addr] = s.Value
	}
	assert.Equal(t, uint8(0x0C), byAddr[registers.RegFREQ2])
	assert.Equal(t, uint8(0x1C), byAddr[registers.RegFREQ1])
	assert.Equal(t, uint8(0xEC), byAddr[registers.RegFREQ0])
}

func TestForTransceiver(t *testing.T) {
	cfg := &config.Transceiver{
		FrequencyHz: config.Band315MHz,
		Modulation:  config.ModulationOOK,
		Power:       config.PowerHigh,
	}
	src, pa, err := ForTransceiver(cfg)
	require.NoError(t, err)
	assert.Equal(t, Settings315OOK.Len(), src.Len())
	assert.Equal(t, PATable315, pa)

	cfg.FrequencyHz = config.Band433MHz
	_, _, err = ForTransceiver(cfg)
	assert.Error(t, err)
}
