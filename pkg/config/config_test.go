package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault315Validates(t *testing.T) {
	cfg := Default315()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, Band315MHz, cfg.FrequencyHz)
}

func TestValidateRejectsOutOfBandFrequency(t *testing.T) {
	cfg := Default315()
	cfg.FrequencyHz = 299999999
	assert.Error(t, cfg.Validate())

	cfg.FrequencyHz = 928000001
	assert.Error(t, cfg.Validate())

	cfg.FrequencyHz = Band868MHz
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownEnums(t *testing.T) {
	cfg := Default315()
	cfg.Modulation = "psk"
	assert.Error(t, cfg.Validate())

	cfg = Default315()
	cfg.Power = "max"
	assert.Error(t, cfg.Validate())
}

func TestPATableIndex(t *testing.T) {
	assert.Equal(t, uint8(0), PowerLow.PATableIndex())
	assert.Equal(t, uint8(4), PowerMedium.PATableIndex())
	assert.Equal(t, uint8(7), PowerHigh.PATableIndex())
	assert.Equal(t, uint8(0), PowerLevel("bogus").PATableIndex())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fob", "radio.json")
	original := Default315()
	original.Power = PowerMedium

	require.NoError(t, SaveToFile(original, path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radio.json")
	bad := &Transceiver{FrequencyHz: 100, Modulation: ModulationOOK, Power: PowerHigh}
	require.NoError(t, SaveToFile(bad, path))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}
