// Package config defines the transceiver configuration the firmware is built
// around: carrier frequency, modulation scheme and transmit power, loadable
// from a JSON file.
package config

import "fmt"

// Carrier frequencies of the common sub-GHz ISM bands, in Hz.
const (
	Band315MHz uint32 = 315000000
	Band433MHz uint32 = 433920000
	Band868MHz uint32 = 868000000
)

// Bounds of the CC1101 frequency synthesizer.
const (
	MinFrequencyHz uint32 = 300000000
	MaxFrequencyHz uint32 = 928000000
)

// Modulation names a modulation scheme.
type Modulation string

const (
	ModulationOOK  Modulation = "ook"
	Modulation2FSK Modulation = "2fsk"
)

// PowerLevel names a coarse transmit power step. Each maps to an index into
// the 8-entry PA ramp table.
type PowerLevel string

const (
	PowerLow    PowerLevel = "low"
	PowerMedium PowerLevel = "medium"
	PowerHigh   PowerLevel = "high"
)

// PATableIndex maps a power level to its PA ramp entry. Unknown levels fall
// back to the lowest power rather than blasting at full output.
func (p PowerLevel) PATableIndex() uint8 {
	switch p {
	case PowerLow:
		return 0
	case PowerMedium:
		return 4
	case PowerHigh:
		return 7
	}
	return 0
}

// Transceiver is the radio configuration for one fob.
type Transceiver struct {
	FrequencyHz uint32     `json:"frequency_hz"`
	Modulation  Modulation `json:"modulation"`
	Power       PowerLevel `json:"power"`
}

// Default315 returns the factory configuration: 315 MHz OOK at full power,
// matching the fixed-code receivers the fob targets.
func Default315() *Transceiver {
	return &Transceiver{
		FrequencyHz: Band315MHz,
		Modulation:  ModulationOOK,
		Power:       PowerHigh,
	}
}

// Validate checks the configuration against the synthesizer range and the
// known enum values.
func (t *Transceiver) Validate() error {
	if t.FrequencyHz < MinFrequencyHz || t.FrequencyHz > MaxFrequencyHz {
		return fmt.Errorf("frequency %d Hz outside synthesizer range %d-%d Hz",
			t.FrequencyHz, MinFrequencyHz, MaxFrequencyHz)
	}
	switch t.Modulation {
	case ModulationOOK, Modulation2FSK:
	default:
		return fmt.Errorf("unknown modulation %q", t.Modulation)
	}
	switch t.Power {
	case PowerLow, PowerMedium, PowerHigh:
	default:
		return fmt.Errorf("unknown power level %q", t.Power)
	}
	return nil
}
