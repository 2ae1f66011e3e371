// Package profiles holds the canned CC1101 register tables for the supported
// radio setups. Each profile exists in two storage forms: a struct slice for
// direct access, and a packed read-only image embedded from a table file for
// targets where configuration data must not live in mutable memory. Both
// decode to the same entries.
package profiles

import (
	_ "embed"
	"fmt"

	"github.com/sorianoartal/Door-Garage-Opener/pkg/config"
	"github.com/sorianoartal/Door-Garage-Opener/pkg/registers"
)

// Settings315OOK configures the chip for 315 MHz OOK with asynchronous serial
// TX on GDO0. Entries are applied in order; calibration and test registers
// (FSCAL*, DEVIATN, PKTLEN) skip verification because the chip updates them on
// its own.
var Settings315OOK = registers.SliceSource{
	{Addr: registers.RegIOCFG0, Value: 0x2E, Verify: true},   // GDO0 high impedance, driven by serial TX data
	{Addr: registers.RegFIFOTHR, Value: 0x07, Verify: true},  // FIFO thresholds at reset defaults
	{Addr: registers.RegPKTLEN, Value: 0xFF, Verify: false},  // irrelevant in async serial mode
	{Addr: registers.RegPKTCTRL0, Value: 0x32, Verify: true}, // async serial mode, infinite packet length
	{Addr: registers.RegFSCTRL1, Value: 0x06, Verify: true},
	{Addr: registers.RegFSCTRL0, Value: 0x00, Verify: true},
	{Addr: registers.RegFREQ2, Value: 0x0C, Verify: true}, // 315 MHz carrier
	{Addr: registers.RegFREQ1, Value: 0x1C, Verify: true},
	{Addr: registers.RegFREQ0, Value: 0xEC, Verify: true},
	{Addr: registers.RegMDMCFG4, Value: 0xF5, Verify: true},
	{Addr: registers.RegMDMCFG3, Value: 0x83, Verify: true},
	{Addr: registers.RegMDMCFG2, Value: 0x30, Verify: true}, // ASK/OOK, no sync word
	{Addr: registers.RegMDMCFG1, Value: 0x02, Verify: true},
	{Addr: registers.RegDEVIATN, Value: 0x15, Verify: false}, // unused for OOK
	{Addr: registers.RegMCSM1, Value: 0x30, Verify: true},    // return to IDLE after TX
	{Addr: registers.RegMCSM0, Value: 0x18, Verify: true},    // calibrate on IDLE to TX
	{Addr: registers.RegWORCTRL, Value: 0xFB, Verify: true},
	{Addr: registers.RegFREND1, Value: 0xB6, Verify: true},
	{Addr: registers.RegFREND0, Value: 0x11, Verify: true}, // PA power setting, PATABLE index 1
	{Addr: registers.RegFSCAL3, Value: 0xE9, Verify: false},
	{Addr: registers.RegFSCAL2, Value: 0x2A, Verify: false},
	{Addr: registers.RegFSCAL1, Value: 0x00, Verify: false},
	{Addr: registers.RegFSCAL0, Value: 0x1F, Verify: false},
}

// PATable315 is the 8-entry power amplifier ramp for the 315 MHz band, lowest
// output power first.
var PATable315 = [8]byte{0x03, 0x0D, 0x1C, 0x34, 0x51, 0x85, 0xC8, 0xC0}

//go:embed cc1101_315_ook.bin
var packed315OOK []byte

// Packed315OOK returns the 315 MHz OOK table decoded from the embedded
// read-only image. It yields the same entries as Settings315OOK.
func Packed315OOK() registers.PackedSource {
	return registers.PackedSource(packed315OOK)
}

// ForTransceiver picks the register table and PA ramp matching a transceiver
// configuration. Only the 315 MHz OOK profile is defined today; other bands
// return an error rather than a silently wrong table.
func ForTransceiver(cfg *config.Transceiver) (registers.Source, [8]byte, error) {
	if cfg.Modulation != config.ModulationOOK {
		return nil, [8]byte{}, fmt.Errorf("no profile for modulation %q", cfg.Modulation)
	}
	if cfg.FrequencyHz != config.Band315MHz {
		return nil, [8]byte{}, fmt.Errorf("no OOK profile for %d Hz", cfg.FrequencyHz)
	}
	return Settings315OOK, PATable315, nil
}
