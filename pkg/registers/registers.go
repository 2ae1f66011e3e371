// Package registers names the CC1101 configuration register space, the strobe
// command set and the status byte layout, and provides the bulk configuration
// applier used to bring the chip from reset into a working TX setup.
package registers

import "fmt"

// Configuration and status register addresses (CC1101 datasheet table 45).
// Status registers (0x30 and up) share the address space with the command
// strobes; the access-type bits in the header byte disambiguate.
const (
	RegIOCFG0    = 0x02 // GDO0 output pin configuration
	RegFIFOTHR   = 0x03 // RX/TX FIFO thresholds
	RegPKTLEN    = 0x06 // Maximum packet length (unused in async serial mode)
	RegPKTCTRL0  = 0x08 // Packet automation control
	RegFSCTRL1   = 0x0B // Frequency synthesizer control, IF frequency
	RegFSCTRL0   = 0x0C // Frequency synthesizer control, frequency offset
	RegFREQ2     = 0x0D // Frequency control word, high byte
	RegFREQ1     = 0x0E // Frequency control word, middle byte
	RegFREQ0     = 0x0F // Frequency control word, low byte
	RegMDMCFG4   = 0x10 // Modem configuration, channel bandwidth
	RegMDMCFG3   = 0x11 // Modem configuration, data rate mantissa
	RegMDMCFG2   = 0x12 // Modem configuration, modulation format
	RegMDMCFG1   = 0x13 // Modem configuration, preamble / channel spacing
	RegDEVIATN   = 0x15 // Frequency deviation (FSK only)
	RegMCSM1     = 0x17 // Radio state machine, next state after RX/TX
	RegMCSM0     = 0x18 // Radio state machine, calibration policy
	RegWORCTRL   = 0x20 // Wake-on-radio control
	RegFREND1    = 0x21 // Front end RX configuration
	RegFREND0    = 0x22 // Front end TX configuration, PATABLE index in bits 2:0
	RegFSCAL3    = 0x23 // Frequency synthesizer calibration
	RegFSCAL2    = 0x24 // Frequency synthesizer calibration
	RegFSCAL1    = 0x25 // Frequency synthesizer calibration
	RegFSCAL0    = 0x26 // Frequency synthesizer calibration
	RegPARTNUM   = 0x30 // Chip part number, reads 0x00
	RegVERSION   = 0x31 // Chip version, reads 0x14
	RegMARCSTATE = 0x35 // Radio control state machine state
	RegPATABLE   = 0x3E // Power amplifier table, 8 entries via burst access
)

// FREND0 bits 2:0 select the active PATABLE entry.
const PAPowerMask = 0x07

// Command strobes (CC1101 datasheet table 42). One byte, no arguments; each
// triggers a state transition in the radio control state machine.
const (
	StrobeSRES    = 0x30 // Reset chip
	StrobeSFSTXON = 0x31 // Enable and calibrate frequency synthesizer
	StrobeSXOFF   = 0x32 // Turn off crystal oscillator
	StrobeSCAL    = 0x33 // Calibrate frequency synthesizer and turn it off
	StrobeSRX     = 0x34 // Enable RX
	StrobeSTX     = 0x35 // Enable TX
	StrobeSIDLE   = 0x36 // Exit RX/TX, turn off frequency synthesizer
	StrobeSWOR    = 0x38 // Start wake-on-radio polling
	StrobeSPWD    = 0x39 // Enter power-down mode
	StrobeSFRX    = 0x3A // Flush RX FIFO
	StrobeSFTX    = 0x3B // Flush TX FIFO
	StrobeSWORRST = 0x3C // Reset wake-on-radio timer
	StrobeSNOP    = 0x3D // No operation, fetches the status byte
)

// MARCSTATE values of interest for the TX state machine.
const (
	MarcStateIdle = 0x01
	MarcStateTX   = 0x13
)

// Identity values re-read after configuration to confirm the chip is alive.
const (
	PartNumExpected = 0x00
	VersionExpected = 0x14
)

// ChipState is the radio state reported in bits 7-4 of every status byte.
type ChipState uint8

const (
	StateIdle            ChipState = 0x00
	StateRX              ChipState = 0x01
	StateTX              ChipState = 0x02
	StateFSTXON          ChipState = 0x03
	StateCalibrate       ChipState = 0x04
	StateSettling        ChipState = 0x05
	StateRXFIFOOverflow  ChipState = 0x06
	StateTXFIFOUnderflow ChipState = 0x07
)

// String returns a human-readable name for the chip state.
func (s ChipState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRX:
		return "RX"
	case StateTX:
		return "TX"
	case StateFSTXON:
		return "FSTXON"
	case StateCalibrate:
		return "CALIBRATE"
	case StateSettling:
		return "SETTLING"
	case StateRXFIFOOverflow:
		return "RXFIFO_OVERFLOW"
	case StateTXFIFOUnderflow:
		return "TXFIFO_UNDERFLOW"
	}
	return "UNKNOWN"
}

// StatusInfo is the decoded form of a chip status byte: the radio state in
// bits 7-4 and the FIFO byte count in bits 3-0.
type StatusInfo struct {
	ChipState ChipState
	FIFOBytes uint8
}

// DecodeStatus splits a status byte into its chip state and FIFO count.
func DecodeStatus(status uint8) StatusInfo {
	return StatusInfo{
		ChipState: ChipState((status >> 4) & 0x0F),
		FIFOBytes: status & 0x0F,
	}
}

// String formats the status for diagnostics, e.g. "CHIP STATE: TX (0x02), FIFO Bytes: 0".
func (s StatusInfo) String() string {
	return fmt.Sprintf("CHIP STATE: %s (0x%02X), FIFO Bytes: %d", s.ChipState, uint8(s.ChipState), s.FIFOBytes)
}
