// Package cc1101 is the device controller for the CC1101 sub-GHz transceiver:
// reset and bring-up, bulk configuration, frequency and power control, and
// keying code frames out through an external bit encoder.
package cc1101

import (
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/sorianoartal/Door-Garage-Opener/pkg/config"
	"github.com/sorianoartal/Door-Garage-Opener/pkg/encoder"
	"github.com/sorianoartal/Door-Garage-Opener/pkg/profiles"
	"github.com/sorianoartal/Door-Garage-Opener/pkg/registers"
	"github.com/sorianoartal/Door-Garage-Opener/pkg/spibus"
	"github.com/sorianoartal/Door-Garage-Opener/pkg/streamer"
)

// CrystalFreqHz is the reference crystal the frequency synthesizer divides.
const CrystalFreqHz = 26000000

// maxAttempts bounds every retry loop in the controller. Fresh budget per
// call, matching the bus layer.
const maxAttempts = 3

const (
	readyTimeout = 100 * time.Millisecond
	resetSettle  = 10 * time.Millisecond
	strobeSettle = 10 * time.Microsecond
)

// Bus is the register access surface the controller drives. *spibus.Bus
// satisfies it; tests substitute a scripted fake.
type Bus interface {
	Begin() error
	Select() error
	Deselect() error
	Strobe(command uint8) (uint8, error)
	WaitReady(timeout time.Duration) error
	WriteRegister(address, value uint8) error
	ReadRegister(address uint8) (spibus.ReadResult, error)
	WriteBurst(address uint8, data []byte) error
	ReadBurst(address uint8, buf []byte) error
}

// Transceiver owns one CC1101 chip.
type Transceiver struct {
	bus      Bus
	cfg      *config.Transceiver
	settings registers.Source
	streamer *streamer.Streamer
	paTable  [8]byte
	sleep    func(time.Duration)

	customSettings bool
	customPATable  bool
}

// New returns a controller for the chip behind bus, configured per cfg.
// Begin resolves the register table and PA ramp from cfg unless options pin
// them explicitly.
func New(bus Bus, cfg *config.Transceiver, opts ...Option) *Transceiver {
	t := &Transceiver{
		bus:      bus,
		cfg:      cfg,
		settings: profiles.Settings315OOK,
		streamer: streamer.New(),
		paTable:  profiles.PATable315,
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Begin brings the chip from power-on to a configured, verified state: bus
// setup, hardware reset, the full register batch, the PA ramp, and an
// identity check. Configuration is not atomic; if the batch fails partway the
// chip keeps whatever subset was written and Begin reports the failure.
func (t *Transceiver) Begin() error {
	if !t.customSettings {
		src, pa, err := profiles.ForTransceiver(t.cfg)
		if err != nil {
			return fmt.Errorf("unsupported configuration: %w", err)
		}
		t.settings = src
		if !t.customPATable {
			t.paTable = pa
		}
	}

	if err := t.bus.Begin(); err != nil {
		return fmt.Errorf("bus setup failed: %w", err)
	}

	var resetErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if resetErr = t.reset(); resetErr == nil {
			break
		}
		glog.Warningf("cc1101: reset attempt %d: %v", attempt+1, resetErr)
	}
	if resetErr != nil {
		return fmt.Errorf("%w: %v", ErrResetFailed, resetErr)
	}

	if failed, err := registers.Apply(t.settings, t.bus.WriteRegister, t.readValue); err != nil {
		return fmt.Errorf("configuration failed (%d entries): %w", failed, err)
	}

	if err := t.SetPowerLevel(t.cfg.Power.PATableIndex()); err != nil {
		return fmt.Errorf("power setup failed: %w", err)
	}

	if err := t.verifyIdentity(); err != nil {
		return err
	}

	glog.V(1).Infof("cc1101: configured for %d Hz, %s, power %s",
		t.cfg.FrequencyHz, t.cfg.Modulation, t.cfg.Power)
	return nil
}

// reset runs the manual power-on reset sequence: a chip-select pulse, wait for
// the oscillator, the SRES strobe, then confirm the part number. A ready-line
// timeout before the strobe is logged but not fatal; some boards do not route
// the ready signal and the PARTNUM check catches a dead chip anyway.
func (t *Transceiver) reset() error {
	if err := t.bus.Select(); err != nil {
		return err
	}
	t.sleep(10 * time.Microsecond)
	if err := t.bus.Deselect(); err != nil {
		return err
	}
	t.sleep(40 * time.Microsecond)

	if err := t.bus.Select(); err != nil {
		return err
	}
	if err := t.bus.WaitReady(readyTimeout); err != nil {
		glog.Warningf("cc1101: chip not ready before reset strobe: %v", err)
	}
	if err := t.bus.Deselect(); err != nil {
		return err
	}

	if err := t.strobeCommand(registers.StrobeSRES); err != nil {
		return fmt.Errorf("reset strobe: %w", err)
	}

	if err := t.bus.Select(); err != nil {
		return err
	}
	if err := t.bus.WaitReady(readyTimeout); err != nil {
		glog.Warningf("cc1101: chip not ready after reset strobe: %v", err)
	}
	if err := t.bus.Deselect(); err != nil {
		return err
	}
	t.sleep(resetSettle)

	result, err := t.bus.ReadRegister(registers.RegPARTNUM)
	if err != nil {
		return fmt.Errorf("part number read: %w", err)
	}
	if result.Value != registers.PartNumExpected {
		return fmt.Errorf("part number 0x%02X, want 0x%02X", result.Value, registers.PartNumExpected)
	}
	return nil
}

// strobeCommand sends a command strobe and confirms the chip still answers a
// register read afterwards, retrying the whole pair on failure.
func (t *Transceiver) strobeCommand(command uint8) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		status, err := t.bus.Strobe(command)
		if err != nil {
			lastErr = err
			glog.Warningf("cc1101: strobe 0x%02X attempt %d: %v", command, attempt+1, err)
			continue
		}
		glog.V(2).Infof("cc1101: strobe 0x%02X status 0x%02X", command, status)

		result, err := t.bus.ReadRegister(registers.RegPARTNUM)
		if err == nil && result.Value == registers.PartNumExpected {
			return nil
		}
		lastErr = err
		if err == nil {
			lastErr = fmt.Errorf("part number 0x%02X after strobe", result.Value)
		}
	}
	return fmt.Errorf("%w: 0x%02X: %v", ErrStrobeFailed, command, lastErr)
}

// verifyIdentity confirms PARTNUM and VERSION after configuration.
func (t *Transceiver) verifyIdentity() error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		part, err := t.bus.ReadRegister(registers.RegPARTNUM)
		if err != nil {
			lastErr = err
			continue
		}
		version, err := t.bus.ReadRegister(registers.RegVERSION)
		if err != nil {
			lastErr = err
			continue
		}
		if part.Value == registers.PartNumExpected && version.Value == registers.VersionExpected {
			return nil
		}
		lastErr = fmt.Errorf("partnum 0x%02X version 0x%02X", part.Value, version.Value)
		glog.Warningf("cc1101: identity attempt %d: %v", attempt+1, lastErr)
	}
	return fmt.Errorf("%w: %v", ErrIdentityMismatch, lastErr)
}

func (t *Transceiver) readValue(address uint8) (uint8, error) {
	result, err := t.bus.ReadRegister(address)
	return result.Value, err
}

// enableTransmitMode drives the radio state machine into TX: force IDLE if
// anything else is current, then strobe STX until MARCSTATE confirms.
func (t *Transceiver) enableTransmitMode() error {
	state, err := t.readValue(registers.RegMARCSTATE)
	if err != nil {
		return fmt.Errorf("marcstate read: %w", err)
	}
	if state != registers.MarcStateIdle {
		// Track the last state that actually read back, so a failed read
		// cannot masquerade as a state in the diagnostic.
		lastState := state
		idled := false
		for attempt := 0; attempt < maxAttempts; attempt++ {
			if err := t.strobeCommand(registers.StrobeSIDLE); err != nil {
				continue
			}
			t.sleep(strobeSettle)
			current, err := t.readValue(registers.RegMARCSTATE)
			if err != nil {
				continue
			}
			lastState = current
			if current == registers.MarcStateIdle {
				idled = true
				break
			}
		}
		if !idled {
			return fmt.Errorf("%w: stuck in MARCSTATE 0x%02X", ErrTransmitMode, lastState)
		}
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := t.strobeCommand(registers.StrobeSTX); err != nil {
			continue
		}
		t.sleep(strobeSettle)
		if state, err := t.readValue(registers.RegMARCSTATE); err == nil && state == registers.MarcStateTX {
			return nil
		}
	}
	return fmt.Errorf("%w: MARCSTATE never reached TX", ErrTransmitMode)
}

// TransmitFrame keys one complete code frame. Failure to confirm TX mode is
// logged and the frame is sent anyway; with asynchronous OOK the state read
// can race the radio and a dropped frame is worse than a redundant one. The
// radio is always returned to IDLE afterwards, and that failure is fatal.
func (t *Transceiver) TransmitFrame(bits []byte, enc encoder.BitEncoder) error {
	if err := t.enableTransmitMode(); err != nil {
		glog.Warningf("cc1101: TX mode unconfirmed, transmitting anyway: %v", err)
	}

	t.streamer.StreamFrame(bits, enc)

	if err := t.strobeCommand(registers.StrobeSIDLE); err != nil {
		return fmt.Errorf("%w: %v", ErrIdleMode, err)
	}
	return nil
}

// SetFrequency programs the carrier. The 24-bit frequency word is
// hz * 2^16 / crystal, computed in 64 bits and truncated; the worst-case
// rounding error is under the synthesizer step of ~397 Hz.
func (t *Transceiver) SetFrequency(hz uint32) error {
	if hz < config.MinFrequencyHz || hz > config.MaxFrequencyHz {
		return fmt.Errorf("frequency %d Hz outside synthesizer range %d-%d Hz",
			hz, config.MinFrequencyHz, config.MaxFrequencyHz)
	}

	word := (uint64(hz) << 16) / CrystalFreqHz
	glog.V(1).Infof("cc1101: frequency %d Hz, word 0x%06X", hz, word)

	for _, reg := range []struct {
		addr  uint8
		value uint8
	}{
		{registers.RegFREQ2, uint8(word >> 16)},
		{registers.RegFREQ1, uint8(word >> 8)},
		{registers.RegFREQ0, uint8(word)},
	} {
		if err := t.bus.WriteRegister(reg.addr, reg.value); err != nil {
			return fmt.Errorf("frequency word write: %w", err)
		}
	}
	return nil
}

// SetPowerLevel loads the PA ramp and points FREND0 at the given ramp entry.
// Indexes past the table clamp to the top entry. The rest of FREND0 is
// preserved.
func (t *Transceiver) SetPowerLevel(index uint8) error {
	if index >= uint8(len(t.paTable)) {
		index = uint8(len(t.paTable)) - 1
	}

	if err := t.bus.WriteBurst(registers.RegPATABLE, t.paTable[:]); err != nil {
		return fmt.Errorf("pa table load: %w", err)
	}

	frend0, err := t.readValue(registers.RegFREND0)
	if err != nil {
		return fmt.Errorf("frend0 read: %w", err)
	}
	patched := (frend0 &^ registers.PAPowerMask) | (index & registers.PAPowerMask)
	if err := t.bus.WriteRegister(registers.RegFREND0, patched); err != nil {
		return fmt.Errorf("frend0 write: %w", err)
	}

	glog.V(1).Infof("cc1101: pa index %d, FREND0 0x%02X", index, patched)
	return nil
}

// ReadPATable reads the live PA ramp back from the chip.
func (t *Transceiver) ReadPATable() ([8]byte, error) {
	var table [8]byte
	if err := t.bus.ReadBurst(registers.RegPATABLE, table[:]); err != nil {
		return table, fmt.Errorf("pa table read: %w", err)
	}
	return table, nil
}

// Sleep puts the chip into power-down until the next chip select.
func (t *Transceiver) Sleep() error {
	if _, err := t.bus.Strobe(registers.StrobeSPWD); err != nil {
		return fmt.Errorf("power-down strobe: %w", err)
	}
	return nil
}

// Status fetches the current chip status byte via a NOP strobe.
func (t *Transceiver) Status() (registers.StatusInfo, error) {
	status, err := t.bus.Strobe(registers.StrobeSNOP)
	if err != nil {
		return registers.StatusInfo{}, fmt.Errorf("status strobe: %w", err)
	}
	return registers.DecodeStatus(status), nil
}
