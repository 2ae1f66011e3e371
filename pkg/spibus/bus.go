// Package spibus implements the SPI transaction layer for the CC1101
// transceiver: chip-select bracketed byte exchanges, single and burst register
// access, and the write-verify/read-retry discipline the chip's addressing
// scheme requires.
package spibus

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/gpio"
)

// SPI address byte layout: bits 7-6 select the access type, bits 5-0 carry the
// register address (CC1101 datasheet section 10).
const (
	AddressMask = 0x3F // 6-bit register address space
	ReadSingle  = 0x80 // bit 7 set: single-byte read
	ReadBurst   = 0xC0 // bits 7-6 set: burst read
	WriteSingle = 0x7F // bit 7 cleared: single-byte write (mask)
	WriteBurst  = 0x40 // bit 6 set: burst write
	DummyByte   = 0x00 // clock filler while the chip shifts a value out
)

// MaxBurstLen is the largest burst transfer the chip accepts (FIFO depth).
const MaxBurstLen = 64

// maxAttempts bounds every retry loop on the bus. Each call starts a fresh
// budget; there is no cross-call backoff or persistent error state.
const maxAttempts = 3

// readSettle is the pause between failed read attempts.
const readSettle = 100 * time.Microsecond

// Conn is one full-duplex SPI exchange. periph.io's spi.Conn satisfies it.
type Conn interface {
	Tx(w, r []byte) error
}

// Bus drives a CC1101 over an SPI connection with a manually controlled
// chip-select line. The chip-select pin stays asserted for the whole of each
// exchange; it is never released mid-transfer.
//
// A mutex serializes transactions: the chip-select line is a single
// exclusively-owned resource and only one exchange may be in flight at a time.
type Bus struct {
	conn  Conn
	csn   gpio.PinOut // chip select, active low
	ready gpio.PinIn  // chip ready line (SO while selected), low when ready
	mu    sync.Mutex
}

// New returns a Bus over the given SPI connection and control pins.
func New(conn Conn, csn gpio.PinOut, ready gpio.PinIn) *Bus {
	return &Bus{conn: conn, csn: csn, ready: ready}
}

// Begin initializes the control pins and leaves the chip deselected.
func (b *Bus) Begin() error {
	if err := b.ready.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return fmt.Errorf("failed to configure ready pin: %w", err)
	}
	if err := b.Deselect(); err != nil {
		return fmt.Errorf("failed to deselect chip: %w", err)
	}
	return nil
}

// Select asserts the chip-select line (low).
func (b *Bus) Select() error {
	return b.csn.Out(gpio.Low)
}

// Deselect releases the chip-select line (high).
func (b *Bus) Deselect() error {
	return b.csn.Out(gpio.High)
}

// WaitReady polls the chip ready line until it goes low or the timeout
// expires. The chip holds the line high while its oscillator stabilizes after
// power-on or reset; it must be polled with the chip selected.
func (b *Bus) WaitReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if b.ready.Read() == gpio.Low {
			return nil
		}
		time.Sleep(50 * time.Microsecond)
	}
	return ErrNotReady
}

// transaction brackets one exchange: take the bus, assert chip select, run the
// exchange, release chip select.
func (b *Bus) transaction(fn func() error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.Select(); err != nil {
		return fmt.Errorf("failed to select chip: %w", err)
	}
	opErr := fn()
	if err := b.Deselect(); err != nil && opErr == nil {
		return fmt.Errorf("failed to deselect chip: %w", err)
	}
	return opErr
}

// TransferByte performs one full-duplex byte exchange within its own
// chip-select bracket and returns the byte clocked back (the chip status byte
// for command strobes).
func (b *Bus) TransferByte(data uint8) (uint8, error) {
	var status uint8
	err := b.transaction(func() error {
		r := make([]byte, 1)
		if err := b.conn.Tx([]byte{data}, r); err != nil {
			return fmt.Errorf("transfer failed: %w", err)
		}
		status = r[0]
		return nil
	})
	return status, err
}

// Strobe sends a one-byte command strobe and returns the chip status byte.
func (b *Bus) Strobe(command uint8) (uint8, error) {
	return b.TransferByte(command)
}

// WriteRegister writes a single configuration register, reads it back and
// compares. On mismatch the full write+verify cycle is retried; the call fails
// only after exhausting the retry budget.
func (b *Bus) WriteRegister(address, value uint8) error {
	if address > AddressMask {
		return fmt.Errorf("%w: 0x%02X", ErrInvalidAddress, address)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := b.transaction(func() error {
			r := make([]byte, 2)
			if err := b.conn.Tx([]byte{address & WriteSingle, value}, r); err != nil {
				return fmt.Errorf("write transfer failed: %w", err)
			}
			return nil
		})
		if err != nil {
			glog.Warningf("spibus: write 0x%02X attempt %d: %v", address, attempt+1, err)
			continue
		}

		result, err := b.ReadRegister(address)
		if err == nil && result.Value == value {
			glog.V(2).Infof("spibus: wrote 0x%02X=0x%02X", address, value)
			return nil
		}
		glog.Warningf("spibus: verify 0x%02X attempt %d: wrote 0x%02X, read back 0x%02X",
			address, attempt+1, value, result.Value)
	}

	return fmt.Errorf("%w: register 0x%02X after %d attempts", ErrVerifyMismatch, address, maxAttempts)
}

// ReadRegister reads a single register as a two-byte exchange (address, dummy).
// A 0xFF/0xFF reply is treated as "no valid reply" and retried; the sentinel is
// returned together with ErrNoReply once the budget is spent.
func (b *Bus) ReadRegister(address uint8) (ReadResult, error) {
	if address > AddressMask {
		return invalidResult, fmt.Errorf("%w: 0x%02X", ErrInvalidAddress, address)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(readSettle)
		}

		var result ReadResult
		err := b.transaction(func() error {
			r := make([]byte, 2)
			if err := b.conn.Tx([]byte{address | ReadSingle, DummyByte}, r); err != nil {
				return fmt.Errorf("read transfer failed: %w", err)
			}
			result = ReadResult{Status: r[0], Value: r[1]}
			return nil
		})
		if err != nil {
			lastErr = err
			glog.Warningf("spibus: read 0x%02X attempt %d: %v", address, attempt+1, err)
			continue
		}
		if result.Valid() {
			glog.V(2).Infof("spibus: read 0x%02X status=0x%02X value=0x%02X",
				address, result.Status, result.Value)
			return result, nil
		}
		lastErr = ErrNoReply
		glog.V(1).Infof("spibus: read 0x%02X attempt %d returned sentinel", address, attempt+1)
	}

	return invalidResult, fmt.Errorf("register 0x%02X after %d attempts: %w", address, maxAttempts, lastErr)
}

// WriteBurst writes len(data) sequential bytes starting at address in one
// chip-select bracketed exchange.
func (b *Bus) WriteBurst(address uint8, data []byte) error {
	if address > AddressMask {
		return fmt.Errorf("%w: 0x%02X", ErrInvalidAddress, address)
	}
	if len(data) == 0 || len(data) > MaxBurstLen {
		return fmt.Errorf("%w: %d", ErrInvalidLength, len(data))
	}

	return b.transaction(func() error {
		w := make([]byte, 1+len(data))
		w[0] = address | WriteBurst
		copy(w[1:], data)
		r := make([]byte, len(w))
		if err := b.conn.Tx(w, r); err != nil {
			return fmt.Errorf("burst write of %d bytes to 0x%02X failed: %w", len(data), address, err)
		}
		return nil
	})
}

// ReadBurst reads len(buf) sequential bytes starting at address. A payload of
// nothing but 0xFF is implausible for a live chip and is retried like a failed
// single read.
func (b *Bus) ReadBurst(address uint8, buf []byte) error {
	if address > AddressMask {
		return fmt.Errorf("%w: 0x%02X", ErrInvalidAddress, address)
	}
	if len(buf) == 0 || len(buf) > MaxBurstLen {
		return fmt.Errorf("%w: %d", ErrInvalidLength, len(buf))
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(readSettle)
		}

		allFF := true
		err := b.transaction(func() error {
			w := make([]byte, 1+len(buf))
			w[0] = address | ReadBurst
			for i := 1; i < len(w); i++ {
				w[i] = DummyByte
			}
			r := make([]byte, len(w))
			if err := b.conn.Tx(w, r); err != nil {
				return fmt.Errorf("burst read of %d bytes from 0x%02X failed: %w", len(buf), address, err)
			}
			copy(buf, r[1:])
			for _, v := range buf {
				if v != 0xFF {
					allFF = false
					break
				}
			}
			return nil
		})
		if err != nil {
			lastErr = err
			glog.Warningf("spibus: burst read 0x%02X attempt %d: %v", address, attempt+1, err)
			continue
		}
		if !allFF {
			return nil
		}
		lastErr = ErrNoReply
		glog.V(1).Infof("spibus: burst read 0x%02X attempt %d returned all 0xFF", address, attempt+1)
	}

	return fmt.Errorf("burst read 0x%02X after %d attempts: %w", address, maxAttempts, lastErr)
}
