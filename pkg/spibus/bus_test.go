package spibus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// chipConn simulates the register file of a selected CC1101 and counts every
// chip-select bracketed exchange.
type chipConn struct {
	regs       [64]uint8
	status     uint8
	txCount    int
	readFF     int // serve the 0xFF/0xFF sentinel for the next n single reads
	burstFF    int // serve an all-0xFF payload for the next n burst reads
	dropWrites int // silently discard the next n single-register writes
}

func (c *chipConn) Tx(w, r []byte) error {
	c.txCount++
	header := w[0]
	switch {
	case header&0xC0 == ReadBurst:
		r[0] = c.status
		addr := header & AddressMask
		for i := 1; i < len(r); i++ {
			if c.burstFF > 0 {
				r[i] = 0xFF
			} else {
				r[i] = c.regs[(int(addr)+i-1)%64]
			}
		}
		if c.burstFF > 0 {
			c.burstFF--
		}
	case header&0xC0 == ReadSingle:
		if c.readFF > 0 {
			c.readFF--
			r[0], r[1] = 0xFF, 0xFF
			return nil
		}
		r[0] = c.status
		r[1] = c.regs[header&AddressMask]
	case header&0xC0 == WriteBurst:
		r[0] = c.status
		addr := header & AddressMask
		for i, v := range w[1:] {
			c.regs[(int(addr)+i)%64] = v
		}
	default:
		r[0] = c.status
		if len(w) == 1 {
			return nil // command strobe
		}
		if c.dropWrites > 0 {
			c.dropWrites--
			return nil
		}
		c.regs[header&AddressMask] = w[1]
	}
	return nil
}

func newTestBus(conn Conn) *Bus {
	csn := &gpiotest.Pin{N: "CSN", L: gpio.High}
	ready := &gpiotest.Pin{N: "SO", L: gpio.Low}
	return New(conn, csn, ready)
}

func TestInvalidAddressRejectedWithoutBusActivity(t *testing.T) {
	conn := &chipConn{}
	bus := newTestBus(conn)

	_, err := bus.ReadRegister(0x40)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	err = bus.WriteRegister(0x7F, 0xAA)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	err = bus.WriteBurst(0xFF, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidAddress)

	err = bus.ReadBurst(0x41, make([]byte, 4))
	assert.ErrorIs(t, err, ErrInvalidAddress)

	assert.Equal(t, 0, conn.txCount, "no bus transfer may happen for a rejected address")
}

func TestInvalidBurstLengthRejectedWithoutBusActivity(t *testing.T) {
	conn := &chipConn{}
	bus := newTestBus(conn)

	assert.ErrorIs(t, bus.WriteBurst(0x3E, nil), ErrInvalidLength)
	assert.ErrorIs(t, bus.WriteBurst(0x3E, make([]byte, 65)), ErrInvalidLength)
	assert.ErrorIs(t, bus.ReadBurst(0x3E, make([]byte, 0)), ErrInvalidLength)
	assert.ErrorIs(t, bus.ReadBurst(0x3E, make([]byte, 65)), ErrInvalidLength)
	assert.Equal(t, 0, conn.txCount)
}

func TestWriteRegisterVerifiesOnFirstAttempt(t *testing.T) {
	conn := &chipConn{}
	bus := newTestBus(conn)

	require.NoError(t, bus.WriteRegister(0x0D, 0x0C))
	assert.Equal(t, uint8(0x0C), conn.regs[0x0D])
	// One write frame plus one verify read frame.
	assert.Equal(t, 2, conn.txCount)
}

func TestWriteRegisterRecoversAfterMismatch(t *testing.T) {
	conn := &chipConn{dropWrites: 1}
	bus := newTestBus(conn)

	require.NoError(t, bus.WriteRegister(0x12, 0x30))
	assert.Equal(t, uint8(0x30), conn.regs[0x12])
}

func TestWriteRegisterFailsAfterThreeMismatches(t *testing.T) {
	conn := &chipConn{dropWrites: 3}
	conn.regs[0x12] = 0x99
	bus := newTestBus(conn)

	err := bus.WriteRegister(0x12, 0x30)
	assert.ErrorIs(t, err, ErrVerifyMismatch)
	assert.Equal(t, uint8(0x99), conn.regs[0x12], "value must remain untouched")
}

func TestReadRegisterSentinelRetries(t *testing.T) {
	conn := &chipConn{readFF: 1}
	conn.regs[0x31] = 0x14
	bus := newTestBus(conn)

	result, err := bus.ReadRegister(0x31)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x14), result.Value)
	assert.Equal(t, 2, conn.txCount, "one sentinel reply, one good reply, no further retries")
}

func TestReadRegisterSentinelExhaustsBudget(t *testing.T) {
	conn := &chipConn{readFF: 3}
	bus := newTestBus(conn)

	result, err := bus.ReadRegister(0x31)
	assert.ErrorIs(t, err, ErrNoReply)
	assert.False(t, result.Valid())
	assert.Equal(t, 3, conn.txCount)
}

func TestReadBurstAllFFRetries(t *testing.T) {
	conn := &chipConn{burstFF: 3}
	bus := newTestBus(conn)

	err := bus.ReadBurst(0x3E, make([]byte, 8))
	assert.ErrorIs(t, err, ErrNoReply)

	conn = &chipConn{burstFF: 1}
	conn.regs[0x3E] = 0xC0
	bus = newTestBus(conn)

	buf := make([]byte, 2)
	require.NoError(t, bus.ReadBurst(0x3E, buf))
	assert.Equal(t, uint8(0xC0), buf[0])
}

func TestChipSelectReleasedAfterExchange(t *testing.T) {
	conn := &chipConn{}
	csn := &gpiotest.Pin{N: "CSN", L: gpio.High}
	ready := &gpiotest.Pin{N: "SO", L: gpio.Low}
	bus := New(conn, csn, ready)
	require.NoError(t, bus.Begin())

	_, err := bus.Strobe(0x3D)
	require.NoError(t, err)
	assert.Equal(t, gpio.High, csn.L, "chip select must be deasserted between transactions")
}

func TestWaitReady(t *testing.T) {
	conn := &chipConn{}
	csn := &gpiotest.Pin{N: "CSN", L: gpio.High}
	ready := &gpiotest.Pin{N: "SO", L: gpio.Low}
	bus := New(conn, csn, ready)

	require.NoError(t, bus.WaitReady(time.Millisecond))

	ready.L = gpio.High
	assert.ErrorIs(t, bus.WaitReady(time.Millisecond), ErrNotReady)
}
