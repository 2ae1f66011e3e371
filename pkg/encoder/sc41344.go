package encoder

import (
	"time"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/gpio"
)

// SC41344 symbol timing. Every data symbol is two pulse pairs spanning one
// 5 ms digit period; the duty cycle of each pair encodes the symbol. Levels
// are inverted relative to the RF envelope: a high pin level keys the carrier
// off with this board's OOK polarity, so idle is high.
const (
	ShortPulse     = 300 * time.Microsecond
	LongPulse      = 2200 * time.Microsecond
	DigitPeriod    = 5000 * time.Microsecond
	SilencePeriod  = 15000 * time.Microsecond
	PreamblePeriod = 10000 * time.Microsecond
)

// SC41344 bit-bangs the Motorola SC41344 trinary code on a GPIO pin wired to
// the transceiver's serial TX data input.
type SC41344 struct {
	pin   gpio.PinOut
	delay func(time.Duration)
}

// Option adjusts an SC41344 encoder.
type Option func(*SC41344)

// WithDelay substitutes the pulse timing function. Tests use it to record
// durations instead of burning CPU.
func WithDelay(delay func(time.Duration)) Option {
	return func(e *SC41344) {
		e.delay = delay
	}
}

// NewSC41344 returns an encoder driving the given pin. The default delay is a
// busy-wait: at 300 us pulse widths, scheduler wakeup jitter from sleeping
// would distort the duty cycle beyond what receivers tolerate.
func NewSC41344(pin gpio.PinOut, opts ...Option) *SC41344 {
	e := &SC41344{
		pin:   pin,
		delay: busyWait,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func busyWait(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}

// Begin parks the line idle before the first frame.
func (e *SC41344) Begin() error {
	if err := e.pin.Out(gpio.High); err != nil {
		return err
	}
	glog.V(2).Infof("encoder: pin %s idle", e.pin)
	return nil
}

func (e *SC41344) pulse(level gpio.Level, d time.Duration) {
	if err := e.pin.Out(level); err != nil {
		glog.Warningf("encoder: pin write failed: %v", err)
	}
	e.delay(d)
}

// SendOne is two long-high/short-low pairs.
func (e *SC41344) SendOne() {
	for i := 0; i < 2; i++ {
		e.pulse(gpio.High, LongPulse)
		e.pulse(gpio.Low, ShortPulse)
	}
}

// SendZero is two short-high/long-low pairs.
func (e *SC41344) SendZero() {
	for i := 0; i < 2; i++ {
		e.pulse(gpio.High, ShortPulse)
		e.pulse(gpio.Low, LongPulse)
	}
}

// SendOpen is one long-high/short-low pair followed by one short-high/long-low
// pair, the trinary "open" digit that closes every code word.
func (e *SC41344) SendOpen() {
	e.pulse(gpio.High, LongPulse)
	e.pulse(gpio.Low, ShortPulse)
	e.pulse(gpio.High, ShortPulse)
	e.pulse(gpio.Low, LongPulse)
}

// SendSilence keys the carrier on (pin low) for the inter-word gap, then
// releases it.
func (e *SC41344) SendSilence() {
	e.pulse(gpio.Low, SilencePeriod)
	if err := e.pin.Out(gpio.High); err != nil {
		glog.Warningf("encoder: pin write failed: %v", err)
	}
}

// SendPreamble holds the carrier on for the lead-in before the first word.
func (e *SC41344) SendPreamble() {
	e.pulse(gpio.Low, PreamblePeriod)
}

// SetIdle returns the line to its resting level.
func (e *SC41344) SetIdle() {
	if err := e.pin.Out(gpio.High); err != nil {
		glog.Warningf("encoder: pin write failed: %v", err)
	}
}
