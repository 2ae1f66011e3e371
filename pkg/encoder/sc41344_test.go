package encoder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// pulseRecorder captures the (level, duration) sequence an encoder emits.
type pulseRecorder struct {
	pin    *gpiotest.Pin
	pulses []pulse
}

type pulse struct {
	level    gpio.Level
	duration time.Duration
}

func newRecorder() (*pulseRecorder, *SC41344) {
	rec := &pulseRecorder{pin: &gpiotest.Pin{N: "TXDATA"}}
	enc := NewSC41344(rec.pin, WithDelay(func(d time.Duration) {
		rec.pulses = append(rec.pulses, pulse{level: rec.pin.L, duration: d})
	}))
	return rec, enc
}

func TestSendOneWaveform(t *testing.T) {
	rec, enc := newRecorder()
	enc.SendOne()

	require.Len(t, rec.pulses, 4)
	want := []pulse{
		{gpio.High, LongPulse},
		{gpio.Low, ShortPulse},
		{gpio.High, LongPulse},
		{gpio.Low, ShortPulse},
	}
	assert.Equal(t, want, rec.pulses)
}

func TestSendZeroWaveform(t *testing.T) {
	rec, enc := newRecorder()
	enc.SendZero()

	require.Len(t, rec.pulses, 4)
	want := []pulse{
		{gpio.High, ShortPulse},
		{gpio.Low, LongPulse},
		{gpio.High, ShortPulse},
		{gpio.Low, LongPulse},
	}
	assert.Equal(t, want, rec.pulses)
}

func TestSendOpenWaveform(t *testing.T) {
	rec, enc := newRecorder()
	enc.SendOpen()

	want := []pulse{
		{gpio.High, LongPulse},
		{gpio.Low, ShortPulse},
		{gpio.High, ShortPulse},
		{gpio.Low, LongPulse},
	}
	assert.Equal(t, want, rec.pulses)
}

func TestDataSymbolsSpanOneDigitPeriod(t *testing.T) {
	for name, send := range map[string]func(*SC41344){
		"one":  (*SC41344).SendOne,
		"zero": (*SC41344).SendZero,
		"open": (*SC41344).SendOpen,
	} {
		rec, enc := newRecorder()
		send(enc)

		var total time.Duration
		for _, p := range rec.pulses {
			total += p.duration
		}
		assert.Equal(t, DigitPeriod, total, "symbol %s", name)
	}
}

func TestSilenceAndPreambleKeyCarrierOn(t *testing.T) {
	rec, enc := newRecorder()
	enc.SendSilence()

	require.Len(t, rec.pulses, 1)
	assert.Equal(t, pulse{gpio.Low, SilencePeriod}, rec.pulses[0])
	assert.Equal(t, gpio.High, rec.pin.L, "line must return to idle after silence")

	rec, enc = newRecorder()
	enc.SendPreamble()
	assert.Equal(t, []pulse{{gpio.Low, PreamblePeriod}}, rec.pulses)
}

func TestBeginAndIdleParkLineHigh(t *testing.T) {
	rec, enc := newRecorder()
	require.NoError(t, enc.Begin())
	assert.Equal(t, gpio.High, rec.pin.L)

	rec.pin.L = gpio.Low
	enc.SetIdle()
	assert.Equal(t, gpio.High, rec.pin.L)
}
