package cc1101

import (
	"time"

	"github.com/sorianoartal/Door-Garage-Opener/pkg/registers"
	"github.com/sorianoartal/Door-Garage-Opener/pkg/streamer"
)

// Option customizes a Transceiver at construction time.
type Option func(*Transceiver)

// WithSettings pins the register table applied during Begin, bypassing the
// profile lookup.
func WithSettings(src registers.Source) Option {
	return func(t *Transceiver) {
		t.settings = src
		t.customSettings = true
	}
}

// WithPATable pins the power amplifier ramp loaded during Begin.
func WithPATable(table [8]byte) Option {
	return func(t *Transceiver) {
		t.paTable = table
		t.customPATable = true
	}
}

// WithStreamer replaces the frame streamer.
func WithStreamer(s *streamer.Streamer) Option {
	return func(t *Transceiver) {
		t.streamer = s
	}
}

// WithSleep substitutes the settle-delay function. Tests use it to skip the
// real reset and calibration waits.
func WithSleep(sleep func(time.Duration)) Option {
	return func(t *Transceiver) {
		t.sleep = sleep
	}
}
