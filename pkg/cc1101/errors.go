package cc1101

import "errors"

var (
	// ErrResetFailed means the chip never came back alive after the reset
	// pulse sequence.
	ErrResetFailed = errors.New("chip reset failed")

	// ErrIdentityMismatch means PARTNUM or VERSION read back wrong after
	// configuration, so the applied settings cannot be trusted.
	ErrIdentityMismatch = errors.New("chip identity mismatch")

	// ErrStrobeFailed means a command strobe was sent but the chip stopped
	// answering register reads afterwards.
	ErrStrobeFailed = errors.New("command strobe not confirmed")

	// ErrTransmitMode means the radio state machine refused to settle in TX.
	ErrTransmitMode = errors.New("failed to enter transmit mode")

	// ErrIdleMode means the radio could not be returned to IDLE after a
	// frame, leaving the carrier possibly keyed.
	ErrIdleMode = errors.New("failed to return to idle")
)
