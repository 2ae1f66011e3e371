package spibus

import "errors"

// Bus errors
var (
	// ErrInvalidAddress indicates a register address outside 0x00-0x3F
	ErrInvalidAddress = errors.New("register address out of range (0x00-0x3F)")

	// ErrInvalidLength indicates a burst length outside 1-64 bytes
	ErrInvalidLength = errors.New("burst length out of range (1-64 bytes)")

	// ErrNoReply indicates the chip returned the 0xFF/0xFF sentinel on every attempt
	ErrNoReply = errors.New("no valid reply from chip")

	// ErrVerifyMismatch indicates a register readback did not match the written value
	ErrVerifyMismatch = errors.New("register readback mismatch")

	// ErrNotReady indicates the chip ready line did not assert within the timeout
	ErrNotReady = errors.New("chip ready line timeout")
)
