package spibus

// ReadResult holds the two bytes returned by a single-register read: the chip
// status byte clocked out while the address is shifted in, and the register
// value clocked out on the following dummy byte.
//
// A result of 0xFF/0xFF is the sentinel for "no valid reply" (bus floating
// high, chip absent or not clocking). This collides with a legitimate register
// value of 0xFF; no register in the CC1101 set legitimately reads 0xFF, so the
// ambiguity is accepted. Revisit before reusing this layer for other chips.
type ReadResult struct {
	Status uint8
	Value  uint8
}

// Valid reports whether the result looks like a live reply rather than the
// floating-bus sentinel.
func (r ReadResult) Valid() bool {
	return r.Status != 0xFF || r.Value != 0xFF
}

// invalidResult is the sentinel returned when every read attempt failed.
var invalidResult = ReadResult{Status: 0xFF, Value: 0xFF}
