// Package encoder generates the pulse-width waveforms that fixed-code garage
// receivers decode. The chip transmits whatever level sits on its serial data
// pin, so an encoder is just a pin and a timing discipline.
package encoder

// BitEncoder turns code symbols into line levels on the TX data pin. Pin
// errors are not surfaced per symbol; a stuck pin shows up as a receiver that
// never opens, and the symbol cadence must not stall on error handling.
type BitEncoder interface {
	// SendOne transmits a logical one symbol.
	SendOne()
	// SendZero transmits a logical zero symbol.
	SendZero()
	// SendOpen transmits the open (tri-state) symbol that terminates a word.
	SendOpen()
	// SendSilence holds the carrier off between word repetitions.
	SendSilence()
	// SendPreamble sends the quiet lead-in before the first word.
	SendPreamble()
	// SetIdle parks the line in its resting level.
	SetIdle()
}
