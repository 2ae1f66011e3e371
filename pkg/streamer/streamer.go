// Package streamer sequences complete code frames: preamble, the code word,
// and its timed repetitions. It owns frame structure only; symbol waveforms
// belong to the encoder.
package streamer

import (
	"github.com/golang/glog"

	"github.com/sorianoartal/Door-Garage-Opener/pkg/encoder"
)

// FrameRepeats is how many extra copies of the word follow the first one.
// Receivers require at least two matching words before actuating; four total
// gives margin against a clipped leading word.
const FrameRepeats = 3

// Streamer renders code frames through a BitEncoder.
type Streamer struct {
	Repeats int
}

// New returns a Streamer with the standard repeat count.
func New() *Streamer {
	return &Streamer{Repeats: FrameRepeats}
}

// StreamFrame transmits one complete frame: preamble, then the code word with
// its open terminator, then Repeats more copies each preceded by the
// inter-word silence. Only a bit value of one keys a one symbol; anything
// else keys a zero. The line is left idle afterwards.
func (s *Streamer) StreamFrame(bits []byte, enc encoder.BitEncoder) {
	glog.V(1).Infof("streamer: frame of %d bits, %d repeats", len(bits), s.Repeats)

	enc.SendPreamble()
	for word := 0; word <= s.Repeats; word++ {
		if word > 0 {
			enc.SendSilence()
		}
		for _, bit := range bits {
			if bit == 1 {
				enc.SendOne()
			} else {
				enc.SendZero()
			}
		}
		enc.SendOpen()
	}
	enc.SetIdle()
}
