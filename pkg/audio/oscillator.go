// Package audio implements the fixed-point synthesis engine and its sinks
package audio

import (
	"github.com/oisee/vcosynth/pkg/synth"
)

// Oscillator is a 16-bit phase accumulator. One full wrap of Phase is one
// waveform cycle; the wraparound is the intended periodic behaviour.
type Oscillator struct {
	Phase     uint16
	Increment uint16
}

// Advance adds the increment to the phase and returns the new phase
func (o *Oscillator) Advance() uint16 {
	o.Phase += o.Increment
	return o.Phase
}

// Sample converts a phase into an unsigned 8-bit sample of the given shape
func Sample(phase uint16, w synth.Waveform) uint8 {
	high := uint8(phase >> 8)
	switch w {
	case synth.WaveSaw:
		return high
	case synth.WaveSquare:
		if high > 127 {
			return 255
		}
		return 0
	case synth.WaveTriangle:
		// Rising ramp over the first half, complemented on the second
		if phase&0x8000 != 0 {
			return uint8(^(phase >> 7))
		}
		return uint8(phase >> 7)
	case synth.WaveSine:
		return synth.Sine256[high]
	default:
		return 0
	}
}

// Mix averages two samples
func Mix(a, b uint8) uint8 {
	return uint8((uint16(a) + uint16(b)) >> 1)
}
