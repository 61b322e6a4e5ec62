// Package control turns raw analog readings into synthesis parameters: knob
// positions into oscillator increments, and the button ladder voltage into
// gestures.
package control

import (
	"github.com/oisee/vcosynth/pkg/synth"
)

// FullScale is the largest value an analog reading can take
const FullScale = 1023

// Mapper converts the pitch and detune knobs into a Tuning. It owns the
// pitch smoothing accumulator, so one Mapper must serve one knob stream.
type Mapper struct {
	vcc, vdiv uint32
	shift     uint8

	acc     uint32
	primed  bool
	lastPot uint16
}

// NewMapper creates a mapper for the board described by cfg
func NewMapper(cfg synth.Config) *Mapper {
	return &Mapper{
		vcc:   uint32(cfg.Vcc),
		vdiv:  uint32(cfg.Vdiv),
		shift: cfg.DetuneShift,
	}
}

// Scale compensates for the supply divider: a cell below the reference voltage
// never reaches a raw reading of 1023, so readings are stretched and clamped.
func (m *Mapper) Scale(raw uint16) uint16 {
	v := uint32(raw) * m.vcc / m.vdiv
	if v > FullScale {
		v = FullScale
	}
	return uint16(v)
}

// Smooth applies an exponential moving average with a 1/16 decay. The first
// reading primes the accumulator so there is no ramp-in at power-up.
func (m *Mapper) Smooth(v uint16) uint16 {
	if !m.primed {
		m.acc = uint32(v) << 4
		m.primed = true
	}
	m.acc = m.acc - m.acc>>4 + uint32(v)
	return uint16(m.acc >> 4)
}

// NoteIndex quantizes a 0-1023 reading onto the note table, truncating
func NoteIndex(v uint16) int {
	if v > FullScale {
		v = FullScale
	}
	return int(v) * (synth.NoteCount - 1) / FullScale
}

// DetuneAmount interpolates the detune curve between the two knots around v
func DetuneAmount(v uint16) uint16 {
	if v > FullScale {
		v = FullScale
	}
	idx := v >> synth.DetuneKnotBits
	rem := v & (1<<synth.DetuneKnotBits - 1)
	v1 := synth.DetuneCurve[idx]
	v2 := synth.DetuneCurve[idx+1]
	return v1 + ((v2-v1)*rem)>>synth.DetuneKnotBits
}

// Detune returns the offset added to base for the second oscillator. It is
// proportional to base, so the interval between the voices stays the same
// across the pitch range.
func (m *Mapper) Detune(base, amount uint16) uint16 {
	return uint16((uint32(base) * uint32(amount)) >> m.shift)
}

// Update runs one poll: smooth and quantize the pitch reading, then derive the
// detuned increment from the unsmoothed detune reading.
func (m *Mapper) Update(pitchRaw, detuneRaw uint16) synth.Tuning {
	pot := m.Smooth(m.Scale(pitchRaw))
	m.lastPot = pot
	base := synth.NoteIncrements[NoteIndex(pot)]

	amount := DetuneAmount(m.Scale(detuneRaw))
	return synth.Tuning{
		Base:    base,
		Detuned: base + m.Detune(base, amount),
	}
}

// Note returns the MIDI note selected by the last Update
func (m *Mapper) Note() int {
	return synth.MinNote + NoteIndex(m.lastPot)
}
