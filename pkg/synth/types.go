// Package synth holds the data model shared by the synthesis core and the
// board: waveform selection, virtual buttons, colours, and the constant tables.
package synth

import "fmt"

// Waveform selects the sample-generation function of both oscillators
type Waveform uint8

const (
	WaveSaw Waveform = iota
	WaveSquare
	WaveTriangle
	WaveSine
	WaveCount
)

// Next returns the cyclic successor, wrapping after the last shape
func (w Waveform) Next() Waveform {
	w++
	if w >= WaveCount {
		w = WaveSaw
	}
	return w
}

func (w Waveform) String() string {
	switch w {
	case WaveSaw:
		return "saw"
	case WaveSquare:
		return "square"
	case WaveTriangle:
		return "triangle"
	case WaveSine:
		return "sine"
	}
	return "unknown"
}

// Color returns the LED strip colour shown while w is active
func (w Waveform) Color() Color {
	switch w {
	case WaveSaw:
		return RGB(255, 0, 0) // Red
	case WaveSquare:
		return RGB(0, 0, 255) // Blue
	case WaveTriangle:
		return RGB(0, 255, 0) // Green
	case WaveSine:
		return RGB(255, 0, 255) // Purple
	}
	return 0
}

// VirtualButton is the classification of the resistor-ladder button pin.
// Larger values win when a press passes through several bands.
type VirtualButton uint8

const (
	ButtonNone  VirtualButton = 0
	ButtonLeft  VirtualButton = 1
	ButtonRight VirtualButton = 2
	ButtonBoth  VirtualButton = ButtonLeft + ButtonRight
)

func (b VirtualButton) String() string {
	switch b {
	case ButtonNone:
		return "none"
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonBoth:
		return "both"
	}
	return "unknown"
}

// ParseButton is the inverse of VirtualButton.String
func ParseButton(s string) (VirtualButton, error) {
	for b := ButtonNone; b <= ButtonBoth; b++ {
		if b.String() == s {
			return b, nil
		}
	}
	return ButtonNone, fmt.Errorf("unknown button %q", s)
}

// UnmarshalText lets buttons be named in config and automation files
func (b *VirtualButton) UnmarshalText(text []byte) error {
	v, err := ParseButton(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Color is a packed 0x00RRGGBB pixel value
type Color uint32

// RGB packs three channel values into a Color
func RGB(r, g, b uint8) Color {
	return Color(r)<<16 | Color(g)<<8 | Color(b)
}

// R returns the red channel
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel
func (c Color) B() uint8 { return uint8(c) }

// Scale applies an 8-bit brightness the way the strip driver does
func (c Color) Scale(brightness uint8) Color {
	if brightness == 0 {
		return c
	}
	s := uint16(brightness) + 1
	return RGB(
		uint8(uint16(c.R())*s>>8),
		uint8(uint16(c.G())*s>>8),
		uint8(uint16(c.B())*s>>8),
	)
}

// Tuning is the pair of phase increments published by the control mapper.
// Base drives the first oscillator, Detuned the second.
type Tuning struct {
	Base    uint16
	Detuned uint16
}
