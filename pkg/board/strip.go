package board

import (
	"errors"
	"sync"

	"github.com/oisee/vcosynth/pkg/synth"
)

var ErrStripClosed = errors.New("strip closed")

// Strip is an in-memory LED strip. Fill and SetBrightness stage pixels; Show
// latches them so readers on other goroutines see a whole frame.
type Strip struct {
	mu         sync.Mutex
	staged     []synth.Color
	shown      []synth.Color
	brightness uint8
	frames     int
	closed     bool
}

// NewStrip creates a strip of n dark pixels
func NewStrip(n int) *Strip {
	return &Strip{
		staged: make([]synth.Color, n),
		shown:  make([]synth.Color, n),
	}
}

// Fill sets every pixel to c
func (s *Strip) Fill(c synth.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.staged {
		s.staged[i] = c
	}
}

// SetBrightness sets the global brightness applied on Show
func (s *Strip) SetBrightness(b uint8) {
	s.mu.Lock()
	s.brightness = b
	s.mu.Unlock()
}

// Show latches the staged pixels
func (s *Strip) Show() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStripClosed
	}
	for i, c := range s.staged {
		s.shown[i] = c.Scale(s.brightness)
	}
	s.frames++
	return nil
}

// Close disconnects the strip; later Shows fail
func (s *Strip) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Pixels returns a copy of the latched frame
func (s *Strip) Pixels() []synth.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]synth.Color, len(s.shown))
	copy(out, s.shown)
	return out
}

// Frames returns how many frames have been shown
func (s *Strip) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}
