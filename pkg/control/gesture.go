package control

import (
	"github.com/oisee/vcosynth/pkg/synth"
)

// GesturePhase is the state of the button detector
type GesturePhase int

const (
	NotPressed GesturePhase = iota
	Pressed
)

func (p GesturePhase) String() string {
	if p == Pressed {
		return "pressed"
	}
	return "not pressed"
}

// Gesture debounces the resistor-ladder button pin. Holding buttons pulls the
// pin lower: below Left is one button, below Right the other, below Both
// both of them. A gesture is reported on release and carries the highest
// classification seen during the press.
type Gesture struct {
	release, left, right, both, pressedLevel uint16

	phase   GesturePhase
	latched bool
	peak    synth.VirtualButton
}

// NewGesture creates a detector using the button levels in cfg
func NewGesture(cfg synth.Config) *Gesture {
	return &Gesture{
		release:      cfg.ReleaseLevel,
		left:         cfg.LeftLevel,
		right:        cfg.RightLevel,
		both:         cfg.BothLevel,
		pressedLevel: cfg.PressedLevel,
	}
}

// Classify maps a pin voltage to the buttons it represents
func (g *Gesture) Classify(v uint16) synth.VirtualButton {
	switch {
	case v < g.both:
		return synth.ButtonBoth
	case v < g.right:
		return synth.ButtonRight
	case v < g.left:
		return synth.ButtonLeft
	}
	return synth.ButtonNone
}

// Poll feeds one pin reading and returns the completed gesture, or
// ButtonNone while no press has been released.
func (g *Gesture) Poll(v uint16) synth.VirtualButton {
	// between the two levels the latch keeps its previous value
	if v > g.release {
		g.latched = false
	}
	if v < g.pressedLevel {
		g.latched = true
	}

	switch g.phase {
	case NotPressed:
		g.peak = synth.ButtonNone
		if g.latched {
			g.phase = Pressed
		}
	case Pressed:
		if g.latched {
			if b := g.Classify(v); b > g.peak {
				g.peak = b
			}
			return synth.ButtonNone
		}
		g.phase = NotPressed
		return g.peak
	}
	return synth.ButtonNone
}

// Phase returns the detector state
func (g *Gesture) Phase() GesturePhase {
	return g.phase
}

// Peak returns the strongest classification of the press in progress
func (g *Gesture) Peak() synth.VirtualButton {
	return g.peak
}
