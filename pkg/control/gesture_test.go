package control

import (
	"testing"

	"github.com/oisee/vcosynth/pkg/synth"
)

// feed polls every reading and returns the emitted gestures that were not none
func feed(g *Gesture, readings ...uint16) []synth.VirtualButton {
	var out []synth.VirtualButton
	for _, v := range readings {
		if b := g.Poll(v); b != synth.ButtonNone {
			out = append(out, b)
		}
	}
	return out
}

func TestClassify(t *testing.T) {
	g := NewGesture(synth.DefaultConfig())
	tests := []struct {
		v    uint16
		want synth.VirtualButton
	}{
		{0, synth.ButtonBoth},
		{223, synth.ButtonBoth},
		{224, synth.ButtonRight},
		{299, synth.ButtonRight},
		{300, synth.ButtonLeft},
		{379, synth.ButtonLeft},
		{380, synth.ButtonNone},
		{1023, synth.ButtonNone},
	}
	for _, tt := range tests {
		if got := g.Classify(tt.v); got != tt.want {
			t.Errorf("Classify(%d) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestGesture(t *testing.T) {
	tests := []struct {
		name     string
		readings []uint16
		want     []synth.VirtualButton
	}{
		{
			name:     "direct dip to both",
			readings: []uint16{1023, 200, 200, 1023},
			want:     []synth.VirtualButton{synth.ButtonBoth},
		},
		{
			name:     "slide through left and right keeps both",
			readings: []uint16{1023, 350, 250, 200, 350, 1023},
			want:     []synth.VirtualButton{synth.ButtonBoth},
		},
		{
			name:     "left only",
			readings: []uint16{1023, 350, 350, 350, 600},
			want:     []synth.VirtualButton{synth.ButtonLeft},
		},
		{
			name:     "right only",
			readings: []uint16{1023, 280, 260, 1023},
			want:     []synth.VirtualButton{synth.ButtonRight},
		},
		{
			name:     "never below the press level",
			readings: []uint16{1023, 450, 400, 381, 380, 500, 1023},
			want:     nil,
		},
		{
			name:     "hysteresis band does not release",
			readings: []uint16{1023, 350, 350, 420, 440, 450, 420},
			want:     nil,
		},
		{
			name:     "release above the release level",
			readings: []uint16{1023, 350, 350, 420, 451},
			want:     []synth.VirtualButton{synth.ButtonLeft},
		},
		{
			name:     "two gestures",
			readings: []uint16{1023, 350, 350, 1023, 1023, 200, 200, 1023},
			want:     []synth.VirtualButton{synth.ButtonLeft, synth.ButtonBoth},
		},
		{
			name:     "press shorter than one poll",
			readings: []uint16{1023, 200, 1023},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGesture(synth.DefaultConfig())
			got := feed(g, tt.readings...)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("gesture %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGestureStates(t *testing.T) {
	g := NewGesture(synth.DefaultConfig())
	if g.Phase() != NotPressed {
		t.Fatal("detector should start not pressed")
	}
	g.Poll(1023)
	if g.Phase() != NotPressed || g.Peak() != synth.ButtonNone {
		t.Fatalf("idle pin changed state: %v %v", g.Phase(), g.Peak())
	}
	g.Poll(250)
	if g.Phase() != Pressed {
		t.Fatal("dip did not arm the detector")
	}
	g.Poll(250)
	if g.Peak() != synth.ButtonRight {
		t.Errorf("peak %v", g.Peak())
	}
	g.Poll(350)
	if g.Peak() != synth.ButtonRight {
		t.Errorf("peak dropped to %v", g.Peak())
	}
	if b := g.Poll(1023); b != synth.ButtonRight {
		t.Errorf("release emitted %v", b)
	}
	if g.Phase() != NotPressed {
		t.Error("release did not disarm")
	}
	g.Poll(1023)
	if g.Peak() != synth.ButtonNone {
		t.Error("peak not reset after release")
	}
}
