package board

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oisee/vcosynth/pkg/synth"
)

// DefaultHold is how long a scripted press keeps the buttons down
const DefaultHold = 50 * time.Millisecond

// Event is one step of an automation script. Nil pots are left alone; a
// Press holds the buttons for Hold (DefaultHold when zero).
//
//	events:
//	  - at: 0s
//	    pitch: 360
//	    detune: 0
//	  - at: 1.5s
//	    press: both
type Event struct {
	At     time.Duration       `yaml:"at"`
	Pitch  *int                `yaml:"pitch,omitempty"`
	Detune *int                `yaml:"detune,omitempty"`
	Press  synth.VirtualButton `yaml:"press,omitempty"`
	Hold   time.Duration       `yaml:"hold,omitempty"`
}

// Automation plays a timeline of knob moves and button presses into a Panel
type Automation struct {
	Events []Event `yaml:"events"`

	next      int
	releaseAt time.Duration
	holding   bool
}

// LoadAutomation decodes a YAML script and sorts it by time
func LoadAutomation(r io.Reader) (*Automation, error) {
	a := &Automation{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(a); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding automation: %w", err)
	}
	for i, ev := range a.Events {
		if ev.At < 0 || ev.Hold < 0 {
			return nil, fmt.Errorf("event %d: negative time", i)
		}
	}
	slices.SortStableFunc(a.Events, func(x, y Event) int {
		return cmp.Compare(x.At, y.At)
	})
	return a, nil
}

// Apply moves the panel to its state at time t. Calls must not go back in time.
// The buttons change at most once per call: a press due in the same call as a
// release waits for the next one, so the detector sees the idle level between
// back-to-back gestures.
func (a *Automation) Apply(p *Panel, t time.Duration) {
	changed := false
	if a.holding && t >= a.releaseAt {
		p.Hold(synth.ButtonNone)
		a.holding = false
		changed = true
	}

	for a.next < len(a.Events) && a.Events[a.next].At <= t {
		ev := a.Events[a.next]
		if ev.Press != synth.ButtonNone && changed {
			break
		}
		a.next++

		if ev.Pitch != nil {
			p.SetPot(ChannelPitch, *ev.Pitch)
		}
		if ev.Detune != nil {
			p.SetPot(ChannelDetune, *ev.Detune)
		}
		if ev.Press != synth.ButtonNone {
			hold := ev.Hold
			if hold == 0 {
				hold = DefaultHold
			}
			p.Hold(ev.Press)
			a.holding = true
			a.releaseAt = ev.At + hold
			changed = true
		}
	}
}

// Duration is the time at which the last event has finished
func (a *Automation) Duration() time.Duration {
	var end time.Duration
	for _, ev := range a.Events {
		d := ev.At
		if ev.Press != synth.ButtonNone {
			if ev.Hold == 0 {
				d += DefaultHold
			} else {
				d += ev.Hold
			}
		}
		if d > end {
			end = d
		}
	}
	return end
}
