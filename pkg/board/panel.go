package board

import (
	"sync/atomic"

	"github.com/oisee/vcosynth/pkg/control"
	"github.com/oisee/vcosynth/pkg/synth"
)

// Panel simulates the front panel on a host: two potentiometers and the two
// buttons on a resistor ladder. Setters and Read are safe from any goroutine.
type Panel struct {
	pitch  atomic.Uint32
	detune atomic.Uint32
	held   atomic.Uint32

	ladder [4]uint16 // pin voltage per VirtualButton
}

// NewPanel creates a panel whose ladder voltages sit in the middle of the
// bands configured in cfg.
func NewPanel(cfg synth.Config) *Panel {
	p := &Panel{}
	p.ladder[synth.ButtonNone] = control.FullScale
	p.ladder[synth.ButtonLeft] = (cfg.LeftLevel + cfg.RightLevel) / 2
	p.ladder[synth.ButtonRight] = (cfg.RightLevel + cfg.BothLevel) / 2
	p.ladder[synth.ButtonBoth] = cfg.BothLevel / 2
	return p
}

// Read implements AnalogInput
func (p *Panel) Read(ch Channel) uint16 {
	switch ch {
	case ChannelPitch:
		return uint16(p.pitch.Load())
	case ChannelDetune:
		return uint16(p.detune.Load())
	case ChannelButton:
		return p.ladder[synth.VirtualButton(p.held.Load())]
	}
	return 0
}

// SetPot moves a potentiometer to a raw reading, clamped to full scale
func (p *Panel) SetPot(ch Channel, raw int) {
	if raw < 0 {
		raw = 0
	}
	if raw > control.FullScale {
		raw = control.FullScale
	}
	switch ch {
	case ChannelPitch:
		p.pitch.Store(uint32(raw))
	case ChannelDetune:
		p.detune.Store(uint32(raw))
	}
}

// NudgePot moves a potentiometer by delta
func (p *Panel) NudgePot(ch Channel, delta int) {
	p.SetPot(ch, int(p.Read(ch))+delta)
}

// Hold presses the given buttons; ButtonNone releases them
func (p *Panel) Hold(b synth.VirtualButton) {
	if b > synth.ButtonBoth {
		b = synth.ButtonNone
	}
	p.held.Store(uint32(b))
}

// Held returns the buttons currently pressed
func (p *Panel) Held() synth.VirtualButton {
	return synth.VirtualButton(p.held.Load())
}
