// Package board wires the synthesis core to its collaborators: the analog
// inputs, the LED strip, and the foreground polling loop that runs alongside
// the tick interrupt.
package board

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/oisee/vcosynth/pkg/audio"
	"github.com/oisee/vcosynth/pkg/control"
	"github.com/oisee/vcosynth/pkg/synth"
)

// Channel identifies an analog input
type Channel int

const (
	ChannelPitch Channel = iota
	ChannelDetune
	ChannelButton
)

func (c Channel) String() string {
	switch c {
	case ChannelPitch:
		return "pitch"
	case ChannelDetune:
		return "detune"
	case ChannelButton:
		return "button"
	}
	return "unknown"
}

// AnalogInput returns raw 0-1023 readings
type AnalogInput interface {
	Read(ch Channel) uint16
}

// Pixels is the LED strip showing the selected waveform
type Pixels interface {
	Fill(c synth.Color)
	SetBrightness(b uint8)
	Show() error
}

// Status is a snapshot of the foreground state
type Status struct {
	Waveform synth.Waveform
	Tuning   synth.Tuning
	Note     int
	Phase    control.GesturePhase
	Peak     synth.VirtualButton
	Polls    int
}

// Board is the firmware: setup plus the foreground poll loop. The engine's
// interrupt is driven from elsewhere (the audio device or Source).
type Board struct {
	cfg     synth.Config
	engine  *audio.Engine
	mapper  *control.Mapper
	gesture *control.Gesture
	in      AnalogInput
	pixels  Pixels
	log     *log.Logger

	mu     sync.Mutex // guards the poll state against Status readers
	wave   synth.Waveform
	tuning synth.Tuning
	polls  int
}

// New creates a board. pixels may be nil.
func New(cfg synth.Config, engine *audio.Engine, in AnalogInput, pixels Pixels, logger *log.Logger) *Board {
	if logger == nil {
		logger = log.Default()
	}
	return &Board{
		cfg:     cfg,
		engine:  engine,
		mapper:  control.NewMapper(cfg),
		gesture: control.NewGesture(cfg),
		in:      in,
		pixels:  pixels,
		log:     logger.WithPrefix("board"),
		wave:    synth.WaveSaw,
	}
}

// Engine returns the engine the board drives
func (b *Board) Engine() *audio.Engine {
	return b.engine
}

// Setup selects the saw wave and lights the strip in its colour
func (b *Board) Setup() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wave = synth.WaveSaw
	b.engine.SetWaveform(b.wave)
	if b.pixels != nil {
		b.pixels.SetBrightness(b.cfg.Brightness)
	}
	b.show()
}

// Poll runs one foreground iteration: retune from the knobs, then check the
// button. It returns the gesture completed during this poll.
func (b *Board) Poll() synth.VirtualButton {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.polls++

	t := b.mapper.Update(b.in.Read(ChannelPitch), b.in.Read(ChannelDetune))
	b.engine.SetTuning(t)
	if t != b.tuning {
		b.log.Debug("retuned", "note", b.mapper.Note(), "base", t.Base, "detuned", t.Detuned)
		b.tuning = t
	}

	btn := b.gesture.Poll(b.in.Read(ChannelButton))
	if btn != synth.ButtonNone {
		b.wave = b.wave.Next()
		b.engine.SetWaveform(b.wave)
		b.log.Info("waveform", "shape", b.wave, "button", btn)
		b.show()
	}
	return btn
}

// show updates the strip. Failures are logged and never reach the audio path.
func (b *Board) show() {
	if b.pixels == nil {
		return
	}
	b.pixels.Fill(b.wave.Color())
	if err := b.pixels.Show(); err != nil {
		b.log.Warn("strip update failed", "err", err)
	}
}

// Run polls until ctx is done, waiting the poll interval between iterations.
// Something else must be firing the engine's interrupt.
func (b *Board) Run(ctx context.Context) error {
	for {
		b.Poll()
		if err := b.engine.Wait(ctx, b.cfg.PollIntervalMs); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

// Status returns a snapshot of the foreground state
func (b *Board) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Status{
		Waveform: b.wave,
		Tuning:   b.tuning,
		Note:     b.mapper.Note(),
		Phase:    b.gesture.Phase(),
		Peak:     b.gesture.Peak(),
		Polls:    b.polls,
	}
}

// Headless interleaves the foreground loop with the interrupt in a single
// goroutine: a poll runs before every TicksPerPoll ticks. Output is fully
// deterministic, which makes it the driver for rendering and tests.
type Headless struct {
	b     *Board
	ticks int
	every int

	// OnPoll runs before each poll with the elapsed tick count
	OnPoll func(ticks int)
}

// Headless returns a Source driving b and its engine
func (b *Board) Headless() *Headless {
	return &Headless{b: b, every: b.cfg.TicksPerPoll()}
}

// Interrupt implements audio.Source
func (h *Headless) Interrupt() uint8 {
	if h.ticks%h.every == 0 {
		if h.OnPoll != nil {
			h.OnPoll(h.ticks)
		}
		h.b.Poll()
	}
	h.ticks++
	return h.b.engine.Interrupt()
}

// Ticks returns the number of ticks run so far
func (h *Headless) Ticks() int {
	return h.ticks
}
