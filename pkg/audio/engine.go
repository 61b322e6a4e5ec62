package audio

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/oisee/vcosynth/pkg/synth"
)

// PWM is the 8-bit duty-cycle register the engine writes once per tick
type PWM interface {
	SetDuty(duty uint8)
}

// Source produces one sample per call by running one sample tick
type Source interface {
	Interrupt() uint8
}

// Engine is the sample-tick scheduler: two oscillators, the selected
// waveform and the free-running tick counter.
//
// Every field below is shared with the interrupt. Tick reads and writes them
// only from inside IRQ.Dispatch; foreground methods touch them only under a
// Guard. Increments and waveform have a single foreground writer, ticks has
// the interrupt as its single writer.
type Engine struct {
	irq *IRQ
	fg  sync.Mutex // serializes foreground goroutines inside the mask
	out PWM

	osc1  Oscillator
	osc2  Oscillator
	wave  synth.Waveform
	ticks uint16

	ticksPerMs int
}

// NewEngine creates an engine writing to out, which may be nil
func NewEngine(cfg synth.Config, out PWM) *Engine {
	return &Engine{
		irq:        &IRQ{},
		out:        out,
		wave:       synth.WaveSaw,
		ticksPerMs: cfg.TicksPerMs(),
	}
}

// IRQ returns the interrupt flag guarding the engine's shared state
func (e *Engine) IRQ() *IRQ {
	return e.irq
}

// Tick is the interrupt body. It must only run inside IRQ.Dispatch; use
// Interrupt to fire it.
func (e *Engine) Tick() uint8 {
	e.ticks++
	p1 := e.osc1.Advance()
	p2 := e.osc2.Advance()

	w := e.wave
	duty := Mix(Sample(p1, w), Sample(p2, w))
	if e.out != nil {
		e.out.SetDuty(duty)
	}
	return duty
}

// Interrupt fires one timer compare-match: it dispatches Tick and returns the
// duty value written.
func (e *Engine) Interrupt() uint8 {
	var duty uint8
	e.irq.Dispatch(func() {
		duty = e.Tick()
	})
	return duty
}

// enter opens a foreground critical section
func (e *Engine) enter() Guard {
	e.fg.Lock()
	return e.irq.Disable()
}

func (e *Engine) leave(g Guard) {
	g.Restore()
	e.fg.Unlock()
}

// Render runs len(dst) ticks, storing each duty value
func (e *Engine) Render(dst []uint8) {
	for i := range dst {
		dst[i] = e.Interrupt()
	}
}

// SetTuning publishes both increments in one critical section so the
// interrupt never sees a half-written pair.
func (e *Engine) SetTuning(t synth.Tuning) {
	g := e.enter()
	e.osc1.Increment = t.Base
	e.osc2.Increment = t.Detuned
	e.leave(g)
}

// Tuning returns the increments currently in use
func (e *Engine) Tuning() synth.Tuning {
	g := e.enter()
	defer e.leave(g)
	return synth.Tuning{Base: e.osc1.Increment, Detuned: e.osc2.Increment}
}

// SetWaveform selects the shape both oscillators render from the next tick
func (e *Engine) SetWaveform(w synth.Waveform) {
	g := e.enter()
	e.wave = w
	e.leave(g)
}

// Waveform returns the selected shape
func (e *Engine) Waveform() synth.Waveform {
	g := e.enter()
	defer e.leave(g)
	return e.wave
}

// Phases returns both oscillator phases
func (e *Engine) Phases() (uint16, uint16) {
	g := e.enter()
	defer e.leave(g)
	return e.osc1.Phase, e.osc2.Phase
}

// Ticks reads the tick counter inside a critical section
func (e *Engine) Ticks() uint16 {
	g := e.enter()
	defer e.leave(g)
	return e.ticks
}

// Elapsed returns the ticks since start, correct across one counter wrap
func Elapsed(start, now uint16) uint16 {
	return now - start
}

// waitPoll is how long Wait sleeps between reads of the tick counter
const waitPoll = 200 * time.Microsecond

// Wait blocks until ms milliseconds of ticks have elapsed or ctx is done.
// It is the foreground's only delay and must never be called from Tick. If
// nothing is driving the interrupt Wait only returns through ctx. Waits
// longer than one counter period run as consecutive shorter waits.
func (e *Engine) Wait(ctx context.Context, ms int) error {
	remaining := ms * e.ticksPerMs
	for remaining > 0 {
		chunk := min(remaining, math.MaxUint16)
		if err := e.waitTicks(ctx, uint16(chunk)); err != nil {
			return err
		}
		remaining -= chunk
	}
	return nil
}

// waitTicks waits for duration ticks, measured across at most one wrap
func (e *Engine) waitTicks(ctx context.Context, duration uint16) error {
	start := e.Ticks()
	if Elapsed(start, e.Ticks()) >= duration {
		return nil
	}

	poll := time.NewTicker(waitPoll)
	defer poll.Stop()
	for Elapsed(start, e.Ticks()) < duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-poll.C:
		}
	}
	return nil
}
