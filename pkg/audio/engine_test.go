package audio

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oisee/vcosynth/pkg/synth"
)

func TestTickAdvancesBothOscillators(t *testing.T) {
	reg := &DutyRegister{}
	e := NewEngine(synth.DefaultConfig(), reg)
	e.SetTuning(synth.Tuning{Base: 1000, Detuned: 1500})

	for i := 0; i < 3; i++ {
		e.Interrupt()
	}
	p1, p2 := e.Phases()
	if p1 != 3000 || p2 != 4500 {
		t.Errorf("phases %d %d", p1, p2)
	}
	if e.Ticks() != 3 {
		t.Errorf("ticks %d", e.Ticks())
	}
	if reg.Writes() != 3 {
		t.Errorf("register written %d times", reg.Writes())
	}
	// saw of 3000 and 4500 is 11 and 17
	if reg.Duty() != 14 {
		t.Errorf("duty %d", reg.Duty())
	}
}

func TestTickUsesSelectedWaveform(t *testing.T) {
	e := NewEngine(synth.DefaultConfig(), nil)
	e.SetTuning(synth.Tuning{Base: 0x8100, Detuned: 0x8100})
	e.SetWaveform(synth.WaveSquare)
	if got := e.Interrupt(); got != 255 {
		t.Errorf("square sample %d", got)
	}
	if e.Waveform() != synth.WaveSquare {
		t.Errorf("waveform %v", e.Waveform())
	}
}

func TestPhaseContinuousAcrossControlChanges(t *testing.T) {
	e := NewEngine(synth.DefaultConfig(), nil)
	e.SetTuning(synth.Tuning{Base: 300, Detuned: 400})
	buf := make([]uint8, 10)
	e.Render(buf)
	before1, before2 := e.Phases()

	e.SetWaveform(synth.WaveSine)
	e.SetTuning(synth.Tuning{Base: 7, Detuned: 9})
	e.Interrupt()

	after1, after2 := e.Phases()
	if after1 != before1+7 || after2 != before2+9 {
		t.Errorf("phase jumped: %d->%d, %d->%d", before1, after1, before2, after2)
	}
}

func TestTicksMeasureOneSecond(t *testing.T) {
	cfg := synth.DefaultConfig()
	e := NewEngine(cfg, nil)

	// start close to the wrap so the measurement crosses it
	for i := 0; i < 60000; i++ {
		e.Interrupt()
	}
	start := e.Ticks()
	for i := 0; i < cfg.TickRate; i++ {
		e.Interrupt()
	}
	now := e.Ticks()
	if now > start {
		t.Fatalf("counter did not wrap: %d -> %d", start, now)
	}

	elapsed := Elapsed(start, now)
	ms := int(elapsed) / cfg.TicksPerMs()
	if ms != 1000 {
		t.Errorf("elapsed %dms, want 1000", ms)
	}
}

func TestWait(t *testing.T) {
	e := NewEngine(synth.DefaultConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			e.Interrupt()
		}
	}()

	start := e.Ticks()
	if err := e.Wait(ctx, 10); err != nil {
		t.Fatal(err)
	}
	if Elapsed(start, e.Ticks()) < 100 {
		t.Errorf("returned after %d ticks", Elapsed(start, e.Ticks()))
	}
	cancel()
	wg.Wait()
}

func TestWaitWithoutInterrupt(t *testing.T) {
	e := NewEngine(synth.DefaultConfig(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := e.Wait(ctx, 5); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v", err)
	}
	if err := e.Wait(ctx, 0); err != nil {
		t.Errorf("zero wait: %v", err)
	}
}

func TestGuardDefersInterrupt(t *testing.T) {
	e := NewEngine(synth.DefaultConfig(), nil)

	g := e.IRQ().Disable()
	done := make(chan struct{})
	go func() {
		e.Interrupt()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("interrupt ran while masked")
	case <-time.After(20 * time.Millisecond):
	}

	g.Restore()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pending interrupt never ran")
	}
	if e.Ticks() != 1 {
		t.Errorf("ticks %d", e.Ticks())
	}
}

func TestNestedGuardRestoresPriorState(t *testing.T) {
	e := NewEngine(synth.DefaultConfig(), nil)
	q := e.IRQ()

	done := make(chan struct{})
	go func() {
		g1 := q.Disable()
		g2 := q.Disable()
		g2.Restore()
		if q.Enabled() {
			t.Error("inner restore re-enabled the interrupt")
		}
		g1.Restore()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nested Disable blocked")
	}
	if !q.Enabled() {
		t.Fatal("outer restore left the interrupt masked")
	}

	g1 := q.Disable()
	g2 := q.Disable()
	fired := make(chan struct{})
	go func() {
		e.Interrupt()
		close(fired)
	}()
	g2.Restore()
	select {
	case <-fired:
		t.Fatal("interrupt ran inside the outer guard")
	case <-time.After(20 * time.Millisecond):
	}
	g1.Restore()
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("pending interrupt never ran")
	}
}

func TestGuardRestoreOutOfOrderPanics(t *testing.T) {
	q := &IRQ{}
	g1 := q.Disable()
	q.Disable()
	defer func() {
		if recover() == nil {
			t.Error("restoring the outer guard first did not panic")
		}
	}()
	g1.Restore()
}

type countingSource struct {
	e *Engine
	n *atomic.Int64
}

func (s countingSource) Interrupt() uint8 {
	s.n.Add(1)
	return s.e.Interrupt()
}

func TestWaitLongerThanCounterPeriod(t *testing.T) {
	e := NewEngine(synth.DefaultConfig(), nil)
	var fired atomic.Int64
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	timerCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		// fast clock so 7s of 10kHz ticks pass in well under a second
		RunTimer(timerCtx, countingSource{e: e, n: &fired}, 500000)
		close(done)
	}()
	defer func() {
		stop()
		<-done
	}()

	// 7000ms is 70000 ticks, more than the counter holds
	if err := e.Wait(ctx, 7000); err != nil {
		t.Fatal(err)
	}
	if n := fired.Load(); n < 70000 {
		t.Errorf("returned after %d ticks, want at least 70000", n)
	}
}

func TestConcurrentTuning(t *testing.T) {
	e := NewEngine(synth.DefaultConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			e.Interrupt()
		}
	}()
	defer wg.Wait()
	defer cancel()

	for i := 0; i < 1000; i++ {
		inc := uint16(i)
		e.SetTuning(synth.Tuning{Base: inc, Detuned: inc})
		e.SetWaveform(synth.Waveform(i % int(synth.WaveCount)))
		tu := e.Tuning()
		if tu.Base != tu.Detuned {
			t.Fatalf("torn tuning %+v", tu)
		}
	}
}

func TestRunTimer(t *testing.T) {
	e := NewEngine(synth.DefaultConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunTimer(ctx, e, 10000)
		close(done)
	}()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	if err := e.Wait(waitCtx, 20); err != nil {
		t.Fatalf("timer never advanced ticks: %v", err)
	}
	cancel()
	<-done
}
