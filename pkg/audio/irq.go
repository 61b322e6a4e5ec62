package audio

import "sync"

// IRQ is the global interrupt-enable flag shared by the foreground loop and
// the tick interrupt. While any Guard is open the interrupt is pending: the
// next Dispatch waits until the outermost guard is restored, just as a masked
// timer interrupt fires once the mask is lifted.
//
// Guards nest. Each one records whether the interrupt was already masked and
// Restore puts that state back, so only the outermost Restore re-enables.
// Guards must be restored in reverse order of Disable.
//
// The flag is global, not per goroutine: two foreground goroutines holding
// guards at once are both inside the mask and must serialize between
// themselves.
type IRQ struct {
	mu     sync.Mutex
	cond   sync.Cond
	masked int
	inISR  bool
}

// Guard is an open critical section returned by IRQ.Disable. It remembers
// the interrupt state it replaced.
type Guard struct {
	irq        *IRQ
	wasEnabled bool
}

func (q *IRQ) lock() {
	q.mu.Lock()
	if q.cond.L == nil {
		q.cond.L = &q.mu
	}
}

// Disable masks the interrupt until Restore is called on the returned guard.
// If a Dispatch is running it waits for the body to finish. Foreground only;
// calling it from inside Dispatch deadlocks.
func (q *IRQ) Disable() Guard {
	q.lock()
	defer q.mu.Unlock()
	for q.inISR {
		q.cond.Wait()
	}
	g := Guard{irq: q, wasEnabled: q.masked == 0}
	q.masked++
	return g
}

// Enabled reports whether Dispatch may currently run
func (q *IRQ) Enabled() bool {
	q.lock()
	defer q.mu.Unlock()
	return q.masked == 0
}

// Restore returns the interrupt to the state it had before the matching
// Disable, releasing any pending Dispatch when that state was enabled.
func (g Guard) Restore() {
	q := g.irq
	q.lock()
	defer q.mu.Unlock()
	if q.masked == 0 {
		panic("audio: Restore without Disable")
	}
	q.masked--
	if g.wasEnabled != (q.masked == 0) {
		panic("audio: guards restored out of order")
	}
	if q.masked == 0 {
		q.cond.Broadcast()
	}
}

// Dispatch runs an interrupt body. The body must not block.
func (q *IRQ) Dispatch(isr func()) {
	q.lock()
	for q.masked > 0 || q.inISR {
		q.cond.Wait()
	}
	q.inISR = true
	q.mu.Unlock()

	isr()

	q.lock()
	q.inISR = false
	q.cond.Broadcast()
	q.mu.Unlock()
}
