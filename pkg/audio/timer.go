package audio

import (
	"context"
	"time"
)

// RunTimer fires src's interrupt at tickRate from the wall clock until ctx is
// done. It stands in for the hardware timer when no sound device is pulling
// samples. Ticks are delivered in 1ms bursts.
func RunTimer(ctx context.Context, src Source, tickRate int) {
	perMs := tickRate / 1000
	t := time.NewTicker(time.Millisecond)
	defer t.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			// catch up after scheduler stalls so elapsed tick time tracks the wall clock
			n := int(now.Sub(last)/time.Millisecond) * perMs
			if n <= 0 {
				continue
			}
			last = last.Add(time.Duration(n/perMs) * time.Millisecond)
			for i := 0; i < n; i++ {
				src.Interrupt()
			}
		}
	}
}
