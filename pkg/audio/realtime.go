package audio

import (
	"fmt"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// RealtimeOutput plays a Source through the host sound device. The device
// pulls samples, so oto's reader goroutine plays the role of the hardware
// timer: every tick it consumes fires one interrupt.
type RealtimeOutput struct {
	otoCtx    *oto.Context
	otoPlayer *oto.Player
	running   atomic.Bool
}

// NewRealtimeOutput opens the sound device at tickRate*hold and starts playing
func NewRealtimeOutput(src Source, tickRate, hold int) (*RealtimeOutput, error) {
	if hold < 1 {
		hold = 1
	}
	op := &oto.NewContextOptions{
		SampleRate:   tickRate * hold,
		ChannelCount: 1, // Mono
		Format:       oto.FormatSignedInt16LE,
	}

	otoCtx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	rt := &RealtimeOutput{
		otoCtx: otoCtx,
	}
	rt.running.Store(true)

	rt.otoPlayer = otoCtx.NewPlayer(&audioStream{rt: rt, r: NewAudioReader(src, hold)})
	// 50ms keeps knob response tight without underruns
	rt.otoPlayer.SetBufferSize(op.SampleRate / 20 * 2)
	rt.otoPlayer.Play()

	return rt, nil
}

// Close stops the audio output
func (rt *RealtimeOutput) Close() error {
	rt.running.Store(false)
	if rt.otoPlayer != nil {
		return rt.otoPlayer.Close()
	}
	return nil
}

// audioStream implements io.Reader for oto
type audioStream struct {
	rt *RealtimeOutput
	r  *AudioReader
}

func (s *audioStream) Read(buf []byte) (int, error) {
	if !s.rt.running.Load() {
		// Fill with silence
		for i := range buf {
			buf[i] = 0
		}
		return len(buf), nil
	}
	return s.r.Read(buf)
}
