package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DutyRegister stands in for the timer's output-compare register. The last
// written duty can be read from any goroutine.
type DutyRegister struct {
	duty   atomic.Uint32
	writes atomic.Uint64
}

// SetDuty implements PWM
func (r *DutyRegister) SetDuty(duty uint8) {
	r.duty.Store(uint32(duty))
	r.writes.Add(1)
}

// Duty returns the last written value
func (r *DutyRegister) Duty() uint8 {
	return uint8(r.duty.Load())
}

// Writes returns how many times the register has been written
func (r *DutyRegister) Writes() uint64 {
	return r.writes.Load()
}

// DutyToPCM16 converts an unsigned 8-bit duty cycle to a signed 16-bit sample
// centred on zero.
func DutyToPCM16(duty uint8) int16 {
	return int16((int(duty) - 128) << 8)
}

// AudioReader is an io.Reader producing 16-bit little-endian mono PCM. Each
// sample tick is held for Hold output frames, so the stream runs at the tick
// rate times Hold.
type AudioReader struct {
	src  Source
	hold int

	cur  int16
	left int // frames of cur still to emit
}

// NewAudioReader creates an io.Reader that fires the source's interrupt
func NewAudioReader(src Source, hold int) *AudioReader {
	if hold < 1 {
		hold = 1
	}
	return &AudioReader{src: src, hold: hold}
}

// Read implements io.Reader - generates audio samples
func (ar *AudioReader) Read(p []byte) (n int, err error) {
	for n = 0; n+2 <= len(p); n += 2 {
		if ar.left == 0 {
			ar.cur = DutyToPCM16(ar.src.Interrupt())
			ar.left = ar.hold
		}
		ar.left--
		binary.LittleEndian.PutUint16(p[n:], uint16(ar.cur))
	}
	return n, nil
}

// ExportWAV renders ticks samples from src into a mono WAV file at the tick
// rate. bitDepth is 8 (raw duty values) or 16.
func ExportWAV(src Source, w io.WriteSeeker, tickRate, ticks, bitDepth int) error {
	if bitDepth != 8 && bitDepth != 16 {
		return fmt.Errorf("unsupported bit depth %d", bitDepth)
	}

	enc := wav.NewEncoder(w, tickRate, bitDepth, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: tickRate},
		SourceBitDepth: bitDepth,
	}

	// Generate in chunks
	const chunkSize = 4096
	data := make([]int, chunkSize)
	for written := 0; written < ticks; {
		n := ticks - written
		if n > chunkSize {
			n = chunkSize
		}
		for i := 0; i < n; i++ {
			duty := src.Interrupt()
			if bitDepth == 8 {
				data[i] = int(duty)
			} else {
				data[i] = int(DutyToPCM16(duty))
			}
		}
		buf.Data = data[:n]
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
		written += n
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalising wav: %w", err)
	}
	return nil
}
