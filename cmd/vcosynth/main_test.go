package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-audio/wav"

	"github.com/oisee/vcosynth/pkg/audio"
	"github.com/oisee/vcosynth/pkg/board"
	"github.com/oisee/vcosynth/pkg/synth"
)

func TestRenderDemoScript(t *testing.T) {
	f, err := os.Open("testdata/board.yaml")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := synth.LoadConfig(f)
	f.Close()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DetuneShift != 10 {
		t.Fatalf("detune shift %d", cfg.DetuneShift)
	}

	logger := log.New(io.Discard)
	panel := board.NewPanel(cfg)
	b := board.New(cfg, audio.NewEngine(cfg, nil), panel, board.NewStrip(cfg.Pixels), logger)
	b.Setup()

	out := filepath.Join(t.TempDir(), "demo.wav")
	if err := renderWAV(cfg, b, panel, out, "testdata/demo.yaml", 0, 8, logger); err != nil {
		t.Fatal(err)
	}

	// four presses walk saw -> square -> triangle -> sine -> saw
	st := b.Status()
	if st.Waveform != synth.WaveSaw {
		t.Errorf("final waveform %v", st.Waveform)
	}
	if st.Note != 60 {
		t.Errorf("final note %d", st.Note)
	}

	f, err = os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		t.Fatal("not a valid wav file")
	}
	if d.BitDepth != 8 || d.SampleRate != 10000 {
		t.Errorf("format %d bit %d Hz", d.BitDepth, d.SampleRate)
	}
}
