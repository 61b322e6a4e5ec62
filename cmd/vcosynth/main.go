package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/oisee/vcosynth/pkg/audio"
	"github.com/oisee/vcosynth/pkg/board"
	"github.com/oisee/vcosynth/pkg/synth"
	"github.com/oisee/vcosynth/pkg/tui"
)

func main() {
	configPath := flag.String("config", "", "Board config YAML file")
	render := flag.String("render", "", "Render to this WAV file instead of playing")
	seconds := flag.Float64("seconds", 0, "Render length in seconds (default: script length or 5)")
	script := flag.String("script", "", "Automation YAML file for rendering")
	pitch := flag.Int("pitch", 360, "Initial pitch knob reading (0-1023)")
	detune := flag.Int("detune", 0, "Initial detune knob reading (0-1023)")
	bits := flag.Int("bits", 16, "WAV bit depth (8 or 16)")
	hold := flag.Int("hold", 4, "Output frames per tick for the sound device")
	mute := flag.Bool("mute", false, "Run the tick timer from the clock without a sound device")
	verbose := flag.Bool("v", false, "Debug logging")
	logPath := flag.String("log", "", "Log file for the live panel")
	flag.Parse()

	cfg := synth.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening config: %v\n", err)
			os.Exit(1)
		}
		cfg, err = synth.LoadConfig(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// The live panel owns the terminal, so its logs go to a file or nowhere
	var logOut io.Writer = os.Stderr
	if *render == "" {
		logOut = io.Discard
		if *logPath != "" {
			f, err := os.Create(*logPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating log: %v\n", err)
				os.Exit(1)
			}
			defer f.Close()
			logOut = f
		}
	}
	logger := log.NewWithOptions(logOut, log.Options{
		Prefix:          "vcosynth",
		ReportTimestamp: true,
	})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	panel := board.NewPanel(cfg)
	panel.SetPot(board.ChannelPitch, *pitch)
	panel.SetPot(board.ChannelDetune, *detune)
	strip := board.NewStrip(cfg.Pixels)
	engine := audio.NewEngine(cfg, nil)
	b := board.New(cfg, engine, panel, strip, logger)
	b.Setup()

	if *render != "" {
		if err := renderWAV(cfg, b, panel, *render, *script, *seconds, *bits, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runLive(cfg, b, panel, strip, *hold, *mute, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func renderWAV(cfg synth.Config, b *board.Board, panel *board.Panel, out, scriptPath string, seconds float64, bits int, logger *log.Logger) error {
	h := b.Headless()

	length := time.Duration(seconds * float64(time.Second))
	if scriptPath != "" {
		f, err := os.Open(scriptPath)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		a, err := board.LoadAutomation(f)
		f.Close()
		if err != nil {
			return err
		}
		h.OnPoll = func(ticks int) {
			a.Apply(panel, time.Duration(ticks)*time.Second/time.Duration(cfg.TickRate))
		}
		if length == 0 {
			length = a.Duration() + 500*time.Millisecond
		}
	}
	if length <= 0 {
		length = 5 * time.Second
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer f.Close()

	ticks := int(length / time.Millisecond * time.Duration(cfg.TicksPerMs()))
	logger.Info("rendering", "file", out, "length", length, "ticks", ticks, "bits", bits)
	if err := audio.ExportWAV(h, f, cfg.TickRate, ticks, bits); err != nil {
		return err
	}

	st := b.Status()
	logger.Info("done", "polls", st.Polls, "waveform", st.Waveform, "note", st.Note)
	return nil
}

func runLive(cfg synth.Config, b *board.Board, panel *board.Panel, strip *board.Strip, hold int, mute bool, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	if mute {
		wg.Add(1)
		go func() {
			defer wg.Done()
			audio.RunTimer(ctx, b.Engine(), cfg.TickRate)
		}()
	} else {
		rt, err := audio.NewRealtimeOutput(b.Engine(), cfg.TickRate, hold)
		if err != nil {
			return err
		}
		defer rt.Close()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := b.Run(ctx); err != nil {
			logger.Error("foreground loop", "err", err)
		}
	}()

	p := tea.NewProgram(tui.NewModel(cfg, b, panel, strip))
	_, err := p.Run()

	cancel()
	wg.Wait()
	return err
}
