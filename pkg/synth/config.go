package synth

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config describes the board: supply scaling, button ladder thresholds and
// timing. Zero values are never valid; start from DefaultConfig.
type Config struct {
	TickRate       int `yaml:"tickrate"`       // Sample ticks per second
	PollIntervalMs int `yaml:"pollintervalms"` // Foreground delay between polls

	Vcc  uint16 `yaml:"vcc"`  // Supply voltage in tenths of a volt
	Vdiv uint16 `yaml:"vdiv"` // ADC reading of full scale at that supply

	// DetuneShift divides base*curve down to the detune offset.
	// 11 spans unison to a fifth, 10 spans unison to an octave. The shipped
	// firmware used 10; the default here is 11.
	DetuneShift uint8 `yaml:"detuneshift"`

	ReleaseLevel uint16 `yaml:"releaselevel"`
	LeftLevel    uint16 `yaml:"leftlevel"`
	RightLevel   uint16 `yaml:"rightlevel"`
	BothLevel    uint16 `yaml:"bothlevel"`
	PressedLevel uint16 `yaml:"pressedlevel"`

	Pixels     int   `yaml:"pixels"`
	Brightness uint8 `yaml:"brightness"`
}

// DefaultConfig returns the settings of the reference board running from a
// 3.7 V LiPo cell.
func DefaultConfig() Config {
	return Config{
		TickRate:       10000,
		PollIntervalMs: 10,
		Vcc:            37,
		Vdiv:           26,
		DetuneShift:    11,
		ReleaseLevel:   450,
		LeftLevel:      380,
		RightLevel:     300,
		BothLevel:      224,
		PressedLevel:   380,
		Pixels:         20,
		Brightness:     100,
	}
}

// TicksPerMs is the number of sample ticks in one millisecond
func (c Config) TicksPerMs() int {
	return c.TickRate / 1000
}

// TicksPerPoll is the number of sample ticks between two foreground polls
func (c Config) TicksPerPoll() int {
	return c.PollIntervalMs * c.TicksPerMs()
}

var ErrConfig = errors.New("invalid config")

// Validate checks that the thresholds are ordered and the timing usable
func (c Config) Validate() error {
	switch {
	case c.TickRate < 1000 || c.TickRate%1000 != 0:
		return fmt.Errorf("%w: tick rate %d must be a multiple of 1000", ErrConfig, c.TickRate)
	case c.PollIntervalMs < 1 || c.PollIntervalMs*c.TicksPerMs() > 0xffff:
		return fmt.Errorf("%w: poll interval %dms out of range", ErrConfig, c.PollIntervalMs)
	case c.Vdiv == 0:
		return fmt.Errorf("%w: vdiv must be non-zero", ErrConfig)
	case uint32(1023)*uint32(c.Vcc) > 0xffff:
		return fmt.Errorf("%w: vcc %d overflows a 16-bit reading", ErrConfig, c.Vcc)
	case c.DetuneShift < 10 || c.DetuneShift > 16:
		return fmt.Errorf("%w: detune shift %d out of range 10-16", ErrConfig, c.DetuneShift)
	case !(c.BothLevel < c.RightLevel && c.RightLevel < c.LeftLevel && c.LeftLevel <= c.ReleaseLevel):
		return fmt.Errorf("%w: button levels must satisfy both < right < left <= release", ErrConfig)
	case c.PressedLevel == 0 || c.PressedLevel > c.ReleaseLevel:
		return fmt.Errorf("%w: pressed level %d above release level %d", ErrConfig, c.PressedLevel, c.ReleaseLevel)
	case c.Pixels < 0:
		return fmt.Errorf("%w: negative pixel count", ErrConfig)
	}
	return nil
}

// LoadConfig overlays a YAML document on DefaultConfig and validates the result
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
