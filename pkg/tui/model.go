// Package tui implements the terminal front panel
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oisee/vcosynth/pkg/audio"
	"github.com/oisee/vcosynth/pkg/board"
	"github.com/oisee/vcosynth/pkg/synth"
)

// pressTime is how long a key holds the virtual buttons down. Terminals
// report no key-up, so every press is momentary.
const pressTime = 60 * time.Millisecond

const (
	scopeWidth  = 64
	scopeHeight = 8
)

// Model is the main TUI model
type Model struct {
	Board *board.Board
	Panel *board.Panel
	Strip *board.Strip
	Cfg   synth.Config

	// View state
	Width    int
	Height   int
	ShowHelp bool

	// Display snapshot, refreshed every frame
	Status board.Status
	Ticks  uint16
	Pixels []synth.Color

	// Status message
	StatusMsg string
}

// NewModel creates a new TUI model
func NewModel(cfg synth.Config, b *board.Board, panel *board.Panel, strip *board.Strip) Model {
	return Model{
		Board:  b,
		Panel:  panel,
		Strip:  strip,
		Cfg:    cfg,
		Width:  80,
		Height: 24,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(),
	)
}

// tickMsg is sent periodically for display updates
type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/30, func(_ time.Time) tea.Msg {
		return tickMsg{}
	})
}

// releaseMsg lets go of the virtual buttons
type releaseMsg struct{}

func releaseCmd() tea.Cmd {
	return tea.Tick(pressTime, func(_ time.Time) tea.Msg {
		return releaseMsg{}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tickMsg:
		m.Status = m.Board.Status()
		m.Ticks = m.Board.Engine().Ticks()
		m.Pixels = m.Strip.Pixels()
		return m, tickCmd()

	case releaseMsg:
		m.Panel.Hold(synth.ButtonNone)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "f1", "?":
		m.ShowHelp = !m.ShowHelp

	// Pitch knob
	case "left":
		m.Panel.NudgePot(board.ChannelPitch, -8)
	case "right":
		m.Panel.NudgePot(board.ChannelPitch, 8)
	case "shift+left", "pgdown":
		m.Panel.NudgePot(board.ChannelPitch, -64)
	case "shift+right", "pgup":
		m.Panel.NudgePot(board.ChannelPitch, 64)

	// Detune knob
	case "down":
		m.Panel.NudgePot(board.ChannelDetune, -16)
	case "up":
		m.Panel.NudgePot(board.ChannelDetune, 16)
	case "home":
		m.Panel.SetPot(board.ChannelDetune, 0)
	case "end":
		m.Panel.SetPot(board.ChannelDetune, 1023)

	// Buttons
	case "z":
		return m.press(synth.ButtonLeft)
	case "x":
		return m.press(synth.ButtonRight)
	case " ", "c":
		return m.press(synth.ButtonBoth)
	}

	return m, nil
}

func (m Model) press(b synth.VirtualButton) (tea.Model, tea.Cmd) {
	m.Panel.Hold(b)
	m.StatusMsg = "pressed " + b.String()
	return m, releaseCmd()
}

// noteName converts a MIDI note number to a name like C#4
func noteName(note int) string {
	names := []string{"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-"}
	if note < 0 {
		return "---"
	}
	return fmt.Sprintf("%s%d", names[note%12], note/12-1)
}

// hz converts a phase increment to a frequency at the configured tick rate
func (m Model) hz(inc uint16) float64 {
	return float64(inc) * float64(m.Cfg.TickRate) / 65536
}

// View implements tea.Model
func (m Model) View() string {
	if m.ShowHelp {
		return m.helpView()
	}

	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(m.stripView())
	b.WriteString("\n\n")
	b.WriteString(m.knobView("PITCH ", board.ChannelPitch))
	b.WriteString("\n")
	b.WriteString(m.knobView("DETUNE", board.ChannelDetune))
	b.WriteString("\n\n")
	b.WriteString(m.scopeView())
	b.WriteString("\n")
	b.WriteString(m.footerView())

	return b.String()
}

func (m Model) headerView() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("14")).
		Render("VCOSYNTH")

	wave := lipgloss.NewStyle().
		Foreground(lipgloss.Color(hexColor(m.Status.Waveform.Color()))).
		Render(strings.ToUpper(m.Status.Waveform.String()))

	t := m.Status.Tuning
	info := fmt.Sprintf(" │ %s │ Note:%s │ VCO1:%7.2fHz VCO2:%7.2fHz │ Ticks:%05d",
		wave, noteName(m.Status.Note), m.hz(t.Base), m.hz(t.Detuned), m.Ticks)

	return title + info
}

func hexColor(c synth.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R(), c.G(), c.B())
}

func (m Model) stripView() string {
	var b strings.Builder
	b.WriteString("LED  ")
	for _, c := range m.Pixels {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(hexColor(c))).
			Render("●"))
	}

	btn := m.Panel.Held()
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	if btn != synth.ButtonNone {
		style = style.Foreground(lipgloss.Color("11")).Bold(true)
	}
	b.WriteString("  " + style.Render(fmt.Sprintf("[%-5s]", btn)))
	b.WriteString(fmt.Sprintf("  %s peak:%s", m.Status.Phase, m.Status.Peak))
	return b.String()
}

func (m Model) knobView(label string, ch board.Channel) string {
	const width = 40
	raw := int(m.Panel.Read(ch))
	filled := raw * width / 1023

	bar := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %s %4d", label, bar, raw)
}

// scopeView draws two cycles of the first oscillator with the second mixed in,
// computed from the sample functions rather than the live engine.
func (m Model) scopeView() string {
	t := m.Status.Tuning
	w := m.Status.Waveform
	if t.Base == 0 {
		return strings.Repeat("\n", scopeHeight-1)
	}

	// ticks per column so the width spans two base cycles
	step := 2 * 65536 / (int(t.Base) * scopeWidth)
	if step < 1 {
		step = 1
	}

	rows := make([][]rune, scopeHeight)
	for r := range rows {
		rows[r] = []rune(strings.Repeat(" ", scopeWidth))
	}
	o1 := audio.Oscillator{Increment: t.Base}
	o2 := audio.Oscillator{Increment: t.Detuned}
	for x := 0; x < scopeWidth; x++ {
		var s uint8
		for i := 0; i < step; i++ {
			s = audio.Mix(audio.Sample(o1.Advance(), w), audio.Sample(o2.Advance(), w))
		}
		y := scopeHeight - 1 - int(s)*scopeHeight/256
		rows[y][x] = '•'
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(w.Color())))
	lines := make([]string, scopeHeight)
	for r, row := range rows {
		lines[r] = "     " + style.Render(string(row))
	}
	return strings.Join(lines, "\n")
}

func (m Model) footerView() string {
	keys := " [←→]Pitch [↑↓]Detune [Z]Left [X]Right [Space]Both [F1]Help [Q]Quit"
	if m.StatusMsg != "" {
		keys += " │ " + m.StatusMsg
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(keys)
}

func (m Model) helpView() string {
	help := `
╔══════════════════════════════════════════════════════════════════╗
║                       VCOSYNTH HELP                              ║
╠══════════════════════════════════════════════════════════════════╣
║ KNOBS                                                            ║
║   ← →           Pitch down/up (fine)                             ║
║   Shift+← →     Pitch down/up (coarse), also PgDn/PgUp           ║
║   ↓ ↑           Detune down/up                                   ║
║   Home/End      Detune to unison / maximum                       ║
║                                                                  ║
║ BUTTONS (momentary, released after a short hold)                 ║
║   Z             Left                                             ║
║   X             Right                                            ║
║   Space / C     Both                                             ║
║   Any press cycles SAW → SQUARE → TRIANGLE → SINE                ║
║                                                                  ║
║                              [F1] Close help                     ║
╚══════════════════════════════════════════════════════════════════╝
`
	return lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Render(help)
}
