// Package tui provides the live terminal view of an animating spring.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nareth/motive/internal/clock"
	"github.com/nareth/motive/internal/config"
	"github.com/nareth/motive/internal/spring"
	"github.com/nareth/motive/internal/vec"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// presetKeys maps number keys to tuning presets for live switching.
var presetKeys = []string{"gentle", "snappy", "wobbly", "bouncy", "stiff", "molasses"}

type tickMsg time.Time

type model struct {
	clk    *clock.FixedStep
	spring *spring.Spring

	lo, hi  float64
	atHi    bool
	tuning  string
	paused  bool
	history []float64

	width  int
	height int
	err    error
}

func newModel(cfg *config.Config) (*model, error) {
	clk := clock.NewFixedStep(1.0 / float64(cfg.FrameRate))

	from, err := vec.FromSlice(cfg.From[:1])
	if err != nil {
		return nil, err
	}
	s, err := spring.New(clk, from,
		spring.WithFrequency(cfg.Frequency),
		spring.WithDamping(cfg.Damping))
	if err != nil {
		return nil, err
	}

	m := &model{
		clk:     clk,
		spring:  s,
		lo:      cfg.From[0],
		hi:      cfg.To[0],
		tuning:  "custom",
		history: make([]float64, 0, 240),
		width:   80,
		height:  24,
	}
	m.spring.OnStep().Connect(func(v vec.Value) {
		m.history = append(m.history, v.Scalar())
		if len(m.history) > 240 {
			m.history = m.history[1:]
		}
	})
	return m, nil
}

func tick(frameRate int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(frameRate), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *model) frameRate() int {
	return int(1.0/m.clk.Dt() + 0.5)
}

func (m *model) Init() tea.Cmd {
	return tick(m.frameRate())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "escape":
			return m, tea.Quit
		case " ", "enter":
			m.toggle()
		case "p":
			m.paused = !m.paused
		case "s":
			m.spring.Stop()
		default:
			for i, name := range presetKeys {
				if msg.String() == fmt.Sprintf("%d", i+1) {
					t, _ := config.GetPreset(name)
					m.tuning = name
					m.retarget(t.Frequency, t.Damping)
				}
			}
		}
		return m, nil

	case tickMsg:
		if !m.paused {
			m.clk.Advance()
		}
		return m, tick(m.frameRate())
	}
	return m, nil
}

func (m *model) toggle() {
	target := m.hi
	if m.atHi {
		target = m.lo
	}
	m.atHi = !m.atHi
	m.err = m.spring.SetTarget(vec.NewScalar(target))
}

func (m *model) retarget(frequency, damping float64) {
	target := m.lo
	if m.atHi {
		target = m.hi
	}
	m.err = m.spring.SetTarget(vec.NewScalar(target),
		spring.WithFrequency(frequency),
		spring.WithDamping(damping))
}

func (m *model) View() string {
	var b strings.Builder

	status := green.Render("● settling")
	if !m.spring.Active() {
		status = dim.Render("○ settled")
	}
	if m.paused {
		status = yellow.Render("○ paused")
	}

	b.WriteString("\n   " + cyan.Render("motive") + "  " + status + "\n")
	b.WriteString(dimmer.Render("   "+strings.Repeat("─", 50)) + "\n\n")

	b.WriteString(m.positionBar())
	b.WriteString("\n")

	if len(m.history) > 1 {
		b.WriteString("   " + cyan.Render(sparkline(m.history, 50)) + "\n\n")
	}

	b.WriteString(fmt.Sprintf("   %s%s  %s%s  %s%s\n",
		dim.Render("value "), white.Render(m.spring.Value().String()),
		dim.Render("target "), white.Render(m.spring.Target().String()),
		dim.Render("speed "), white.Render(fmt.Sprintf("%.4f", m.spring.Velocity().Magnitude()))))

	b.WriteString(fmt.Sprintf("   %s%s  %s%s  %s%s\n",
		dim.Render("freq "), white.Render(fmt.Sprintf("%.2f", m.spring.Frequency())),
		dim.Render("damping "), white.Render(fmt.Sprintf("%.2f", m.spring.Damping())),
		dim.Render("tuning "), white.Render(m.tuning)))

	if m.err != nil {
		b.WriteString("\n   " + yellow.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + dim.Render("   space retarget  1-6 presets  p pause  s stop  q quit") + "\n")
	for i, name := range presetKeys {
		b.WriteString(dimmer.Render(fmt.Sprintf("     %d %s", i+1, name)) + "\n")
	}

	return b.String()
}

func (m *model) positionBar() string {
	width := 50
	span := m.hi - m.lo
	if span == 0 {
		span = 1
	}
	pos := int((m.spring.Value().Scalar() - m.lo) / span * float64(width-1))
	if pos < 0 {
		pos = 0
	}
	if pos > width-1 {
		pos = width - 1
	}

	var bar strings.Builder
	bar.WriteString("   ")
	for i := 0; i < width; i++ {
		switch i {
		case pos:
			bar.WriteString(cyan.Render("⬤"))
		case 0, width - 1:
			bar.WriteString(dim.Render("│"))
		default:
			bar.WriteString(dimmer.Render("·"))
		}
	}
	bar.WriteString("\n")
	return bar.String()
}

func sparkline(data []float64, width int) string {
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	span := maxVal - minVal
	if span == 0 {
		span = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		idx := int((data[i*step] - minVal) / span * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// Run starts the live view. It animates the first from/to component; vector
// runs belong to the batch commands.
func Run(cfg *config.Config) error {
	m, err := newModel(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
