// Package viz hosts the interactive Bubble Tea view of the animation.
package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/asciibrot/internal/palette"
	"github.com/san-kum/asciibrot/internal/plot"
)

const (
	defaultTick     = time.Second / 30
	historyCapacity = 200
)

type TickMsg time.Time

// Model steps the iteration bound once per tick and shows the current frame
// next to a small stats panel.
type Model struct {
	plotter   *plot.Plotter
	renderer  *palette.Renderer
	maxFrames int
	tick      time.Duration
	keys      KeyMap
	help      help.Model

	bound   int
	running bool
	frame   *plot.Frame
	text    string
	inside  []float64
	err     error
}

// NewModel builds a live model; tick <= 0 uses 30 frames per second.
func NewModel(p *plot.Plotter, r *palette.Renderer, maxFrames int, tick time.Duration) Model {
	if tick <= 0 {
		tick = defaultTick
	}
	h := help.New()
	h.Styles.ShortKey = KeyHint
	h.Styles.FullKey = KeyHint

	return Model{
		plotter:   p,
		renderer:  r,
		maxFrames: maxFrames,
		tick:      tick,
		keys:      DefaultKeyMap(),
		help:      h,
		running:   true,
		inside:    make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.nextTick()
}

func (m Model) nextTick() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles key presses and advances the animation on ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.running = !m.running
		case key.Matches(msg, m.keys.Restart):
			m.reset()
			m.step()
		case key.Matches(msg, m.keys.Style):
			if err := m.plotter.SetStyle(m.plotter.Options().Style.Next()); err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.redraw()
		case key.Matches(msg, m.keys.Step):
			m.step()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case TickMsg:
		if m.running && m.bound < m.maxFrames {
			m.step()
		}
		if m.err != nil {
			return m, tea.Quit
		}
		return m, m.nextTick()
	}
	return m, nil
}

// Err reports the plotting error that stopped the program, if any.
func (m Model) Err() error { return m.err }

// Bound is the iteration bound of the frame on screen.
func (m Model) Bound() int { return m.bound }

func (m *Model) step() {
	if m.bound >= m.maxFrames {
		return
	}
	frame, err := m.plotter.Plot(context.Background(), m.bound+1)
	if err != nil {
		m.err = err
		return
	}
	m.bound++
	m.frame = frame
	m.redraw()

	m.inside = append(m.inside, float64(frame.Stats().Inside))
	if len(m.inside) > historyCapacity {
		m.inside = m.inside[1:]
	}
}

// redraw re-renders the current frame, e.g. after a style change.
func (m *Model) redraw() {
	if m.frame == nil {
		return
	}
	if m.frame.Style != m.plotter.Options().Style {
		frame, err := m.plotter.Plot(context.Background(), m.bound)
		if err != nil {
			m.err = err
			return
		}
		m.frame = frame
	}
	var sb strings.Builder
	if err := m.frame.Render(&sb, m.renderer); err != nil {
		m.err = err
		return
	}
	m.text = sb.String()
}

func (m *Model) reset() {
	m.plotter.Reset()
	m.bound = 0
	m.frame = nil
	m.text = ""
	m.inside = m.inside[:0]
}

// View renders the frame and the stats panel side by side.
func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.bound >= m.maxFrames:
		status = StatusDone.Render("DONE")
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}

	var s strings.Builder
	s.WriteString(HeaderStyle.Render("MANDELBROT") + "\n")
	s.WriteString(status + "\n\n")
	s.WriteString(MetricLabel.Render("Bound") + MetricValue.Render(fmt.Sprintf("%d / %d", m.bound, m.maxFrames)) + "\n")
	s.WriteString(ProgressBar(float64(m.bound)/float64(max(m.maxFrames, 1)), 20) + "\n")
	s.WriteString(MetricLabel.Render("Style") + MetricValue.Render(m.plotter.Options().Style.String()) + "\n")
	if m.frame != nil {
		st := m.frame.Stats()
		s.WriteString(MetricLabel.Render("Inside") + MetricValue.Render(fmt.Sprintf("%d", st.Inside)) + "\n")
		s.WriteString(MetricLabel.Render("Escaped") + MetricValue.Render(fmt.Sprintf("%d", st.Escaped)) + "\n")
	}
	if cache := m.plotter.Cache(); cache != nil {
		s.WriteString(MetricLabel.Render("Cache") + MetricValue.Render(fmt.Sprintf("%d hit / %d miss", cache.Hits(), cache.Misses())) + "\n")
	}
	if len(m.inside) > 1 {
		chart := asciigraph.Plot(m.inside, asciigraph.Height(6), asciigraph.Width(30), asciigraph.Caption("cells in set"))
		s.WriteString("\n" + chart + "\n")
	}
	s.WriteString("\n" + Separator(30) + "\n")
	s.WriteString(m.help.View(m.keys))

	return lipgloss.JoinHorizontal(lipgloss.Top, m.text, statsPanel.Render(s.String()))
}
