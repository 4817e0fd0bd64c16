// Package viz renders a live terminal view of a growing stand.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ecodyn/forestlab/internal/forest"
	"github.com/ecodyn/forestlab/internal/sim"
)

const historyCapacity = 600

type TickMsg time.Time

// Model steps one stand forward in simulated time and draws the
// trajectory as it grows.
type Model struct {
	stand   *forest.Stand
	integ   sim.Integrator
	state   sim.State
	t, dt   float64
	horizon float64
	running bool
	history []float64
	initial sim.State
}

func NewModel(stand *forest.Stand, integ sim.Integrator, c0, dt, horizon float64) Model {
	return Model{
		stand:   stand,
		integ:   integ,
		state:   sim.State{c0},
		dt:      dt,
		horizon: horizon,
		running: true,
		history: make([]float64, 0, historyCapacity),
		initial: sim.State{c0},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.state = m.initial.Clone()
			m.t = 0
			m.history = m.history[:0]
			m.running = true
		case "up", "k":
			m.stand.Params.Threshold *= 1.05
		case "down", "j":
			m.stand.Params.Threshold *= 0.95
		}
	case TickMsg:
		if m.running && m.t < m.horizon {
			// Several substeps per frame keeps the animation brisk
			// without coarsening the integration.
			for i := 0; i < 4 && m.t < m.horizon; i++ {
				m.state = m.integ.Step(m.stand, m.state, m.t, m.dt)
				m.t += m.dt
			}
			m.history = append(m.history, m.state[0])
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("forestlab live"))
	b.WriteString("\n")

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(14),
			asciigraph.Width(70),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	regime := "exponential"
	if m.state[0] >= m.stand.Params.Threshold {
		regime = "logistic"
	}

	stats := lipgloss.JoinVertical(lipgloss.Left,
		statRow("time", fmt.Sprintf("%.1f / %.0f", m.t, m.horizon)),
		statRow("biomass", fmt.Sprintf("%.2f", m.state[0])),
		statRow("capacity", fmt.Sprintf("%.1f (%.0f%%)", m.stand.Params.Capacity, 100*m.state[0]/m.stand.Params.Capacity)),
		statRow("threshold", fmt.Sprintf("%.1f", m.stand.Params.Threshold)),
		labelStyle.Render("regime")+regimeStyle.Render(regime),
	)
	b.WriteString(statsStyle.Render(stats))

	b.WriteString(helpStyle.Render("\nspace pause · r reset · up/down adjust threshold · q quit"))
	return b.String()
}

func statRow(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}
