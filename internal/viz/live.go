package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ravik-m/qdyn/internal/quantum"
	"github.com/ravik-m/qdyn/internal/solve"
	"github.com/ravik-m/qdyn/internal/systems"
)

const (
	graphWidth      = 70
	graphHeight     = 12
	historyCapacity = 600
)

// TickMsg drives the animation clock.
type TickMsg time.Time

// Model evolves a system's master equation in real time and charts a
// selected observable. Space pauses, r resets, tab cycles the observable.
type Model struct {
	sys     systems.System
	rho     *quantum.Matrix
	initial *quantum.Matrix
	obs     []systems.Observable

	t        float64
	speed    float64 // simulated time per second of wall clock
	running  bool
	selected int
	history  []float64
	opts     solve.Options
	err      error
}

// NewModel prepares a live view of the given system starting from its
// default initial state.
func NewModel(sys systems.System, opts solve.Options) Model {
	// animation frames have arbitrary length, which fixed-step methods
	// reject; the live view always integrates adaptively
	opts.Method = solve.MethodDopri5
	rho := quantum.KetToDM(sys.InitialState())
	return Model{
		sys:     sys,
		rho:     rho,
		initial: rho.Clone(),
		obs:     sys.Observables(),
		speed:   1.0,
		running: true,
		history: make([]float64, 0, historyCapacity),
		opts:    opts,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
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
			m.rho = m.initial.Clone()
			m.t = 0
			m.history = m.history[:0]
			m.err = nil
			m.running = true
		case "tab", "o":
			if len(m.obs) > 0 {
				m.selected = (m.selected + 1) % len(m.obs)
				m.history = m.history[:0]
			}
		case "+", "=":
			if m.speed < 16 {
				m.speed *= 2
			}
		case "-":
			if m.speed > 1.0/16 {
				m.speed /= 2
			}
		}
		return m, nil

	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// step advances the density matrix by one animation frame.
func (m *Model) step() {
	frame := m.speed / 30
	tsave := []float64{m.t, m.t + frame}

	result, err := solve.Mesolve(context.Background(),
		m.sys.Hamiltonian(), m.sys.JumpOps(), m.rho, tsave, nil, m.opts)
	if err != nil {
		m.err = err
		m.running = false
		return
	}

	m.rho = result.FinalState
	m.t += frame

	if len(m.obs) > 0 {
		v := real(quantum.Expect(m.obs[m.selected].Op, m.rho))
		m.history = append(m.history, v)
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
	}
}

func (m Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("qdyn live — %s", m.sys.Name()))

	var chart string
	if len(m.history) >= 2 {
		caption := ""
		if len(m.obs) > 0 {
			caption = "⟨" + m.obs[m.selected].Name + "⟩"
		}
		chart = graphStyle.Render(Plot(m.history, caption, graphWidth, graphHeight))
	} else {
		chart = graphStyle.Render("collecting data...")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, chart, m.statsView())

	help := helpStyle.Render("space pause · r reset · tab observable · +/- speed · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, body, help)
}

func (m Model) statsView() string {
	var b strings.Builder

	status := statusRunning.Render("● running")
	if m.err != nil {
		status = errorStyle.Render("✗ " + m.err.Error())
	} else if !m.running {
		status = statusPaused.Render("● paused")
	}
	b.WriteString(status + "\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%.3f", m.t))
	row("speed", fmt.Sprintf("%gx", m.speed))
	row("trace", fmt.Sprintf("%.6f", real(m.rho.Trace())))
	row("purity", fmt.Sprintf("%.4f", quantum.Purity(m.rho)))
	b.WriteString("\n")

	for i, obs := range m.obs {
		name := "⟨" + obs.Name + "⟩"
		value := fmt.Sprintf("%.4f", real(quantum.Expect(obs.Op, m.rho)))
		if i == m.selected {
			b.WriteString(selectedStyle.Render(labelStyle.Render(name)+value) + "\n")
		} else {
			row(name, value)
		}
	}

	return statsStyle.Render(b.String())
}

// Run starts the live view and blocks until the user quits.
func Run(sys systems.System, opts solve.Options) error {
	p := tea.NewProgram(NewModel(sys, opts))
	_, err := p.Run()
	return err
}
