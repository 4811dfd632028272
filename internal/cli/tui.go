package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/mazegen/pkg/driver"
	"github.com/matzehuels/mazegen/pkg/maze"
	"github.com/matzehuels/mazegen/pkg/session"
)

// restartDelay is how long a finished maze stays on screen.
const restartDelay = 2 * time.Second

type tickMsg time.Time

// restartMsg asks for a new maze. Messages from an earlier generation are
// stale and ignored.
type restartMsg struct{ gen int }

// animateModel is the bubbletea model for the animate command. It steps the
// session on every tick according to its pacer and starts over once the maze
// has been complete for restartDelay.
type animateModel struct {
	newSession func() (*session.Session, error)
	sess       *session.Session
	pacer      *driver.Pacer
	quantum    time.Duration
	maxCatchUp int
	last       time.Time
	gen        int
	paused     bool
	layers     layers
	err        error
}

func newAnimateModel(newSession func() (*session.Session, error), opts driver.Options) (animateModel, error) {
	opts.SetDefaults()
	m := animateModel{
		newSession: newSession,
		quantum:    opts.Quantum(),
		maxCatchUp: opts.MaxCatchUp,
		layers:     defaultLayers(),
	}
	if err := m.restart(); err != nil {
		return m, err
	}
	return m, nil
}

func (m *animateModel) restart() error {
	sess, err := m.newSession()
	if err != nil {
		return err
	}
	m.sess = sess
	m.pacer = driver.NewPacer(m.quantum, m.maxCatchUp)
	m.last = time.Now()
	m.gen++
	return nil
}

func (m animateModel) tick() tea.Cmd {
	return tea.Tick(m.quantum, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m animateModel) scheduleRestart() tea.Cmd {
	gen := m.gen
	return tea.Tick(restartDelay, func(time.Time) tea.Msg { return restartMsg{gen: gen} })
}

// step advances the maze n times and schedules a restart if it completed.
func (m animateModel) step(n int) tea.Cmd {
	for range n {
		if m.sess.Step().Kind == maze.KindComplete {
			return m.scheduleRestart()
		}
	}
	return nil
}

func (m animateModel) Init() tea.Cmd {
	return m.tick()
}

func (m animateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		elapsed := now.Sub(m.last)
		m.last = now
		if m.paused || m.sess.IsComplete() {
			return m, m.tick()
		}
		return m, tea.Batch(m.tick(), m.step(m.pacer.Advance(elapsed)))

	case restartMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if err := m.restart(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "f":
			if !m.sess.IsComplete() {
				return m, m.step(1)
			}
		case "w":
			m.layers.walls = !m.layers.walls
		case "n":
			m.layers.nodes = !m.layers.nodes
		case "e":
			m.layers.tree = !m.layers.tree
		case "p":
			m.layers.potential = !m.layers.potential
		case "r":
			if err := m.restart(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m animateModel) View() string {
	var b strings.Builder
	st := m.sess.Status()

	state := st.State
	if m.paused {
		state = "paused"
	}
	b.WriteString(StyleTitle.Render(appName) + "  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s · %d steps · %d/%d visited · seed %d · layers: %s",
		state, st.Steps, st.Visited, st.Cells, m.sess.Options.Seed, m.layers)))
	b.WriteString("\n\n")
	b.WriteString(renderLayers(m.sess.Graph(), m.layers))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space pause · f step · r new maze · w/n/e/p layers · q quit"))
	b.WriteString("\n")
	return b.String()
}
