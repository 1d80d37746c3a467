// Package resultsview is the terminal viewer for the models of a solving
// session. It drives a results.Navigator and only offers the moves the
// navigator's state permits.
package resultsview

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/limaJavier/touist/pkg/logging"
	"github.com/limaJavier/touist/pkg/results"
	"github.com/sirupsen/logrus"
)

const NoSolutionMessage = "No solution found"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	stateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	emptyStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Model is the Bubble Tea model for the results viewer.
type Model struct {
	navigator *results.Navigator
	source    results.Source
	ctx       context.Context
	cancel    context.CancelFunc

	view    snapshot
	pending bool // A transition is outstanding
	closed  bool

	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	width    int
	height   int
	ready    bool
	logger   *logrus.Entry
}

// snapshot is what the viewer renders. It is taken right after a transition
// so that drawing never touches the navigator while the solver runs.
type snapshot struct {
	state   results.State
	model   results.Model
	found   bool
	index   int
	visited int
	cause   error // Failure of the transition, else the sequence's
}

func capture(navigator *results.Navigator, state results.State, err error) snapshot {
	view := snapshot{state: state, cause: err}
	view.model, view.found = navigator.Current()
	view.index, view.visited = navigator.Position()
	if view.cause == nil {
		view.cause = navigator.Err()
	}
	return view
}

// transitionMsg carries the outcome of Initialize or Advance.
type transitionMsg struct {
	view snapshot
}

// New creates a viewer that will show the models of source.
func New(navigator *results.Navigator, source results.Source) Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		navigator: navigator,
		source:    source,
		ctx:       ctx,
		cancel:    cancel,
		view:      snapshot{state: results.NoResult},
		pending:   true,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		logger:    logging.NewLogger("resultsview"),
	}
	m.updateBindings()
	return m
}

// Init starts solving for the first model.
func (m Model) Init() tea.Cmd {
	navigator, source, ctx := m.navigator, m.source, m.ctx
	return func() tea.Msg {
		state, err := navigator.Initialize(ctx, source)
		return transitionMsg{view: capture(navigator, state, err)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case transitionMsg:
		if m.closed {
			return m, nil
		}
		m.pending = false
		m.view = msg.view
		if msg.view.cause != nil {
			m.logger.WithError(msg.view.cause).Debug("transition ended with an error")
		}
		m.updateBindings()
		m.updateContent()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
			m.close()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			m.pending = true
			m.updateBindings()
			navigator, ctx := m.navigator, m.ctx
			return m, func() tea.Msg {
				state, err := navigator.Advance(ctx)
				return transitionMsg{view: capture(navigator, state, err)}
			}

		case key.Matches(msg, m.keys.Previous):
			state, err := m.navigator.Retreat()
			return m.Update(transitionMsg{view: capture(m.navigator, state, err)})

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// SetSize sets the size of the component.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	bodyHeight := max(height-4, 1)
	if m.ready {
		m.viewport.Width = width
		m.viewport.Height = bodyHeight
	} else {
		m.viewport = viewport.New(width, bodyHeight)
		m.ready = true
	}
	m.updateContent()
}

func (m Model) State() results.State {
	return m.view.state
}

// Pending reports whether a navigation request is outstanding.
func (m Model) Pending() bool {
	return m.pending
}

// Closed reports whether the viewer released the navigator.
func (m Model) Closed() bool {
	return m.closed
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) View() string {
	header := titleStyle.Render("Results")
	switch {
	case m.pending:
		header += " " + stateStyle.Render("solving...")
	case m.view.state != results.NoResult:
		total := fmt.Sprint(m.view.visited)
		if m.view.state.CanAdvance() {
			total += "+"
		}
		header += " " + stateStyle.Render(fmt.Sprintf("model %d of %s (%s)", m.view.index+1, total, m.view.state))
	}

	body := m.body()
	if m.ready {
		body = m.viewport.View()
	}

	footer := m.help.View(m.keys)
	if m.view.cause != nil && m.view.state != results.NoResult {
		footer = warningStyle.Render(m.view.cause.Error()) + "\n" + footer
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, footer)
}

// updateBindings offers only the moves the current state permits. Nothing
// is offered while a transition is outstanding or once the viewer closed.
func (m *Model) updateBindings() {
	idle := !m.pending && !m.closed
	m.keys.Next.SetEnabled(idle && m.view.state.CanAdvance())
	m.keys.Previous.SetEnabled(idle && m.view.state.CanRetreat())
}

func (m *Model) updateContent() {
	if m.ready {
		m.viewport.SetContent(m.body())
		m.viewport.GotoTop()
	}
}

func (m Model) body() string {
	if m.pending && m.view.state == results.NoResult {
		return ""
	}
	if !m.view.found {
		return emptyStyle.Render(NoSolutionMessage)
	}
	return m.view.model.String()
}

func (m *Model) close() {
	if m.closed {
		return
	}
	m.closed = true
	m.updateBindings()
	m.cancel()
	if err := m.navigator.Close(); err != nil {
		m.logger.WithError(err).Warn("failed to release solver session")
	}
}
