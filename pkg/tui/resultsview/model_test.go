package resultsview

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/limaJavier/touist/pkg/errors"
	"github.com/limaJavier/touist/pkg/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	models  []results.Model
	next    int
	closed  bool
	block   chan struct{}
	entered chan struct{} // Signalled when a request starts waiting on block
}

func newStubSource(count int) *stubSource {
	source := &stubSource{}
	for i := range count {
		source.models = append(source.models, results.NewModel([]results.Assignment{
			{Name: fmt.Sprintf("x%d", i+1), Value: true},
		}))
	}
	return source
}

// gate makes the following requests wait until block is closed.
func (s *stubSource) gate() {
	s.block = make(chan struct{})
	s.entered = make(chan struct{}, 1)
}

func (s *stubSource) RequestModel(ctx context.Context) (results.Model, error) {
	if s.block != nil {
		s.entered <- struct{}{}
		<-s.block
	}
	if s.next >= len(s.models) {
		return results.Model{}, errors.Exhausted()
	}
	s.next++
	return s.models[s.next-1], nil
}

func (s *stubSource) Close() error {
	s.closed = true
	return nil
}

var (
	nextKey     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}
	previousKey = tea.KeyMsg{Type: tea.KeyLeft}
	backKey     = tea.KeyMsg{Type: tea.KeyEsc}
)

// start runs the viewer's initial solve and applies its outcome.
func start(t *testing.T, source results.Source) Model {
	t.Helper()
	m := New(results.NewNavigator(), source)
	require.True(t, m.Pending())
	assert.False(t, m.Keys().Next.Enabled())
	assert.False(t, m.Keys().Previous.Enabled())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	updated, _ = updated.Update(m.Init()())
	return updated.(Model)
}

// promptly fails the test when f does not return within a second.
func promptly(t *testing.T, what string, f func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		f()
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("%s waited for the solver", what)
	}
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestNoSolution(t *testing.T) {
	m := start(t, newStubSource(0))

	assert.Equal(t, results.NoResult, m.State())
	assert.False(t, m.Keys().Next.Enabled())
	assert.False(t, m.Keys().Previous.Enabled())
	assert.Contains(t, m.View(), NoSolutionMessage)
}

func TestSingleSolutionOffersNoMoves(t *testing.T) {
	m := start(t, newStubSource(1))

	assert.Equal(t, results.SingleResult, m.State())
	assert.False(t, m.Keys().Next.Enabled())
	assert.False(t, m.Keys().Previous.Enabled())
	assert.Contains(t, m.View(), "1 x1")

	m, cmd := press(t, m, nextKey)
	assert.False(t, m.Pending(), "disabled bindings do not trigger a request")
	assert.Nil(t, cmd)
}

func TestNavigation(t *testing.T) {
	m := start(t, newStubSource(3))
	assert.Equal(t, results.FirstResult, m.State())
	assert.True(t, m.Keys().Next.Enabled())
	assert.False(t, m.Keys().Previous.Enabled())

	// Advance runs as a command; both moves stay disabled until it reports back
	m, cmd := press(t, m, nextKey)
	require.NotNil(t, cmd)
	assert.True(t, m.Pending())
	assert.False(t, m.Keys().Next.Enabled())
	assert.False(t, m.Keys().Previous.Enabled())

	updated, _ := m.Update(cmd())
	m = updated.(Model)
	assert.Equal(t, results.InterResult, m.State())
	assert.True(t, m.Keys().Next.Enabled())
	assert.True(t, m.Keys().Previous.Enabled())
	assert.Contains(t, m.View(), "1 x2")

	m, cmd = press(t, m, nextKey)
	updated, _ = m.Update(cmd())
	m = updated.(Model)
	assert.Equal(t, results.LastResult, m.State())
	assert.False(t, m.Keys().Next.Enabled())
	assert.Contains(t, m.View(), "1 x3")

	m, _ = press(t, m, previousKey)
	assert.Equal(t, results.InterResult, m.State())
	assert.Contains(t, m.View(), "1 x2")
}

func TestBackReleasesTheSolver(t *testing.T) {
	source := newStubSource(2)
	m := start(t, source)

	m, cmd := press(t, m, backKey)

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Closed())
	assert.True(t, source.closed)
}

func TestHelpListsOnlyPermittedMoves(t *testing.T) {
	m := start(t, newStubSource(2))

	view := m.View()
	assert.True(t, strings.Contains(view, "next"))
	assert.False(t, strings.Contains(view, "previous"))
}

func TestHeaderMarksOnlyOpenEndedSequences(t *testing.T) {
	single := start(t, newStubSource(1))
	assert.Contains(t, single.View(), "model 1 of 1 (SingleResult)")

	open := start(t, newStubSource(3))
	assert.Contains(t, open.View(), "model 1 of 2+ (FirstResult)")
}

func TestViewerStaysResponsiveWhileSolving(t *testing.T) {
	source := newStubSource(4)
	m := start(t, source)
	source.gate()

	m, cmd := press(t, m, nextKey)
	require.NotNil(t, cmd)
	outcome := make(chan tea.Msg, 1)
	go func() { outcome <- cmd() }()
	<-source.entered

	require.True(t, m.Pending())
	assert.False(t, m.Keys().Next.Enabled())
	assert.False(t, m.Keys().Previous.Enabled())

	var view string
	promptly(t, "View", func() { view = m.View() })
	assert.Contains(t, view, "solving...")

	var quit tea.Cmd
	promptly(t, "Back", func() { m, quit = press(t, m, backKey) })
	require.NotNil(t, quit)
	assert.IsType(t, tea.QuitMsg{}, quit())
	assert.True(t, m.Closed())
	assert.ErrorIs(t, m.ctx.Err(), context.Canceled)
	assert.False(t, source.closed, "the source is released once its request returns")

	close(source.block)
	updated, _ := m.Update(<-outcome)
	assert.True(t, updated.(Model).Closed())
	assert.True(t, source.closed)
}
