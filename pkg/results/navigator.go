package results

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/limaJavier/touist/pkg/errors"
	"github.com/limaJavier/touist/pkg/logging"
	"github.com/sirupsen/logrus"
)

// Navigator presents the models of a solving session one at a time.
//
// Transitions (Initialize, Advance, Retreat) must not overlap: a transition
// requested while another is outstanding fails with NAVIGATION_BUSY and its
// returned State carries no meaning. The solver is queried without holding
// the navigator's lock, so reads and Close never wait for it. While Advance
// is outstanding, reads already see the new cursor.
type Navigator struct {
	mu         sync.Mutex
	busy       atomic.Bool
	seq        *sequence
	cursor     int
	err        error
	requesting bool // The source is answering a request outside mu
	logger     *logrus.Entry
}

func NewNavigator() *Navigator {
	return &Navigator{logger: logging.NewLogger("results")}
}

// Initialize binds the navigator to a new source, closing the previous one.
// It fails with SOLVER_UNAVAILABLE when not even a first model can be
// produced; the navigator is then in NoResult and holds no model.
func (n *Navigator) Initialize(ctx context.Context, source Source) (State, error) {
	if !n.busy.CompareAndSwap(false, true) {
		return NoResult, errors.NavigationBusy("initialize")
	}
	defer n.busy.Store(false)

	n.mu.Lock()
	if n.seq != nil {
		if err := n.seq.close(); err != nil {
			n.logger.WithError(err).Warn("failed to release previous solver session")
		}
	}
	seq := newSequence(source)
	n.seq = seq
	n.cursor = 0
	n.err = nil
	n.mu.Unlock()

	if !n.reach(ctx, seq, 0) {
		n.mu.Lock()
		defer n.mu.Unlock()

		cause := seq.err
		if cause == nil {
			cause = errors.Exhausted()
		}
		err := errors.SolverUnavailable(cause)
		if n.seq == seq {
			n.err = err
		}
		n.logger.WithError(cause).Info("solver produced no model")
		return NoResult, err
	}
	n.lookahead(ctx, seq, 1)

	n.mu.Lock()
	defer n.mu.Unlock()
	state := n.state()
	n.logger.WithField("state", state).Debug("navigator initialized")
	return state, nil
}

// Current returns the model at the cursor, or false in NoResult.
func (n *Navigator) Current() (Model, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.seq == nil || len(n.seq.visited) == 0 {
		return Model{}, false
	}
	return n.seq.visited[n.cursor], true
}

// Advance moves to the next model, producing it if needed. It is only
// permitted in FirstResult and InterResult.
func (n *Navigator) Advance(ctx context.Context) (State, error) {
	if !n.busy.CompareAndSwap(false, true) {
		return NoResult, errors.NavigationBusy("advance")
	}
	defer n.busy.Store(false)

	n.mu.Lock()
	if state := n.state(); !state.CanAdvance() {
		n.mu.Unlock()
		return state, errors.IllegalTransition("advance", state)
	}
	n.cursor++
	seq, cursor := n.seq, n.cursor
	n.mu.Unlock()

	n.lookahead(ctx, seq, cursor+1)

	n.mu.Lock()
	defer n.mu.Unlock()
	state := n.state()
	n.logger.WithFields(logrus.Fields{"state": state, "position": n.cursor}).Debug("advanced")
	return state, nil
}

// Retreat moves back to the previous model. It never queries the solver and
// is only permitted in InterResult and LastResult.
func (n *Navigator) Retreat() (State, error) {
	if !n.busy.CompareAndSwap(false, true) {
		return NoResult, errors.NavigationBusy("retreat")
	}
	defer n.busy.Store(false)

	n.mu.Lock()
	defer n.mu.Unlock()

	if state := n.state(); !state.CanRetreat() {
		return state, errors.IllegalTransition("retreat", state)
	}
	n.cursor--

	state := n.state()
	n.logger.WithFields(logrus.Fields{"state": state, "position": n.cursor}).Debug("retreated")
	return state, nil
}

// State derives the navigation state from the cursor and the sequence.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state()
}

// Position returns the cursor index and the number of models produced so far.
func (n *Navigator) Position() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.seq == nil {
		return 0, 0
	}
	return n.cursor, len(n.seq.visited)
}

// Err returns the failure that left the navigator without a model, or that
// ended the sequence early.
func (n *Navigator) Err() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.err
}

// Close releases the solver session. The navigator returns to NoResult and
// forgets the session's failure. When a request is outstanding, the source
// is closed as soon as that request returns.
func (n *Navigator) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.seq == nil {
		return nil
	}
	seq := n.seq
	n.seq = nil
	n.cursor = 0
	n.err = nil
	if n.requesting {
		n.logger.Debug("solver session will be released once the outstanding request returns")
		return nil
	}
	n.logger.Debug("solver session released")
	return seq.close()
}

func (n *Navigator) state() State {
	if n.seq == nil {
		return stateOf(true, false, false)
	}
	return stateOf(
		len(n.seq.visited) == 0,
		n.cursor > 0,
		n.cursor+1 < len(n.seq.visited),
	)
}

// reach requests models from seq until index is visited or the source stops
// producing. Only the transition holding busy calls it, and mu must not be
// held. It reports false when seq was closed in the meantime.
func (n *Navigator) reach(ctx context.Context, seq *sequence, index int) bool {
	for {
		n.mu.Lock()
		if n.seq != seq {
			n.mu.Unlock()
			return false
		}
		if !seq.needs(index) {
			reached := seq.has(index)
			n.mu.Unlock()
			return reached
		}
		n.requesting = true
		n.mu.Unlock()

		model, err := seq.source.RequestModel(ctx)

		n.mu.Lock()
		n.requesting = false
		if n.seq != seq {
			n.mu.Unlock()
			if err := seq.close(); err != nil {
				n.logger.WithError(err).Warn("failed to release solver session")
			}
			n.logger.Debug("solver session released")
			return false
		}
		seq.record(model, err)
		n.mu.Unlock()
	}
}

// lookahead produces the model at index, if any, so that the state can tell
// whether more models remain.
func (n *Navigator) lookahead(ctx context.Context, seq *sequence, index int) {
	if n.reach(ctx, seq, index) {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.seq == seq && seq.err != nil && n.err == nil {
		n.err = seq.err
		n.logger.WithError(seq.err).Warn("solver failed while looking for another model; treating the sequence as exhausted")
	}
}
