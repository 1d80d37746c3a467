package sat

import (
	"context"

	"github.com/limaJavier/touist/pkg/errors"
)

// Session produces the models of one SAT instance one at a time. Each model
// differs from every previous one on the instance's projection. Once no
// model remains, Next returns an EXHAUSTED error.
type Session interface {
	Next(ctx context.Context) (SATSolution, error)
	Close() error
}

// resolvingSession enumerates models with any one-shot SATSolver by solving
// the instance again, extended with one blocking clause per model found.
type resolvingSession struct {
	solver     SATSolver
	instance   SAT
	projection []int64
	blocking   [][]int64
	exhausted  bool
	closed     bool
}

// NewSession enumerates the models of instance by re-running solver.
func NewSession(solver SATSolver, instance SAT) Session {
	return &resolvingSession{
		solver:     solver,
		instance:   instance,
		projection: instance.Projection(),
	}
}

func (session *resolvingSession) Next(ctx context.Context) (SATSolution, error) {
	if session.closed {
		return nil, errors.SessionClosed()
	}
	if session.exhausted {
		return nil, errors.Exhausted()
	}

	solution, err := session.solver.Solve(ctx, session.instance.withClauses(session.blocking))
	if err != nil {
		return nil, err
	}
	if solution == nil {
		session.exhausted = true
		return nil, errors.Exhausted()
	}

	if len(session.projection) == 0 { // Every model is the same one
		session.exhausted = true
	} else {
		session.blocking = append(session.blocking, blockingClause(solution, session.projection))
	}
	return solution, nil
}

func (session *resolvingSession) Close() error {
	session.closed = true
	session.blocking = nil
	return nil
}
