package sat

import (
	"context"

	"github.com/crillab/gophersat/solver"
	"github.com/limaJavier/touist/pkg/errors"
	"github.com/samber/lo"
)

type gophersatSolver struct{}

// NewGophersatSolver returns an in-process solver backed by gophersat.
func NewGophersatSolver() SATSolver {
	return &gophersatSolver{}
}

func (s *gophersatSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.SolverExecution("gophersat", err, "")
	}
	if len(sat.Clauses) == 0 {
		return SATSolution{}, nil
	}
	gs := solver.New(solver.ParseSlice(toIntClauses(sat.Clauses)))
	if gs.Solve() != solver.Sat {
		return nil, nil
	}
	return modelToSolution(gs.Model()), nil
}

// gophersatSession keeps one gophersat solver hot across models: each model
// found is excluded through AppendClause before the next search.
type gophersatSession struct {
	solver     *solver.Solver
	projection []int64
	trivial    bool // No clauses: the empty model is the only one
	exhausted  bool
	closed     bool
}

// NewGophersatSession enumerates the models of instance incrementally.
// Projection variables absent from every clause are left out: gophersat
// knows nothing about them and they read as false in every model.
func NewGophersatSession(instance SAT) Session {
	if len(instance.Clauses) == 0 {
		return &gophersatSession{trivial: true}
	}
	problem := solver.ParseSlice(toIntClauses(instance.Clauses))
	return &gophersatSession{
		solver: solver.New(problem),
		projection: lo.Filter(instance.Projection(), func(variable int64, _ int) bool {
			return variable <= int64(problem.NbVars)
		}),
	}
}

func (session *gophersatSession) Next(ctx context.Context) (SATSolution, error) {
	if session.closed {
		return nil, errors.SessionClosed()
	}
	if session.exhausted {
		return nil, errors.Exhausted()
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.SolverExecution("gophersat", err, "")
	}
	if session.trivial {
		session.exhausted = true
		return SATSolution{}, nil
	}

	if session.solver.Solve() != solver.Sat {
		session.exhausted = true
		return nil, errors.Exhausted()
	}
	solution := modelToSolution(session.solver.Model())

	if len(session.projection) == 0 {
		session.exhausted = true
		return solution, nil
	}
	lits := lo.Map(blockingClause(solution, session.projection), func(literal int64, _ int) solver.Lit {
		return solver.IntToVar(int32(abs(literal))).SignedLit(literal < 0)
	})
	session.solver.AppendClause(solver.NewClause(lits))
	return solution, nil
}

func (session *gophersatSession) Close() error {
	session.closed = true
	session.solver = nil
	return nil
}

func toIntClauses(clauses [][]int64) [][]int {
	return lo.Map(clauses, func(clause []int64, _ int) []int {
		return lo.Map(clause, func(literal int64, _ int) int { return int(literal) })
	})
}

func modelToSolution(model []bool) SATSolution {
	return lo.Map(model, func(value bool, i int) int64 {
		if value {
			return int64(i + 1)
		}
		return -int64(i + 1)
	})
}
