package sat

import (
	"context"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"github.com/limaJavier/touist/pkg/errors"
	"github.com/samber/lo"
)

type giniSession struct {
	solver     *gini.Gini
	variables  int64
	projection []int64
	exhausted  bool
	closed     bool
}

// NewGiniSession enumerates the models of instance with an incremental gini
// solver. As with gophersat, only variables occurring in a clause are
// enumerated.
func NewGiniSession(instance SAT) Session {
	g := gini.New()
	var variables int64
	for _, clause := range instance.Clauses {
		addClause(g, clause)
		for _, literal := range clause {
			variables = max(variables, abs(literal))
		}
	}
	return &giniSession{
		solver:     g,
		variables:  variables,
		projection: lo.Filter(instance.Projection(), func(variable int64, _ int) bool {
			return variable <= variables
		}),
	}
}

func (session *giniSession) Next(ctx context.Context) (SATSolution, error) {
	if session.closed {
		return nil, errors.SessionClosed()
	}
	if session.exhausted {
		return nil, errors.Exhausted()
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.SolverExecution("gini", err, "")
	}

	if session.solver.Solve() != 1 {
		session.exhausted = true
		return nil, errors.Exhausted()
	}

	solution := make(SATSolution, 0, session.variables)
	for variable := int64(1); variable <= session.variables; variable++ {
		if session.solver.Value(z.Var(variable).Pos()) {
			solution = append(solution, variable)
		} else {
			solution = append(solution, -variable)
		}
	}

	if len(session.projection) == 0 {
		session.exhausted = true
		return solution, nil
	}
	addClause(session.solver, blockingClause(solution, session.projection))
	return solution, nil
}

func (session *giniSession) Close() error {
	session.closed = true
	session.solver = nil
	return nil
}

func addClause(g *gini.Gini, clause []int64) {
	for _, literal := range clause {
		if literal < 0 {
			g.Add(z.Var(-literal).Neg())
		} else {
			g.Add(z.Var(literal).Pos())
		}
	}
	g.Add(0) // Clause terminator
}
