package sat

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// SATSolution lists the literals of a model: positive means true, negative means false.
type SATSolution []int64

type SAT struct {
	Variables uint64
	Clauses   [][]int64
	Names     map[int64]string // Symbol table (variable -> user name); nil for anonymous DIMACS instances
}

type SATSolver interface {
	Solve(ctx context.Context, sat SAT) (SATSolution, error) // Returns a solution of the SAT instance if satisfiable, else returns nil (these are valid outputs where error shall be nil)
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	named := lo.Keys(s.Names)
	slices.Sort(named)
	for _, variable := range named {
		fmt.Fprintf(&builder, "c %s=%d\n", s.Names[variable], variable)
	}
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// Projection returns the variables two models must differ on to be distinct.
// Named instances project on their named variables; anonymous ones on every
// variable occurring in a clause.
func (s SAT) Projection() []int64 {
	var variables []int64
	if len(s.Names) > 0 {
		variables = lo.Keys(s.Names)
	} else {
		variables = lo.Uniq(lo.FlatMap(s.Clauses, func(clause []int64, _ int) []int64 {
			return lo.Map(clause, func(literal int64, _ int) int64 { return abs(literal) })
		}))
	}
	slices.Sort(variables)
	return variables
}

// Name returns the user name of a variable, or its index when it has none.
func (s SAT) Name(variable int64) string {
	if name, ok := s.Names[variable]; ok {
		return name
	}
	return fmt.Sprint(variable)
}

// withClauses returns a copy of s extended with extra clauses.
func (s SAT) withClauses(extra [][]int64) SAT {
	clauses := make([][]int64, 0, len(s.Clauses)+len(extra))
	clauses = append(clauses, s.Clauses...)
	clauses = append(clauses, extra...)
	return SAT{
		Variables: s.Variables,
		Clauses:   clauses,
		Names:     s.Names,
	}
}

func abs(literal int64) int64 {
	if literal < 0 {
		return -literal
	}
	return literal
}
