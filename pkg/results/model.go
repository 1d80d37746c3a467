package results

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Assignment binds one variable of a model.
type Assignment struct {
	Name  string
	Value bool
}

// Model is one satisfying assignment. It is immutable once built.
type Model struct {
	assignments []Assignment
}

// NewModel builds a model; assignments are sorted by name.
func NewModel(assignments []Assignment) Model {
	sorted := slices.Clone(assignments)
	slices.SortStableFunc(sorted, func(a, b Assignment) int {
		return strings.Compare(a.Name, b.Name)
	})
	return Model{assignments: sorted}
}

// Assignments returns a copy of the model's assignments.
func (m Model) Assignments() []Assignment {
	return slices.Clone(m.assignments)
}

// Value returns the binding of a variable and whether the model binds it.
func (m Model) Value(name string) (bool, bool) {
	assignment, ok := lo.Find(m.assignments, func(a Assignment) bool { return a.Name == name })
	return assignment.Value, ok
}

// String renders one "1 name" or "0 name" line per assignment.
func (m Model) String() string {
	return strings.Join(lo.Map(m.assignments, func(a Assignment, _ int) string {
		return fmt.Sprintf("%s %s", lo.Ternary(a.Value, "1", "0"), a.Name)
	}), "\n")
}

// Source is a solver session producing successive models. RequestModel
// returns an EXHAUSTED error once no model remains; any other error is a
// solver failure. Close releases the solver and is idempotent.
type Source interface {
	RequestModel(ctx context.Context) (Model, error)
	Close() error
}
