package sat

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/limaJavier/touist/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDirectory = "testdata"

var expectedModels = map[string]int{
	"simple.cnf":  4,
	"named.cnf":   3,
	"unsat.cnf":   0,
	"queens4.cnf": 2,
}

func TestGophersat(t *testing.T) {
	solver := NewGophersatSolver()
	t.Run("Satisfiable instances", func(t *testing.T) {
		satisfiableExecution(t, solver)
	})
}

func TestBinarySolvers(t *testing.T) {
	for _, name := range BinarySolvers() {
		t.Run(name, func(t *testing.T) {
			if _, err := exec.LookPath(binarySpecs[name].executable); err != nil {
				t.Skipf("%s is not installed", binarySpecs[name].executable)
			}
			solver, err := NewBinarySolver(name, "")
			require.NoError(t, err)
			satisfiableExecution(t, solver)
		})
	}
}

func TestNewBinarySolverRejectsUnknownName(t *testing.T) {
	_, err := NewBinarySolver("sat4j", "")
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedSolver))
}

func TestBinarySolverMissingExecutable(t *testing.T) {
	solver, err := NewBinarySolver("kissat", filepath.Join(t.TempDir(), "no-such-kissat"))
	require.NoError(t, err)

	_, err = solver.Solve(context.Background(), SAT{Variables: 1, Clauses: [][]int64{{1}}})
	assert.True(t, errors.Is(err, errors.ErrCodeSolverExecution))
}

func TestSessions(t *testing.T) {
	sessions := map[string]func(SAT) Session{
		"gophersat": NewGophersatSession,
		"gini":      NewGiniSession,
		"resolving": func(instance SAT) Session { return NewSession(NewGophersatSolver(), instance) },
	}

	for sessionName, newSession := range sessions {
		for file, expected := range expectedModels {
			t.Run(sessionName+"/"+file, func(t *testing.T) {
				//** Arrange
				instance := readInstance(t, file)
				session := newSession(instance)
				defer session.Close()

				//** Act
				models := enumerate(t, session)

				//** Assert
				assert.Len(t, models, expected)
				for _, model := range models {
					assert.True(t, assertSATSolution(instance, model), "model %v does not satisfy %s", model, file)
				}
				projected := lo.Map(models, func(model SATSolution, _ int) string {
					return strings.Join(lo.Map(blockingClause(model, instance.Projection()), func(l int64, _ int) string {
						return lo.Ternary(l < 0, "1", "0")
					}), "")
				})
				assert.Len(t, lo.Uniq(projected), len(models), "models must differ on the projection")
			})
		}
	}
}

func TestSessionClose(t *testing.T) {
	for name, session := range map[string]Session{
		"gophersat": NewGophersatSession(SAT{Variables: 1, Clauses: [][]int64{{1, -1}}}),
		"gini":      NewGiniSession(SAT{Variables: 1, Clauses: [][]int64{{1, -1}}}),
		"resolving": NewSession(NewGophersatSolver(), SAT{Variables: 1, Clauses: [][]int64{{1, -1}}}),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := session.Next(context.Background())
			require.NoError(t, err)

			require.NoError(t, session.Close())
			require.NoError(t, session.Close())

			_, err = session.Next(context.Background())
			assert.True(t, errors.Is(err, errors.ErrCodeSessionClosed))
		})
	}
}

func TestEmptyInstanceHasOneModel(t *testing.T) {
	session := NewGophersatSession(SAT{})
	models := enumerate(t, session)
	assert.Len(t, models, 1)
	assert.Empty(t, models[0])
}

func TestSessionHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGiniSession(readInstance(t, "simple.cnf")).Next(ctx)
	assert.True(t, errors.Is(err, errors.ErrCodeSolverExecution))
}

func TestParseSolution(t *testing.T) {
	solution, err := parseSolution("s SATISFIABLE\nv 1 -2 3\nv -4 5 0\n")
	require.NoError(t, err)
	assert.Equal(t, SATSolution{1, -2, 3, -4, 5}, solution)

	solution, err = parseModelFile("SAT\n-1 2 0\n")
	require.NoError(t, err)
	assert.Equal(t, SATSolution{-1, 2}, solution)

	_, err = parseSolution("v 1 x 0")
	assert.Error(t, err)
}

func TestBlockingClause(t *testing.T) {
	assert.Equal(t, []int64{-1, 2, -3}, blockingClause(SATSolution{1, -2, 3, 4}, []int64{1, 2, 3}))
	assert.Equal(t, []int64{-1, 5}, blockingClause(SATSolution{1}, []int64{1, 5}))
}

func TestDIMACSRoundTrip(t *testing.T) {
	instance := readInstance(t, "named.cnf")
	assert.Equal(t, uint64(3), instance.Variables)
	assert.Equal(t, map[int64]string{1: "rain", 2: "wet", 3: "umbrella"}, instance.Names)
	assert.Equal(t, []int64{1, 2, 3}, instance.Projection())
	assert.Equal(t, "umbrella", instance.Name(3))
	assert.Equal(t, "7", instance.Name(7))

	reparsed, err := ParseDIMACS(strings.NewReader(instance.ToDIMACS()))
	require.NoError(t, err)
	assert.Equal(t, instance, reparsed)
}

func TestParseDIMACSErrors(t *testing.T) {
	_, err := ParseDIMACS(strings.NewReader("p dnf 1 1\n1 0\n"))
	assert.Error(t, err)

	_, err = ParseDIMACS(strings.NewReader("p cnf 1 1\n1 a 0\n"))
	assert.Error(t, err)
}

func TestParseDIMACSMultilineClauses(t *testing.T) {
	instance, err := ParseDIMACS(strings.NewReader("p cnf 3 2\n1 2\n3 0 -1 0\n%\n0\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]int64{{1, 2, 3}, {-1}}, instance.Clauses)
}

func satisfiableExecution(t *testing.T, solver SATSolver) {
	testFiles, err := os.ReadDir(testDirectory)
	require.NoError(t, err)

	for _, file := range testFiles {
		//** Arrange
		sat := readInstance(t, file.Name())

		//** Act
		solution, err := solver.Solve(context.Background(), sat)
		require.NoError(t, err, "cannot solve %s", file.Name())

		//** Assert
		if expectedModels[file.Name()] == 0 {
			assert.Nil(t, solution, "%s is unsatisfiable", file.Name())
			continue
		}
		assert.True(t, assertSATSolution(sat, solution), "wrong answer for %s", file.Name())
	}
}

func readInstance(t *testing.T, name string) SAT {
	t.Helper()
	file, err := os.Open(filepath.Join(testDirectory, name))
	require.NoError(t, err)
	defer file.Close()

	instance, err := ParseDIMACS(file)
	require.NoError(t, err)
	return instance
}

func enumerate(t *testing.T, session Session) []SATSolution {
	t.Helper()
	var models []SATSolution
	for {
		model, err := session.Next(context.Background())
		if errors.Is(err, errors.ErrCodeExhausted) {
			return models
		}
		require.NoError(t, err)
		models = append(models, slices.Clone(model))
		require.LessOrEqual(t, len(models), 64, "enumeration does not terminate")
	}
}

func assertSATSolution(satInstance SAT, satSolution SATSolution) bool {
	// Make sure there are no duplicates nor contradictions
	literals := make(map[int64]bool)
	for _, literal := range satSolution {
		if literals[literal] || literals[-literal] {
			return false
		}
		literals[literal] = true
	}

	// Check that all clauses are satisfied
	for _, clause := range satInstance.Clauses {
		satisfied := false
		for _, literal := range clause {
			if literals[literal] {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}

	return true
}
