package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDirectory = "../../pkg/sat/testdata"

type execution struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, args ...string) execution {
	t.Helper()
	config := filepath.Join(t.TempDir(), "settings.yml")
	return executeWithConfig(t, config, args...)
}

func executeWithConfig(t *testing.T, config string, args ...string) execution {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"--config", config}, args...), &stdout, &stderr)
	return execution{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestSolvePrintsEveryModel(t *testing.T) {
	result := execute(t, "solve", filepath.Join(testDirectory, "named.cnf"))

	assert.Equal(t, exitSatisfiable, result.code, result.stderr)
	assert.Equal(t, 2, strings.Count(result.stdout, modelSeparator))
	assert.Contains(t, result.stdout, "1 rain\n1 umbrella\n1 wet")
}

func TestSolveWithLimit(t *testing.T) {
	result := execute(t, "solve", "--limit", "1", "--backend", "gini", filepath.Join(testDirectory, "simple.cnf"))

	assert.Equal(t, exitSatisfiable, result.code, result.stderr)
	assert.NotContains(t, result.stdout, modelSeparator)
}

func TestLimitHelpMentionsTheExtraSolverCall(t *testing.T) {
	result := execute(t, "solve", "--help")

	assert.Equal(t, 0, result.code)
	assert.Contains(t, result.stdout, "one model more")
}

func TestSolveUnsatisfiable(t *testing.T) {
	result := execute(t, "solve", filepath.Join(testDirectory, "unsat.cnf"))

	assert.Equal(t, exitUnsatisfiable, result.code)
	assert.Equal(t, "No solution found\n", result.stdout)
}

func TestSolveFormula(t *testing.T) {
	path := filepath.Join(t.TempDir(), "door.txt")
	require.NoError(t, os.WriteFile(path, []byte("open -> ^locked\nopen\n"), 0o644))

	result := execute(t, "solve", path)

	assert.Equal(t, exitSatisfiable, result.code, result.stderr)
	assert.Equal(t, "0 locked\n1 open\n", result.stdout)
}

func TestSolveFromDefaultDirectory(t *testing.T) {
	directory, err := filepath.Abs(testDirectory)
	require.NoError(t, err)
	config := filepath.Join(t.TempDir(), "settings.yml")
	require.Equal(t, 0, executeWithConfig(t, config, "settings", "set", "default_directory", directory).code)

	result := executeWithConfig(t, config, "solve", "queens4.cnf")

	assert.Equal(t, exitSatisfiable, result.code, result.stderr)
	assert.Equal(t, 1, strings.Count(result.stdout, modelSeparator))
}

func TestSolveRejectsUnsupportedSelections(t *testing.T) {
	file := filepath.Join(testDirectory, "simple.cnf")

	result := execute(t, "solve", "--solver", "smt", file)
	assert.Equal(t, exitFailure, result.code)
	assert.Contains(t, result.stderr, "touist solvers")

	result = execute(t, "solve", "--backend", "sat4j", file)
	assert.Equal(t, exitFailure, result.code)
	assert.Contains(t, result.stderr, "sat4j")
}

func TestSolveMissingFile(t *testing.T) {
	result := execute(t, "solve", filepath.Join(t.TempDir(), "missing.cnf"))

	assert.Equal(t, exitFailure, result.code)
	assert.Contains(t, result.stderr, "cannot open")
}

func TestSettings(t *testing.T) {
	config := filepath.Join(t.TempDir(), "touist", "settings.yml")

	result := executeWithConfig(t, config, "settings", "set", "backend", "gini")
	require.Equal(t, 0, result.code, result.stderr)

	result = executeWithConfig(t, config, "settings", "show")
	assert.Equal(t, 0, result.code)
	assert.Contains(t, result.stdout, "backend: gini")

	result = executeWithConfig(t, config, "settings", "set", "logic", "QF_LIA")
	assert.Equal(t, exitFailure, result.code)
	assert.Contains(t, result.stderr, "logic is only accepted by the smt solver")
}

func TestSolvers(t *testing.T) {
	result := execute(t, "solvers")

	assert.Equal(t, 0, result.code)
	assert.Contains(t, result.stdout, "Support Arithmetic operations.")
	assert.Contains(t, result.stdout, "gophersat")
	assert.Contains(t, result.stdout, "kissat")
}
