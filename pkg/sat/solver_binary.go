package sat

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/limaJavier/touist/pkg/errors"
	"github.com/samber/lo"
)

type binaryMode int

const (
	stdinMode      binaryMode = iota // DIMACS on standard input, model on standard output
	inputFileMode                    // DIMACS in a temporary file, model on standard output
	resultFileMode                   // DIMACS in a temporary file, model written to a result file
)

type binarySpec struct {
	executable string
	args       []string
	mode       binaryMode
}

var binarySpecs = map[string]binarySpec{
	"kissat":        {executable: "kissat", args: []string{"-q", "--relaxed"}, mode: stdinMode},
	"cadical":       {executable: "cadical", args: []string{"-q"}, mode: stdinMode},
	"cryptominisat": {executable: "cryptominisat", args: []string{"--verb", "0"}, mode: stdinMode},
	"minisat":       {executable: "minisat", args: []string{"-verb=0"}, mode: resultFileMode},
	"glucosesimp":   {executable: "glucose-simp", args: []string{"-verb=0"}, mode: resultFileMode},
	"glucosesyrup":  {executable: "glucose-syrup", args: []string{"-verb=0"}, mode: resultFileMode},
	"slime":         {executable: "slime", mode: inputFileMode},
	"ortoolsat":     {executable: "ortoolsat", mode: inputFileMode},
}

// BinarySolvers lists the external solvers that can be driven through NewBinarySolver.
func BinarySolvers() []string {
	names := lo.Keys(binarySpecs)
	slices.Sort(names)
	return names
}

type binarySolver struct {
	name string
	path string
	spec binarySpec
}

// NewBinarySolver returns a solver running an external executable. An empty
// path falls back to the executable's usual name looked up on PATH.
func NewBinarySolver(name, path string) (SATSolver, error) {
	spec, ok := binarySpecs[name]
	if !ok {
		return nil, errors.UnsupportedSolver(name)
	}
	if path == "" {
		path = spec.executable
	}
	return &binarySolver{name: name, path: path, spec: spec}, nil
}

func (solver *binarySolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	dimacs := sat.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	cmd := exec.CommandContext(ctx, solver.path, solver.spec.args...)

	var resultFile string
	if solver.spec.mode == stdinMode {
		cmd.Stdin = strings.NewReader(dimacs) // Feed dimacs into the solver's standard input
	} else {
		inputFile, err := writeTempFile("dimacs-*.cnf", dimacs)
		if err != nil {
			return nil, err
		}
		defer os.Remove(inputFile) // Ensure the file is removed after execution
		cmd.Args = append(cmd.Args, inputFile)

		if solver.spec.mode == resultFileMode {
			resultFile, err = writeTempFile(solver.name+"_output-*.txt", "")
			if err != nil {
				return nil, err
			}
			defer os.Remove(resultFile)
			cmd.Args = append(cmd.Args, resultFile)
		}
	}

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, errors.SolverExecution(solver.name, ctxErr, "")
	}
	if cmd.ProcessState == nil { // The executable could not even be started
		return nil, errors.SolverExecution(solver.name, err, "")
	}
	// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
	exitCode := cmd.ProcessState.ExitCode()
	if err != nil && exitCode != 10 && exitCode != 20 {
		return nil, errors.SolverExecution(solver.name, err, stderr.String())
	} else if exitCode == 20 {
		return nil, nil
	}

	var solution SATSolution
	if solver.spec.mode == resultFileMode {
		output, readErr := os.ReadFile(resultFile)
		if readErr != nil {
			return nil, errors.SolverExecution(solver.name, fmt.Errorf("failed to read output file: %v", readErr), "")
		}
		if strings.HasPrefix(string(output), "UNSAT") {
			return nil, nil
		}
		solution, err = parseModelFile(string(output))
	} else {
		if strings.Contains(stdOut.String(), "s UNSATISFIABLE") {
			return nil, nil
		}
		solution, err = parseSolution(stdOut.String())
	}
	if err != nil {
		return nil, errors.SolverExecution(solver.name, err, "")
	}
	return solution, nil
}

func writeTempFile(pattern, content string) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %v", err)
	}
	if _, err := file.WriteString(content); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to write temporary file: %v", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to close temporary file: %v", err)
	}
	return file.Name(), nil
}
