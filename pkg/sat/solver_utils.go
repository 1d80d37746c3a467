package sat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// parseSolution extracts the model from the "v ..." lines of a competition-format output.
func parseSolution(solverOutput string) (SATSolution, error) {
	fields := lo.FlatMap(
		lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
			return len(line) > 0 && line[0] == 'v'
		}),
		func(line string, _ int) []string {
			return strings.Fields(line[1:])
		},
	)
	return parseLiterals(fields)
}

// parseModelFile extracts the model from the result file written by minisat-like solvers
// ("SAT" header followed by the literals).
func parseModelFile(solverOutput string) (SATSolution, error) {
	fields := lo.Reject(strings.Fields(solverOutput), func(field string, _ int) bool {
		return field == "SAT" || field == "SATISFIABLE"
	})
	return parseLiterals(fields)
}

func parseLiterals(fields []string) (SATSolution, error) {
	solution := make(SATSolution, 0, len(fields))
	for _, valueStr := range fields {
		value, err := strconv.ParseInt(valueStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid literal in solver output: %v", err)
		}
		if value == 0 { // Terminator
			break
		}
		solution = append(solution, value)
	}
	return solution, nil
}

// blockingClause forbids the given model on the projection variables. Variables
// missing from the solution are taken as false.
func blockingClause(solution SATSolution, projection []int64) []int64 {
	values := lo.SliceToMap(solution, func(literal int64) (int64, bool) {
		return abs(literal), literal > 0
	})
	return lo.Map(projection, func(variable int64, _ int) int64 {
		if values[variable] {
			return -variable
		}
		return variable
	})
}
