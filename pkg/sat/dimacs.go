package sat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseDIMACS reads a DIMACS-CNF instance. Comment lines of the form
// "c name=index" populate the symbol table.
func ParseDIMACS(r io.Reader) (SAT, error) {
	var sat SAT
	var clause []int64
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Comments, possibly carrying a variable name
		if strings.HasPrefix(line, "c") {
			if name, variable, ok := parseNameComment(line); ok {
				if sat.Names == nil {
					sat.Names = make(map[int64]string)
				}
				sat.Names[variable] = name
			}
			continue
		}
		// SATLIB end-of-instance marker
		if strings.HasPrefix(line, "%") {
			break
		}
		// Problem line
		if strings.HasPrefix(line, "p") {
			parts := strings.Fields(line)
			if len(parts) != 4 || parts[1] != "cnf" {
				return SAT{}, fmt.Errorf("invalid problem line: %s", line)
			}
			vars, err := strconv.ParseUint(parts[2], 10, 64)
			if err != nil {
				return SAT{}, fmt.Errorf("invalid variable count: %w", err)
			}
			sat.Variables = vars
			continue
		}
		// Clause lines; a clause may span several lines and ends with 0
		for _, litStr := range strings.Fields(line) {
			lit, err := strconv.ParseInt(litStr, 10, 64)
			if err != nil {
				return SAT{}, fmt.Errorf("invalid literal '%s': %w", litStr, err)
			}
			if lit == 0 {
				sat.Clauses = append(sat.Clauses, clause)
				clause = nil
				continue
			}
			if uint64(abs(lit)) > sat.Variables {
				sat.Variables = uint64(abs(lit))
			}
			clause = append(clause, lit)
		}
	}

	if err := scanner.Err(); err != nil {
		return SAT{}, fmt.Errorf("error reading DIMACS input: %w", err)
	}
	if len(clause) > 0 {
		sat.Clauses = append(sat.Clauses, clause)
	}

	return sat, nil
}

func parseNameComment(line string) (string, int64, bool) {
	fields := strings.Fields(strings.TrimPrefix(line, "c"))
	if len(fields) != 1 {
		return "", 0, false
	}
	name, indexStr, found := strings.Cut(fields[0], "=")
	if !found || name == "" {
		return "", 0, false
	}
	index, err := strconv.ParseInt(indexStr, 10, 64)
	if err != nil || index <= 0 {
		return "", 0, false
	}
	return name, index, true
}
