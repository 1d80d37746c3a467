// Package formula turns propositional formulas into SAT instances.
//
// Formulas use the gophersat bf syntax, from lowest to highest priority:
// "=" (equivalence), "->" (implication), "|" (or), "&" (and) and the unary
// "^" (negation). Parentheses group subformulas. Multiple lines are joined
// by conjunction.
package formula

import (
	"bufio"
	"bytes"
	"io"
	"slices"
	"strings"

	"github.com/crillab/gophersat/bf"
	"github.com/limaJavier/touist/pkg/errors"
	"github.com/limaJavier/touist/pkg/sat"
	"github.com/samber/lo"
)

// Parse reads a formula, one conjunct per non-empty line. Lines starting with
// ";;" are comments.
func Parse(r io.Reader) (bf.Formula, error) {
	var conjuncts []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";;") {
			continue
		}
		conjuncts = append(conjuncts, "("+line+")")
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.InvalidInput("cannot read formula", err)
	}
	if len(conjuncts) == 0 {
		return nil, errors.InvalidInput("empty formula", nil)
	}

	f, err := bf.Parse(strings.NewReader(strings.Join(conjuncts, " & ")))
	if err != nil {
		return nil, errors.InvalidInput("cannot parse formula", err)
	}
	return f, nil
}

// Translate parses a formula and converts it into an equivalent CNF instance.
// The instance's symbol table holds the formula's variables; auxiliary
// variables introduced by the CNF conversion stay anonymous.
func Translate(r io.Reader) (sat.SAT, error) {
	f, err := Parse(r)
	if err != nil {
		return sat.SAT{}, err
	}
	return FromFormula(f)
}

// FromFormula converts an already built formula.
func FromFormula(f bf.Formula) (sat.SAT, error) {
	var dimacs bytes.Buffer
	if err := bf.Dimacs(f, &dimacs); err != nil {
		return sat.SAT{}, errors.Wrap(err, errors.ErrCodeInternal, "cannot convert formula to CNF")
	}

	instance, err := sat.ParseDIMACS(&dimacs)
	if err != nil {
		return sat.SAT{}, errors.Wrap(err, errors.ErrCodeInternal, "cannot read converted CNF")
	}
	if instance.Names == nil {
		instance.Names = make(map[int64]string)
	}
	return instance, nil
}

// Variables returns the sorted user variable names of an instance.
func Variables(instance sat.SAT) []string {
	names := lo.Values(instance.Names)
	slices.Sort(names)
	return names
}
