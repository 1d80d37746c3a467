package solve

import (
	"fmt"
	"strings"

	"github.com/limaJavier/touist/pkg/errors"
	"github.com/limaJavier/touist/pkg/sat"
	"github.com/samber/lo"
)

type SupportedSolver int

const (
	SAT SupportedSolver = iota
	SMT
)

var solverNames = map[SupportedSolver]string{
	SAT: "sat",
	SMT: "smt",
}

var solverDescriptions = map[SupportedSolver]string{
	SAT: "Basic Solver.",
	SMT: "Support Arithmetic operations.",
}

func (s SupportedSolver) Name() string {
	if name, ok := solverNames[s]; ok {
		return name
	}
	return fmt.Sprintf("solver(%d)", int(s))
}

func (s SupportedSolver) Description() string {
	return solverDescriptions[s]
}

func (s SupportedSolver) String() string {
	return s.Name()
}

// SupportedSolvers lists every solver kind in declaration order.
func SupportedSolvers() []SupportedSolver {
	return []SupportedSolver{SAT, SMT}
}

// ParseSolver reads a solver kind by name, ignoring case.
func ParseSolver(name string) (SupportedSolver, error) {
	solver, ok := lo.FindKey(solverNames, strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return 0, errors.UnsupportedSolver(name)
	}
	return solver, nil
}

// Logic is the SMT theory an SMT instance is written in.
type Logic string

const (
	QF_LRA Logic = "QF_LRA"
	QF_LIA Logic = "QF_LIA"
	QF_RDL Logic = "QF_RDL"
	QF_IDL Logic = "QF_IDL"
)

func Logics() []Logic {
	return []Logic{QF_LRA, QF_LIA, QF_RDL, QF_IDL}
}

func ParseLogic(name string) (Logic, error) {
	logic := Logic(strings.ToUpper(strings.TrimSpace(name)))
	if !lo.Contains(Logics(), logic) {
		return "", errors.InvalidInput(fmt.Sprintf("unknown logic %q", name), nil)
	}
	return logic, nil
}

const (
	GophersatBackend = "gophersat"
	GiniBackend      = "gini"
	DefaultBackend   = GophersatBackend
)

// Backends lists the SAT backends: the in-process ones first, then the
// external binaries by name.
func Backends() []string {
	return append([]string{GophersatBackend, GiniBackend}, sat.BinarySolvers()...)
}

func IsBackend(name string) bool {
	return lo.Contains(Backends(), name)
}
