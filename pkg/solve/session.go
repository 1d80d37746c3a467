package solve

import (
	"context"

	"github.com/limaJavier/touist/pkg/errors"
	"github.com/limaJavier/touist/pkg/logging"
	"github.com/limaJavier/touist/pkg/results"
	"github.com/limaJavier/touist/pkg/sat"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Solver  SupportedSolver
	Backend string            // One of Backends(); empty means DefaultBackend
	Logic   Logic             // Only used by SMT
	Paths   map[string]string // External binary name -> executable path
}

// Session is a solving session over one instance. It serves the instance's
// models to a results.Navigator.
type Session struct {
	backend  string
	instance sat.SAT
	inner    sat.Session
	shown    []int64 // Variables rendered in each model
	closed   bool
	logger   *logrus.Entry
}

var _ results.Source = (*Session)(nil)

// Open starts a session on instance with the backend options select.
func Open(ctx context.Context, options Options, instance sat.SAT) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if options.Solver != SAT {
		return nil, errors.UnsupportedSolver(options.Solver.Name()).
			WithDetail("logic", string(options.Logic))
	}

	backend := lo.Ternary(options.Backend == "", DefaultBackend, options.Backend)
	var inner sat.Session
	switch backend {
	case GophersatBackend:
		inner = sat.NewGophersatSession(instance)
	case GiniBackend:
		inner = sat.NewGiniSession(instance)
	default:
		solver, err := sat.NewBinarySolver(backend, options.Paths[backend])
		if err != nil {
			return nil, err
		}
		inner = sat.NewSession(solver, instance)
	}

	logger := logging.NewLogger("solve").WithField("backend", backend)
	logger.WithFields(logrus.Fields{
		"variables": instance.Variables,
		"clauses":   len(instance.Clauses),
	}).Debug("session opened")

	return &Session{
		backend:  backend,
		instance: instance,
		inner:    inner,
		shown:    instance.Projection(),
		logger:   logger,
	}, nil
}

func (s *Session) Backend() string {
	return s.backend
}

// RequestModel solves for the next model. It returns an EXHAUSTED error once
// every model has been produced.
func (s *Session) RequestModel(ctx context.Context) (results.Model, error) {
	if s.closed {
		return results.Model{}, errors.SessionClosed()
	}
	solution, err := s.inner.Next(ctx)
	if err != nil {
		if !errors.Is(err, errors.ErrCodeExhausted) {
			s.logger.WithError(err).Warn("solver request failed")
		}
		return results.Model{}, err
	}
	return s.toModel(solution), nil
}

func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.logger.Debug("session closed")
	return s.inner.Close()
}

// toModel binds every shown variable; variables the solution leaves out are
// false.
func (s *Session) toModel(solution sat.SATSolution) results.Model {
	positive := lo.SliceToMap(solution, func(literal int64) (int64, bool) {
		if literal < 0 {
			return -literal, false
		}
		return literal, true
	})
	return results.NewModel(lo.Map(s.shown, func(variable int64, _ int) results.Assignment {
		return results.Assignment{Name: s.instance.Name(variable), Value: positive[variable]}
	}))
}
