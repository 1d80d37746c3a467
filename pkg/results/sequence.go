package results

import (
	"github.com/limaJavier/touist/pkg/errors"
)

// sequence is the lazily extended list of models of one solving session.
// Every model produced is kept in visited, so positions already reached are
// served without asking the source again.
type sequence struct {
	source    Source
	visited   []Model
	exhausted bool
	err       error // Failure that ended the sequence early, if any
}

func newSequence(source Source) *sequence {
	return &sequence{source: source}
}

// needs reports whether the source must be asked for another model before
// index is visited.
func (s *sequence) needs(index int) bool {
	return len(s.visited) <= index && !s.exhausted
}

func (s *sequence) has(index int) bool {
	return index < len(s.visited)
}

// record stores the outcome of one request. A failing source counts as
// exhausted; its error is kept.
func (s *sequence) record(model Model, err error) {
	if err != nil {
		s.exhausted = true
		if !errors.Is(err, errors.ErrCodeExhausted) {
			s.err = err
		}
		return
	}
	s.visited = append(s.visited, model)
}

func (s *sequence) close() error {
	s.visited = nil
	return s.source.Close()
}
