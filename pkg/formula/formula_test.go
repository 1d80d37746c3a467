package formula

import (
	"context"
	"strings"
	"testing"

	"github.com/limaJavier/touist/pkg/errors"
	"github.com/limaJavier/touist/pkg/sat"
	. "github.com/onsi/gomega"
)

func TestTranslateKeepsUserVariables(t *testing.T) {
	g := NewWithT(t)

	instance, err := Translate(strings.NewReader("rain -> wet\n;; comment\n\nrain -> umbrella & ^sunny\n"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(Variables(instance)).To(Equal([]string{"rain", "sunny", "umbrella", "wet"}))
	g.Expect(instance.Projection()).To(HaveLen(4))
	g.Expect(instance.Clauses).NotTo(BeEmpty())
}

func TestTranslatedModelsMatchFormula(t *testing.T) {
	g := NewWithT(t)

	// (a | b) & ^(a & b) has exactly two models over {a, b}
	instance, err := Translate(strings.NewReader("a | b\n^(a & b)"))
	g.Expect(err).NotTo(HaveOccurred())

	session := sat.NewGophersatSession(instance)
	defer session.Close()

	var rendered []string
	for {
		solution, err := session.Next(context.Background())
		if errors.Is(err, errors.ErrCodeExhausted) {
			break
		}
		g.Expect(err).NotTo(HaveOccurred())

		var trueVars []string
		for _, literal := range solution {
			if name, ok := instance.Names[literal]; ok {
				trueVars = append(trueVars, name)
			}
		}
		rendered = append(rendered, strings.Join(trueVars, ","))
	}
	g.Expect(rendered).To(ConsistOf("a", "b"))
}

func TestTranslateRejectsInvalidFormulas(t *testing.T) {
	g := NewWithT(t)

	_, err := Translate(strings.NewReader("a & & b"))
	g.Expect(errors.Is(err, errors.ErrCodeInvalidInput)).To(BeTrue())

	_, err = Translate(strings.NewReader(";; nothing but a comment\n"))
	g.Expect(errors.Is(err, errors.ErrCodeInvalidInput)).To(BeTrue())
}
