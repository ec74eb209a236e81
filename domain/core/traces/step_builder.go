package traces

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "sarscov2kg/pkg/errors"
)

// StepBuilder assembles an exploration step field by field.
type StepBuilder struct {
	stepNumber int
	hypothesis HypothesisType
	query      string
	domains    []string
	evidence   int
	confidence float64
}

// NewStepBuilder starts a step with its required fields.
func NewStepBuilder(stepNumber int, hypothesis HypothesisType, query string) *StepBuilder {
	return &StepBuilder{
		stepNumber: stepNumber,
		hypothesis: hypothesis,
		query:      query,
		domains:    []string{},
	}
}

// Domains sets the domain labels explored by this step.
func (b *StepBuilder) Domains(domains []string) *StepBuilder {
	b.domains = domains
	return b
}

// Evidence sets the count of evidence items found.
func (b *StepBuilder) Evidence(count int) *StepBuilder {
	b.evidence = count
	return b
}

// Confidence sets the step's confidence.
func (b *StepBuilder) Confidence(conf float64) *StepBuilder {
	b.confidence = conf
	return b
}

// Build produces the step, validating the hypothesis tag and confidence range.
func (b *StepBuilder) Build() (Step, error) {
	if !b.hypothesis.IsValid() {
		return Step{}, pkgerrors.NewValidationError(fmt.Sprintf("unknown hypothesis type %q", b.hypothesis))
	}
	if b.confidence < 0 || b.confidence > 1 {
		return Step{}, pkgerrors.NewValidationError(
			fmt.Sprintf("step confidence %v outside [0,1]", b.confidence))
	}
	domains := b.domains
	if domains == nil {
		domains = []string{}
	}
	return Step{
		ID:              uuid.New(),
		StepNumber:      b.stepNumber,
		Hypothesis:      b.hypothesis,
		Query:           b.query,
		DomainsExplored: domains,
		EvidenceFound:   b.evidence,
		Confidence:      b.confidence,
		Timestamp:       time.Now().UTC(),
	}, nil
}
