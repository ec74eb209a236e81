// Package traces implements serendipity traces: per-session append-only logs
// of exploration steps with entropy-based diversity metrics.
package traces

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// HypothesisType tags the hypothesis a step or path explores.
type HypothesisType string

const (
	HypothesisTransmissibility   HypothesisType = "transmissibility"
	HypothesisVaccineEfficacy    HypothesisType = "vaccine_efficacy"
	HypothesisImmuneEscape       HypothesisType = "immune_escape"
	HypothesisTreatmentResponse  HypothesisType = "treatment_response"
	HypothesisPublicHealthImpact HypothesisType = "public_health_impact"
)

// IsValid reports whether h names one of the five hypothesis types.
func (h HypothesisType) IsValid() bool {
	switch h {
	case HypothesisTransmissibility, HypothesisVaccineEfficacy, HypothesisImmuneEscape,
		HypothesisTreatmentResponse, HypothesisPublicHealthImpact:
		return true
	}
	return false
}

// Step is a single exploration step within a research session.
type Step struct {
	ID              uuid.UUID      `json:"id"`
	StepNumber      int            `json:"step_number"`
	Hypothesis      HypothesisType `json:"hypothesis"`
	Query           string         `json:"query"`
	DomainsExplored []string       `json:"domains_explored"`
	EvidenceFound   int            `json:"evidence_found"`
	Confidence      float64        `json:"confidence"`
	Timestamp       time.Time      `json:"timestamp"`
}

// Trace is the complete serendipity trace for one research session. Steps are
// append-only; histogram, evidence and jump counters are maintained
// incrementally as steps arrive.
type Trace struct {
	ID                 uuid.UUID              `json:"id"`
	SessionID          string                 `json:"session_id"`
	Question           string                 `json:"question"`
	Steps              []Step                 `json:"steps"`
	HypothesesExplored map[HypothesisType]int `json:"hypotheses_explored"`
	TotalEvidence      int                    `json:"total_evidence"`
	CrossDomainJumps   int                    `json:"cross_domain_jumps"`
	CreatedAt          time.Time              `json:"created_at"`
}

// New creates an empty trace for a session.
func New(sessionID, question string) *Trace {
	return &Trace{
		ID:                 uuid.New(),
		SessionID:          sessionID,
		Question:           question,
		Steps:              []Step{},
		HypothesesExplored: make(map[HypothesisType]int),
		CreatedAt:          time.Now().UTC(),
	}
}

// AddStep appends a step, updating the hypothesis histogram, the evidence
// total and the cross-domain jump counter. A jump is counted when the new
// step's domain list differs from the previous step's under order-sensitive
// comparison; reordering the same labels counts as a jump.
func (t *Trace) AddStep(step Step) {
	t.HypothesesExplored[step.Hypothesis]++
	t.TotalEvidence += step.EvidenceFound

	if len(t.Steps) > 0 {
		prev := t.Steps[len(t.Steps)-1].DomainsExplored
		if !equalDomains(prev, step.DomainsExplored) {
			t.CrossDomainJumps++
		}
	}

	t.Steps = append(t.Steps, step)
}

func equalDomains(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// BranchingFactor is the count of distinct hypothesis types seen divided by
// the step count, or 0 for an empty trace.
func (t *Trace) BranchingFactor() float64 {
	if len(t.Steps) == 0 {
		return 0
	}
	return float64(len(t.HypothesesExplored)) / float64(len(t.Steps))
}

// DiversityScore is the Shannon entropy (natural log) of the hypothesis-type
// histogram normalized by step count, or 0 for an empty trace.
func (t *Trace) DiversityScore() float64 {
	total := float64(len(t.Steps))
	if total == 0 {
		return 0
	}
	entropy := 0.0
	for _, count := range t.HypothesesExplored {
		p := float64(count) / total
		if p > 0 {
			entropy -= p * math.Log(p)
		}
	}
	return entropy
}

// ExplorationDepth is the number of steps taken.
func (t *Trace) ExplorationDepth() int {
	return len(t.Steps)
}

// AvgConfidence is the mean confidence across all steps, or 0 for an empty
// trace.
func (t *Trace) AvgConfidence() float64 {
	if len(t.Steps) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range t.Steps {
		sum += s.Confidence
	}
	return sum / float64(len(t.Steps))
}

// Summary is a flat snapshot of a trace's identifying fields and derived
// metrics, intended for serialization.
type Summary struct {
	TraceID          uuid.UUID `json:"trace_id"`
	SessionID        string    `json:"session_id"`
	Question         string    `json:"question"`
	TotalSteps       int       `json:"total_steps"`
	UniqueHypotheses int       `json:"unique_hypotheses"`
	BranchingFactor  float64   `json:"branching_factor"`
	DiversityScore   float64   `json:"diversity_score"`
	CrossDomainJumps int       `json:"cross_domain_jumps"`
	TotalEvidence    int       `json:"total_evidence"`
	AvgConfidence    float64   `json:"avg_confidence"`
}

// Summary packages the trace's derived metrics into one snapshot.
func (t *Trace) Summary() Summary {
	return Summary{
		TraceID:          t.ID,
		SessionID:        t.SessionID,
		Question:         t.Question,
		TotalSteps:       len(t.Steps),
		UniqueHypotheses: len(t.HypothesesExplored),
		BranchingFactor:  t.BranchingFactor(),
		DiversityScore:   t.DiversityScore(),
		CrossDomainJumps: t.CrossDomainJumps,
		TotalEvidence:    t.TotalEvidence,
		AvgConfidence:    t.AvgConfidence(),
	}
}
