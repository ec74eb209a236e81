// Package edges defines typed graph edges carrying weight and provenance
// metadata. Constructors validate value ranges but never endpoint existence;
// the graph store checks endpoints at insertion time.
package edges

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"sarscov2kg/domain/core/nodes"
	pkgerrors "sarscov2kg/pkg/errors"
)

// Type tags the relationship semantics of an edge. It is a pure
// discriminator: it selects the weight-assignment rule but does not change
// the edge structure.
type Type string

const (
	TypeCausal      Type = "causal"      // mutation -> immune escape
	TypeCorrelative Type = "correlative" // treatment -> reduced hospitalization
	TypeMechanistic Type = "mechanistic" // spike protein -> ACE2 binding
	TypeTemporal    Type = "temporal"    // variant emergence -> policy change
	TypeInhibitory  Type = "inhibitory"  // antibody -> viral replication
)

// IsValid reports whether t names one of the five edge types.
func (t Type) IsValid() bool {
	switch t {
	case TypeCausal, TypeCorrelative, TypeMechanistic, TypeTemporal, TypeInhibitory:
		return true
	}
	return false
}

// Metadata carries an edge's provenance.
type Metadata struct {
	SourceDomain nodes.ResearchDomain `json:"source_domain"`
	TargetDomain nodes.ResearchDomain `json:"target_domain"`
	EvidenceRefs []string             `json:"evidence_refs"`
	Confidence   float64              `json:"confidence"`
	CreatedAt    time.Time            `json:"created_at"`
}

// Edge is a typed, weighted, directed edge between two intent nodes,
// referenced by identifier.
type Edge struct {
	ID       uuid.UUID `json:"id"`
	Type     Type      `json:"edge_type"`
	SourceID uuid.UUID `json:"source_id"`
	TargetID uuid.UUID `json:"target_id"`
	Label    string    `json:"label"`
	Weight   float64   `json:"weight"`
	Metadata Metadata  `json:"metadata"`
}

// NewCausal creates a causal edge. Confidence becomes the edge weight
// directly and must be in [0,1].
func NewCausal(sourceID, targetID uuid.UUID, label string, sourceDomain, targetDomain nodes.ResearchDomain, evidenceRefs []string, confidence float64) (Edge, error) {
	if confidence < 0 || confidence > 1 {
		return Edge{}, pkgerrors.NewValidationError(
			fmt.Sprintf("causal edge confidence %v outside [0,1]", confidence))
	}
	return newEdge(TypeCausal, sourceID, targetID, label, sourceDomain, targetDomain, evidenceRefs, confidence), nil
}

// NewCorrelative creates a correlative edge. The correlation coefficient must
// be in [-1,1]; its absolute value becomes both weight and confidence.
func NewCorrelative(sourceID, targetID uuid.UUID, label string, sourceDomain, targetDomain nodes.ResearchDomain, evidenceRefs []string, correlation float64) (Edge, error) {
	if correlation < -1 || correlation > 1 {
		return Edge{}, pkgerrors.NewValidationError(
			fmt.Sprintf("correlation coefficient %v outside [-1,1]", correlation))
	}
	return newEdge(TypeCorrelative, sourceID, targetID, label, sourceDomain, targetDomain, evidenceRefs, math.Abs(correlation)), nil
}

// New creates an edge of an arbitrary type with confidence taken directly as
// weight. Use NewCausal/NewCorrelative for their specific weight rules.
func New(edgeType Type, sourceID, targetID uuid.UUID, label string, sourceDomain, targetDomain nodes.ResearchDomain, evidenceRefs []string, confidence float64) (Edge, error) {
	if !edgeType.IsValid() {
		return Edge{}, pkgerrors.NewValidationError(fmt.Sprintf("unknown edge type %q", edgeType))
	}
	if confidence < 0 || confidence > 1 {
		return Edge{}, pkgerrors.NewValidationError(
			fmt.Sprintf("edge confidence %v outside [0,1]", confidence))
	}
	return newEdge(edgeType, sourceID, targetID, label, sourceDomain, targetDomain, evidenceRefs, confidence), nil
}

func newEdge(edgeType Type, sourceID, targetID uuid.UUID, label string, sourceDomain, targetDomain nodes.ResearchDomain, evidenceRefs []string, weight float64) Edge {
	if evidenceRefs == nil {
		evidenceRefs = []string{}
	}
	return Edge{
		ID:       uuid.New(),
		Type:     edgeType,
		SourceID: sourceID,
		TargetID: targetID,
		Label:    label,
		Weight:   weight,
		Metadata: Metadata{
			SourceDomain: sourceDomain,
			TargetDomain: targetDomain,
			EvidenceRefs: evidenceRefs,
			Confidence:   weight,
			CreatedAt:    time.Now().UTC(),
		},
	}
}

// IsCrossDomain reports whether the edge's recorded source-domain label
// differs from its target-domain label. The comparison is exact and
// case-sensitive: mismatched casing or synonyms for the same domain will
// classify as cross-domain.
func (e Edge) IsCrossDomain() bool {
	return e.Metadata.SourceDomain != e.Metadata.TargetDomain
}
