package nodes

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "sarscov2kg/pkg/errors"
)

// Metadata carries the evidence bookkeeping attached to an intent node.
type Metadata struct {
	EvidenceCount int       `json:"evidence_count"`
	Confidence    float64   `json:"confidence"`
	Sources       []string  `json:"sources"`
	CreatedAt     time.Time `json:"created_at"`
}

// IntentNode wraps one domain payload with a research intent label. The node
// shares the payload's identifier, so wrapping the same payload twice
// overwrites rather than duplicates when folded into a graph.
type IntentNode struct {
	ID       uuid.UUID      `json:"id"`
	Intent   string         `json:"intent"`
	Domain   ResearchDomain `json:"domain"`
	Content  Content        `json:"content"`
	Metadata Metadata       `json:"metadata"`
}

// NewIntentNode wraps content into an intent node. The domain tag is derived
// from the content variant, so it can never disagree with the payload's
// category. Confidence must be in [0,1].
func NewIntentNode(content Content, intent string, evidenceCount int, confidence float64, sources []string) (IntentNode, error) {
	if content == nil {
		return IntentNode{}, pkgerrors.NewValidationError("intent node content cannot be nil")
	}
	if confidence < 0 || confidence > 1 {
		return IntentNode{}, pkgerrors.NewValidationError(
			fmt.Sprintf("intent node confidence %v outside [0,1]", confidence))
	}
	if sources == nil {
		sources = []string{}
	}
	return IntentNode{
		ID:      content.ContentID(),
		Intent:  intent,
		Domain:  content.Domain(),
		Content: content,
		Metadata: Metadata{
			EvidenceCount: evidenceCount,
			Confidence:    confidence,
			Sources:       sources,
			CreatedAt:     time.Now().UTC(),
		},
	}, nil
}
