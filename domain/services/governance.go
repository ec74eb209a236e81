package services

import (
	"fmt"

	"sarscov2kg/domain/core/aggregates"
)

// EvidenceThresholds are the minimum per-domain node counts a base graph
// must reach before a merge is allowed.
type EvidenceThresholds struct {
	VirologyMin  int `json:"virology_min"`
	GenomicsMin  int `json:"genomics_min"`
	TreatmentMin int `json:"treatment_min"`
}

// GovernanceDecision is the outcome of a merge check.
type GovernanceDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// CheckMergeAllowed compares the base graph's per-domain evidence against the
// thresholds, rejecting on the first domain that falls short.
func CheckMergeAllowed(graph *aggregates.BaseGraph, t EvidenceThresholds) GovernanceDecision {
	if len(graph.Virology) < t.VirologyMin {
		return GovernanceDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("insufficient virology evidence: %d < %d", len(graph.Virology), t.VirologyMin),
		}
	}
	if len(graph.Genomics) < t.GenomicsMin {
		return GovernanceDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("insufficient genomics evidence: %d < %d", len(graph.Genomics), t.GenomicsMin),
		}
	}
	if len(graph.Treatment) < t.TreatmentMin {
		return GovernanceDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("insufficient treatment evidence: %d < %d", len(graph.Treatment), t.TreatmentMin),
		}
	}
	return GovernanceDecision{Allowed: true, Reason: "merge allowed: thresholds satisfied"}
}
