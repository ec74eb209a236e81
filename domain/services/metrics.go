// Package services provides stateless computations over completed graphs:
// coverage/diversity metrics and the evidence-threshold governance check.
package services

import (
	"math"

	"sarscov2kg/domain/core/aggregates"
	"sarscov2kg/domain/core/traces"
)

// DomainCoverage counts base-graph nodes per research category.
type DomainCoverage struct {
	Virology     int `json:"virology"`
	Immunology   int `json:"immunology"`
	Genomics     int `json:"genomics"`
	Treatment    int `json:"treatment"`
	PublicHealth int `json:"public_health"`
}

// Total returns the overall node count across categories.
func (c DomainCoverage) Total() int {
	return c.Virology + c.Immunology + c.Genomics + c.Treatment + c.PublicHealth
}

// Serendipity aggregates the coarse exploration heuristics.
type Serendipity struct {
	// BranchingFactor is (domains with at least one node) / 5. A heuristic,
	// not derived from any traversal.
	BranchingFactor float64 `json:"branching_factor"`
	// EvidenceDiversity is the Shannon entropy (natural log) of the
	// normalized per-domain node-count distribution.
	EvidenceDiversity float64 `json:"evidence_diversity"`
}

// Metrics is the coverage/serendipity snapshot for one base graph.
type Metrics struct {
	Coverage    DomainCoverage `json:"coverage"`
	Serendipity Serendipity    `json:"serendipity"`
}

// ComputeMetrics scans the base graph and derives coverage and diversity.
func ComputeMetrics(graph *aggregates.BaseGraph) Metrics {
	cov := DomainCoverage{
		Virology:     len(graph.Virology),
		Immunology:   len(graph.Immunology),
		Genomics:     len(graph.Genomics),
		Treatment:    len(graph.Treatment),
		PublicHealth: len(graph.PublicHealth),
	}
	return Metrics{
		Coverage: cov,
		Serendipity: Serendipity{
			BranchingFactor:   branchingProxy(cov),
			EvidenceDiversity: evidenceDiversity(cov),
		},
	}
}

// evidenceDiversity is zero when the graph holds no nodes; zero-probability
// bins contribute zero.
func evidenceDiversity(cov DomainCoverage) float64 {
	total := float64(cov.Total())
	if total == 0 {
		return 0
	}
	counts := [5]int{cov.Virology, cov.Immunology, cov.Genomics, cov.Treatment, cov.PublicHealth}
	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / total
		if p > 0 {
			entropy -= p * math.Log(p)
		}
	}
	return entropy
}

func branchingProxy(cov DomainCoverage) float64 {
	nonEmpty := 0
	for _, c := range [5]int{cov.Virology, cov.Immunology, cov.Genomics, cov.Treatment, cov.PublicHealth} {
		if c > 0 {
			nonEmpty++
		}
	}
	return float64(nonEmpty) / 5.0
}

// AverageTraceDiversity is the arithmetic mean of each trace's diversity
// score, or 0 when there are no traces.
func AverageTraceDiversity(ts []*traces.Trace) float64 {
	if len(ts) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range ts {
		sum += t.DiversityScore()
	}
	return sum / float64(len(ts))
}
