package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sarscov2kg/domain/core/aggregates"
	"sarscov2kg/domain/core/nodes"
)

func populatedBase(virology, genomics, treatment int) *aggregates.BaseGraph {
	base := aggregates.NewBaseGraph(nodes.NewVirusNode("SARS-CoV-2", 30.0))
	for i := 0; i < virology; i++ {
		base.AddVirology(nodes.NewVirologyNode("t", "d"))
	}
	for i := 0; i < genomics; i++ {
		base.AddGenomics(nodes.NewGenomicsNode("v", nil))
	}
	for i := 0; i < treatment; i++ {
		base.AddTreatment(nodes.NewTreatmentNode("t", "m"))
	}
	return base
}

func TestCheckMergeAllowed(t *testing.T) {
	thresholds := EvidenceThresholds{VirologyMin: 2, GenomicsMin: 1, TreatmentMin: 1}

	tests := []struct {
		name        string
		virology    int
		genomics    int
		treatment   int
		wantAllowed bool
		wantReason  string
	}{
		{"all thresholds met", 2, 1, 1, true, "merge allowed: thresholds satisfied"},
		{"virology short", 1, 5, 5, false, "insufficient virology evidence: 1 < 2"},
		{"genomics short", 2, 0, 5, false, "insufficient genomics evidence: 0 < 1"},
		{"treatment short", 2, 1, 0, false, "insufficient treatment evidence: 0 < 1"},
		// Virology is checked first, so its failure masks the others.
		{"first failing domain wins", 0, 0, 0, false, "insufficient virology evidence: 0 < 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := CheckMergeAllowed(populatedBase(tt.virology, tt.genomics, tt.treatment), thresholds)
			assert.Equal(t, tt.wantAllowed, decision.Allowed)
			assert.Equal(t, tt.wantReason, decision.Reason)
		})
	}
}

func TestCheckMergeAllowedZeroThresholds(t *testing.T) {
	decision := CheckMergeAllowed(populatedBase(0, 0, 0), EvidenceThresholds{})
	assert.True(t, decision.Allowed)
}
