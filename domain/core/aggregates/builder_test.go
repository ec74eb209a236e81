package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sarscov2kg/domain/core/edges"
	"sarscov2kg/domain/core/nodes"
	"sarscov2kg/domain/core/rd"
	"sarscov2kg/domain/core/traces"
	pkgerrors "sarscov2kg/pkg/errors"
)

func TestBuilderComposesGraph(t *testing.T) {
	base := NewBaseGraph(nodes.NewVirusNode("SARS-CoV-2", 30.0))

	genomics := nodes.NewGenomicsNode("Omicron BA.5", []string{"L452R", "F486V"})
	immunology := nodes.NewImmunologyNode("Antibody neutralization", "Reduced titers against BA.5")

	escape, err := edges.MutationToImmuneEscape(genomics.ID, immunology.ID, "F486V", []string{"doi:10.1/x"}, 0.82)
	require.NoError(t, err)

	trace := traces.New("session-001", "Does BA.5 escape vaccine-induced immunity?")
	curve := rd.Curve{Intent: "immune_escape", Points: []rd.Point{{Rate: 1, Distortion: 0.4}}}

	graph, err := NewBuilder(base).
		WithGenomicsNode(genomics, "immune_escape", 9, 0.82).
		WithImmunologyNode(immunology, "immune_escape", 15, 0.88).
		WithEdge(escape).
		WithTrace(trace).
		WithRDCurve("immune_escape", curve).
		Build()
	require.NoError(t, err)

	assert.Equal(t, 2, graph.Metadata.TotalNodes)
	assert.Equal(t, 1, graph.Metadata.TotalEdges)
	assert.Len(t, graph.SerendipityTraces, 1)
	assert.Equal(t, curve, graph.RDCurves["immune_escape"])

	// Nodes wrapped through the builder always carry an empty source list.
	node := graph.IntentNodes[genomics.ID]
	assert.Equal(t, "immune_escape", node.Intent)
	assert.Equal(t, nodes.DomainGenomics, node.Domain)
	assert.Empty(t, node.Metadata.Sources)
}

func TestBuilderSingleUse(t *testing.T) {
	builder := NewBuilder(NewBaseGraph(nodes.NewVirusNode("SARS-CoV-2", 30.0)))

	_, err := builder.Build()
	require.NoError(t, err)

	_, err = builder.Build()
	assert.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestBuilderRetainsFirstError(t *testing.T) {
	base := NewBaseGraph(nodes.NewVirusNode("SARS-CoV-2", 30.0))
	virology := nodes.NewVirologyNode("t", "d")

	_, err := NewBuilder(base).
		WithVirologyNode(virology, "transmissibility", 3, 1.7). // out of range
		WithVirologyNode(nodes.NewVirologyNode("t2", "d2"), "transmissibility", 1, 0.5).
		Build()
	assert.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestBuilderAllNodeVariants(t *testing.T) {
	base := NewBaseGraph(nodes.NewVirusNode("SARS-CoV-2", 30.0))

	graph, err := NewBuilder(base).
		WithVirologyNode(nodes.NewVirologyNode("Spike-ACE2 binding", "d"), "transmissibility", 1, 0.9).
		WithImmunologyNode(nodes.NewImmunologyNode("T-cell response", "d"), "vaccine_efficacy", 2, 0.8).
		WithGenomicsNode(nodes.NewGenomicsNode("Delta", []string{"P681R"}), "transmissibility", 3, 0.7).
		WithTreatmentNode(nodes.NewTreatmentNode("Remdesivir", "Polymerase inhibitor"), "treatment_response", 4, 0.6).
		WithPublicHealthNode(nodes.NewPublicHealthNode("Ventilation", "Reduced transmission"), "public_health_impact", 5, 0.5).
		Build()
	require.NoError(t, err)

	assert.Equal(t, 5, graph.Metadata.TotalNodes)
	assert.Equal(t, 5, graph.Statistics().DomainsCovered)
}
