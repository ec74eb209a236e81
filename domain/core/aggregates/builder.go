package aggregates

import (
	"sarscov2kg/domain/core/edges"
	"sarscov2kg/domain/core/nodes"
	"sarscov2kg/domain/core/rd"
	"sarscov2kg/domain/core/traces"
	pkgerrors "sarscov2kg/pkg/errors"
)

// Builder is a fluent, single-use accumulator for composing a multi-intent
// graph. Node methods wrap the raw payload into an intent node (the source
// list is always left empty through this path) and fold it into the graph
// immediately; the first error encountered is retained and surfaced by
// Build. After Build the builder is spent and further use errors.
type Builder struct {
	graph *MultiIntentGraph
	err   error
}

// NewBuilder starts a builder over a snapshot of the base graph.
func NewBuilder(base *BaseGraph) *Builder {
	return &Builder{graph: NewMultiIntentGraph(base)}
}

func (b *Builder) addContent(content nodes.Content, intent string, evidence int, confidence float64) *Builder {
	if b.err != nil || b.graph == nil {
		return b
	}
	node, err := nodes.NewIntentNode(content, intent, evidence, confidence, nil)
	if err != nil {
		b.err = err
		return b
	}
	b.graph.AddNode(node)
	return b
}

// WithVirologyNode wraps and adds a virology node.
func (b *Builder) WithVirologyNode(n nodes.VirologyNode, intent string, evidence int, confidence float64) *Builder {
	return b.addContent(n, intent, evidence, confidence)
}

// WithImmunologyNode wraps and adds an immunology node.
func (b *Builder) WithImmunologyNode(n nodes.ImmunologyNode, intent string, evidence int, confidence float64) *Builder {
	return b.addContent(n, intent, evidence, confidence)
}

// WithGenomicsNode wraps and adds a genomics node.
func (b *Builder) WithGenomicsNode(n nodes.GenomicsNode, intent string, evidence int, confidence float64) *Builder {
	return b.addContent(n, intent, evidence, confidence)
}

// WithTreatmentNode wraps and adds a treatment node.
func (b *Builder) WithTreatmentNode(n nodes.TreatmentNode, intent string, evidence int, confidence float64) *Builder {
	return b.addContent(n, intent, evidence, confidence)
}

// WithPublicHealthNode wraps and adds a public-health node.
func (b *Builder) WithPublicHealthNode(n nodes.PublicHealthNode, intent string, evidence int, confidence float64) *Builder {
	return b.addContent(n, intent, evidence, confidence)
}

// WithEdge appends an edge.
func (b *Builder) WithEdge(edge edges.Edge) *Builder {
	if b.err != nil || b.graph == nil {
		return b
	}
	b.err = b.graph.AddEdge(edge)
	return b
}

// WithHypothesisPath appends a hypothesis path.
func (b *Builder) WithHypothesisPath(path HypothesisPath) *Builder {
	if b.err != nil || b.graph == nil {
		return b
	}
	b.graph.AddHypothesisPath(path)
	return b
}

// WithTrace appends a serendipity trace.
func (b *Builder) WithTrace(trace *traces.Trace) *Builder {
	if b.err != nil || b.graph == nil {
		return b
	}
	b.graph.AddTrace(trace)
	return b
}

// WithRDCurve stores a rate-distortion curve for an intent.
func (b *Builder) WithRDCurve(intent string, curve rd.Curve) *Builder {
	if b.err != nil || b.graph == nil {
		return b
	}
	b.graph.AddRDCurve(intent, curve)
	return b
}

// Build yields the completed graph and transfers ownership out of the
// builder. Calling Build twice is a conflict error; any error accumulated by
// earlier calls is returned instead of a graph.
func (b *Builder) Build() (*MultiIntentGraph, error) {
	if b.graph == nil {
		return nil, pkgerrors.NewConflictError("graph builder already built")
	}
	if b.err != nil {
		return nil, b.err
	}
	graph := b.graph
	b.graph = nil
	return graph, nil
}
