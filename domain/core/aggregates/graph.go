// Package aggregates implements the multi-intent graph store: an append-only
// in-memory registry of intent nodes, typed edges, hypothesis paths,
// serendipity traces and rate-distortion curves over a seed base graph.
//
// The store is single-threaded by design. Callers that share a graph across
// goroutines must serialize access to the whole instance; the application
// layer's GraphRegistry does exactly that.
package aggregates

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"sarscov2kg/domain/core/edges"
	"sarscov2kg/domain/core/nodes"
	"sarscov2kg/domain/core/rd"
	"sarscov2kg/domain/core/traces"
	pkgerrors "sarscov2kg/pkg/errors"
)

// Metadata aggregates size-derived counters and timestamps for a graph.
// Counters are recomputed from registry sizes on every mutation, so
// re-adding an existing identifier does not inflate them.
type Metadata struct {
	CreatedAt      time.Time                     `json:"created_at"`
	LastUpdated    time.Time                     `json:"last_updated"`
	TotalNodes     int                           `json:"total_nodes"`
	TotalEdges     int                           `json:"total_edges"`
	DomainsCovered map[nodes.ResearchDomain]bool `json:"domains_covered"`
}

// HypothesisPath is an asserted node/edge chain supporting a causal or
// correlative narrative. Node and edge sequences reference registry entries
// by identifier.
type HypothesisPath struct {
	ID               uuid.UUID             `json:"id"`
	HypothesisType   traces.HypothesisType `json:"hypothesis_type"`
	Description      string                `json:"description"`
	NodeSequence     []uuid.UUID           `json:"node_sequence"`
	EdgeSequence     []uuid.UUID           `json:"edge_sequence"`
	TotalConfidence  float64               `json:"total_confidence"`
	EvidenceCoverage float64               `json:"evidence_coverage"`
}

// NewHypothesisPath builds a hypothesis path, validating that the node
// sequence is exactly one longer than the edge sequence.
func NewHypothesisPath(hypothesisType traces.HypothesisType, description string, nodeSeq, edgeSeq []uuid.UUID, totalConfidence, evidenceCoverage float64) (HypothesisPath, error) {
	if len(nodeSeq) != len(edgeSeq)+1 {
		return HypothesisPath{}, pkgerrors.NewValidationError(fmt.Sprintf(
			"hypothesis path node sequence length %d must equal edge sequence length %d + 1",
			len(nodeSeq), len(edgeSeq)))
	}
	return HypothesisPath{
		ID:               uuid.New(),
		HypothesisType:   hypothesisType,
		Description:      description,
		NodeSequence:     nodeSeq,
		EdgeSequence:     edgeSeq,
		TotalConfidence:  totalConfidence,
		EvidenceCoverage: evidenceCoverage,
	}, nil
}

// MultiIntentGraph owns the registries and aggregate metadata of one
// knowledge graph instance.
type MultiIntentGraph struct {
	ID                uuid.UUID                      `json:"id"`
	BaseGraph         BaseGraph                      `json:"base_graph"`
	IntentNodes       map[uuid.UUID]nodes.IntentNode `json:"intent_nodes"`
	Edges             map[uuid.UUID]edges.Edge       `json:"edges"`
	HypothesisPaths   []HypothesisPath               `json:"hypothesis_paths"`
	SerendipityTraces []*traces.Trace                `json:"serendipity_traces"`
	RDCurves          map[string]rd.Curve            `json:"rd_curves"`
	Metadata          Metadata                       `json:"metadata"`
}

// NewMultiIntentGraph creates an empty graph seeded with a snapshot of the
// base graph.
func NewMultiIntentGraph(base *BaseGraph) *MultiIntentGraph {
	now := time.Now().UTC()
	return &MultiIntentGraph{
		ID:                uuid.New(),
		BaseGraph:         base.Snapshot(),
		IntentNodes:       make(map[uuid.UUID]nodes.IntentNode),
		Edges:             make(map[uuid.UUID]edges.Edge),
		HypothesisPaths:   []HypothesisPath{},
		SerendipityTraces: []*traces.Trace{},
		RDCurves:          make(map[string]rd.Curve),
		Metadata: Metadata{
			CreatedAt:      now,
			LastUpdated:    now,
			DomainsCovered: make(map[nodes.ResearchDomain]bool),
		},
	}
}

// AddNode inserts or overwrites an intent node by identifier. The node's
// domain is recorded into the covered-domains set.
func (g *MultiIntentGraph) AddNode(node nodes.IntentNode) {
	g.Metadata.DomainsCovered[node.Domain] = true
	g.IntentNodes[node.ID] = node
	g.Metadata.TotalNodes = len(g.IntentNodes)
	g.touch()
}

// AddEdge inserts or overwrites an edge by identifier. Both endpoints must
// already be present in the node registry.
func (g *MultiIntentGraph) AddEdge(edge edges.Edge) error {
	if _, ok := g.IntentNodes[edge.SourceID]; !ok {
		return pkgerrors.NewValidationError(fmt.Sprintf(
			"edge %s references unknown source node %s", edge.ID, edge.SourceID))
	}
	if _, ok := g.IntentNodes[edge.TargetID]; !ok {
		return pkgerrors.NewValidationError(fmt.Sprintf(
			"edge %s references unknown target node %s", edge.ID, edge.TargetID))
	}
	g.Edges[edge.ID] = edge
	g.Metadata.TotalEdges = len(g.Edges)
	g.touch()
	return nil
}

// AddHypothesisPath appends a hypothesis path.
func (g *MultiIntentGraph) AddHypothesisPath(path HypothesisPath) {
	g.HypothesisPaths = append(g.HypothesisPaths, path)
	g.touch()
}

// AddTrace appends a serendipity trace.
func (g *MultiIntentGraph) AddTrace(trace *traces.Trace) {
	g.SerendipityTraces = append(g.SerendipityTraces, trace)
	g.touch()
}

// AddRDCurve stores a rate-distortion curve keyed by intent label. The curve
// is held opaquely and returned unmodified.
func (g *MultiIntentGraph) AddRDCurve(intent string, curve rd.Curve) {
	g.RDCurves[intent] = curve
	g.touch()
}

// TraceBySession returns the trace logged for a session, or nil.
func (g *MultiIntentGraph) TraceBySession(sessionID string) *traces.Trace {
	for _, t := range g.SerendipityTraces {
		if t.SessionID == sessionID {
			return t
		}
	}
	return nil
}

// EdgesByType returns the edges matching a type tag, in unspecified order.
func (g *MultiIntentGraph) EdgesByType(edgeType edges.Type) []edges.Edge {
	var out []edges.Edge
	for _, e := range g.Edges {
		if e.Type == edgeType {
			out = append(out, e)
		}
	}
	return out
}

// NodesByDomain returns the intent nodes whose domain variant matches,
// independent of payload, in unspecified order.
func (g *MultiIntentGraph) NodesByDomain(domain nodes.ResearchDomain) []nodes.IntentNode {
	var out []nodes.IntentNode
	for _, n := range g.IntentNodes {
		if n.Domain == domain {
			out = append(out, n)
		}
	}
	return out
}

// CrossDomainEdges returns the edges whose source and target domain labels
// differ, in unspecified order.
func (g *MultiIntentGraph) CrossDomainEdges() []edges.Edge {
	var out []edges.Edge
	for _, e := range g.Edges {
		if e.IsCrossDomain() {
			out = append(out, e)
		}
	}
	return out
}

// Statistics is a flat snapshot of aggregate counts and scores.
type Statistics struct {
	TotalNodes        int     `json:"total_nodes"`
	TotalEdges        int     `json:"total_edges"`
	CausalEdges       int     `json:"causal_edges"`
	CorrelativeEdges  int     `json:"correlative_edges"`
	CrossDomainEdges  int     `json:"cross_domain_edges"`
	HypothesisPaths   int     `json:"hypothesis_paths"`
	SerendipityTraces int     `json:"serendipity_traces"`
	AvgTraceDiversity float64 `json:"avg_trace_diversity"`
	DomainsCovered    int     `json:"domains_covered"`
}

// Statistics computes the snapshot by scanning the registries; nothing is
// cached between calls.
func (g *MultiIntentGraph) Statistics() Statistics {
	avgDiversity := 0.0
	if len(g.SerendipityTraces) > 0 {
		sum := 0.0
		for _, t := range g.SerendipityTraces {
			sum += t.DiversityScore()
		}
		avgDiversity = sum / float64(len(g.SerendipityTraces))
	}

	return Statistics{
		TotalNodes:        g.Metadata.TotalNodes,
		TotalEdges:        g.Metadata.TotalEdges,
		CausalEdges:       len(g.EdgesByType(edges.TypeCausal)),
		CorrelativeEdges:  len(g.EdgesByType(edges.TypeCorrelative)),
		CrossDomainEdges:  len(g.CrossDomainEdges()),
		HypothesisPaths:   len(g.HypothesisPaths),
		SerendipityTraces: len(g.SerendipityTraces),
		AvgTraceDiversity: avgDiversity,
		DomainsCovered:    len(g.Metadata.DomainsCovered),
	}
}

func (g *MultiIntentGraph) touch() {
	g.Metadata.LastUpdated = time.Now().UTC()
}
