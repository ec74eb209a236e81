package aggregates

import (
	"github.com/google/uuid"

	"sarscov2kg/domain/core/nodes"
)

// BaseGraph is the seed domain graph: a root virus node plus one collection
// per research category. Nodes are appended and never removed.
type BaseGraph struct {
	ID           uuid.UUID                `json:"id"`
	Root         nodes.VirusNode          `json:"root"`
	Virology     []nodes.VirologyNode     `json:"virology"`
	Immunology   []nodes.ImmunologyNode   `json:"immunology"`
	Genomics     []nodes.GenomicsNode     `json:"genomics"`
	Treatment    []nodes.TreatmentNode    `json:"treatment"`
	PublicHealth []nodes.PublicHealthNode `json:"public_health"`
}

// NewBaseGraph creates a base graph around a root node.
func NewBaseGraph(root nodes.VirusNode) *BaseGraph {
	return &BaseGraph{
		ID:           uuid.New(),
		Root:         root,
		Virology:     []nodes.VirologyNode{},
		Immunology:   []nodes.ImmunologyNode{},
		Genomics:     []nodes.GenomicsNode{},
		Treatment:    []nodes.TreatmentNode{},
		PublicHealth: []nodes.PublicHealthNode{},
	}
}

// AddVirology appends a virology node.
func (g *BaseGraph) AddVirology(n nodes.VirologyNode) {
	g.Virology = append(g.Virology, n)
}

// AddImmunology appends an immunology node.
func (g *BaseGraph) AddImmunology(n nodes.ImmunologyNode) {
	g.Immunology = append(g.Immunology, n)
}

// AddGenomics appends a genomics node.
func (g *BaseGraph) AddGenomics(n nodes.GenomicsNode) {
	g.Genomics = append(g.Genomics, n)
}

// AddTreatment appends a treatment node.
func (g *BaseGraph) AddTreatment(n nodes.TreatmentNode) {
	g.Treatment = append(g.Treatment, n)
}

// AddPublicHealth appends a public-health node.
func (g *BaseGraph) AddPublicHealth(n nodes.PublicHealthNode) {
	g.PublicHealth = append(g.PublicHealth, n)
}

// Snapshot returns a copy of the base graph with its collections duplicated,
// so later mutation of the original does not leak into graphs seeded from it.
func (g *BaseGraph) Snapshot() BaseGraph {
	cp := BaseGraph{
		ID:           g.ID,
		Root:         g.Root,
		Virology:     make([]nodes.VirologyNode, len(g.Virology)),
		Immunology:   make([]nodes.ImmunologyNode, len(g.Immunology)),
		Genomics:     make([]nodes.GenomicsNode, len(g.Genomics)),
		Treatment:    make([]nodes.TreatmentNode, len(g.Treatment)),
		PublicHealth: make([]nodes.PublicHealthNode, len(g.PublicHealth)),
	}
	copy(cp.Virology, g.Virology)
	copy(cp.Immunology, g.Immunology)
	copy(cp.Genomics, g.Genomics)
	copy(cp.Treatment, g.Treatment)
	copy(cp.PublicHealth, g.PublicHealth)
	return cp
}
