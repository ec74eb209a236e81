// Package nodes defines the domain node model: the five fixed research
// categories, their payload variants, and the intent wrapper that places a
// payload into the multi-intent graph.
package nodes

import (
	"github.com/google/uuid"
)

// ResearchDomain is one of the five fixed research categories.
type ResearchDomain string

const (
	DomainVirology     ResearchDomain = "Virology"
	DomainImmunology   ResearchDomain = "Immunology"
	DomainGenomics     ResearchDomain = "Genomics"
	DomainTreatment    ResearchDomain = "Treatment"
	DomainPublicHealth ResearchDomain = "PublicHealth"
)

// AllDomains lists every research domain in canonical order.
func AllDomains() []ResearchDomain {
	return []ResearchDomain{
		DomainVirology,
		DomainImmunology,
		DomainGenomics,
		DomainTreatment,
		DomainPublicHealth,
	}
}

// IsValid reports whether d names one of the five categories.
func (d ResearchDomain) IsValid() bool {
	switch d {
	case DomainVirology, DomainImmunology, DomainGenomics, DomainTreatment, DomainPublicHealth:
		return true
	}
	return false
}

// VirusNode is the root of a base graph, describing the pathogen itself.
type VirusNode struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	GenomeKB float64   `json:"genome_kb"`
}

// NewVirusNode creates a root virus node.
func NewVirusNode(name string, genomeKB float64) VirusNode {
	return VirusNode{ID: uuid.New(), Name: name, GenomeKB: genomeKB}
}

// VirologyNode describes a virology finding, e.g. "Spike-ACE2 binding".
type VirologyNode struct {
	ID      uuid.UUID `json:"id"`
	Topic   string    `json:"topic"`
	Details string    `json:"details"`
}

// ImmunologyNode describes an immunology finding, e.g. "Antibody neutralization".
type ImmunologyNode struct {
	ID      uuid.UUID `json:"id"`
	Topic   string    `json:"topic"`
	Details string    `json:"details"`
}

// GenomicsNode describes a variant and its mutations.
type GenomicsNode struct {
	ID        uuid.UUID `json:"id"`
	Variant   string    `json:"variant"`
	Mutations []string  `json:"mutations"`
}

// TreatmentNode describes a therapy and its mechanism of action.
type TreatmentNode struct {
	ID        uuid.UUID `json:"id"`
	Therapy   string    `json:"therapy"`
	Mechanism string    `json:"mechanism"`
}

// PublicHealthNode describes a policy intervention and its observed effect.
type PublicHealthNode struct {
	ID     uuid.UUID `json:"id"`
	Policy string    `json:"policy"`
	Effect string    `json:"effect"`
}

// NewVirologyNode creates a virology node with a fresh identifier.
func NewVirologyNode(topic, details string) VirologyNode {
	return VirologyNode{ID: uuid.New(), Topic: topic, Details: details}
}

// NewImmunologyNode creates an immunology node with a fresh identifier.
func NewImmunologyNode(topic, details string) ImmunologyNode {
	return ImmunologyNode{ID: uuid.New(), Topic: topic, Details: details}
}

// NewGenomicsNode creates a genomics node with a fresh identifier.
func NewGenomicsNode(variant string, mutations []string) GenomicsNode {
	return GenomicsNode{ID: uuid.New(), Variant: variant, Mutations: mutations}
}

// NewTreatmentNode creates a treatment node with a fresh identifier.
func NewTreatmentNode(therapy, mechanism string) TreatmentNode {
	return TreatmentNode{ID: uuid.New(), Therapy: therapy, Mechanism: mechanism}
}

// NewPublicHealthNode creates a public-health node with a fresh identifier.
func NewPublicHealthNode(policy, effect string) PublicHealthNode {
	return PublicHealthNode{ID: uuid.New(), Policy: policy, Effect: effect}
}

// Content is the closed sum over the five domain payload shapes. Only the
// types in this package implement it, so a type switch over all five
// variants is exhaustive.
type Content interface {
	// ContentID returns the payload's unique identifier.
	ContentID() uuid.UUID
	// Domain returns the research category the payload belongs to.
	Domain() ResearchDomain

	isContent()
}

func (n VirologyNode) ContentID() uuid.UUID { return n.ID }
func (n VirologyNode) Domain() ResearchDomain { return DomainVirology }
func (n VirologyNode) isContent() {}

func (n ImmunologyNode) ContentID() uuid.UUID { return n.ID }
func (n ImmunologyNode) Domain() ResearchDomain { return DomainImmunology }
func (n ImmunologyNode) isContent() {}

func (n GenomicsNode) ContentID() uuid.UUID { return n.ID }
func (n GenomicsNode) Domain() ResearchDomain { return DomainGenomics }
func (n GenomicsNode) isContent() {}

func (n TreatmentNode) ContentID() uuid.UUID { return n.ID }
func (n TreatmentNode) Domain() ResearchDomain { return DomainTreatment }
func (n TreatmentNode) isContent() {}

func (n PublicHealthNode) ContentID() uuid.UUID { return n.ID }
func (n PublicHealthNode) Domain() ResearchDomain { return DomainPublicHealth }
func (n PublicHealthNode) isContent() {}
