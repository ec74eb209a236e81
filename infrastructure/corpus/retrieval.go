// Package corpus implements keyword-based retrieval over an in-memory
// document corpus, manufacturing domain nodes from matching documents. The
// graph core never calls into this package; callers feed the produced nodes
// into the graph builder themselves.
package corpus

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"sarscov2kg/domain/core/nodes"
	pkgerrors "sarscov2kg/pkg/errors"
)

// summaryLimit caps the excerpt length carried into manufactured nodes.
const summaryLimit = 240

// mutationPattern matches amino-acid substitutions such as N501Y or P681R.
var mutationPattern = regexp.MustCompile(`\b[A-Z]\d{1,4}[A-Z]\b`)

// Doc is one corpus document tagged with its research domain.
type Doc struct {
	ID     uuid.UUID `json:"id"`
	Domain string    `json:"domain"`
	Text   string    `json:"text"`
	Source string    `json:"source"`
}

// Backend holds the corpus and answers keyword queries over it.
type Backend struct {
	docs []Doc
}

// NewBackend creates a retrieval backend over a fixed document set.
func NewBackend(docs []Doc) *Backend {
	return &Backend{docs: docs}
}

// Size returns the number of documents held.
func (b *Backend) Size() int {
	return len(b.docs)
}

// FilterDomain returns the documents tagged with the domain, compared
// case-insensitively.
func (b *Backend) FilterDomain(domain string) []Doc {
	var out []Doc
	for _, d := range b.docs {
		if strings.EqualFold(d.Domain, domain) {
			out = append(out, d)
		}
	}
	return out
}

// KeywordSearch returns the domain's documents whose text contains the query
// as a literal pattern.
func (b *Backend) KeywordSearch(domain, query string) ([]Doc, error) {
	re, err := regexp.Compile(regexp.QuoteMeta(query))
	if err != nil {
		return nil, pkgerrors.NewValidationError("query is not searchable").WithCause(err)
	}
	var out []Doc
	for _, d := range b.FilterDomain(domain) {
		if re.MatchString(d.Text) {
			out = append(out, d)
		}
	}
	return out, nil
}

// VirologyFrom manufactures virology nodes from documents matching the query.
func (b *Backend) VirologyFrom(query string) ([]nodes.VirologyNode, error) {
	docs, err := b.KeywordSearch(string(nodes.DomainVirology), query)
	if err != nil {
		return nil, err
	}
	out := make([]nodes.VirologyNode, 0, len(docs))
	for _, d := range docs {
		out = append(out, nodes.NewVirologyNode(
			query,
			"Evidence: "+summarize(d.Text)+" | Source: "+d.Source,
		))
	}
	return out, nil
}

// GenomicsFrom manufactures genomics nodes for a variant, extracting
// amino-acid mutations mentioned in the matching documents.
func (b *Backend) GenomicsFrom(variant string) ([]nodes.GenomicsNode, error) {
	docs, err := b.KeywordSearch(string(nodes.DomainGenomics), variant)
	if err != nil {
		return nil, err
	}
	out := make([]nodes.GenomicsNode, 0, len(docs))
	for _, d := range docs {
		out = append(out, nodes.NewGenomicsNode(variant, ExtractMutations(d.Text)))
	}
	return out, nil
}

// TreatmentFrom manufactures treatment nodes for a therapy, inferring the
// mechanism from the matching documents.
func (b *Backend) TreatmentFrom(therapy string) ([]nodes.TreatmentNode, error) {
	docs, err := b.KeywordSearch(string(nodes.DomainTreatment), therapy)
	if err != nil {
		return nil, err
	}
	out := make([]nodes.TreatmentNode, 0, len(docs))
	for _, d := range docs {
		out = append(out, nodes.NewTreatmentNode(therapy, inferMechanism(d.Text)))
	}
	return out, nil
}

// ImmunologyFrom manufactures immunology nodes from documents matching the
// topic.
func (b *Backend) ImmunologyFrom(topic string) ([]nodes.ImmunologyNode, error) {
	docs, err := b.KeywordSearch(string(nodes.DomainImmunology), topic)
	if err != nil {
		return nil, err
	}
	out := make([]nodes.ImmunologyNode, 0, len(docs))
	for _, d := range docs {
		out = append(out, nodes.NewImmunologyNode(topic, summarize(d.Text)))
	}
	return out, nil
}

// PublicHealthFrom manufactures public-health nodes from documents matching
// the policy.
func (b *Backend) PublicHealthFrom(policy string) ([]nodes.PublicHealthNode, error) {
	docs, err := b.KeywordSearch(string(nodes.DomainPublicHealth), policy)
	if err != nil {
		return nil, err
	}
	out := make([]nodes.PublicHealthNode, 0, len(docs))
	for _, d := range docs {
		out = append(out, nodes.NewPublicHealthNode(policy, summarize(d.Text)))
	}
	return out, nil
}

func summarize(text string) string {
	runes := []rune(text)
	if len(runes) <= summaryLimit {
		return text
	}
	return string(runes[:summaryLimit])
}

// ExtractMutations pulls amino-acid substitution mentions out of free text,
// deduplicated in order of first appearance.
func ExtractMutations(text string) []string {
	matches := mutationPattern.FindAllString(text, -1)
	seen := make(map[string]bool, len(matches))
	out := []string{}
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func inferMechanism(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "protease"):
		return "Protease inhibitor"
	case strings.Contains(lower, "polymerase"):
		return "Polymerase inhibitor"
	case strings.Contains(lower, "antibody"), strings.Contains(lower, "monoclonal"):
		return "Monoclonal antibody"
	default:
		return "Mechanism: inferred from corpus"
	}
}
