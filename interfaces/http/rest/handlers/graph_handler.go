// Package handlers implements the REST handlers over the graph registry.
// Handlers are stateless: every request resolves its graph through the
// registry's locking accessors.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sarscov2kg/application/services"
	"sarscov2kg/domain/core/aggregates"
	"sarscov2kg/domain/core/edges"
	"sarscov2kg/domain/core/nodes"
	"sarscov2kg/domain/core/traces"
	"sarscov2kg/pkg/common"
	pkgerrors "sarscov2kg/pkg/errors"
	"sarscov2kg/pkg/utils"
)

const maxBodyBytes = 1 << 20

// GraphHandler handles graph lifecycle, node/edge insertion and path queries.
type GraphHandler struct {
	registry     *services.GraphRegistry
	maxPathDepth int
	logger       *zap.Logger
}

// NewGraphHandler creates a graph handler. maxPathDepth caps the depth a
// path-search request may ask for.
func NewGraphHandler(registry *services.GraphRegistry, maxPathDepth int, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		registry:     registry,
		maxPathDepth: maxPathDepth,
		logger:       logger,
	}
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.NewValidationError(name + " must be a valid UUID")
	}
	return id, nil
}

// CreateGraphRequest represents the request body for creating a graph.
type CreateGraphRequest struct {
	RootName     string  `json:"root_name" validate:"required,min=1,max=200"`
	RootGenomeKB float64 `json:"root_genome_kb" validate:"gte=0"`
}

// CreateGraph handles POST /graphs.
func (h *GraphHandler) CreateGraph(w http.ResponseWriter, r *http.Request) {
	var req CreateGraphRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	base := aggregates.NewBaseGraph(nodes.NewVirusNode(req.RootName, req.RootGenomeKB))
	graph := aggregates.NewMultiIntentGraph(base)
	id := h.registry.Register(graph)

	h.logger.Info("graph created", zap.String("graphID", id.String()), zap.String("root", req.RootName))
	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// ListGraphs handles GET /graphs.
func (h *GraphHandler) ListGraphs(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.registry.List())
}

// GetGraph handles GET /graphs/{graphID}, returning the complete graph value.
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	// Encode while holding the shared lock so the value cannot mutate
	// mid-serialization.
	err = h.registry.View(graphID, func(g *aggregates.MultiIntentGraph) error {
		common.RespondJSON(w, http.StatusOK, g)
		return nil
	})
	if err != nil {
		common.RespondAppError(w, err)
	}
}

// GetStatistics handles GET /graphs/{graphID}/statistics.
func (h *GraphHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var stats aggregates.Statistics
	err = h.registry.View(graphID, func(g *aggregates.MultiIntentGraph) error {
		stats = g.Statistics()
		return nil
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, stats)
}

// AddBaseNodeRequest appends a raw domain node to the base graph.
type AddBaseNodeRequest struct {
	Domain string `json:"domain" validate:"required,oneof=Virology Immunology Genomics Treatment PublicHealth"`

	// Virology / Immunology
	Topic   string `json:"topic,omitempty"`
	Details string `json:"details,omitempty"`
	// Genomics
	Variant   string   `json:"variant,omitempty"`
	Mutations []string `json:"mutations,omitempty"`
	// Treatment
	Therapy   string `json:"therapy,omitempty"`
	Mechanism string `json:"mechanism,omitempty"`
	// PublicHealth
	Policy string `json:"policy,omitempty"`
	Effect string `json:"effect,omitempty"`
}

// content builds the payload variant named by Domain.
func (req *AddBaseNodeRequest) content() (nodes.Content, error) {
	switch nodes.ResearchDomain(req.Domain) {
	case nodes.DomainVirology:
		return nodes.NewVirologyNode(req.Topic, req.Details), nil
	case nodes.DomainImmunology:
		return nodes.NewImmunologyNode(req.Topic, req.Details), nil
	case nodes.DomainGenomics:
		return nodes.NewGenomicsNode(req.Variant, req.Mutations), nil
	case nodes.DomainTreatment:
		return nodes.NewTreatmentNode(req.Therapy, req.Mechanism), nil
	case nodes.DomainPublicHealth:
		return nodes.NewPublicHealthNode(req.Policy, req.Effect), nil
	default:
		return nil, pkgerrors.NewValidationError("unknown domain " + req.Domain)
	}
}

// AddBaseNode handles POST /graphs/{graphID}/base-nodes.
func (h *GraphHandler) AddBaseNode(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req AddBaseNodeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	content, err := req.content()
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	err = h.registry.Update(graphID, func(g *aggregates.MultiIntentGraph) error {
		switch c := content.(type) {
		case nodes.VirologyNode:
			g.BaseGraph.AddVirology(c)
		case nodes.ImmunologyNode:
			g.BaseGraph.AddImmunology(c)
		case nodes.GenomicsNode:
			g.BaseGraph.AddGenomics(c)
		case nodes.TreatmentNode:
			g.BaseGraph.AddTreatment(c)
		case nodes.PublicHealthNode:
			g.BaseGraph.AddPublicHealth(c)
		}
		return nil
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": content.ContentID().String()})
}

// AddIntentNodeRequest wraps a domain payload into an intent node.
type AddIntentNodeRequest struct {
	AddBaseNodeRequest

	Intent        string   `json:"intent" validate:"required,min=1,max=200"`
	EvidenceCount int      `json:"evidence_count" validate:"gte=0"`
	Confidence    float64  `json:"confidence" validate:"gte=0,lte=1"`
	Sources       []string `json:"sources,omitempty"`
}

// AddIntentNode handles POST /graphs/{graphID}/nodes.
func (h *GraphHandler) AddIntentNode(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req AddIntentNodeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	content, err := req.content()
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	node, err := nodes.NewIntentNode(content, req.Intent, req.EvidenceCount, req.Confidence, req.Sources)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	err = h.registry.Update(graphID, func(g *aggregates.MultiIntentGraph) error {
		g.AddNode(node)
		return nil
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, node)
}

// AddEdgeRequest represents the request body for creating an edge. Value is
// interpreted per edge type: confidence for causal/mechanistic/temporal/
// inhibitory edges, correlation coefficient for correlative edges.
type AddEdgeRequest struct {
	EdgeType     string   `json:"edge_type" validate:"required,oneof=causal correlative mechanistic temporal inhibitory"`
	SourceID     string   `json:"source_id" validate:"required,uuid"`
	TargetID     string   `json:"target_id" validate:"required,uuid"`
	Label        string   `json:"label" validate:"required,min=1,max=500"`
	SourceDomain string   `json:"source_domain" validate:"required"`
	TargetDomain string   `json:"target_domain" validate:"required"`
	EvidenceRefs []string `json:"evidence_refs,omitempty"`
	Value        float64  `json:"value"`
}

// AddEdge handles POST /graphs/{graphID}/edges.
func (h *GraphHandler) AddEdge(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req AddEdgeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	sourceID, _ := uuid.Parse(req.SourceID)
	targetID, _ := uuid.Parse(req.TargetID)
	sourceDomain := nodes.ResearchDomain(req.SourceDomain)
	targetDomain := nodes.ResearchDomain(req.TargetDomain)

	var edge edges.Edge
	switch edges.Type(req.EdgeType) {
	case edges.TypeCausal:
		edge, err = edges.NewCausal(sourceID, targetID, req.Label, sourceDomain, targetDomain, req.EvidenceRefs, req.Value)
	case edges.TypeCorrelative:
		edge, err = edges.NewCorrelative(sourceID, targetID, req.Label, sourceDomain, targetDomain, req.EvidenceRefs, req.Value)
	default:
		edge, err = edges.New(edges.Type(req.EdgeType), sourceID, targetID, req.Label, sourceDomain, targetDomain, req.EvidenceRefs, req.Value)
	}
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	err = h.registry.Update(graphID, func(g *aggregates.MultiIntentGraph) error {
		return g.AddEdge(edge)
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, edge)
}

// ListEdges handles GET /graphs/{graphID}/edges. Optional query parameters:
// type filters by edge type, cross_domain=true filters to cross-domain edges.
func (h *GraphHandler) ListEdges(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	typeFilter := r.URL.Query().Get("type")
	if typeFilter != "" && !edges.Type(typeFilter).IsValid() {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "unknown edge type "+typeFilter)
		return
	}
	crossDomain := r.URL.Query().Get("cross_domain") == "true"

	var out []edges.Edge
	err = h.registry.View(graphID, func(g *aggregates.MultiIntentGraph) error {
		switch {
		case crossDomain:
			out = g.CrossDomainEdges()
		case typeFilter != "":
			out = g.EdgesByType(edges.Type(typeFilter))
		default:
			out = make([]edges.Edge, 0, len(g.Edges))
			for _, e := range g.Edges {
				out = append(out, e)
			}
		}
		return nil
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	if out == nil {
		out = []edges.Edge{}
	}
	common.RespondJSON(w, http.StatusOK, out)
}

// ListNodes handles GET /graphs/{graphID}/nodes with an optional domain filter.
func (h *GraphHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	domainFilter := r.URL.Query().Get("domain")
	if domainFilter != "" && !nodes.ResearchDomain(domainFilter).IsValid() {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "unknown domain "+domainFilter)
		return
	}

	var out []nodes.IntentNode
	err = h.registry.View(graphID, func(g *aggregates.MultiIntentGraph) error {
		if domainFilter != "" {
			out = g.NodesByDomain(nodes.ResearchDomain(domainFilter))
			return nil
		}
		out = make([]nodes.IntentNode, 0, len(g.IntentNodes))
		for _, n := range g.IntentNodes {
			out = append(out, n)
		}
		return nil
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	if out == nil {
		out = []nodes.IntentNode{}
	}
	common.RespondJSON(w, http.StatusOK, out)
}

// AddHypothesisPathRequest represents the request body for asserting a path.
type AddHypothesisPathRequest struct {
	HypothesisType   string   `json:"hypothesis_type" validate:"required,oneof=transmissibility vaccine_efficacy immune_escape treatment_response public_health_impact"`
	Description      string   `json:"description" validate:"required,min=1"`
	NodeSequence     []string `json:"node_sequence" validate:"required,min=1,dive,uuid"`
	EdgeSequence     []string `json:"edge_sequence" validate:"dive,uuid"`
	TotalConfidence  float64  `json:"total_confidence" validate:"gte=0,lte=1"`
	EvidenceCoverage float64  `json:"evidence_coverage" validate:"gte=0,lte=1"`
}

// AddHypothesisPath handles POST /graphs/{graphID}/hypothesis-paths.
func (h *GraphHandler) AddHypothesisPath(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req AddHypothesisPathRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	nodeSeq := make([]uuid.UUID, len(req.NodeSequence))
	for i, raw := range req.NodeSequence {
		nodeSeq[i], _ = uuid.Parse(raw)
	}
	edgeSeq := make([]uuid.UUID, len(req.EdgeSequence))
	for i, raw := range req.EdgeSequence {
		edgeSeq[i], _ = uuid.Parse(raw)
	}

	path, err := aggregates.NewHypothesisPath(
		traces.HypothesisType(req.HypothesisType),
		req.Description,
		nodeSeq,
		edgeSeq,
		req.TotalConfidence,
		req.EvidenceCoverage,
	)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	err = h.registry.Update(graphID, func(g *aggregates.MultiIntentGraph) error {
		g.AddHypothesisPath(path)
		return nil
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, path)
}

// FindPaths handles GET /graphs/{graphID}/paths?from=&to=&max_depth=.
func (h *GraphHandler) FindPaths(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	from, err := uuid.Parse(r.URL.Query().Get("from"))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "from must be a valid UUID")
		return
	}
	to, err := uuid.Parse(r.URL.Query().Get("to"))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "to must be a valid UUID")
		return
	}

	maxDepth := h.maxPathDepth
	if raw := r.URL.Query().Get("max_depth"); raw != "" {
		maxDepth, err = strconv.Atoi(raw)
		if err != nil || maxDepth < 1 {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION", "max_depth must be a positive integer")
			return
		}
		if maxDepth > h.maxPathDepth {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION",
				"max_depth exceeds the configured limit of "+strconv.Itoa(h.maxPathDepth))
			return
		}
	}

	var paths [][]uuid.UUID
	err = h.registry.View(graphID, func(g *aggregates.MultiIntentGraph) error {
		paths = g.FindPaths(from, to, maxDepth)
		return nil
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	if paths == nil {
		paths = [][]uuid.UUID{}
	}
	common.RespondJSON(w, http.StatusOK, paths)
}
