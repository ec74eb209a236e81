package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"sarscov2kg/domain/core/nodes"
	"sarscov2kg/infrastructure/corpus"
	"sarscov2kg/pkg/common"
	"sarscov2kg/pkg/utils"
)

// RetrievalHandler exposes the corpus retrieval backend. Retrieval only
// manufactures domain nodes; the caller decides whether to feed them into a
// graph.
type RetrievalHandler struct {
	backend *corpus.Backend
	logger  *zap.Logger
}

// NewRetrievalHandler creates a retrieval handler.
func NewRetrievalHandler(backend *corpus.Backend, logger *zap.Logger) *RetrievalHandler {
	return &RetrievalHandler{backend: backend, logger: logger}
}

// SearchRequest asks for nodes manufactured from corpus documents matching
// the query within one domain.
type SearchRequest struct {
	Domain string `json:"domain" validate:"required,oneof=Virology Immunology Genomics Treatment PublicHealth"`
	Query  string `json:"query" validate:"required,min=1,max=500"`
}

// Search handles POST /retrieval/search.
func (h *RetrievalHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	var (
		result interface{}
		err    error
	)
	switch nodes.ResearchDomain(req.Domain) {
	case nodes.DomainVirology:
		result, err = h.backend.VirologyFrom(req.Query)
	case nodes.DomainImmunology:
		result, err = h.backend.ImmunologyFrom(req.Query)
	case nodes.DomainGenomics:
		result, err = h.backend.GenomicsFrom(req.Query)
	case nodes.DomainTreatment:
		result, err = h.backend.TreatmentFrom(req.Query)
	case nodes.DomainPublicHealth:
		result, err = h.backend.PublicHealthFrom(req.Query)
	}
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.logger.Debug("corpus search",
		zap.String("domain", req.Domain),
		zap.String("query", req.Query),
	)
	common.RespondJSON(w, http.StatusOK, result)
}
