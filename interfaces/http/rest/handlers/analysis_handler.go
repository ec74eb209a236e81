package handlers

import (
	"net/http"

	"go.uber.org/zap"

	appservices "sarscov2kg/application/services"
	"sarscov2kg/domain/core/aggregates"
	"sarscov2kg/domain/services"
	"sarscov2kg/pkg/common"
	"sarscov2kg/pkg/utils"
)

// AnalysisHandler exposes the coverage metrics and the governance check.
type AnalysisHandler struct {
	registry *appservices.GraphRegistry
	logger   *zap.Logger
}

// NewAnalysisHandler creates an analysis handler.
func NewAnalysisHandler(registry *appservices.GraphRegistry, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{registry: registry, logger: logger}
}

// GetMetrics handles GET /graphs/{graphID}/coverage, computing domain
// coverage and serendipity heuristics over the base graph.
func (h *AnalysisHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var metrics services.Metrics
	err = h.registry.View(graphID, func(g *aggregates.MultiIntentGraph) error {
		metrics = services.ComputeMetrics(&g.BaseGraph)
		return nil
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, metrics)
}

// GovernanceCheckRequest carries the evidence thresholds for a merge check.
type GovernanceCheckRequest struct {
	VirologyMin  int `json:"virology_min" validate:"gte=0"`
	GenomicsMin  int `json:"genomics_min" validate:"gte=0"`
	TreatmentMin int `json:"treatment_min" validate:"gte=0"`
}

// GovernanceCheck handles POST /graphs/{graphID}/governance/check.
func (h *AnalysisHandler) GovernanceCheck(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req GovernanceCheckRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	thresholds := services.EvidenceThresholds{
		VirologyMin:  req.VirologyMin,
		GenomicsMin:  req.GenomicsMin,
		TreatmentMin: req.TreatmentMin,
	}

	var decision services.GovernanceDecision
	err = h.registry.View(graphID, func(g *aggregates.MultiIntentGraph) error {
		decision = services.CheckMergeAllowed(&g.BaseGraph, thresholds)
		return nil
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if !decision.Allowed {
		h.logger.Warn("merge blocked by governance",
			zap.String("graphID", graphID.String()),
			zap.String("reason", decision.Reason),
		)
	}
	common.RespondJSON(w, http.StatusOK, decision)
}
