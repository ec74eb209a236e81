package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sarscov2kg/application/services"
	"sarscov2kg/domain/core/aggregates"
	"sarscov2kg/domain/core/rd"
	"sarscov2kg/domain/core/traces"
	"sarscov2kg/pkg/common"
	pkgerrors "sarscov2kg/pkg/errors"
	"sarscov2kg/pkg/utils"
)

// TraceHandler handles serendipity traces, exploration steps and
// rate-distortion curves.
type TraceHandler struct {
	registry *services.GraphRegistry
	logger   *zap.Logger
}

// NewTraceHandler creates a trace handler.
func NewTraceHandler(registry *services.GraphRegistry, logger *zap.Logger) *TraceHandler {
	return &TraceHandler{registry: registry, logger: logger}
}

// CreateTraceRequest opens a trace for a research session.
type CreateTraceRequest struct {
	SessionID string `json:"session_id" validate:"required,min=1,max=200"`
	Question  string `json:"question" validate:"required,min=1"`
}

// CreateTrace handles POST /graphs/{graphID}/traces.
func (h *TraceHandler) CreateTrace(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req CreateTraceRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	trace := traces.New(req.SessionID, req.Question)
	err = h.registry.Update(graphID, func(g *aggregates.MultiIntentGraph) error {
		if g.TraceBySession(req.SessionID) != nil {
			return pkgerrors.NewConflictError("trace for session " + req.SessionID + " already exists")
		}
		g.AddTrace(trace)
		return nil
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, trace)
}

// AddStepRequest appends an exploration step to a session's trace.
type AddStepRequest struct {
	StepNumber      int      `json:"step_number" validate:"gte=1"`
	Hypothesis      string   `json:"hypothesis" validate:"required,oneof=transmissibility vaccine_efficacy immune_escape treatment_response public_health_impact"`
	Query           string   `json:"query" validate:"required,min=1"`
	DomainsExplored []string `json:"domains_explored,omitempty"`
	EvidenceFound   int      `json:"evidence_found" validate:"gte=0"`
	Confidence      float64  `json:"confidence" validate:"gte=0,lte=1"`
}

// AddStep handles POST /graphs/{graphID}/traces/{sessionID}/steps.
func (h *TraceHandler) AddStep(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	sessionID := chi.URLParam(r, "sessionID")

	var req AddStepRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	step, err := traces.NewStepBuilder(req.StepNumber, traces.HypothesisType(req.Hypothesis), req.Query).
		Domains(req.DomainsExplored).
		Evidence(req.EvidenceFound).
		Confidence(req.Confidence).
		Build()
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	err = h.registry.Update(graphID, func(g *aggregates.MultiIntentGraph) error {
		trace := g.TraceBySession(sessionID)
		if trace == nil {
			return pkgerrors.NewNotFoundError("trace")
		}
		trace.AddStep(step)
		return nil
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, step)
}

// ListTraces handles GET /graphs/{graphID}/traces, returning summaries.
func (h *TraceHandler) ListTraces(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var out []traces.Summary
	err = h.registry.View(graphID, func(g *aggregates.MultiIntentGraph) error {
		out = make([]traces.Summary, 0, len(g.SerendipityTraces))
		for _, t := range g.SerendipityTraces {
			out = append(out, t.Summary())
		}
		return nil
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, out)
}

// GetTraceSummary handles GET /graphs/{graphID}/traces/{sessionID}/summary.
func (h *TraceHandler) GetTraceSummary(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	sessionID := chi.URLParam(r, "sessionID")

	var summary traces.Summary
	err = h.registry.View(graphID, func(g *aggregates.MultiIntentGraph) error {
		trace := g.TraceBySession(sessionID)
		if trace == nil {
			return pkgerrors.NewNotFoundError("trace")
		}
		summary = trace.Summary()
		return nil
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, summary)
}

// PutCurveRequest stores a rate-distortion curve for an intent.
type PutCurveRequest struct {
	Points []rd.Point `json:"points" validate:"required,min=1"`
}

// PutCurve handles PUT /graphs/{graphID}/curves/{intent}. The curve is stored
// opaquely, keyed by the intent label.
func (h *TraceHandler) PutCurve(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	intent := chi.URLParam(r, "intent")

	var req PutCurveRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	curve := rd.Curve{Intent: intent, Points: req.Points}
	err = h.registry.Update(graphID, func(g *aggregates.MultiIntentGraph) error {
		g.AddRDCurve(intent, curve)
		return nil
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, curve)
}

// GetCurve handles GET /graphs/{graphID}/curves/{intent}.
func (h *TraceHandler) GetCurve(w http.ResponseWriter, r *http.Request) {
	graphID, err := parseUUIDParam(r, "graphID")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	intent := chi.URLParam(r, "intent")

	var curve rd.Curve
	err = h.registry.View(graphID, func(g *aggregates.MultiIntentGraph) error {
		stored, ok := g.RDCurves[intent]
		if !ok {
			return pkgerrors.NewNotFoundError("rate-distortion curve")
		}
		curve = stored
		return nil
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, curve)
}
