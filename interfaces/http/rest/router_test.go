package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sarscov2kg/application/services"
	"sarscov2kg/infrastructure/config"
	"sarscov2kg/infrastructure/corpus"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		ServerAddress: ":0",
		Environment:   "development",
		RootVirusName: "SARS-CoV-2",
		RootGenomeKB:  30.0,
		MaxPathDepth:  6,
		EnableMetrics: true,
		EnableCORS:    false,
	}
	registry := services.NewGraphRegistry(zap.NewNop())
	backend := corpus.NewBackend([]corpus.Doc{
		{ID: uuid.New(), Domain: "Genomics", Text: "Omicron BA.5 carries L452R and F486V.", Source: "gisaid"},
	})
	return NewRouter(registry, backend, cfg, zap.NewNop()).Setup()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func createGraph(t *testing.T, h http.Handler) string {
	t.Helper()
	rec, env := do(t, h, http.MethodPost, "/api/v1/graphs", map[string]interface{}{
		"root_name":      "SARS-CoV-2",
		"root_genome_kb": 30.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func addIntentNode(t *testing.T, h http.Handler, graphID string, body map[string]interface{}) string {
	t.Helper()
	rec, env := do(t, h, http.MethodPost, "/api/v1/graphs/"+graphID+"/nodes", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var node struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &node))
	return node.ID
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateGraphValidation(t *testing.T) {
	h := newTestHandler(t)

	rec, env := do(t, h, http.MethodPost, "/api/v1/graphs", map[string]interface{}{
		"root_genome_kb": 30.0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION", env.Error.Code)

	// Unknown fields are rejected at decode time.
	rec, env = do(t, h, http.MethodPost, "/api/v1/graphs", map[string]interface{}{
		"root_name": "SARS-CoV-2",
		"surprise":  true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func TestGraphLifecycle(t *testing.T) {
	h := newTestHandler(t)
	graphID := createGraph(t, h)

	genomicsID := addIntentNode(t, h, graphID, map[string]interface{}{
		"domain":         "Genomics",
		"variant":        "Omicron BA.5",
		"mutations":      []string{"L452R", "F486V"},
		"intent":         "immune_escape",
		"evidence_count": 9,
		"confidence":     0.82,
	})
	immunologyID := addIntentNode(t, h, graphID, map[string]interface{}{
		"domain":         "Immunology",
		"topic":          "Antibody neutralization",
		"details":        "Reduced titers against BA.5",
		"intent":         "immune_escape",
		"evidence_count": 15,
		"confidence":     0.88,
	})

	rec, env := do(t, h, http.MethodPost, "/api/v1/graphs/"+graphID+"/edges", map[string]interface{}{
		"edge_type":     "causal",
		"source_id":     genomicsID,
		"target_id":     immunologyID,
		"label":         "F486V -> immune escape",
		"source_domain": "Genomics",
		"target_domain": "Immunology",
		"value":         0.8,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env = do(t, h, http.MethodGet, "/api/v1/graphs/"+graphID+"/statistics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		TotalNodes       int `json:"total_nodes"`
		TotalEdges       int `json:"total_edges"`
		CausalEdges      int `json:"causal_edges"`
		CrossDomainEdges int `json:"cross_domain_edges"`
		DomainsCovered   int `json:"domains_covered"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 2, stats.TotalNodes)
	assert.Equal(t, 1, stats.TotalEdges)
	assert.Equal(t, 1, stats.CausalEdges)
	assert.Equal(t, 1, stats.CrossDomainEdges)
	assert.Equal(t, 2, stats.DomainsCovered)

	rec, env = do(t, h, http.MethodGet, "/api/v1/graphs/"+graphID+"/nodes?domain=Genomics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Len(t, listed, 1)

	rec, env = do(t, h, http.MethodGet, "/api/v1/graphs/"+graphID+"/edges?cross_domain=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Len(t, listed, 1)

	rec, env = do(t, h, http.MethodGet,
		fmt.Sprintf("/api/v1/graphs/%s/paths?from=%s&to=%s", graphID, genomicsID, immunologyID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var paths [][]string
	require.NoError(t, json.Unmarshal(env.Data, &paths))
	require.Len(t, paths, 1)
	assert.Equal(t, []string{genomicsID, immunologyID}, paths[0])
}

func TestAddEdgeUnknownEndpointRejected(t *testing.T) {
	h := newTestHandler(t)
	graphID := createGraph(t, h)

	rec, env := do(t, h, http.MethodPost, "/api/v1/graphs/"+graphID+"/edges", map[string]interface{}{
		"edge_type":     "causal",
		"source_id":     uuid.New().String(),
		"target_id":     uuid.New().String(),
		"label":         "dangling",
		"source_domain": "Genomics",
		"target_domain": "Immunology",
		"value":         0.5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION", env.Error.Code)
}

func TestFindPathsDepthGuard(t *testing.T) {
	h := newTestHandler(t)
	graphID := createGraph(t, h)
	from, to := uuid.New(), uuid.New()

	rec, env := do(t, h, http.MethodGet,
		fmt.Sprintf("/api/v1/graphs/%s/paths?from=%s&to=%s&max_depth=7", graphID, from, to), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "configured limit is 6")
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "configured limit")

	rec, _ = do(t, h, http.MethodGet,
		fmt.Sprintf("/api/v1/graphs/%s/paths?from=%s&to=%s&max_depth=0", graphID, from, to), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGraphNotFound(t *testing.T) {
	h := newTestHandler(t)

	rec, env := do(t, h, http.MethodGet, "/api/v1/graphs/"+uuid.New().String()+"/statistics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	rec, env = do(t, h, http.MethodGet, "/api/v1/graphs/not-a-uuid/statistics", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTraceFlow(t *testing.T) {
	h := newTestHandler(t)
	graphID := createGraph(t, h)

	rec, _ := do(t, h, http.MethodPost, "/api/v1/graphs/"+graphID+"/traces", map[string]interface{}{
		"session_id": "session-001",
		"question":   "Does BA.5 escape vaccine-induced immunity?",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Same session twice conflicts.
	rec, env := do(t, h, http.MethodPost, "/api/v1/graphs/"+graphID+"/traces", map[string]interface{}{
		"session_id": "session-001",
		"question":   "duplicate",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	steps := []map[string]interface{}{
		{"step_number": 1, "hypothesis": "transmissibility", "query": "BA.5 growth advantage",
			"domains_explored": []string{"Genomics"}, "evidence_found": 12, "confidence": 0.85},
		{"step_number": 2, "hypothesis": "immune_escape", "query": "F486V neutralization",
			"domains_explored": []string{"Immunology"}, "evidence_found": 8, "confidence": 0.72},
	}
	for _, step := range steps {
		rec, _ = do(t, h, http.MethodPost, "/api/v1/graphs/"+graphID+"/traces/session-001/steps", step)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec, env = do(t, h, http.MethodGet, "/api/v1/graphs/"+graphID+"/traces/session-001/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		TotalSteps       int `json:"total_steps"`
		UniqueHypotheses int `json:"unique_hypotheses"`
		CrossDomainJumps int `json:"cross_domain_jumps"`
		TotalEvidence    int `json:"total_evidence"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 2, summary.TotalSteps)
	assert.Equal(t, 2, summary.UniqueHypotheses)
	assert.Equal(t, 1, summary.CrossDomainJumps)
	assert.Equal(t, 20, summary.TotalEvidence)

	rec, env = do(t, h, http.MethodGet, "/api/v1/graphs/"+graphID+"/traces", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &summaries))
	assert.Len(t, summaries, 1)

	rec, env = do(t, h, http.MethodGet, "/api/v1/graphs/"+graphID+"/traces/missing/summary", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStepValidation(t *testing.T) {
	h := newTestHandler(t)
	graphID := createGraph(t, h)

	rec, _ := do(t, h, http.MethodPost, "/api/v1/graphs/"+graphID+"/traces", map[string]interface{}{
		"session_id": "s", "question": "q",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, h, http.MethodPost, "/api/v1/graphs/"+graphID+"/traces/s/steps", map[string]interface{}{
		"step_number": 1, "hypothesis": "wild_guess", "query": "q",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
}

func TestCurveRoundTrip(t *testing.T) {
	h := newTestHandler(t)
	graphID := createGraph(t, h)

	rec, _ := do(t, h, http.MethodPut, "/api/v1/graphs/"+graphID+"/curves/immune_escape", map[string]interface{}{
		"points": []map[string]float64{{"rate": 1, "distortion": 0.4}, {"rate": 2, "distortion": 0.2}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env := do(t, h, http.MethodGet, "/api/v1/graphs/"+graphID+"/curves/immune_escape", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var curve struct {
		Intent string `json:"intent"`
		Points []struct {
			Rate       float64 `json:"rate"`
			Distortion float64 `json:"distortion"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &curve))
	assert.Equal(t, "immune_escape", curve.Intent)
	assert.Len(t, curve.Points, 2)

	rec, _ = do(t, h, http.MethodGet, "/api/v1/graphs/"+graphID+"/curves/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGovernanceAndCoverage(t *testing.T) {
	h := newTestHandler(t)
	graphID := createGraph(t, h)

	rec, _ := do(t, h, http.MethodPost, "/api/v1/graphs/"+graphID+"/base-nodes", map[string]interface{}{
		"domain": "Virology", "topic": "Spike-ACE2 binding", "details": "d",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := do(t, h, http.MethodGet, "/api/v1/graphs/"+graphID+"/coverage", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var metrics struct {
		Coverage struct {
			Virology int `json:"virology"`
		} `json:"coverage"`
		Serendipity struct {
			BranchingFactor float64 `json:"branching_factor"`
		} `json:"serendipity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &metrics))
	assert.Equal(t, 1, metrics.Coverage.Virology)
	assert.InDelta(t, 0.2, metrics.Serendipity.BranchingFactor, 1e-12)

	rec, env = do(t, h, http.MethodPost, "/api/v1/graphs/"+graphID+"/governance/check", map[string]interface{}{
		"virology_min": 1, "genomics_min": 0, "treatment_min": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var decision struct {
		Allowed bool   `json:"allowed"`
		Reason  string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &decision))
	assert.True(t, decision.Allowed)

	rec, env = do(t, h, http.MethodPost, "/api/v1/graphs/"+graphID+"/governance/check", map[string]interface{}{
		"virology_min": 1, "genomics_min": 2, "treatment_min": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &decision))
	assert.False(t, decision.Allowed)
	assert.Equal(t, "insufficient genomics evidence: 0 < 2", decision.Reason)
}

func TestHypothesisPathEndpoint(t *testing.T) {
	h := newTestHandler(t)
	graphID := createGraph(t, h)
	n1, n2, e1 := uuid.New().String(), uuid.New().String(), uuid.New().String()

	rec, _ := do(t, h, http.MethodPost, "/api/v1/graphs/"+graphID+"/hypothesis-paths", map[string]interface{}{
		"hypothesis_type":   "immune_escape",
		"description":       "F486V reduces neutralization",
		"node_sequence":     []string{n1, n2},
		"edge_sequence":     []string{e1},
		"total_confidence":  0.8,
		"evidence_coverage": 0.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Sequence length mismatch surfaces as a validation error.
	rec, env := do(t, h, http.MethodPost, "/api/v1/graphs/"+graphID+"/hypothesis-paths", map[string]interface{}{
		"hypothesis_type":   "immune_escape",
		"description":       "mismatched",
		"node_sequence":     []string{n1, n2},
		"edge_sequence":     []string{e1, uuid.New().String()},
		"total_confidence":  0.8,
		"evidence_coverage": 0.5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION", env.Error.Code)
}

func TestRetrievalSearch(t *testing.T) {
	h := newTestHandler(t)

	rec, env := do(t, h, http.MethodPost, "/api/v1/retrieval/search", map[string]interface{}{
		"domain": "Genomics",
		"query":  "BA.5",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var results []struct {
		Variant   string   `json:"variant"`
		Mutations []string `json:"mutations"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &results))
	require.Len(t, results, 1)
	assert.Equal(t, "BA.5", results[0].Variant)
	assert.Equal(t, []string{"L452R", "F486V"}, results[0].Mutations)

	rec, env = do(t, h, http.MethodPost, "/api/v1/retrieval/search", map[string]interface{}{
		"domain": "Astrology",
		"query":  "BA.5",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
}
