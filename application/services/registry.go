// Package services holds the application-layer services the REST interface
// is built on.
package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sarscov2kg/domain/core/aggregates"
	pkgerrors "sarscov2kg/pkg/errors"
)

// GraphRegistry is the process-wide collection of graph instances. The core
// store has no internal locking, so the registry serializes access: every
// mutation runs under the exclusive lock, reads under the shared lock, and
// graph pointers never escape the closure they are handed to.
type GraphRegistry struct {
	mu     sync.RWMutex
	graphs map[uuid.UUID]*aggregates.MultiIntentGraph
	logger *zap.Logger
}

// NewGraphRegistry creates an empty registry.
func NewGraphRegistry(logger *zap.Logger) *GraphRegistry {
	return &GraphRegistry{
		graphs: make(map[uuid.UUID]*aggregates.MultiIntentGraph),
		logger: logger,
	}
}

// Register adds a graph to the registry and returns its identifier.
func (r *GraphRegistry) Register(graph *aggregates.MultiIntentGraph) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graphs[graph.ID] = graph
	r.logger.Info("graph registered",
		zap.String("graphID", graph.ID.String()),
		zap.Int("totalGraphs", len(r.graphs)),
	)
	return graph.ID
}

// View runs fn with shared access to the graph. fn must not mutate the graph
// or retain the pointer.
func (r *GraphRegistry) View(id uuid.UUID, fn func(*aggregates.MultiIntentGraph) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	graph, ok := r.graphs[id]
	if !ok {
		return pkgerrors.NewNotFoundError("graph")
	}
	return fn(graph)
}

// Update runs fn with exclusive access to the graph. fn must not retain the
// pointer.
func (r *GraphRegistry) Update(id uuid.UUID, fn func(*aggregates.MultiIntentGraph) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	graph, ok := r.graphs[id]
	if !ok {
		return pkgerrors.NewNotFoundError("graph")
	}
	return fn(graph)
}

// GraphSummary is a registry listing entry.
type GraphSummary struct {
	ID          uuid.UUID `json:"id"`
	RootName    string    `json:"root_name"`
	TotalNodes  int       `json:"total_nodes"`
	TotalEdges  int       `json:"total_edges"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// List returns a summary of every registered graph, in unspecified order.
func (r *GraphRegistry) List() []GraphSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]GraphSummary, 0, len(r.graphs))
	for _, g := range r.graphs {
		out = append(out, GraphSummary{
			ID:          g.ID,
			RootName:    g.BaseGraph.Root.Name,
			TotalNodes:  g.Metadata.TotalNodes,
			TotalEdges:  g.Metadata.TotalEdges,
			CreatedAt:   g.Metadata.CreatedAt,
			LastUpdated: g.Metadata.LastUpdated,
		})
	}
	return out
}

// Len returns the number of registered graphs.
func (r *GraphRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.graphs)
}
