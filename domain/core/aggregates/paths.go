package aggregates

import (
	"github.com/google/uuid"
)

// FindPaths enumerates every simple path from start to end over the edge
// registry, materialized eagerly. maxDepth bounds the number of nodes in a
// path, so the edge count of any result is at most maxDepth-1. A path that
// reaches the target is recorded and not extended further, even if the
// target has outgoing edges.
//
// The edge registry is unordered, so the order of returned paths is
// unspecified; callers must treat the result as a set. Cost is exponential
// in branching factor and depth, so maxDepth must be bounded defensively.
func (g *MultiIntentGraph) FindPaths(start, end uuid.UUID, maxDepth int) [][]uuid.UUID {
	var paths [][]uuid.UUID
	path := []uuid.UUID{start}
	visited := make(map[uuid.UUID]bool)

	g.dfsPaths(start, end, &path, visited, &paths, maxDepth)
	return paths
}

// dfsPaths backtracks over the edge registry. A node is marked visited on
// frame entry and unmarked on exit, so sibling branches may revisit it; the
// visited set and path buffer are local to one FindPaths invocation, keeping
// concurrent searches over the same graph independent.
func (g *MultiIntentGraph) dfsPaths(current, target uuid.UUID, path *[]uuid.UUID, visited map[uuid.UUID]bool, paths *[][]uuid.UUID, maxDepth int) {
	if len(*path) > maxDepth {
		return
	}

	if current == target {
		found := make([]uuid.UUID, len(*path))
		copy(found, *path)
		*paths = append(*paths, found)
		return
	}

	visited[current] = true

	for _, edge := range g.Edges {
		if edge.SourceID == current && !visited[edge.TargetID] {
			*path = append(*path, edge.TargetID)
			g.dfsPaths(edge.TargetID, target, path, visited, paths, maxDepth)
			*path = (*path)[:len(*path)-1]
		}
	}

	delete(visited, current)
}
