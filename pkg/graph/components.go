package graph

// Component is one connected component of the ownership graph, with its
// members partitioned into building parcels and entity keys.
type Component struct {
	BBLs     []string
	Entities []NodeKey
}

// Components finds all connected components with a queue-based BFS over
// the undirected graph. Traversal follows node insertion order (buildings
// first, then entities), which keeps output stable within a run; component
// membership itself is a pure property of connectivity and does not depend
// on traversal order.
func (g *Graph) Components() []Component {
	visited := make(map[string]bool, len(g.nodes))
	var components []Component

	for _, start := range g.order {
		if visited[start] {
			continue
		}

		var comp Component
		queue := []string{start}
		visited[start] = true

		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]

			key := g.nodes[id]
			if key.IsBuilding() {
				comp.BBLs = append(comp.BBLs, key.Value)
			} else {
				comp.Entities = append(comp.Entities, key)
			}

			for next := range g.adj[id] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}

		components = append(components, comp)
	}

	return components
}

// PortfolioCandidates returns the components holding at least two
// buildings. Singleton components are unclustered buildings, not
// portfolios, and are discarded.
func (g *Graph) PortfolioCandidates() []Component {
	var candidates []Component
	for _, comp := range g.Components() {
		if len(comp.BBLs) >= 2 {
			candidates = append(candidates, comp)
		}
	}
	return candidates
}
