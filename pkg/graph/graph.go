// Package graph builds the ownership graph for one discovery run: a
// bipartite graph of building nodes and entity nodes (people, corporations,
// mailing addresses, assessor owner names) and finds its connected
// components. A component holding two or more buildings is a portfolio
// candidate.
package graph

// NodeKind tags a node as a building parcel or one of the entity signal types.
type NodeKind string

const (
	KindBuilding NodeKind = "B"
	KindPerson   NodeKind = "P"
	KindCorp     NodeKind = "C"
	KindAddress  NodeKind = "A"
	KindOwner    NodeKind = "O"
)

// NodeKey identifies a node. Identity is exact string equality over the
// canonical key; any fuzzy matching has to happen before values get here.
type NodeKey struct {
	Kind  NodeKind
	Value string
}

// String returns the canonical prefixed key ("C:84TH ST LLC") used as the
// underlying map key.
func (k NodeKey) String() string {
	return string(k.Kind) + ":" + k.Value
}

// IsBuilding reports whether the node is a building parcel node.
func (k NodeKey) IsBuilding() bool {
	return k.Kind == KindBuilding
}

// Graph is the owned node table and adjacency structure of one discovery
// run. It is built once, read once, and touched by a single goroutine;
// it must not be shared across runs.
type Graph struct {
	nodes map[string]NodeKey
	adj   map[string]map[string]struct{}
	order []string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]NodeKey),
		adj:   make(map[string]map[string]struct{}),
	}
}

// AddNode inserts a node if it is not present yet.
func (g *Graph) AddNode(key NodeKey) {
	id := key.String()
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = key
	g.adj[id] = make(map[string]struct{})
	g.order = append(g.order, id)
}

// Connect adds an undirected edge between two nodes, inserting either
// node if needed.
func (g *Graph) Connect(a, b NodeKey) {
	g.AddNode(a)
	g.AddNode(b)
	g.adj[a.String()][b.String()] = struct{}{}
	g.adj[b.String()][a.String()] = struct{}{}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the key stored for a canonical id.
func (g *Graph) Node(id string) (NodeKey, bool) {
	key, ok := g.nodes[id]
	return key, ok
}
