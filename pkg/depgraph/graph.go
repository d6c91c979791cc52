package depgraph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNode is returned by [Graph.AddNode] when the node has an
	// empty name or version. Identity requires both.
	ErrInvalidNode = errors.New("node name and version must not be empty")

	// ErrDuplicateNode is returned by [Graph.AddNode] when a node with the
	// same identity (name@version) already exists in the graph.
	ErrDuplicateNode = errors.New("duplicate node identity")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownRoot is returned by [Graph.SetRoot] when the named root
	// node has not been added to the graph.
	ErrUnknownRoot = errors.New("unknown root node")

	// ErrGraphHasCycle is returned by [Graph.Validate] when a cycle is
	// detected. Dependency graphs from upstream metadata tools are DAGs by
	// construction; a cycle indicates a corrupt snapshot.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// EdgeKind distinguishes runtime dependencies from build-only ones.
type EdgeKind int

const (
	// EdgeKindNormal is a regular dependency, present in the shipped
	// artifact.
	EdgeKindNormal EdgeKind = iota
	// EdgeKindBuild is a build-time only dependency, absent from the
	// shipped artifact.
	EdgeKindBuild
)

// Node is one resolved package. Identity is (Name, Version); two releases
// of the same package are distinct nodes.
type Node struct {
	Name       string   // Package name
	Version    string   // Semantic version
	Authors    []string // Ordered author list
	License    string   // License expression (e.g. "MIT OR Apache-2.0")
	Repository string   // Source repository URL (optional)
}

// ID returns the node's identity key, name@version.
func (n Node) ID() string { return n.Name + "@" + n.Version }

// Edge is a directed dependency requirement between two nodes, identified
// by their IDs. Target and Feature are predicates limiting when the edge is
// active; empty means unconditional.
type Edge struct {
	From    string   // Dependent node ID
	To      string   // Dependency node ID
	Kind    EdgeKind // Runtime or build-only
	Target  string   // Target triple predicate (e.g. "x86_64-unknown-linux-gnu")
	Feature string   // Feature-flag predicate (e.g. "tls")
}

// Active reports whether the edge participates in a traversal configured
// with the given target filter and enabled feature set.
//
// Target matching: an edge with no target predicate always matches; a
// predicated edge matches only when a filter is supplied and equal. With no
// filter, all edges match regardless of predicate.
//
// Feature matching: an edge with no feature predicate always matches; a
// predicated edge matches only when the feature is enabled.
func (e Edge) Active(target string, features map[string]bool) bool {
	if target != "" && e.Target != "" && e.Target != target {
		return false
	}
	if e.Feature != "" && !features[e.Feature] {
		return false
	}
	return true
}

// Graph is a resolved dependency graph: a root package and directed edges
// from dependents to their dependencies.
//
// The zero value is not usable; use [New]. Graph is not safe for concurrent
// mutation, but all synthesis happens after construction, over a read-only
// instance.
type Graph struct {
	root     string
	nodes    map[string]*Node
	edges    []Edge
	outgoing map[string][]int // node ID -> indices into edges
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]int),
	}
}

// AddNode adds a package node. Returns ErrInvalidNode for an incomplete
// identity or ErrDuplicateNode when the identity is already present.
func (g *Graph) AddNode(n Node) error {
	if n.Name == "" || n.Version == "" {
		return ErrInvalidNode
	}
	id := n.ID()
	if _, exists := g.nodes[id]; exists {
		return ErrDuplicateNode
	}
	node := &n
	g.nodes[id] = node
	return nil
}

// AddEdge adds a dependency edge between two existing nodes. Returns
// ErrUnknownSourceNode or ErrUnknownTargetNode when an endpoint is missing.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], len(g.edges)-1)
	return nil
}

// SetRoot marks the graph's root package. The node must already exist.
func (g *Graph) SetRoot(id string) error {
	if _, ok := g.nodes[id]; !ok {
		return ErrUnknownRoot
	}
	g.root = id
	return nil
}

// Root returns the root node ID, or "" if none was set.
func (g *Graph) Root() string { return g.root }

// Node returns the node with the given identity and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// EdgesFrom returns the edges originating at the given node, in insertion
// order. The returned slice is a copy.
func (g *Graph) EdgesFrom(id string) []Edge {
	idx := g.outgoing[id]
	out := make([]Edge, len(idx))
	for i, j := range idx {
		out[i] = g.edges[j]
	}
	return out
}

// NodeIDs returns all node identities in sorted order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Targets returns the distinct target predicates appearing on any edge, in
// sorted order. Unconditional edges contribute nothing.
func (g *Graph) Targets() []string {
	seen := make(map[string]struct{})
	for _, e := range g.edges {
		if e.Target != "" {
			seen[e.Target] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Reachable walks the graph from the root, following only edges for which
// accept returns true, and returns the set of visited node IDs (the root
// included). Neighbor order is deterministic but irrelevant to the result.
func (g *Graph) Reachable(accept func(Edge) bool) map[string]struct{} {
	visited := make(map[string]struct{})
	if g.root == "" {
		return visited
	}

	stack := []string{g.root}
	for len(stack) != 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, done := visited[id]; done {
			continue
		}
		visited[id] = struct{}{}
		for _, j := range g.outgoing[id] {
			e := g.edges[j]
			if accept(e) {
				stack = append(stack, e.To)
			}
		}
	}
	return visited
}

// Validate checks graph integrity: a root must be set and the graph must be
// acyclic. Cycle detection runs in O(N+E) using depth-first search.
func (g *Graph) Validate() error {
	if g.root == "" {
		return ErrUnknownRoot
	}

	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, j := range g.outgoing[id] {
			switch color[g.edges[j].To] {
			case white:
				dfs(g.edges[j].To)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for id := range g.nodes {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
