package depgraph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/Blobfolio/bashman/pkg/errors"
)

// kindToString maps edge kinds to their wire representation. Normal edges
// omit the field entirely.
var kindToString = map[EdgeKind]string{
	EdgeKindBuild: "build",
}

// snapshot is the JSON wire format for dependency graphs, as produced by
// the external package-metadata query step.
type snapshot struct {
	Root  string         `json:"root"`
	Nodes []snapshotNode `json:"nodes"`
	Edges []snapshotEdge `json:"edges,omitempty"`
}

type snapshotNode struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	Authors    []string `json:"authors,omitempty"`
	License    string   `json:"license,omitempty"`
	Repository string   `json:"repository,omitempty"`
}

type snapshotEdge struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind,omitempty"`
	Target  string `json:"target,omitempty"`
	Feature string `json:"feature,omitempty"`
}

// ReadFile reads a JSON dependency snapshot and returns the decoded Graph.
// Returns validation errors for malformed snapshots or DAG violations.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "failed to read dependency snapshot %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a JSON dependency snapshot from r. Use [ReadFile] for files
// or pass bytes.NewReader for in-memory data.
func Read(r io.Reader) (*Graph, error) {
	var data snapshot
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "failed to decode dependency snapshot")
	}
	return data.build()
}

// Write encodes the graph as an indented JSON snapshot. Nodes are written
// in sorted identity order so output is deterministic.
func Write(g *Graph, w io.Writer) error {
	out := snapshot{Root: g.root}
	for _, id := range g.NodeIDs() {
		n := g.nodes[id]
		out.Nodes = append(out.Nodes, snapshotNode{
			Name:       n.Name,
			Version:    n.Version,
			Authors:    slices.Clone(n.Authors),
			License:    n.License,
			Repository: n.Repository,
		})
	}
	for _, e := range g.edges {
		out.Edges = append(out.Edges, snapshotEdge{
			From:    e.From,
			To:      e.To,
			Kind:    kindToString[e.Kind],
			Target:  e.Target,
			Feature: e.Feature,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func (data *snapshot) build() (*Graph, error) {
	g := New()
	for _, n := range data.Nodes {
		err := g.AddNode(Node{
			Name:       n.Name,
			Version:    n.Version,
			Authors:    n.Authors,
			License:    n.License,
			Repository: n.Repository,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "bad node %s@%s", n.Name, n.Version)
		}
	}

	for _, e := range data.Edges {
		edge := Edge{From: e.From, To: e.To, Target: e.Target, Feature: e.Feature}
		switch e.Kind {
		case "", "normal":
			edge.Kind = EdgeKindNormal
		case "build":
			edge.Kind = EdgeKindBuild
		default:
			return nil, errors.New(errors.ErrCodeInvalidGraph, "bad edge kind %q", e.Kind)
		}
		if err := g.AddEdge(edge); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "bad edge %s -> %s", e.From, e.To)
		}
	}

	if err := g.SetRoot(data.Root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "bad root %q", data.Root)
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid dependency snapshot")
	}
	return g, nil
}
