// Package depgraph models a resolved package dependency graph: one root
// package plus directed edges annotated with the dependency kind (runtime
// or build) and optional target-platform and feature predicates.
//
// Graphs are built once from an external metadata snapshot (see [ReadFile])
// and consumed read-only by pkg/synth/credits. The package enforces DAG
// invariants at construction time; traversal helpers return nodes in
// deterministic (sorted) order so downstream output is byte-stable.
package depgraph
