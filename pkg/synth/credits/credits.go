// Package credits resolves a dependency graph into a flat, sorted credit
// list and renders it as a Markdown table.
//
// Classification follows shipped-relevance: a package is direct when the
// root depends on it through any active edge, build-only when every path
// reaching it is build-time only, and transitive otherwise. Entries gated
// behind feature flags that never apply unconditionally are marked
// optional. Manually declared credits merge in by identity; a manual
// entry colliding with a graph-derived one is a fatal error, since credit
// attribution is a compliance artifact and the two sources must not
// silently overlap.
package credits

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/Blobfolio/bashman/pkg/depgraph"
	"github.com/Blobfolio/bashman/pkg/errors"
	"github.com/Blobfolio/bashman/pkg/manifest"
)

// Entry is one resolved credit.
type Entry struct {
	Name       string
	Version    string
	License    string
	Repository string
	Authors    []string

	Direct    bool // Root depends on it through at least one active edge
	BuildOnly bool // Every reaching path is build-time only
	Optional  bool // Only reachable through feature-gated edges
}

// id returns the entry's identity key, name@version.
func (e Entry) id() string { return e.Name + "@" + e.Version }

// Resolve traverses the graph from its root, following only edges active
// under the given target filter and feature set, classifies every reached
// package, merges in the manually declared credits, and returns the
// result sorted by name (ordinal) with version as tiebreak.
//
// A manual credit sharing an identity with a graph-derived one yields a
// DUPLICATE_CREDIT error naming the colliding identity.
func Resolve(g *depgraph.Graph, target string, features map[string]bool, manual []manifest.Credit) ([]Entry, error) {
	active := func(e depgraph.Edge) bool { return e.Active(target, features) }

	reached := g.Reachable(active)
	runtime := g.Reachable(func(e depgraph.Edge) bool {
		return e.Kind == depgraph.EdgeKindNormal && active(e)
	})
	unconditional := g.Reachable(func(e depgraph.Edge) bool {
		return e.Feature == "" && active(e)
	})

	direct := make(map[string]struct{})
	for _, e := range g.EdgesFrom(g.Root()) {
		if active(e) {
			direct[e.To] = struct{}{}
		}
	}

	entries := make([]Entry, 0, len(reached)+len(manual))
	seen := make(map[string]struct{}, len(reached))
	for id := range reached {
		if id == g.Root() {
			continue
		}
		node, _ := g.Node(id)
		_, isDirect := direct[id]
		_, isRuntime := runtime[id]
		_, isUnconditional := unconditional[id]
		entries = append(entries, Entry{
			Name:       node.Name,
			Version:    node.Version,
			License:    node.License,
			Repository: node.Repository,
			Authors:    node.Authors,
			Direct:     isDirect,
			BuildOnly:  !isRuntime,
			Optional:   !isUnconditional,
		})
		seen[id] = struct{}{}
	}

	for _, c := range manual {
		id := c.Name + "@" + c.Version
		if _, dup := seen[id]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateCredit,
				"credit %s is declared manually but already present in the dependency graph", id)
		}
		seen[id] = struct{}{}
		entries = append(entries, Entry{
			Name:       c.Name,
			Version:    c.Version,
			License:    c.License,
			Repository: c.Repository,
			Authors:    c.Authors,
			Direct:     true,
			Optional:   c.Optional,
		})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		if c := semver.Compare("v"+a.Version, "v"+b.Version); c != 0 {
			return c
		}
		return strings.Compare(a.Version, b.Version)
	})
	return entries, nil
}

// Render produces the Markdown credit document: a header block naming the
// application, then one table row per entry. The Context column appears
// only when at least one entry carries a marker; a dependency-free
// project renders a short notice instead of a table.
func Render(app *manifest.App, target string, entries []Entry, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Project Dependencies\n")
	fmt.Fprintf(&b, "    Package:   %s\n", app.Bin)
	fmt.Fprintf(&b, "    Version:   %s\n", app.Version)
	if target != "" {
		fmt.Fprintf(&b, "    Target:    %s\n", target)
	}
	fmt.Fprintf(&b, "    Generated: %s\n", now.UTC().Format("2006-01-02 15:04:05 UTC"))
	b.WriteString("\n")

	if len(entries) == 0 {
		b.WriteString("This project has no dependencies.\n")
		return b.String()
	}

	contexts := make([]string, len(entries))
	var hasContext bool
	for i, e := range entries {
		contexts[i] = context(e)
		if contexts[i] != "" {
			hasContext = true
		}
	}

	if hasContext {
		b.WriteString("| Package | Version | Author(s) | License | Context |\n")
		b.WriteString("| ---- | ---- | ---- | ---- | ---- |\n")
	} else {
		b.WriteString("| Package | Version | Author(s) | License |\n")
		b.WriteString("| ---- | ---- | ---- | ---- |\n")
	}

	for i, e := range entries {
		name := strip(e.Name)
		if e.Repository != "" {
			name = "[" + name + "](" + e.Repository + ")"
		}
		row := []string{name, strip(e.Version), authors(e.Authors), license(e.License)}
		if hasContext {
			row = append(row, contexts[i])
		}
		fmt.Fprintf(&b, "| %s |\n", strings.Join(row, " | "))
	}

	return b.String()
}

// context builds an entry's marker cell. Transitive runtime dependencies
// get none.
func context(e Entry) string {
	var parts []string
	switch {
	case e.BuildOnly:
		parts = append(parts, "build")
	case e.Direct:
		parts = append(parts, "direct")
	}
	if e.Optional {
		parts = append(parts, "optional")
	}
	return strings.Join(parts, ", ")
}

// authors normalizes and joins an author list. Entries of the form
// "Name <email>" become mailto links; bare names and bare addresses pass
// through.
func authors(raw []string) string {
	out := make([]string, 0, len(raw))
	for _, a := range raw {
		if a = author(a); a != "" {
			out = append(out, a)
		}
	}
	return oxford(out, "and")
}

func author(raw string) string {
	name, email := raw, ""
	if i := strings.LastIndexByte(raw, '<'); i >= 0 {
		if j := strings.IndexByte(raw[i:], '>'); j > 0 {
			name = raw[:i]
			email = raw[i+1 : i+j]
		}
	}
	name = strip(name)
	email = strip(email)

	switch {
	case name == "" && email == "":
		return ""
	case email == "":
		return name
	case name == "":
		name = email
	}
	return "[" + name + "](mailto:" + email + ")"
}

// license normalizes a license expression: OR-alternatives split apart,
// deduplicated, sorted, and rejoined with "or".
func license(raw string) string {
	raw = strings.ReplaceAll(raw, " OR ", "/")
	parts := strings.Split(raw, "/")
	out := parts[:0]
	for _, p := range parts {
		if p = strip(p); p != "" {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	return oxford(out, "or")
}

// oxford joins words with commas and a final conjunction.
func oxford(words []string, conj string) string {
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	case 2:
		return words[0] + " " + conj + " " + words[1]
	default:
		return strings.Join(words[:len(words)-1], ", ") + ", " + conj + " " + words[len(words)-1]
	}
}

// strip drops Markdown-breaking characters and surrounding space.
func strip(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '<', '>', '(', ')', '|':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
