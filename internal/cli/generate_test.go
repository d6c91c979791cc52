package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Blobfolio/bashman/pkg/errors"
)

const testManifest = `
name = "Fancy Encode"
bin = "fancy-encode"
version = "1.2.3"
description = "Encode things, fancily."
bash-dir = "completions"
man-dir = "man"

[[subcommands]]
cmd = "decode"
description = "Reverse an encoding."

[[switches]]
short = "-h"
long = "--help"
description = "Print help."

[[options]]
short = "-i"
long = "--input"
label = "<FILE>"
path = true
description = "Read from FILE."
`

const testGraph = `{
  "root": "fancy-encode@1.2.3",
  "nodes": [
    {"name": "fancy-encode", "version": "1.2.3"},
    {"name": "serde", "version": "1.0.0", "license": "MIT"}
  ],
  "edges": [
    {"from": "fancy-encode@1.2.3", "to": "serde@1.0.0"}
  ]
}`

func testOptions(t *testing.T, graph bool) (*options, string) {
	t.Helper()
	dir := t.TempDir()

	manifestPath := filepath.Join(dir, "bashman.toml")
	if err := os.WriteFile(manifestPath, []byte(testManifest), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	opts := &options{
		manifestPath: manifestPath,
		now: func() time.Time {
			return time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
		},
	}
	if graph {
		opts.graphPath = filepath.Join(dir, "graph.json")
		if err := os.WriteFile(opts.graphPath, []byte(testGraph), 0644); err != nil {
			t.Fatalf("write graph: %v", err)
		}
	}
	return opts, dir
}

func TestRunAllArtifacts(t *testing.T) {
	opts, dir := testOptions(t, true)
	if err := opts.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, path := range []string{
		filepath.Join(dir, "completions", "fancy-encode.bash"),
		filepath.Join(dir, "man", "fancy-encode.1"),
		filepath.Join(dir, "man", "fancy-encode.1.gz"),
		filepath.Join(dir, "man", "fancy-encode-decode.1"),
		filepath.Join(dir, "man", "fancy-encode-decode.1.gz"),
		filepath.Join(dir, "CREDITS.md"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing artifact: %v", err)
		}
	}

	creditsDoc, err := os.ReadFile(filepath.Join(dir, "CREDITS.md"))
	if err != nil {
		t.Fatalf("read credits: %v", err)
	}
	if !strings.Contains(string(creditsDoc), "| serde | 1.0.0 |") {
		t.Errorf("credits:\n%s", creditsDoc)
	}
}

func TestRunSkipFlags(t *testing.T) {
	opts, dir := testOptions(t, true)
	opts.noBash = true
	opts.noMan = true
	opts.noCredits = true
	if err := opts.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	// Only the two input files remain.
	if len(entries) != 2 {
		t.Errorf("dir has %d entries, want 2", len(entries))
	}
}

func TestRunCreditsSkippedWithoutGraph(t *testing.T) {
	opts, dir := testOptions(t, false)
	if err := opts.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "CREDITS.md")); !os.IsNotExist(err) {
		t.Error("credits written without a graph")
	}
}

func TestRunInvalidManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bashman.toml")
	// Missing bin and version.
	if err := os.WriteFile(path, []byte(`name = "broken"`), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	opts := &options{manifestPath: path, now: time.Now}
	err := opts.run(context.Background())
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Fatalf("err = %v, want INVALID_MANIFEST", err)
	}

	// Nothing written.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1", len(entries))
	}
}

func TestRunPrintTargetsRequiresGraph(t *testing.T) {
	opts, _ := testOptions(t, false)
	opts.printTargets = true
	err := opts.run(context.Background())
	if !errors.Is(err, errors.ErrCodeInvalidFlag) {
		t.Fatalf("err = %v, want INVALID_FLAG", err)
	}
}

func TestResolveDir(t *testing.T) {
	tests := []struct {
		name string
		base string
		dir  string
		want string
	}{
		{"empty", "/work", "", "/work"},
		{"relative", "/work", "completions", "/work/completions"},
		{"absolute", "/work", "/usr/share/man", "/usr/share/man"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveDir(tt.base, tt.dir); got != tt.want {
				t.Errorf("resolveDir(%q, %q) = %q, want %q", tt.base, tt.dir, got, tt.want)
			}
		})
	}
}
