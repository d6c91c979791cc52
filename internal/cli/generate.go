package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Blobfolio/bashman/pkg/depgraph"
	"github.com/Blobfolio/bashman/pkg/errors"
	"github.com/Blobfolio/bashman/pkg/manifest"
	"github.com/Blobfolio/bashman/pkg/output"
	"github.com/Blobfolio/bashman/pkg/synth/bash"
	"github.com/Blobfolio/bashman/pkg/synth/credits"
	"github.com/Blobfolio/bashman/pkg/synth/man"
)

// options holds the parsed command-line flags for a generation run.
type options struct {
	manifestPath string
	graphPath    string
	target       string
	features     []string
	noBash       bool
	noMan        bool
	noCredits    bool
	printTargets bool

	now func() time.Time // injectable for tests
}

// run executes one generation pass: load and validate the inputs, then
// produce each artifact the flags did not skip. Artifacts are independent;
// skipping one never affects the others.
func (o *options) run(ctx context.Context) error {
	logger := loggerFromContext(ctx)
	pr := newProgress(logger)

	app, err := manifest.Load(o.manifestPath)
	if err != nil {
		return err
	}
	logger.Debug("loaded manifest", "path", o.manifestPath, "bin", app.Bin)

	var graph *depgraph.Graph
	if o.graphPath != "" {
		graph, err = depgraph.ReadFile(o.graphPath)
		if err != nil {
			return err
		}
		if err := graph.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid dependency graph %s", o.graphPath)
		}
		logger.Debug("loaded dependency graph", "path", o.graphPath,
			"nodes", graph.NodeCount(), "edges", graph.EdgeCount())
	}

	if o.printTargets {
		if graph == nil {
			return errors.New(errors.ErrCodeInvalidFlag, "--print-targets requires --graph-path")
		}
		for _, t := range graph.Targets() {
			fmt.Println(t)
		}
		return nil
	}

	base, err := filepath.Abs(filepath.Dir(o.manifestPath))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to resolve manifest directory")
	}

	var written int
	if !o.noBash {
		n, err := o.writeBash(app, base)
		if err != nil {
			return err
		}
		written += n
	}
	if !o.noMan {
		n, err := o.writeMan(app, base)
		if err != nil {
			return err
		}
		written += n
	}
	if !o.noCredits {
		n, err := o.writeCredits(app, graph, base)
		if err != nil {
			return err
		}
		written += n
	}

	pr.done(fmt.Sprintf("Generated %d file(s) for %s v%s", written, app.Bin, app.Version))
	return nil
}

func (o *options) writeBash(app *manifest.App, base string) (int, error) {
	path := filepath.Join(resolveDir(base, app.BashDir), app.Bin+".bash")
	if err := output.Write(path, []byte(bash.Generate(app))); err != nil {
		return 0, err
	}
	printSuccess("Bash completions")
	printFile(path)
	return 1, nil
}

func (o *options) writeMan(app *manifest.App, base string) (int, error) {
	dir := resolveDir(base, app.ManDir)
	pages := man.Generate(app, o.now())

	var written int
	printSuccess("Man pages")
	for _, page := range pages {
		path := filepath.Join(dir, page.Filename)
		if err := output.Write(path, []byte(page.Text)); err != nil {
			return written, err
		}
		if err := output.WriteGzip(path+".gz", []byte(page.Text)); err != nil {
			return written, err
		}
		printFile(path)
		written += 2
	}
	return written, nil
}

func (o *options) writeCredits(app *manifest.App, graph *depgraph.Graph, base string) (int, error) {
	if graph == nil {
		printWarning("skipping credits: no dependency graph supplied (use --graph-path)")
		return 0, nil
	}

	features := make(map[string]bool, len(o.features))
	for _, f := range o.features {
		features[f] = true
	}

	entries, err := credits.Resolve(graph, o.target, features, app.Credits)
	if err != nil {
		return 0, err
	}

	path := filepath.Join(resolveDir(base, app.CreditsDir), "CREDITS.md")
	doc := credits.Render(app, o.target, entries, o.now())
	if err := output.Write(path, []byte(doc)); err != nil {
		return 0, err
	}
	printSuccess("Credits")
	printFile(path)
	return 1, nil
}

// resolveDir resolves a manifest directory hint against the manifest's own
// directory. Empty means the manifest directory itself.
func resolveDir(base, dir string) string {
	switch {
	case dir == "":
		return base
	case filepath.IsAbs(dir):
		return dir
	default:
		return filepath.Join(base, dir)
	}
}
