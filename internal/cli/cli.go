// Package cli implements the bashman command-line interface.
//
// bashman is a single-command tool: it loads an application manifest,
// optionally a dependency-graph snapshot, and generates bash completions,
// man pages, and a credits document. Each artifact can be skipped with a
// --no-* flag; artifacts are otherwise independent.
//
// All output paths derive from the manifest: bash-dir, man-dir, and
// credits-dir are resolved relative to the manifest file, defaulting to
// its directory.
//
// Logging uses the charmbracelet/log library, attached to the command
// context; --verbose (-v) switches to debug level.
package cli

import (
	"context"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Blobfolio/bashman/pkg/buildinfo"
)

// Execute runs the bashman CLI and returns an error if generation fails.
//
// The logger is attached to the context and accessible via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool
	opts := &options{now: time.Now}

	root := &cobra.Command{
		Use:          "bashman",
		Short:        "bashman generates bash completions, man pages, and credits",
		Long:         `bashman reads a declarative application manifest and generates three release artifacts from it: a bash completion script, one man page per (sub)command, and a Markdown credits document derived from a dependency-graph snapshot.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context())
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.Flags().BoolP("version", "V", false, "print version information")

	flags := root.Flags()
	flags.StringVarP(&opts.manifestPath, "manifest-path", "m", "Cargo.toml", "path to the application manifest")
	flags.StringVarP(&opts.graphPath, "graph-path", "g", "", "path to a dependency-graph JSON snapshot")
	flags.StringVarP(&opts.target, "target", "t", "", "limit credits to dependencies of this target triple")
	flags.StringSliceVarP(&opts.features, "features", "f", nil, "comma-separated feature flags to enable")
	flags.BoolVar(&opts.noBash, "no-bash", false, "skip the bash completion script")
	flags.BoolVar(&opts.noMan, "no-man", false, "skip the man pages")
	flags.BoolVar(&opts.noCredits, "no-credits", false, "skip the credits document")
	flags.BoolVar(&opts.printTargets, "print-targets", false, "list target triples present in the graph and exit")

	return root.ExecuteContext(ctx)
}
