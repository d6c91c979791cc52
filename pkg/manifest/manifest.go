package manifest

import (
	"strings"

	"github.com/Blobfolio/bashman/pkg/errors"
)

// App is the root of the interface model: one binary, its top-level keys,
// and any subcommands. The zero value is not usable; construct via [Load]
// or populate the fields directly and call [App.Validate].
type App struct {
	Name        string // Display name (defaults to Bin)
	Bin         string // Binary name as typed by the user
	Version     string // Semantic version
	Description string

	// Output directory hints, resolved relative to the manifest file.
	// Empty means the manifest's own directory.
	BashDir    string
	ManDir     string
	CreditsDir string

	Subcommands []Subcommand
	Switches    []Switch
	Options     []Option
	Arguments   []Argument
	Sections    []Section
	Credits     []Credit
}

// Subcommand is a single-level subcommand of the application.
// Nesting is not supported; Cmd values are unique within an App.
type Subcommand struct {
	Cmd         string // Literal token typed by the user (unique key)
	Name        string // Display name (defaults to Cmd)
	Description string
}

// Switch is a boolean flag. At least one of Short/Long must be set.
type Switch struct {
	Short       string // e.g. "-h"
	Long        string // e.g. "--help"
	Description string
	Duplicate   bool     // May be passed more than once
	Subcommands []string // Subcommand keys this applies to ("" = top level)
}

// Option is a flag that consumes a following value.
type Option struct {
	Short       string
	Long        string
	Description string
	Label       string // Value placeholder, e.g. "<FILE>"
	Path        bool   // Completion should suggest filesystem paths
	Duplicate   bool
	Subcommands []string
}

// Argument is a trailing positional value.
type Argument struct {
	Label       string
	Description string
	Subcommands []string
}

// Section is a free-form manual section. Exactly one of Lines/Items must
// be populated.
type Section struct {
	Name   string
	Inside bool        // Indented (.SS) rather than top-level (.SH)
	Lines  []string    // Paragraph content
	Items  [][2]string // (label, description) pairs
}

// Credit is a manually declared dependency credit, merged into the
// graph-derived credit list by pkg/synth/credits.
type Credit struct {
	Name       string
	Version    string
	License    string
	Authors    []string
	Repository string
	Optional   bool
}

// TopLevel is the reserved subcommand key meaning "applies at top level".
const TopLevel = ""

// Validate checks the model invariants. It returns the first violation
// found, or nil. A nil result guarantees synthesis cannot fail on this App.
func (a *App) Validate() error {
	if a.Bin == "" {
		return errors.New(errors.ErrCodeInvalidManifest, "binary name is required")
	}
	if a.Version == "" {
		return errors.New(errors.ErrCodeInvalidManifest, "version is required")
	}

	seen := make(map[string]struct{}, len(a.Subcommands))
	for _, s := range a.Subcommands {
		if s.Cmd == "" {
			return errors.New(errors.ErrCodeInvalidManifest, "subcommand key must not be empty")
		}
		if _, dup := seen[s.Cmd]; dup {
			return errors.New(errors.ErrCodeDuplicateSubcommand, "subcommand %q declared more than once", s.Cmd)
		}
		seen[s.Cmd] = struct{}{}
	}

	for _, s := range a.Switches {
		if err := a.validateKeys(s.Short, s.Long, s.Subcommands); err != nil {
			return err
		}
	}
	for _, o := range a.Options {
		if err := a.validateKeys(o.Short, o.Long, o.Subcommands); err != nil {
			return err
		}
	}
	for _, arg := range a.Arguments {
		if err := a.validateScope(arg.Subcommands); err != nil {
			return err
		}
	}

	for _, s := range a.Sections {
		if s.Name == "" {
			return errors.New(errors.ErrCodeInvalidSection, "section name is required")
		}
		if len(s.Lines) != 0 && len(s.Items) != 0 {
			return errors.New(errors.ErrCodeInvalidSection, "section %q declares both lines and items", s.Name)
		}
		if len(s.Lines) == 0 && len(s.Items) == 0 {
			return errors.New(errors.ErrCodeInvalidSection, "section %q has no content", s.Name)
		}
	}

	return nil
}

func (a *App) validateKeys(short, long string, scope []string) error {
	if short == "" && long == "" {
		return errors.New(errors.ErrCodeInvalidFlag, "flag must declare a short and/or long key")
	}
	if short != "" && (!strings.HasPrefix(short, "-") || strings.HasPrefix(short, "--")) {
		return errors.New(errors.ErrCodeInvalidFlag, "short key %q must look like -x", short)
	}
	if long != "" && !strings.HasPrefix(long, "--") {
		return errors.New(errors.ErrCodeInvalidFlag, "long key %q must look like --xxx", long)
	}
	return a.validateScope(scope)
}

func (a *App) validateScope(scope []string) error {
	for _, key := range scope {
		if key == TopLevel {
			continue
		}
		if _, ok := a.Subcommand(key); !ok {
			return errors.New(errors.ErrCodeUnknownSubcommand, "scope references undeclared subcommand %q", key)
		}
	}
	return nil
}

// Subcommand returns the subcommand with the given key, if declared.
func (a *App) Subcommand(cmd string) (Subcommand, bool) {
	for _, s := range a.Subcommands {
		if s.Cmd == cmd {
			return s, true
		}
	}
	return Subcommand{}, false
}

// HasSubcommands reports whether the application declares any subcommands.
func (a *App) HasSubcommands() bool { return len(a.Subcommands) != 0 }

// SubcommandKeys returns the declared subcommand keys in declaration order.
func (a *App) SubcommandKeys() []string {
	keys := make([]string, len(a.Subcommands))
	for i, s := range a.Subcommands {
		keys[i] = s.Cmd
	}
	return keys
}

// appliesTo reports whether an item scoped to the given keys applies under
// the subcommand cmd. An empty scope means top level only.
func appliesTo(scope []string, cmd string) bool {
	if len(scope) == 0 {
		return cmd == TopLevel
	}
	for _, key := range scope {
		if key == cmd {
			return true
		}
	}
	return false
}

// SwitchesFor returns the switches in scope under the given subcommand key,
// in declaration order. Pass [TopLevel] for the root command.
func (a *App) SwitchesFor(cmd string) []Switch {
	var out []Switch
	for _, s := range a.Switches {
		if appliesTo(s.Subcommands, cmd) {
			out = append(out, s)
		}
	}
	return out
}

// OptionsFor returns the options in scope under the given subcommand key,
// in declaration order.
func (a *App) OptionsFor(cmd string) []Option {
	var out []Option
	for _, o := range a.Options {
		if appliesTo(o.Subcommands, cmd) {
			out = append(out, o)
		}
	}
	return out
}

// ArgumentsFor returns the trailing arguments in scope under the given
// subcommand key, in declaration order.
func (a *App) ArgumentsFor(cmd string) []Argument {
	var out []Argument
	for _, arg := range a.Arguments {
		if appliesTo(arg.Subcommands, cmd) {
			out = append(out, arg)
		}
	}
	return out
}
