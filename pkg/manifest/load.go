package manifest

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/Blobfolio/bashman/pkg/errors"
)

// Default value placeholders, used when an option or argument omits its
// label. These match the conventions of the manifest format.
const (
	defaultOptionLabel   = "<VAL>"
	defaultArgumentLabel = "<VALUES>"
)

// rawManifest mirrors the TOML manifest schema. Field names are kebab-case
// on the wire; scope lists use the "subcommands" key.
type rawManifest struct {
	Name        string        `toml:"name"`
	Bin         string        `toml:"bin"`
	Version     string        `toml:"version"`
	Description string        `toml:"description"`
	BashDir     string        `toml:"bash-dir"`
	ManDir      string        `toml:"man-dir"`
	CreditsDir  string        `toml:"credits-dir"`
	Subcommands []rawSubCmd   `toml:"subcommands"`
	Switches    []rawSwitch   `toml:"switches"`
	Options     []rawOption   `toml:"options"`
	Arguments   []rawArgument `toml:"arguments"`
	Sections    []rawSection  `toml:"sections"`
	Credits     []rawCredit   `toml:"credits"`
}

type rawSubCmd struct {
	Cmd         string `toml:"cmd"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

type rawSwitch struct {
	Short       string   `toml:"short"`
	Long        string   `toml:"long"`
	Description string   `toml:"description"`
	Duplicate   bool     `toml:"duplicate"`
	Subcommands []string `toml:"subcommands"`
}

type rawOption struct {
	Short       string   `toml:"short"`
	Long        string   `toml:"long"`
	Description string   `toml:"description"`
	Label       string   `toml:"label"`
	Path        bool     `toml:"path"`
	Duplicate   bool     `toml:"duplicate"`
	Subcommands []string `toml:"subcommands"`
}

type rawArgument struct {
	Label       string   `toml:"label"`
	Description string   `toml:"description"`
	Subcommands []string `toml:"subcommands"`
}

type rawSection struct {
	Name   string     `toml:"name"`
	Inside bool       `toml:"inside"`
	Lines  []string   `toml:"lines"`
	Items  [][]string `toml:"items"`
}

type rawCredit struct {
	Name       string   `toml:"name"`
	Version    string   `toml:"version"`
	License    string   `toml:"license"`
	Authors    []string `toml:"authors"`
	Repository string   `toml:"repository"`
	Optional   bool     `toml:"optional"`
}

// Load reads, decodes, and validates a TOML manifest. The returned App has
// defaults applied (display names, value placeholders) and passed
// [App.Validate].
func Load(path string) (*App, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "failed to read manifest %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates manifest bytes. See [Load].
func Parse(data []byte) (*App, error) {
	var raw rawManifest
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "failed to decode manifest")
	}

	app, err := raw.build()
	if err != nil {
		return nil, err
	}
	if err := app.Validate(); err != nil {
		return nil, err
	}
	return app, nil
}

func (raw *rawManifest) build() (*App, error) {
	app := &App{
		Name:        raw.Name,
		Bin:         raw.Bin,
		Version:     raw.Version,
		Description: raw.Description,
		BashDir:     raw.BashDir,
		ManDir:      raw.ManDir,
		CreditsDir:  raw.CreditsDir,
	}
	if app.Name == "" {
		app.Name = app.Bin
	}

	for _, s := range raw.Subcommands {
		sub := Subcommand{Cmd: s.Cmd, Name: s.Name, Description: s.Description}
		if sub.Name == "" {
			sub.Name = sub.Cmd
		}
		app.Subcommands = append(app.Subcommands, sub)
	}

	for _, s := range raw.Switches {
		app.Switches = append(app.Switches, Switch{
			Short:       s.Short,
			Long:        s.Long,
			Description: s.Description,
			Duplicate:   s.Duplicate,
			Subcommands: s.Subcommands,
		})
	}

	for _, o := range raw.Options {
		opt := Option{
			Short:       o.Short,
			Long:        o.Long,
			Description: o.Description,
			Label:       o.Label,
			Path:        o.Path,
			Duplicate:   o.Duplicate,
			Subcommands: o.Subcommands,
		}
		if opt.Label == "" {
			opt.Label = defaultOptionLabel
		}
		app.Options = append(app.Options, opt)
	}

	for _, a := range raw.Arguments {
		arg := Argument{Label: a.Label, Description: a.Description, Subcommands: a.Subcommands}
		if arg.Label == "" {
			arg.Label = defaultArgumentLabel
		}
		app.Arguments = append(app.Arguments, arg)
	}

	for _, s := range raw.Sections {
		sec := Section{Name: s.Name, Inside: s.Inside, Lines: s.Lines}
		for _, item := range s.Items {
			if len(item) != 2 {
				return nil, errors.New(errors.ErrCodeInvalidSection, "section %q items must be [label, description] pairs", s.Name)
			}
			sec.Items = append(sec.Items, [2]string{item[0], item[1]})
		}
		app.Sections = append(app.Sections, sec)
	}

	for _, c := range raw.Credits {
		app.Credits = append(app.Credits, Credit{
			Name:       c.Name,
			Version:    c.Version,
			License:    c.License,
			Authors:    c.Authors,
			Repository: c.Repository,
			Optional:   c.Optional,
		})
	}

	return app, nil
}
