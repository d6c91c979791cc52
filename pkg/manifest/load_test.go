package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Blobfolio/bashman/pkg/errors"
)

const sampleManifest = `
name = "Fancy Tool"
bin = "fancy"
version = "2.0.1"
description = "Does fancy things."
bash-dir = "completions"
man-dir = "man"

[[subcommands]]
cmd = "encode"
description = "Encode stuff."

[[subcommands]]
cmd = "decode"
name = "Decoder"
description = "Decode stuff."

[[switches]]
short = "-h"
long = "--help"
description = "Print help."
duplicate = true
subcommands = ["", "encode", "decode"]

[[options]]
short = "-i"
long = "--input"
description = "Input file."
path = true
subcommands = ["encode"]

[[arguments]]
description = "Things to process."
subcommands = ["decode"]

[[sections]]
name = "EXAMPLES"
inside = true
lines = ["fancy encode -i foo.txt"]

[[sections]]
name = "CAVEATS"
items = [["One", "First caveat."], ["Two", "Second caveat."]]

[[credits]]
name = "leftpad"
version = "0.9.9"
license = "MIT"
authors = ["Jane Doe"]
optional = true
`

func TestParse(t *testing.T) {
	app, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if app.Name != "Fancy Tool" || app.Bin != "fancy" || app.Version != "2.0.1" {
		t.Errorf("header = %q/%q/%q", app.Name, app.Bin, app.Version)
	}
	if app.BashDir != "completions" || app.ManDir != "man" || app.CreditsDir != "" {
		t.Errorf("dirs = %q/%q/%q", app.BashDir, app.ManDir, app.CreditsDir)
	}

	if len(app.Subcommands) != 2 {
		t.Fatalf("subcommands = %d, want 2", len(app.Subcommands))
	}
	if app.Subcommands[0].Name != "encode" {
		t.Errorf("subcommand name should default to cmd, got %q", app.Subcommands[0].Name)
	}
	if app.Subcommands[1].Name != "Decoder" {
		t.Errorf("explicit subcommand name lost, got %q", app.Subcommands[1].Name)
	}

	if len(app.Switches) != 1 || !app.Switches[0].Duplicate {
		t.Errorf("switches = %+v", app.Switches)
	}
	if len(app.Options) != 1 || !app.Options[0].Path {
		t.Errorf("options = %+v", app.Options)
	}
	if app.Options[0].Label != "<VAL>" {
		t.Errorf("option label should default to <VAL>, got %q", app.Options[0].Label)
	}
	if len(app.Arguments) != 1 || app.Arguments[0].Label != "<VALUES>" {
		t.Errorf("argument label should default to <VALUES>, got %+v", app.Arguments)
	}

	if len(app.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(app.Sections))
	}
	if len(app.Sections[1].Items) != 2 || app.Sections[1].Items[0] != [2]string{"One", "First caveat."} {
		t.Errorf("section items = %+v", app.Sections[1].Items)
	}

	if len(app.Credits) != 1 || !app.Credits[0].Optional {
		t.Errorf("credits = %+v", app.Credits)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode errors.Code
	}{
		{
			name:     "not toml",
			input:    "{{{{",
			wantCode: errors.ErrCodeInvalidManifest,
		},
		{
			name:     "missing bin",
			input:    `version = "1.0.0"`,
			wantCode: errors.ErrCodeInvalidManifest,
		},
		{
			name: "bad section item arity",
			input: `
bin = "x"
version = "1.0.0"
[[sections]]
name = "BAD"
items = [["only one"]]
`,
			wantCode: errors.ErrCodeInvalidSection,
		},
		{
			name: "undeclared scope",
			input: `
bin = "x"
version = "1.0.0"
[[switches]]
long = "--force"
description = "Force."
subcommands = ["ghost"]
`,
			wantCode: errors.ErrCodeUnknownSubcommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Parse() = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bashman.toml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0o644); err != nil {
		t.Fatal(err)
	}

	app, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if app.Bin != "fancy" {
		t.Errorf("Bin = %q", app.Bin)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}
