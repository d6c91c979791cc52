package man

import (
	"strings"
	"testing"
	"time"

	"github.com/Blobfolio/bashman/pkg/manifest"
)

var stamp = time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)

func testApp() *manifest.App {
	return &manifest.App{
		Name:        "Fancy Encode",
		Bin:         "fancy-encode",
		Version:     "1.2.3",
		Description: "Encode things, fancily.",
		Subcommands: []manifest.Subcommand{
			{Cmd: "decode", Name: "decode", Description: "Reverse an encoding."},
		},
		Switches: []manifest.Switch{
			{Short: "-h", Long: "--help", Description: "Print help."},
		},
		Options: []manifest.Option{
			{Short: "-i", Long: "--input", Label: "<FILE>", Path: true, Description: "Read from FILE."},
		},
		Arguments: []manifest.Argument{
			{Label: "<PATHS>", Description: "One or more paths."},
		},
	}
}

func pageFor(t *testing.T, pages []Page, cmd string) Page {
	t.Helper()
	for _, p := range pages {
		if p.Cmd == cmd {
			return p
		}
	}
	t.Fatalf("no page for %q", cmd)
	return Page{}
}

func TestGeneratePages(t *testing.T) {
	pages := Generate(testApp(), stamp)
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}

	root := pageFor(t, pages, manifest.TopLevel)
	if root.Filename != "fancy-encode.1" {
		t.Errorf("root filename = %q", root.Filename)
	}
	sub := pageFor(t, pages, "decode")
	if sub.Filename != "fancy-encode-decode.1" {
		t.Errorf("sub filename = %q", sub.Filename)
	}
}

func TestGenerateHeader(t *testing.T) {
	root := pageFor(t, Generate(testApp(), stamp), manifest.TopLevel)
	want := `.TH "FANCY ENCODE" "1" "March 2026" "fancy\-encode v1.2.3" "User Commands"`
	if !strings.HasPrefix(root.Text, want+"\n") {
		t.Errorf("header:\n%s\nwant prefix:\n%s", root.Text, want)
	}
}

func TestGenerateUsage(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*manifest.App)
		cmd   string
		usage string
	}{
		{
			name:  "root",
			mod:   func(*manifest.App) {},
			cmd:   manifest.TopLevel,
			usage: `fancy\-encode [FLAGS] [OPTIONS] <PATHS> <SUBCOMMAND>`,
		},
		{
			name: "switch only",
			mod: func(a *manifest.App) {
				a.Subcommands = nil
				a.Options = nil
				a.Arguments = nil
			},
			cmd:   manifest.TopLevel,
			usage: `fancy\-encode [FLAGS]`,
		},
		{
			name:  "subcommand inherits nothing",
			mod:   func(*manifest.App) {},
			cmd:   "decode",
			usage: `fancy\-encode decode`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testApp()
			tt.mod(app)
			page := pageFor(t, Generate(app, stamp), tt.cmd)
			want := ".SS USAGE:\n.TP\n" + tt.usage + "\n"
			if !strings.Contains(page.Text, want) {
				t.Errorf("usage block missing:\n%s\nin:\n%s", want, page.Text)
			}
		})
	}
}

func TestGenerateTaglines(t *testing.T) {
	root := pageFor(t, Generate(testApp(), stamp), manifest.TopLevel)

	for _, want := range []string{
		".SS FLAGS:\n.TP\n\\fB\\-h\\fR, \\fB\\-\\-help\\fR\nPrint help.\n",
		".SS OPTIONS:\n.TP\n\\fB\\-i\\fR, \\fB\\-\\-input\\fR <FILE>\nRead from FILE.\n",
		".SS ARGUMENTS:\n.TP\n\\fB<PATHS>\\fR\nOne or more paths.\n",
		".SS SUBCOMMANDS:\n.TP\n\\fBdecode\\fR\nReverse an encoding.\n",
	} {
		if !strings.Contains(root.Text, want) {
			t.Errorf("missing block:\n%s", want)
		}
	}
}

func TestGenerateSections(t *testing.T) {
	app := testApp()
	app.Sections = []manifest.Section{
		{Name: "EXIT CODES", Inside: true, Items: [][2]string{{"0", "Success."}, {"1", "Error."}}},
		{Name: "COPYRIGHT:", Inside: false, Lines: []string{"Copyright 2026.", "All rights reserved."}},
	}
	root := pageFor(t, Generate(app, stamp), manifest.TopLevel)

	// Indented sections gain a colon; top-level ones lose it.
	if !strings.Contains(root.Text, ".SS EXIT CODES:\n.TP\n\\fB0\\fR\nSuccess.\n.TP\n\\fB1\\fR\nError.\n") {
		t.Errorf("item section missing:\n%s", root.Text)
	}
	if !strings.Contains(root.Text, ".SH COPYRIGHT\nCopyright 2026. All rights reserved.\n") {
		t.Errorf("line section missing:\n%s", root.Text)
	}

	// Sections stay off subcommand pages.
	sub := pageFor(t, Generate(app, stamp), "decode")
	if strings.Contains(sub.Text, "EXIT CODES") {
		t.Error("section leaked onto subcommand page")
	}
}

func TestGenerateSubcommandName(t *testing.T) {
	sub := pageFor(t, Generate(testApp(), stamp), "decode")
	if !strings.HasPrefix(sub.Text, `.TH "FANCY ENCODE DECODE" "1"`) {
		t.Errorf("sub header:\n%s", sub.Text)
	}
	if !strings.Contains(sub.Text, ".SH NAME\nDECODE \\- Manual page for fancy\\-encode decode v1.2.3.\n") {
		t.Errorf("sub NAME section:\n%s", sub.Text)
	}
}
