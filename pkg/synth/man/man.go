// Package man generates roff manual pages from an interface model, one
// page per (sub)command.
//
// Pages follow the classic section layout: NAME, DESCRIPTION, USAGE,
// SUBCOMMANDS (root page only), FLAGS, OPTIONS, ARGUMENTS, then any
// manifest-declared sections (root page only) in declaration order.
// Hyphens are escaped throughout so groff renders them literally.
package man

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-wordwrap"

	"github.com/Blobfolio/bashman/pkg/manifest"
)

// wrapWidth is the column limit for free-form paragraph content.
const wrapWidth = 80

// Page is one rendered manual page.
type Page struct {
	Cmd      string // Subcommand key, "" for the root page
	Filename string // Suggested file name, e.g. "fancy-encode.1"
	Text     string // Full roff source
}

// Generate renders one page per (sub)command, the root page first. The
// model must have passed validation; generation itself cannot fail. The
// supplied time stamps the page headers.
func Generate(app *manifest.App, now time.Time) []Page {
	pages := make([]Page, 0, len(app.Subcommands)+1)
	pages = append(pages, Page{
		Cmd:      manifest.TopLevel,
		Filename: app.Bin + ".1",
		Text:     render(app, manifest.TopLevel, now),
	})
	for _, sub := range app.Subcommands {
		pages = append(pages, Page{
			Cmd:      sub.Cmd,
			Filename: app.Bin + "-" + sub.Cmd + ".1",
			Text:     render(app, sub.Cmd, now),
		})
	}
	return pages
}

func render(app *manifest.App, cmd string, now time.Time) string {
	root := cmd == manifest.TopLevel

	name := niceName(app.Name)
	fullCmd := app.Bin
	description := app.Description
	if !root {
		sub, _ := app.Subcommand(cmd)
		name = niceName(sub.Name)
		fullCmd = app.Bin + " " + cmd
		description = sub.Description
	}
	fullName := name
	if !root {
		fullName = niceName(app.Name) + " " + name
	}

	switches := app.SwitchesFor(cmd)
	options := app.OptionsFor(cmd)
	args := app.ArgumentsFor(cmd)

	var b strings.Builder

	// Header. Plain quoting: %q would double the backslashes escape()
	// just produced, and niceName strips quote characters from the title.
	fmt.Fprintf(&b, ".TH \"%s\" \"1\" \"%s\" \"%s\" \"User Commands\"\n",
		escape(fullName),
		now.UTC().Format("January 2006"),
		escape(fullCmd+" v"+app.Version),
	)

	// NAME.
	fmt.Fprintf(&b, ".SH NAME\n%s \\- Manual page for %s v%s.\n",
		escape(name), escape(fullCmd), escape(app.Version))

	// DESCRIPTION.
	fmt.Fprintf(&b, ".SH DESCRIPTION\n%s\n", escape(description))

	// USAGE.
	usage := escape(fullCmd)
	if len(switches) != 0 {
		usage += " [FLAGS]"
	}
	if len(options) != 0 {
		usage += " [OPTIONS]"
	}
	for _, arg := range args {
		usage += " " + escape(arg.Label)
	}
	if root && app.HasSubcommands() {
		usage += " <SUBCOMMAND>"
	}
	fmt.Fprintf(&b, ".SS USAGE:\n.TP\n%s\n", usage)

	// SUBCOMMANDS (root page only).
	if root && app.HasSubcommands() {
		b.WriteString(".SS SUBCOMMANDS:\n")
		for _, sub := range app.Subcommands {
			writeTagline(&b, "", sub.Cmd, "", sub.Description)
		}
	}

	// FLAGS.
	if len(switches) != 0 {
		b.WriteString(".SS FLAGS:\n")
		for _, s := range switches {
			writeTagline(&b, s.Short, s.Long, "", s.Description)
		}
	}

	// OPTIONS.
	if len(options) != 0 {
		b.WriteString(".SS OPTIONS:\n")
		for _, o := range options {
			writeTagline(&b, o.Short, o.Long, o.Label, o.Description)
		}
	}

	// ARGUMENTS.
	if len(args) != 0 {
		b.WriteString(".SS ARGUMENTS:\n")
		for _, arg := range args {
			writeTagline(&b, "", "", arg.Label, arg.Description)
		}
	}

	// Manifest-declared sections (root page only).
	if root {
		for _, sec := range app.Sections {
			writeSection(&b, sec)
		}
	}

	return b.String()
}

// writeTagline emits one .TP entry. Keys render bold; a value label, when
// present, trails the keys.
func writeTagline(b *strings.Builder, short, long, label, description string) {
	var keys []string
	if short != "" {
		keys = append(keys, "\\fB"+escape(short)+"\\fR")
	}
	if long != "" {
		keys = append(keys, "\\fB"+escape(long)+"\\fR")
	}

	tag := strings.Join(keys, ", ")
	switch {
	case tag != "" && label != "":
		tag += " " + escape(label)
	case label != "":
		tag = "\\fB" + escape(label) + "\\fR"
	}

	fmt.Fprintf(b, ".TP\n%s\n%s\n", tag, escape(description))
}

// writeSection emits a manifest-declared section. Indented sections use
// .SS with a trailing colon; top-level ones use .SH with the colon
// trimmed. Line content wraps as paragraph text; item content renders as
// a two-column list matching the argument style.
func writeSection(b *strings.Builder, sec manifest.Section) {
	label := sec.Name
	if sec.Inside {
		if !strings.HasSuffix(label, ":") {
			label += ":"
		}
		fmt.Fprintf(b, ".SS %s\n", escape(label))
	} else {
		label = strings.TrimRight(label, ": \t")
		fmt.Fprintf(b, ".SH %s\n", escape(label))
	}

	if len(sec.Lines) != 0 {
		text := wordwrap.WrapString(strings.Join(sec.Lines, " "), wrapWidth)
		if sec.Inside {
			b.WriteString(".TP\n")
		}
		fmt.Fprintf(b, "%s\n", escape(text))
		return
	}

	for _, item := range sec.Items {
		fmt.Fprintf(b, ".TP\n\\fB%s\\fR\n%s\n", escape(item[0]), escape(item[1]))
	}
}

// escape renders hyphens as "\-"; groff otherwise substitutes typographic
// dashes.
func escape(s string) string {
	return strings.ReplaceAll(s, "-", "\\-")
}

// niceName uppercases a display name for the page header, dropping any
// quote characters along the way.
func niceName(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '"' || r == '\'' {
			return -1
		}
		return r
	}, s)
	return strings.ToUpper(strings.TrimSpace(s))
}
