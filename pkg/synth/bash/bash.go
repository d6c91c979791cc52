// Package bash generates bash completion scripts from an interface model.
//
// The generated script contains one completion function per (sub)command,
// a token scanner that resolves which subcommand context the cursor is in,
// and a dispatcher that routes to the matching function. Applications
// without subcommands get a single function registered directly.
//
// Suggestion behavior baked into the script:
//   - Keys already present on the command line are not offered again,
//     unless the item allows duplicates.
//   - Subcommand tokens are offered only in the top-level context.
//   - Options marked as path-valued complete filesystem entries for their
//     value; other options leave the value free-form.
//
// The scanner records the last command-line token matching a known
// subcommand, so a subcommand typed anywhere on the line governs
// completion regardless of cursor position. A token that merely looks like
// a subcommand (say, an option value) still matches; see the manifest
// documentation for that accepted limitation.
package bash

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Blobfolio/bashman/pkg/manifest"
)

// key is a completion-relevant switch or option. Arguments and sections
// play no part in completions.
type key struct {
	short     string
	long      string
	duplicate bool
	path      bool
}

// command pairs a (sub)command token with its in-scope keys and the name
// of the shell function generated for it.
type command struct {
	main  bool
	bin   string
	fname string
	keys  []key
}

// Generate renders the complete bash completion script for the app. The
// model must have passed validation; generation itself cannot fail.
func Generate(app *manifest.App) string {
	cmds := collect(app)
	main := cmds[0]

	var b strings.Builder

	// A single command needs no scanner or dispatcher.
	if len(cmds) == 1 {
		writeFunction(&b, app, main)
		fmt.Fprintf(&b, "complete -F %s -o bashdefault -o default %s\n", main.fname, main.bin)
		return collapseBlanks(b.String())
	}

	for _, c := range cmds[1:] {
		writeFunction(&b, app, c)
	}
	writeFunction(&b, app, main)
	writeScanner(&b, cmds)
	writeDispatcher(&b, cmds)
	fmt.Fprintf(&b, "complete -F chooser_%s -o bashdefault -o default %s\n", main.fname, main.bin)

	return collapseBlanks(b.String())
}

// collect builds the command list: the root first, then each subcommand in
// declaration order.
func collect(app *manifest.App) []command {
	cmds := make([]command, 0, len(app.Subcommands)+1)
	cmds = append(cmds, command{
		main:  true,
		bin:   app.Bin,
		fname: funcName("", app.Bin),
		keys:  keysFor(app, manifest.TopLevel),
	})
	for _, sub := range app.Subcommands {
		cmds = append(cmds, command{
			bin:   sub.Cmd,
			fname: funcName(app.Bin, sub.Cmd),
			keys:  keysFor(app, sub.Cmd),
		})
	}
	return cmds
}

// keysFor computes the option set for one subcommand context: the switches
// first, then the options, each in declaration order.
func keysFor(app *manifest.App, cmd string) []key {
	var keys []key
	for _, s := range app.SwitchesFor(cmd) {
		keys = append(keys, key{short: s.Short, long: s.Long, duplicate: s.Duplicate})
	}
	for _, o := range app.OptionsFor(cmd) {
		keys = append(keys, key{short: o.Short, long: o.Long, duplicate: o.Duplicate, path: o.Path})
	}
	return keys
}

// funcName builds a unique-ish shell function name for a (sub)command.
// Output is restricted to [a-z0-9_].
func funcName(parent, bin string) string {
	var b strings.Builder
	b.WriteString("_basher__")
	writeNormalized(&b, parent)
	b.WriteByte('_')
	writeNormalized(&b, bin)
	return b.String()
}

func writeNormalized(b *strings.Builder, s string) {
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9':
			b.WriteRune(c)
		case c >= 'A' && c <= 'Z':
			b.WriteRune(c + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
}

// writeFunction emits the completion function for one (sub)command. The
// root variant additionally offers the subcommand tokens.
func writeFunction(b *strings.Builder, app *manifest.App, c command) {
	b.WriteString(c.fname)
	b.WriteString(`() {
	local cur prev opts
	COMPREPLY=()
	cur="${COMP_WORDS[COMP_CWORD]}"
	prev="${COMP_WORDS[COMP_CWORD-1]}"
	opts=()
`)

	for _, k := range c.keys {
		writeKey(b, k)
	}

	if c.main {
		for _, sub := range app.Subcommands {
			fmt.Fprintf(b, "\topts+=(%q)\n", sub.Cmd)
		}
	}

	b.WriteString(`	opts=" ${opts[@]} "
	if [[ ${cur} == -* || ${COMP_CWORD} -eq 1 ]] ; then
		COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
		return 0
	fi
`)

	if paths := pathKeys(c.keys); len(paths) != 0 {
		fmt.Fprintf(b, `	case "${prev}" in
		%s)
			if [ -z "$( declare -f _filedir )" ]; then
				COMPREPLY=( $( compgen -f "${cur}" ) )
			else
				COMPREPLY=( $( _filedir ) )
			fi
			return 0
			;;
		*)
			COMPREPLY=()
			;;
	esac
`, strings.Join(paths, "|"))
	}

	b.WriteString(`	COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
	return 0
}
`)
}

// writeKey emits the candidate lines for one switch/option. Non-duplicate
// keys are guarded by a COMP_LINE presence check so they are never offered
// twice; duplicate keys are added unconditionally.
func writeKey(b *strings.Builder, k key) {
	switch {
	case k.short != "" && k.long != "":
		if k.duplicate {
			fmt.Fprintf(b, "\topts+=(%q)\n\topts+=(%q)\n", k.short, k.long)
		} else {
			fmt.Fprintf(b, `	if [[ ! " ${COMP_LINE} " =~ " %s " ]] && [[ ! " ${COMP_LINE} " =~ " %s " ]]; then
		opts+=(%q)
		opts+=(%q)
	fi
`, k.short, k.long, k.short, k.long)
		}
	case k.short != "" || k.long != "":
		single := k.short
		if single == "" {
			single = k.long
		}
		if k.duplicate {
			fmt.Fprintf(b, "\topts+=(%q)\n", single)
		} else {
			fmt.Fprintf(b, "\t[[ \" ${COMP_LINE} \" =~ \" %s \" ]] || opts+=(%q)\n", single, single)
		}
	}
}

// pathKeys returns the sorted, deduplicated key tokens that expect path
// values.
func pathKeys(keys []key) []string {
	var out []string
	for _, k := range keys {
		if !k.path {
			continue
		}
		if k.short != "" {
			out = append(out, k.short)
		}
		if k.long != "" {
			out = append(out, k.long)
		}
	}
	if len(out) > 1 {
		slices.Sort(out)
		out = slices.Compact(out)
	}
	return out
}

// writeScanner emits the subcommand scanner. It walks every token of the
// command line in order and keeps the last one matching a known
// (sub)command, so the most recently typed subcommand wins. The binary
// name itself matches too, resetting context to the root.
func writeScanner(b *strings.Builder, cmds []command) {
	fmt.Fprintf(b, `subcmd_%s() {
	local i cmd
	COMPREPLY=()
	cmd=""

	for i in ${COMP_WORDS[@]}; do
		case "${i}" in
`, cmds[0].fname)
	for _, c := range cmds {
		fmt.Fprintf(b, "\t\t\t%s)\n\t\t\t\tcmd=%q\n\t\t\t\t;;\n", c.bin, c.bin)
	}
	b.WriteString(`			*)
				;;
		esac
	done

	echo "$cmd"
}
`)
}

// writeDispatcher emits the chooser that routes completion to the function
// matching the scanned subcommand, defaulting to the root's function when
// no subcommand has been typed (or the token is unrecognized).
func writeDispatcher(b *strings.Builder, cmds []command) {
	main := cmds[0]
	fmt.Fprintf(b, `chooser_%s() {
	local i cmd
	COMPREPLY=()
	cmd="$( subcmd_%s )"

	case "${cmd}" in
`, main.fname, main.fname)
	for _, c := range cmds {
		fmt.Fprintf(b, "\t\t%s)\n\t\t\t%s\n\t\t\t;;\n", c.bin, c.fname)
	}
	fmt.Fprintf(b, `		*)
			%s
			;;
	esac
}
`, main.fname)
}

// collapseBlanks removes consecutive blank lines from the script text.
func collapseBlanks(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	last := byte('\n')
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' && last == '\n' {
			continue
		}
		b.WriteByte(s[i])
		last = s[i]
	}
	return b.String()
}
