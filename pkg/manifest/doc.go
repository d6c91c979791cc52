// Package manifest defines the in-memory model of a command-line
// application's interface: its subcommands, switches, options, trailing
// arguments, and free-form manual sections.
//
// The model is populated from a TOML manifest (see [Load]) and consumed
// read-only by the synthesis packages under pkg/synth. Validation happens
// eagerly at load time; a valid [App] never fails mid-generation.
//
// # Scoping
//
// Switches, options, and arguments carry a list of subcommand keys they
// apply to. An empty list (or an explicit "" entry) scopes the item to the
// top-level command. Keys referencing undeclared subcommands are a
// validation error.
package manifest
