// Package synth groups the artifact synthesizers: bash completion scripts
// (synth/bash), roff manual pages (synth/man), and dependency credit
// tables (synth/credits).
//
// All three are pure transformations over validated, read-only models.
// They share no state and may run in any order; none performs I/O.
package synth
