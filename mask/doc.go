// Package mask parses option mask documents into bitmasks.
//
// An option mask document is a short, human-typed list of named options,
// usually passed as the value of a command-line flag:
//
//	members,trace(solve(int,double),assemble):0x40
//
// Entries are separated by ',' or ':'. Each entry is a name optionally
// followed by a parenthesized argument. Parentheses inside an argument nest,
// so an argument may itself hold a comma-separated list whose items carry
// their own parenthesized parameters.
//
// Each name is looked up in a [Registry] of known options; a name that is not
// registered is accepted if it is an integer literal in C notation (0x hex,
// leading-zero octal, or decimal), whose value is OR'ed into the mask
// directly. Anything else marks the parse as failed, but the remaining
// entries are still applied.
//
// Options that take arguments are implemented by [Handler] functions
// installed on a [Parser] with [WithHandler]. See package writer for the
// diagnostic writer vocabulary built on top of this package.
package mask
