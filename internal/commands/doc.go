// Package commands is the table of named host operations that interpreter
// runtimes expose to scripts.
//
// A call carries positional arguments and keywords. Keyword names are
// matched without regard to case. Every call returns a well-formed Result:
// failures become the "failure" status token (or the handler's own
// fallback value) with the error text alongside, and panics inside a
// handler are recovered the same way.
//
// Output keywords such as BANDS_OUT or WIN_POS_X are not read. The handler
// sets them and the runtime writes them back into the caller's keyword
// object.
package commands
