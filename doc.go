// Package calc implements a line calculator with variable assignments.
//
// A program is any number of assignments followed by an optional expression:
//
//	r = 2
//	area = pi * r^2
//	area > 12
//
// Expressions use + - * / with the usual precedence and associativity, ^ for
// right-associative exponentiation, and at most one comparison (< <= > >= ==
// !=), which produces a boolean. The only unary operator is a sign written
// directly against a name or number, so "-pi" and "2*-pi" work but "-(pi)"
// does not. A signed variable name is a distinct variable: after "x = 3", "-x"
// is undefined. A newline outside brackets ends a statement. Text from # to
// the end of a line is a comment.
//
// Integers are exact and unbounded, except that integer powers are limited by
// MaxIntBits. Division always produces a float. Names resolve first to the
// builtin constants, then to variables assigned earlier in the program.
// Function calls resolve only to builtins.
//
// Parsing and evaluation trace through the schuko tracing selectors
// "calc.parse" and "calc.eval". Nothing is traced unless the host installs a
// trace selector.
package calc

import "github.com/npillmayer/schuko/tracing"

// parsetracer traces with key 'calc.parse'.
func parsetracer() tracing.Trace {
	return tracing.Select("calc.parse")
}

// evaltracer traces with key 'calc.eval'.
func evaltracer() tracing.Trace {
	return tracing.Select("calc.eval")
}
