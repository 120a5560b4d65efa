// Command calc evaluates calculator programs.
//
// Each argument is a separate program. With -in, a file (or - for stdin) is
// read as one program, or as one program per line with -n. With neither,
// calc reads standard input, or starts an interactive prompt if standard
// input is a terminal.
//
// Results print with the -fmt verb, "%v" by default. Errors print to
// standard error, and calc exits with status 1 if any program failed.
//
// Settings other than flags come from a NestedText file located by the
// application key CALC. Trace levels are set per selector, e.g.
//
//	trace:
//	  calc.parse: Debug
//	  calc.eval: Info
package main

import "os"

func main() {
	os.Exit(Execute())
}
