package calc

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one input evaluated by EvalAll.
type Result struct {
	// Src is the input text.
	Src string
	// Program is the parsed input, or nil if it did not parse.
	Program *Program
	// Value is the result of evaluating the input if Err is nil.
	Value Value
	// Err is the parse or evaluation error for the input, or the context's
	// error if the input was never started.
	Err error
}

// EvalSource parses and evaluates one input with a fresh environment.
func (e *Evaluator) EvalSource(src string) Result {
	r := Result{Src: src}
	r.Program, r.Err = ParseString(src)
	if r.Err == nil {
		r.Value, r.Err = e.Eval(r.Program)
	}
	return r
}

// EvalAll parses and evaluates independent inputs using at most workers
// goroutines, or one per input if workers is not positive. Each input gets a
// fresh environment. Results are in the same order as srcs. An error in one
// input does not affect the others; once ctx is done, inputs not yet started
// report ctx.Err().
func (e *Evaluator) EvalAll(ctx context.Context, srcs []string, workers int) []Result {
	res := make([]Result, len(srcs))
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, src := range srcs {
		i, src := i, src
		res[i].Src = src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				res[i].Err = err
				return nil
			}
			res[i] = e.EvalSource(src)
			return nil
		})
	}
	// Every goroutine returns nil; errors are per input.
	g.Wait()
	evaltracer().Debugf("evaluated %d inputs", len(srcs))
	return res
}
