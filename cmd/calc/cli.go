package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zephyrtronium/calc"
)

var rootCmd = &cobra.Command{
	Use:   "calc [flags] [program ...]",
	Short: "Evaluate calculator programs",
	Long: `calc evaluates programs of assignments followed by an expression.

  r = 2
  area = pi * r^2
  area > 12

Each argument is one program. Without arguments, calc reads -in or standard
input, or prompts interactively when standard input is a terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCalc,
}

// exitCode is the status for a run that completed but had failing programs.
var exitCode int

// Execute runs the root command and returns the process exit status: 0 for
// success, 1 if any program failed, and 2 for usage or setup errors.
func Execute() int {
	exitCode = 0
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "calc:", err)
		return 2
	}
	return exitCode
}

func init() {
	cobra.OnInitialize(loadConfig)
	defineFlags(rootCmd.Flags())
}

func defineFlags(flags *pflag.FlagSet) {
	flags.String("in", "", "input file, or - for stdin")
	flags.String("fmt", "%v", "result formatting verb")
	flags.BoolP("lines", "n", false, "treat each input line as a separate program")
	flags.IntP("jobs", "j", 0, "programs to evaluate concurrently (0 for no limit)")
	flags.Bool("echo", false, "print parse trees before results")
	flags.Uint("maxbits", calc.DefaultMaxIntBits, "limit on bits in exact integer powers (0 for no limit)")
	flags.StringArray("given", nil, "name=value constant definition (any number of times)")
	flags.String("logfile", "stderr", "URL of log output location")
}

// options are the settings for one run.
type options struct {
	in      string
	format  string
	lines   bool
	jobs    int
	echo    bool
	maxbits uint
	given   []string
}

func optionsFrom(konf *koanfadapter.KConf) options {
	o := options{
		in:     konf.GetString("in"),
		format: konf.GetString("fmt"),
		lines:  konf.GetBool("lines"),
		jobs:   konf.GetInt("jobs"),
		echo:   konf.GetBool("echo"),
		given:  konf.Koanf().Strings("given"),
	}
	if b := konf.GetInt("maxbits"); b > 0 {
		o.maxbits = uint(b)
	}
	if o.format == "" {
		o.format = "%v"
	}
	return o
}

func runCalc(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}
	o := optionsFrom(configuration)
	e, err := o.evaluator()
	if err != nil {
		return err
	}
	if o.in == "" && len(args) == 0 && isatty.IsTerminal(os.Stdin.Fd()) {
		tracing.Infof("starting interactive prompt")
		return runREPL(e, o)
	}
	ins, err := readInputs(o, args, os.Stdin)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res := e.EvalAll(ctx, sources(ins), o.jobs)
	p := printer{out: os.Stdout, err: os.Stderr, format: o.format, echo: o.echo}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		p.errcolor = text.Colors{text.FgRed}
	}
	if p.report(ins, res) > 0 {
		exitCode = 1
	}
	return nil
}

// evaluator creates the evaluator for a run, with each given definition added
// as a constant. Definitions may refer to earlier ones.
func (o options) evaluator() (*calc.Evaluator, error) {
	b := calc.DefaultBuiltins()
	bits := calc.MaxIntBits(o.maxbits)
	for _, g := range o.given {
		name, src, ok := strings.Cut(g, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf(`definitions must be "name=value", not %q`, g)
		}
		v, err := calc.EvalString(src, calc.WithBuiltins(b), bits)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", name, err)
		}
		tracing.Debugf("given %s = %v", name, v)
		b = b.With(map[string]calc.Value{name: v}, nil)
	}
	return calc.NewEvaluator(calc.WithBuiltins(b), bits), nil
}

// input is a named program source.
type input struct {
	name string
	src  string
}

func sources(ins []input) []string {
	r := make([]string, len(ins))
	for i, in := range ins {
		r[i] = in.src
	}
	return r
}

// readInputs collects the programs for a run. Arguments are each one program.
// The -in file, or stdin when there are no arguments, is one program or, with
// -n, one program per non-blank line.
func readInputs(o options, args []string, stdin io.Reader) ([]input, error) {
	var ins []input
	name := o.in
	if name == "" && len(args) == 0 {
		name = "-"
	}
	if name != "" {
		var r io.Reader
		switch name {
		case "-":
			r, name = stdin, "stdin"
		default:
			f, err := os.Open(name)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		if o.lines {
			s := bufio.NewScanner(r)
			for n := 1; s.Scan(); n++ {
				if strings.TrimSpace(s.Text()) == "" {
					continue
				}
				ins = append(ins, input{name: name + ":" + strconv.Itoa(n), src: s.Text()})
			}
			if err := s.Err(); err != nil {
				return nil, err
			}
		} else {
			b, err := io.ReadAll(r)
			if err != nil {
				return nil, err
			}
			ins = append(ins, input{name: name, src: string(b)})
		}
	}
	for i, arg := range args {
		ins = append(ins, input{name: "arg " + strconv.Itoa(i+1), src: arg})
	}
	return ins, nil
}

// printer writes results and errors.
type printer struct {
	out, err io.Writer
	format   string
	echo     bool
	errcolor text.Colors
}

// report prints each result in order and returns the number that failed.
// Programs with nothing to evaluate print nothing and do not fail.
func (p *printer) report(ins []input, res []calc.Result) int {
	failed := 0
	for i, r := range res {
		if !p.result(ins[i].name, r) {
			failed++
		}
	}
	return failed
}

// result prints one result, returning false if it is an error.
func (p *printer) result(name string, r calc.Result) bool {
	if errors.Is(r.Err, calc.ErrEmpty) {
		return true
	}
	if p.echo && r.Program != nil {
		fmt.Fprintf(p.out, "%v : ", r.Program)
	}
	if r.Err != nil {
		if p.echo && r.Program != nil {
			fmt.Fprintln(p.out)
		}
		msg := r.Err.Error()
		if name != "" {
			msg = name + ": " + msg
		}
		fmt.Fprintln(p.err, p.errcolor.Sprint(msg))
		return false
	}
	fmt.Fprintf(p.out, p.format+"\n", r.Value)
	return true
}
