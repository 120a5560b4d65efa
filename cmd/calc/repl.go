package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/npillmayer/schuko/tracing"

	"github.com/zephyrtronium/calc"
)

var stdprompt = text.FgGreen.Sprint("calc> ")

// repl evaluates one program per line read from a terminal.
type repl struct {
	rl *readline.Instance
	e  *calc.Evaluator
	p  printer
}

func runREPL(e *calc.Evaluator, o options) error {
	histfile := fmt.Sprintf("%s/calc-repl-history.tmp", os.TempDir())
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              stdprompt,
		HistoryFile:         histfile,
		AutoComplete:        completer(e.Builtins()),
		InterruptPrompt:     "^C",
		EOFPrompt:           "bye",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	r := &repl{
		rl: rl,
		e:  e,
		p: printer{
			out:      rl.Stdout(),
			err:      rl.Stderr(),
			format:   o.format,
			echo:     o.echo,
			errcolor: text.Colors{text.FgRed},
		},
	}
	io.WriteString(rl.Stderr(), "calc: type help for commands\n")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		if r.execute(line) {
			break
		}
	}
	return nil
}

// completer offers the commands and every builtin name.
func completer(b *calc.Builtins) *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("help"),
		readline.PcItem("funcs"),
		readline.PcItem("bye"),
	}
	for _, name := range b.Names() {
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}

// execute runs a command or evaluates a program. It returns true if the
// prompt should exit.
func (r *repl) execute(line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		// do nothing
	case "help":
		help(r.p.err)
	case "funcs":
		listBuiltins(r.p.out, r.e.Builtins())
	case "bye":
		return true
	default:
		tracing.Debugf("evaluating %q", line)
		r.p.result("", r.e.EvalSource(line))
	}
	return false
}

func help(w io.Writer) {
	io.WriteString(w, `Enter a program on one line, e.g. r = 2  pi * r^2
Variables last only for the line that assigns them.

  help  : print this message
  funcs : list builtin constants and functions
  bye   : quit
`)
}

// listBuiltins writes the builtin names, separating constants from functions.
func listBuiltins(w io.Writer, b *calc.Builtins) {
	var consts, funcs []string
	for _, name := range b.Names() {
		if _, ok := b.Const(name); ok {
			consts = append(consts, name)
		} else {
			funcs = append(funcs, name)
		}
	}
	fmt.Fprintf(w, "constants: %s\n", strings.Join(consts, " "))
	fmt.Fprintf(w, "functions: %s\n", strings.Join(funcs, " "))
}

// filterInput blocks ctrl-z.
func filterInput(r rune) (rune, bool) {
	if r == readline.CharCtrlZ {
		return r, false
	}
	return r, true
}
