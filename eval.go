package calc

import (
	"io"
	"math/big"
	"strconv"
	"strings"
)

// Env holds the variables bound while evaluating a program. Names are stored
// exactly as written in assignments, including any glued sign.
type Env map[string]Value

// Evaluator evaluates programs against a table of builtins. An Evaluator is
// immutable and safe for concurrent use, provided concurrent evaluations do
// not share an Env.
type Evaluator struct {
	builtins *Builtins
	maxbits  uint
}

// DefaultMaxIntBits is the default limit on the size of exact integer powers.
const DefaultMaxIntBits = 1 << 20

// Option is an option used when creating an evaluator.
type Option interface {
	evalOption()
}

type (
	builtinsopt struct {
		b *Builtins
	}
	maxbitsopt uint
)

func (builtinsopt) evalOption() {}
func (maxbitsopt) evalOption()  {}

// WithBuiltins sets the table of constants and functions. The default is
// DefaultBuiltins().
func WithBuiltins(b *Builtins) Option {
	return builtinsopt{b}
}

// MaxIntBits limits the approximate size in bits of integers produced by
// raising an integer to an integer power. Larger results are reported as
// *OverflowError. Zero means no limit. The default is DefaultMaxIntBits.
func MaxIntBits(n uint) Option {
	return maxbitsopt(n)
}

// NewEvaluator creates an evaluator with the given options applied in order.
func NewEvaluator(opts ...Option) *Evaluator {
	e := Evaluator{builtins: DefaultBuiltins(), maxbits: DefaultMaxIntBits}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case builtinsopt:
			e.builtins = opt.b
		case maxbitsopt:
			e.maxbits = uint(opt)
		default:
			panic("calc: unknown option type")
		}
	}
	return &e
}

// Builtins returns the evaluator's table of constants and functions.
func (e *Evaluator) Builtins() *Builtins {
	return e.builtins
}

// Eval evaluates a program in a fresh environment and returns the value of its
// last statement. The first error aborts evaluation.
func (e *Evaluator) Eval(p *Program) (Value, error) {
	return e.EvalEnv(p, make(Env))
}

// EvalEnv evaluates a program in env, which receives the program's
// assignments, and returns the value of its last statement. Assignments made
// before an error remain in env. If env is nil, EvalEnv behaves like Eval.
func (e *Evaluator) EvalEnv(p *Program, env Env) (Value, error) {
	if env == nil {
		env = make(Env)
	}
	r, err := p.n.eval(e, env)
	if err != nil {
		evaltracer().Debugf("%v: %v", p, err)
		return Value{}, err
	}
	evaltracer().Debugf("%v = %v", p, r)
	return r, nil
}

// unsign splits a leading + or - from a name.
func unsign(name string) (sign byte, base string) {
	if name != "" && (name[0] == '+' || name[0] == '-') {
		return name[0], name[1:]
	}
	return 0, name
}

// lookup resolves a variable. A builtin constant under the name with its sign
// removed takes precedence over the environment, which is searched with the
// name as written.
func (e *Evaluator) lookup(env Env, name string) (Value, error) {
	sign, base := unsign(name)
	if v, ok := e.builtins.Const(base); ok {
		if sign == '-' {
			v = neg(v)
		}
		return v, nil
	}
	if v, ok := env[name]; ok {
		return v, nil
	}
	return Value{}, &NameError{Name: name}
}

// num converts a number literal. Literals without a decimal point or exponent
// are exact integers.
func num(s string) Value {
	if !strings.ContainsAny(s, ".eE") {
		i, ok := new(big.Int).SetString(s, 10)
		if !ok {
			panic("calc: invalid integer literal " + s)
		}
		return bigint(i)
	}
	// ParseFloat returns ±Inf with a range error for literals too large,
	// which is the value we want.
	f, _ := strconv.ParseFloat(s, 64)
	return Float(f)
}

// eval computes the node's value.
func (n *node) eval(e *Evaluator, env Env) (Value, error) {
	switch n.kind {
	case nodeNum:
		return num(n.name), nil
	case nodeName:
		return e.lookup(env, n.name)
	case nodeCall:
		sign, base := unsign(n.name)
		f, ok := e.builtins.Func(base)
		if !ok {
			return Value{}, &NameError{Name: n.name, Func: true}
		}
		args := make([]Value, len(n.args))
		for i, a := range n.args {
			v, err := a.eval(e, env)
			if err != nil {
				return Value{}, err
			}
			args[i] = v
		}
		if !f.CanCall(len(args)) {
			return Value{}, &ArityError{Func: base, Len: len(args)}
		}
		r, err := f.Call(args)
		if err != nil {
			return Value{}, err
		}
		if sign == '-' {
			r = neg(r)
		}
		return r, nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow, nodeLt, nodeLe, nodeGt, nodeGe, nodeEq, nodeNe:
		l, err := n.left.eval(e, env)
		if err != nil {
			return Value{}, err
		}
		r, err := n.right.eval(e, env)
		if err != nil {
			return Value{}, err
		}
		switch n.kind {
		case nodeAdd:
			return add(l, r)
		case nodeSub:
			return sub(l, r)
		case nodeMul:
			return mul(l, r)
		case nodeDiv:
			return div(l, r)
		case nodePow:
			return pow(l, r, e.maxbits)
		default:
			return compare(n.kind, l, r), nil
		}
	case nodeAssign:
		v, err := n.left.eval(e, env)
		if err != nil {
			return Value{}, err
		}
		env[n.name] = v
		evaltracer().Debugf("%s = %v", n.name, v)
		return v, nil
	case nodeSeq:
		if len(n.args) == 0 {
			return Value{}, ErrEmpty
		}
		var r Value
		for _, s := range n.args {
			v, err := s.eval(e, env)
			if err != nil {
				return Value{}, err
			}
			r = v
		}
		return r, nil
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
}

var defaultEvaluator = NewEvaluator()

// Eval is a shortcut to parse a program and return its result using a new
// evaluator created with opts, or the default builtins if there are none.
func Eval(src io.Reader, opts ...Option) (Value, error) {
	p, err := Parse(src)
	if err != nil {
		return Value{}, err
	}
	e := defaultEvaluator
	if len(opts) > 0 {
		e = NewEvaluator(opts...)
	}
	return e.Eval(p)
}

// EvalString is a shortcut to parse and evaluate a string program.
func EvalString(src string, opts ...Option) (Value, error) {
	return Eval(strings.NewReader(src), opts...)
}
