package calc

import (
	"math"
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
)

// Func is a builtin function. Functions receive fully evaluated arguments and
// cannot see variables.
type Func interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true. Call must not modify args or the values in it.
	Call(args []Value) (Value, error)

	// CanCall returns whether the function can be called with n arguments.
	// The evaluator reports an *ArityError for calls where it returns false.
	CanCall(n int) bool
}

type monadic struct {
	f func(x Value) (Value, error)
}

func (m monadic) Call(args []Value) (Value, error) {
	return m.f(args[0])
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one argument into a Func.
func Monadic(f func(x Value) (Value, error)) Func {
	return monadic{f}
}

type dyadic struct {
	f func(x, y Value) (Value, error)
}

func (d dyadic) Call(args []Value) (Value, error) {
	return d.f(args[0], args[1])
}

func (d dyadic) CanCall(n int) bool {
	return n == 2
}

// Dyadic wraps a function of two arguments into a Func.
func Dyadic(f func(x, y Value) (Value, error)) Func {
	return dyadic{f}
}

type variadic struct {
	min, max int
	f        func(args []Value) (Value, error)
}

func (v variadic) Call(args []Value) (Value, error) {
	return v.f(args)
}

func (v variadic) CanCall(n int) bool {
	return n >= v.min && (v.max < 0 || n <= v.max)
}

// Variadic wraps a function of at least min arguments into a Func.
func Variadic(min int, f func(args []Value) (Value, error)) Func {
	return variadic{min: min, max: -1, f: f}
}

// Ranged wraps a function of min to max arguments, inclusive, into a Func.
func Ranged(min, max int, f func(args []Value) (Value, error)) Func {
	return variadic{min: min, max: max, f: f}
}

type real1 struct {
	name     string
	f        func(float64) float64
	overflow bool
}

func (r real1) Call(args []Value) (Value, error) {
	x, err := args[0].Float64()
	if err != nil {
		return Value{}, err
	}
	y := r.f(x)
	switch {
	case math.IsNaN(y) && !math.IsNaN(x):
		return Value{}, &DomainError{X: args[0], Arg: 1, Func: r.name}
	case math.IsInf(y, 0) && !math.IsInf(x, 0) && !math.IsNaN(x):
		if r.overflow {
			return Value{}, &OverflowError{Op: r.name}
		}
		return Value{}, &DomainError{X: args[0], Arg: 1, Func: r.name}
	}
	return Float(y), nil
}

func (real1) CanCall(n int) bool {
	return n == 1
}

// Real wraps a function of one real variable into a Func. Arguments convert to
// float64. A NaN result from a non-NaN argument is a *DomainError. An infinite
// result from a finite argument is an *OverflowError if overflow is true and
// a *DomainError otherwise. name identifies the function in errors.
func Real(name string, f func(float64) float64, overflow bool) Func {
	return real1{name: name, f: f, overflow: overflow}
}

type real2 struct {
	name string
	f    func(x, y float64) float64
}

func (r real2) Call(args []Value) (Value, error) {
	x, y, err := floats(args[0], args[1])
	if err != nil {
		return Value{}, err
	}
	z := r.f(x, y)
	switch {
	case math.IsNaN(z) && !math.IsNaN(x) && !math.IsNaN(y):
		return Value{}, &DomainError{Func: r.name}
	case math.IsInf(z, 0) && !math.IsInf(x, 0) && !math.IsNaN(x) && !math.IsInf(y, 0) && !math.IsNaN(y):
		return Value{}, &OverflowError{Op: r.name}
	}
	return Float(z), nil
}

func (real2) CanCall(n int) bool {
	return n == 2
}

// Real2 wraps a function of two real variables into a Func, with the same
// error rules as Real for functions that can overflow.
func Real2(name string, f func(x, y float64) float64) Func {
	return real2{name: name, f: f}
}

// builtin is an entry in a Builtins table. Exactly one of fn and val is set.
type builtin struct {
	val Value
	fn  Func
}

// Builtins is an immutable table of named constants and functions. It is safe
// for concurrent use.
type Builtins struct {
	m *treemap.Map
}

// NewBuiltins creates a table holding the given constants and functions. If a
// name is in both maps, the function wins.
func NewBuiltins(consts map[string]Value, funcs map[string]Func) *Builtins {
	return (&Builtins{m: treemap.NewWithStringComparator()}).With(consts, funcs)
}

// With returns a copy of b with additional constants and functions. Entries
// in the arguments replace entries in b with the same name. A nil Func
// removes a name.
func (b *Builtins) With(consts map[string]Value, funcs map[string]Func) *Builtins {
	m := treemap.NewWithStringComparator()
	if b != nil && b.m != nil {
		b.m.Each(func(k, v interface{}) {
			m.Put(k, v)
		})
	}
	for k, v := range consts {
		m.Put(k, builtin{val: v})
	}
	for k, f := range funcs {
		if f == nil {
			m.Remove(k)
			continue
		}
		m.Put(k, builtin{fn: f})
	}
	return &Builtins{m: m}
}

func (b *Builtins) get(name string) (builtin, bool) {
	if b == nil || b.m == nil {
		return builtin{}, false
	}
	v, ok := b.m.Get(name)
	if !ok {
		return builtin{}, false
	}
	return v.(builtin), true
}

// Const returns the value of a builtin constant.
func (b *Builtins) Const(name string) (Value, bool) {
	e, ok := b.get(name)
	if !ok || e.fn != nil {
		return Value{}, false
	}
	return e.val, true
}

// Func returns a builtin function.
func (b *Builtins) Func(name string) (Func, bool) {
	e, ok := b.get(name)
	if !ok || e.fn == nil {
		return nil, false
	}
	return e.fn, true
}

// Names returns the names of all constants and functions in sorted order.
func (b *Builtins) Names() []string {
	if b == nil || b.m == nil {
		return nil
	}
	r := make([]string, 0, b.m.Size())
	for _, k := range b.m.Keys() {
		r = append(r, k.(string))
	}
	return r
}

// Len returns the number of builtins in the table.
func (b *Builtins) Len() int {
	if b == nil || b.m == nil {
		return 0
	}
	return b.m.Size()
}

var (
	defaultOnce     sync.Once
	defaultBuiltins *Builtins
)

// DefaultBuiltins returns the standard table of mathematical constants and
// functions. The same table is returned on every call.
func DefaultBuiltins() *Builtins {
	defaultOnce.Do(func() {
		defaultBuiltins = NewBuiltins(mathconsts(), mathfuncs())
	})
	return defaultBuiltins
}
