package calc_test

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/zephyrtronium/calc"
)

func TestEval(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "calc.eval")
	defer teardown()
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"num", "1", "1"},
		{"float", "1.5", "1.5"},
		{"prec", "2+3*4", "14"},
		{"pow-right", "2^3^2", "512"},
		{"sub-left", "10-4-3", "3"},
		{"assign-use", "x = 5\nx + 1", "6"},
		{"assign-last", "a=1\nb=2", "2"},
		{"assign-chain", "a = 2\nb = a * 3\nc = b ^ a", "36"},
		{"neg-const", "-pi", "-3.141592653589793"},
		{"plus-const", "+e", "2.718281828459045"},
		{"neg-inf", "-inf", "-inf"},
		{"neg-num", "-3 - -3", "0"},
		{"neg-zero", "-0.0", "-0.0"},
		{"mul-neg", "2*-pi", "-6.283185307179586"},
		{"signed-var", "-x = 5\n-x", "5"},
		{"newline-ends", "x = 2\n-3", "-3"},
		{"newline-signed-const", "a = 1\n-pi", "-3.141592653589793"},
		{"newline-paren", "b = 2\n(-3) * b", "-6"},
		{"newline-continues", "x = 2 -\n3\nx", "-1"},
		{"newline-in-paren", "(2\n-3)", "-1"},
		{"max", "max(1,2,3)", "3"},
		{"max-first", "max(1, 2.0, 2)", "2.0"},
		{"min", "min(3, -1, 2)", "-1"},
		{"neg-call", "-max(1, 2)", "-2"},
		{"div", "7/2", "3.5"},
		{"div-exact", "4/2", "2.0"},
		{"div-big", "10^30/10^29", "10.0"},
		{"pow-neg", "2^-1", "0.5"},
		{"pow-float", "4^0.5", "2.0"},
		{"pow-big", "2^100", "1267650600228229401496703205376"},
		{"pow-zero", "0^0", "1"},
		{"pow-neg-one", "(0-1)^1001", "-1"},
		{"mixed", "2 * 3.0", "6.0"},
		{"float-sum", "0.1+0.2", "0.30000000000000004"},
		{"float-large", "1e15", "1000000000000000.0"},
		{"float-sci", "1e16", "1e+16"},
		{"float-small", "0.0001", "0.0001"},
		{"float-tiny", "0.00001", "1e-05"},
		{"lt", "1 < 2", "true"},
		{"ge", "2 >= 3", "false"},
		{"eq-kinds", "1 == 1.0", "true"},
		{"eq-big", "2^53 + 1 == 2.0^53", "false"},
		{"nan-eq", "nan == nan", "false"},
		{"nan-ne", "nan != nan", "true"},
		{"inf-cmp", "10^400 < inf", "true"},
		{"bool-arith", "t = 1 < 2\nt + 1", "2"},
		{"bool-neg", "t = 1 < 2\n0 - t", "-1"},
		{"floor", "floor(2.5)", "2"},
		{"floor-neg", "floor(-2.5)", "-3"},
		{"ceil", "ceil(2.1)", "3"},
		{"trunc", "trunc(-2.5)", "-2"},
		{"floor-int", "floor(7)", "7"},
		{"floor-huge", "floor(1e20)", "100000000000000000000"},
		{"gcd", "gcd(12, 18)", "6"},
		{"gcd-none", "gcd(0)", "0"},
		{"lcm", "lcm(4, 6)", "12"},
		{"factorial", "factorial(20)", "2432902008176640000"},
		{"factorial-zero", "factorial(0)", "1"},
		{"comb", "comb(5, 2)", "10"},
		{"comb-over", "comb(2, 5)", "0"},
		{"perm", "perm(5, 2)", "20"},
		{"perm-one", "perm(4)", "24"},
		{"isqrt", "isqrt(17)", "4"},
		{"isqrt-big", "isqrt(10^40)", "100000000000000000000"},
		{"hypot", "hypot(3,4)", "5.0"},
		{"abs", "abs(-3)", "3"},
		{"abs-float", "abs(-2.5)", "2.5"},
		{"sqrt", "sqrt(16)", "4.0"},
		{"exp0", "exp(0)", "1.0"},
		{"pow-func", "pow(2, 3)", "8.0"},
		{"isnan", "isnan(nan)", "true"},
		{"isinf", "isinf(1)", "false"},
		{"isclose", "isclose(1, 1.0000000001)", "true"},
		{"isclose-abs", "isclose(0, 1e-12, 0, 1e-10)", "true"},
		{"copysign", "copysign(3, -0.0)", "-3.0"},
		{"comment", "x = 2 # two\nx # still two", "2"},
		{"builtin-shadow", "pi = 3\npi", "3.141592653589793"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.EvalString(c.src)
			if err != nil {
				t.Fatalf("%q failed: %v", c.src, err)
			}
			if got := r.String(); got != c.want {
				t.Errorf("%q: want %s, got %s (%v)", c.src, c.want, got, r.Kind())
			}
		})
	}
}

func TestEvalApprox(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"sin(pi/6)", 0.5},
		{"cos(0)", 1},
		{"tan(pi/4)", 1},
		{"atan2(1, 1)", math.Pi / 4},
		{"log(e)", 1},
		{"log(8, 2)", 3},
		{"log10(1000)", 3},
		{"log2(1024)", 10},
		{"log(2^2000, 2)", 2000},
		{"log10(10^400)", 400},
		{"exp(1)", math.E},
		{"degrees(pi)", 180},
		{"radians(180)", math.Pi},
		{"gamma(5)", 24},
		{"lgamma(5)", math.Log(24)},
		{"cbrt(27)", 3},
		{"exp2(10)", 1024},
		{"fma(2, 3, 4)", 10},
		{"ldexp(1.5, 4)", 24},
		{"hypot(1, 1, 1, 1)", 2},
		{"x = 0.5\nasin(x) + acos(x)", math.Pi / 2},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			r, err := calc.EvalString(c.src)
			if err != nil {
				t.Fatalf("%q failed: %v", c.src, err)
			}
			if r.Kind() != calc.KindFloat {
				t.Errorf("%q gave %v, not a float", c.src, r.Kind())
			}
			f, err := r.Float64()
			if err != nil {
				t.Fatal(err)
			}
			if d := math.Abs(f - c.want); d > 1e-12*math.Max(1, math.Abs(c.want)) {
				t.Errorf("%q: want %g, got %g", c.src, c.want, f)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  error
	}{
		{"div-zero", "1/0", new(calc.DivisionByZeroError)},
		{"div-zero-float", "1.0/0.0", new(calc.DivisionByZeroError)},
		{"pow-zero", "0^-1", new(calc.DivisionByZeroError)},
		{"pow-zero-float", "0.0^-1.5", new(calc.DivisionByZeroError)},
		{"log-base-one", "log(2, 1)", new(calc.DivisionByZeroError)},
		{"undef", "foo", new(calc.NameError)},
		{"undef-func", "foo(1)", new(calc.NameError)},
		{"const-call", "pi(2)", new(calc.NameError)},
		{"func-var", "sin", new(calc.NameError)},
		{"var-call", "x = 1\nx(2)", new(calc.NameError)},
		{"signed-unbound", "x = 3\n-x", new(calc.NameError)},
		{"sqrt", "sqrt(-1)", new(calc.DomainError)},
		{"log", "log(0)", new(calc.DomainError)},
		{"log-neg-int", "log(0-10^400)", new(calc.DomainError)},
		{"acos", "acos(2)", new(calc.DomainError)},
		{"pow-neg-frac", "x=-8\nx^0.5", new(calc.DomainError)},
		{"pow-func-zero", "pow(0, -1)", new(calc.DomainError)},
		{"gamma-pole", "gamma(0)", new(calc.DomainError)},
		{"factorial-neg", "factorial(-1)", new(calc.DomainError)},
		{"factorial-float", "factorial(2.5)", new(calc.DomainError)},
		{"comb-neg", "comb(-1, 2)", new(calc.DomainError)},
		{"floor-nan", "floor(nan)", new(calc.DomainError)},
		{"isclose-tol", "isclose(1, 2, -1)", new(calc.DomainError)},
		{"arity", "sin(1,2)", new(calc.ArityError)},
		{"arity-log", "log(1,2,3)", new(calc.ArityError)},
		{"arity-comb", "comb(1)", new(calc.ArityError)},
		{"overflow-pow", "10.0^400", new(calc.OverflowError)},
		{"overflow-exp", "exp(1000)", new(calc.OverflowError)},
		{"overflow-intpow", "2^10000000", new(calc.OverflowError)},
		{"overflow-convert", "10^400+1.0", new(calc.OverflowError)},
		{"overflow-div", "10^400/3", new(calc.OverflowError)},
		{"overflow-floor", "floor(inf)", new(calc.OverflowError)},
		{"overflow-factorial", "factorial(10^6)", new(calc.OverflowError)},
		{"overflow-sqrt", "sqrt(10^400)", new(calc.OverflowError)},
		{"error-stops", "x = 1/0\nx", new(calc.DivisionByZeroError)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.EvalString(c.src)
			if err == nil {
				t.Fatalf("%q gave no error, result %v", c.src, r)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Errorf("%q gave wrong error: want %T, got %#v", c.src, c.err, err)
			}
			if r.Kind() != calc.KindInvalid {
				t.Errorf("%q gave result %v with error", c.src, r)
			}
		})
	}
}

func TestEvalUndefNames(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    string
		fn   bool
	}{
		{"x", "x", "x", false},
		{"plus", "+x", "+x", false},
		{"neg", "-x", "-x", false},
		{"add-lhs", "x+1", "x", false},
		{"add-rhs", "1+x", "x", false},
		{"pow-rhs", "1^x", "x", false},
		{"call-arg", "exp(x)", "x", false},
		{"cmp", "1 < x", "x", false},
		{"assign", "y = x", "x", false},
		{"func", "f(1)", "f", true},
		{"neg-func", "-f(1)", "-f", true},
	}
	ure := regexp.MustCompile(`(?i)\bundef`)
	vre := regexp.MustCompile(`(?i)\bvar`)
	fre := regexp.MustCompile(`(?i)\bfunc`)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := calc.EvalString(c.src)
			var u *calc.NameError
			if !errors.As(err, &u) {
				t.Fatalf("error was %#v, not NameError", err)
			}
			if u.Name != c.r || u.Func != c.fn {
				t.Errorf("%q gave NameError on %q (func %t), want %q (func %t)", c.src, u.Name, u.Func, c.r, c.fn)
			}
			msg := err.Error()
			if !ure.MatchString(msg) {
				t.Errorf(`%q doesn't mention "undef"`, msg)
			}
			kre := vre
			if c.fn {
				kre = fre
			}
			if !kre.MatchString(msg) {
				t.Errorf(`%q doesn't mention %q`, msg, kre)
			}
			if !strings.Contains(msg, `"`+c.r+`"`) {
				t.Errorf(`%q doesn't mention %q`, msg, c.r)
			}
		})
	}
}

func TestEvalEmpty(t *testing.T) {
	for _, src := range []string{"", "   \n", "# just a comment\n"} {
		_, err := calc.EvalString(src)
		if !errors.Is(err, calc.ErrEmpty) {
			t.Errorf("%q: want ErrEmpty, got %v", src, err)
		}
	}
}

func TestEvalSyntaxError(t *testing.T) {
	_, err := calc.EvalString("1 +* 2")
	var serr calc.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("want a SyntaxError, got %#v", err)
	}
}

func TestEvalEnv(t *testing.T) {
	e := calc.NewEvaluator()
	t.Run("preset", func(t *testing.T) {
		p, err := calc.ParseString("y = x * 2\ny + 1")
		if err != nil {
			t.Fatal(err)
		}
		env := calc.Env{"x": calc.Int(4)}
		r, err := e.EvalEnv(p, env)
		if err != nil {
			t.Fatal(err)
		}
		if !r.Equal(calc.Int(9)) {
			t.Errorf("want 9, got %v", r)
		}
		want := calc.Env{"x": calc.Int(4), "y": calc.Int(8)}
		if diff := cmp.Diff(want, env); diff != "" {
			t.Errorf("wrong environment (-want +got):\n%s", diff)
		}
	})
	t.Run("partial", func(t *testing.T) {
		p, err := calc.ParseString("a = 1\nb = 1/0\nc = 3")
		if err != nil {
			t.Fatal(err)
		}
		env := calc.Env{}
		if _, err := e.EvalEnv(p, env); err == nil {
			t.Fatal("no error")
		}
		want := calc.Env{"a": calc.Int(1)}
		if diff := cmp.Diff(want, env); diff != "" {
			t.Errorf("wrong environment (-want +got):\n%s", diff)
		}
	})
	t.Run("fresh", func(t *testing.T) {
		p, err := calc.ParseString("z = 1\nz")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := e.EvalEnv(p, nil); err != nil {
			t.Fatal(err)
		}
		q, err := calc.ParseString("z")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := e.Eval(q); !errors.As(err, new(*calc.NameError)) {
			t.Errorf("assignment leaked between evaluations: %v", err)
		}
	})
}

func TestMaxIntBits(t *testing.T) {
	cases := []struct {
		name string
		bits uint
		src  string
		ok   bool
	}{
		{"fits", 8, "2^8", true},
		{"over", 8, "2^9", false},
		{"small-base", 8, "(0-1)^1000001", true},
		{"default", calc.DefaultMaxIntBits, "2^2000000", false},
		{"unlimited", 0, "2^2000000", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := calc.EvalString(c.src, calc.MaxIntBits(c.bits))
			if c.ok && err != nil {
				t.Errorf("%q with %d bits: %v", c.src, c.bits, err)
			}
			if !c.ok && !errors.As(err, new(*calc.OverflowError)) {
				t.Errorf("%q with %d bits: want OverflowError, got %v", c.src, c.bits, err)
			}
		})
	}
}

func TestWithBuiltins(t *testing.T) {
	double := calc.Monadic(func(x calc.Value) (calc.Value, error) {
		return calc.EvalString("x + x", calc.WithBuiltins(calc.NewBuiltins(map[string]calc.Value{"x": x}, nil)))
	})
	b := calc.NewBuiltins(map[string]calc.Value{"answer": calc.Int(42)}, map[string]calc.Func{"double": double})
	e := calc.NewEvaluator(calc.WithBuiltins(b))
	if e.Builtins() != b {
		t.Errorf("evaluator has builtins %p, want %p", e.Builtins(), b)
	}
	p, err := calc.ParseString("double(answer)")
	if err != nil {
		t.Fatal(err)
	}
	r, err := e.Eval(p)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Equal(calc.Int(84)) {
		t.Errorf("want 84, got %v", r)
	}
	q, err := calc.ParseString("pi")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Eval(q); !errors.As(err, new(*calc.NameError)) {
		t.Errorf("pi should be undefined with custom builtins, got %v", err)
	}
}

func TestValueString(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	cases := []struct {
		v    calc.Value
		want string
	}{
		{calc.Value{}, "<invalid>"},
		{calc.Int(-7), "-7"},
		{calc.BigInt(huge), "123456789012345678901234567890"},
		{calc.Float(1), "1.0"},
		{calc.Float(-2.5), "-2.5"},
		{calc.Float(1e100), "1e+100"},
		{calc.Float(1.5e-7), "1.5e-07"},
		{calc.Float(123456789.125), "123456789.125"},
		{calc.Float(math.Inf(1)), "inf"},
		{calc.Float(math.NaN()), "nan"},
		{calc.Float(math.Copysign(0, -1)), "-0.0"},
		{calc.Bool(true), "true"},
		{calc.Bool(false), "false"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("want %s, got %s", c.want, got)
		}
	}
}

func TestValueFormat(t *testing.T) {
	cases := []struct {
		format string
		v      calc.Value
		want   string
	}{
		{"%v", calc.Float(1), "1.0"},
		{"%s", calc.Int(3), "3"},
		{"%5v", calc.Int(3), "    3"},
		{"%d", calc.Int(255), "255"},
		{"%x", calc.Int(255), "ff"},
		{"%.1f", calc.Int(3), "3.0"},
		{"%.2f", calc.Float(math.Pi), "3.14"},
		{"%g", calc.Float(0.5), "0.5"},
		{"%t", calc.Bool(true), "true"},
		{"%d", calc.Bool(true), "1"},
		{"%v", calc.Bool(false), "false"},
	}
	for _, c := range cases {
		if got := fmt.Sprintf(c.format, c.v); got != c.want {
			t.Errorf("%s of %v: want %q, got %q", c.format, c.v, c.want, got)
		}
	}
}

func TestValueConversions(t *testing.T) {
	x := new(big.Int).Lsh(big.NewInt(1), 1100)
	if _, err := calc.BigInt(x).Float64(); !errors.As(err, new(*calc.OverflowError)) {
		t.Errorf("2^1100 converted to float without overflow: %v", err)
	}
	v := calc.BigInt(x)
	x.SetInt64(0)
	if i, ok := v.BigInt(); !ok || i.BitLen() != 1101 {
		t.Errorf("BigInt value changed with its argument: %v", v)
	}
	if i, ok := calc.Bool(true).BigInt(); !ok || i.Int64() != 1 {
		t.Errorf("true as int: %v, %t", i, ok)
	}
	if _, ok := calc.Float(1).BigInt(); ok {
		t.Error("float converted to int")
	}
	for _, c := range []struct {
		v    calc.Value
		want bool
	}{
		{calc.Int(0), false},
		{calc.Int(2), true},
		{calc.Float(0), false},
		{calc.Float(math.NaN()), true},
		{calc.Bool(true), true},
		{calc.Value{}, false},
	} {
		if got := c.v.Truth(); got != c.want {
			t.Errorf("truth of %v: want %t, got %t", c.v, c.want, got)
		}
	}
}

func TestValueEqual(t *testing.T) {
	cases := []struct {
		a, b calc.Value
		want bool
	}{
		{calc.Int(1), calc.Int(1), true},
		{calc.Int(1), calc.Float(1), false},
		{calc.Int(1), calc.Bool(true), false},
		{calc.Float(math.NaN()), calc.Float(math.NaN()), true},
		{calc.Float(0), calc.Float(math.Copysign(0, -1)), true},
		{calc.Value{}, calc.Value{}, true},
	}
	for _, c := range cases {
		if got := c.a.Equal(c.b); got != c.want {
			t.Errorf("%v equal %v: want %t, got %t", c.a, c.b, c.want, got)
		}
	}
}

func BenchmarkEval(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"nums", "2+3+4"},
		{"floats", "2.5*3.5/4.5"},
		{"vars", "x = 2\ny = 3\nz = 4\nx+y+z"},
		{"calls", "sin(pi/4)^2 + cos(pi/4)^2"},
		{"bigpow", "3^1000"},
	}
	e := calc.NewEvaluator()
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			p, err := calc.ParseString(c.src)
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				e.Eval(p)
			}
		})
	}
}

func Example() {
	p, err := calc.ParseString("r = 2\narea = pi * r^2\narea > 12")
	if err != nil {
		panic(err)
	}
	env := calc.Env{}
	r, err := calc.NewEvaluator().EvalEnv(p, env)
	if err != nil {
		panic(err)
	}
	fmt.Println(p.Vars())
	fmt.Println(env["area"])
	fmt.Println(r)

	// Output:
	// [area pi r]
	// 12.566370614359172
	// true
}
