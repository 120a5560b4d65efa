package calc

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// maxFactorial is the largest product length that factorial, comb, and perm
// will compute.
const maxFactorial = 100000

func mathconsts() map[string]Value {
	return map[string]Value{
		"pi":  Float(math.Pi),
		"e":   Float(math.E),
		"tau": Float(2 * math.Pi),
		"inf": Float(math.Inf(1)),
		"nan": Float(math.NaN()),
	}
}

func mathfuncs() map[string]Func {
	return map[string]Func{
		"acos":   Real("acos", math.Acos, false),
		"acosh":  Real("acosh", math.Acosh, false),
		"asin":   Real("asin", math.Asin, false),
		"asinh":  Real("asinh", math.Asinh, false),
		"atan":   Real("atan", math.Atan, false),
		"atanh":  Real("atanh", math.Atanh, false),
		"cbrt":   Real("cbrt", math.Cbrt, false),
		"cos":    Real("cos", math.Cos, false),
		"cosh":   Real("cosh", math.Cosh, true),
		"erf":    Real("erf", math.Erf, false),
		"erfc":   Real("erfc", math.Erfc, false),
		"exp":    Real("exp", math.Exp, true),
		"exp2":   Real("exp2", math.Exp2, true),
		"expm1":  Real("expm1", math.Expm1, true),
		"fabs":   Real("fabs", math.Abs, false),
		"gamma":  Real("gamma", gamma, true),
		"lgamma": Real("lgamma", lgamma, true),
		"log1p":  Real("log1p", math.Log1p, false),
		"sin":    Real("sin", math.Sin, false),
		"sinh":   Real("sinh", math.Sinh, true),
		"sqrt":   Real("sqrt", math.Sqrt, false),
		"tan":    Real("tan", math.Tan, false),
		"tanh":   Real("tanh", math.Tanh, false),
		"ulp":    Real("ulp", ulp, false),

		"degrees": Real("degrees", func(x float64) float64 { return x * (180 / math.Pi) }, true),
		"radians": Real("radians", func(x float64) float64 { return x * (math.Pi / 180) }, true),

		"atan2":     Real2("atan2", math.Atan2),
		"copysign":  Real2("copysign", math.Copysign),
		"fmod":      Real2("fmod", math.Mod),
		"nextafter": Real2("nextafter", math.Nextafter),
		"remainder": Real2("remainder", math.Remainder),
		"fma":       Ranged(3, 3, fma),

		"ceil":  rounder("ceil", math.Ceil),
		"floor": rounder("floor", math.Floor),
		"trunc": rounder("trunc", math.Trunc),

		"log":   Ranged(1, 2, logb),
		"log2":  Monadic(logfn("log2", math.Log2, math.Ln2)),
		"log10": Monadic(logfn("log10", math.Log10, math.Ln10)),

		"pow":   Dyadic(mathpow),
		"ldexp": Dyadic(ldexp),
		"hypot": Variadic(0, hypot),

		"isclose":  Ranged(2, 4, isclose),
		"isfinite": Monadic(classify("isfinite", func(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) })),
		"isinf":    Monadic(classify("isinf", func(x float64) bool { return math.IsInf(x, 0) })),
		"isnan":    Monadic(classify("isnan", math.IsNaN)),

		"factorial": Monadic(factorial),
		"comb":      Dyadic(comb),
		"perm":      Ranged(1, 2, perm),
		"gcd":       Variadic(0, gcd),
		"lcm":       Variadic(0, lcm),
		"isqrt":     Monadic(isqrt),

		"abs": Monadic(func(x Value) (Value, error) { return abs(x), nil }),
		"max": Variadic(1, extreme(1)),
		"min": Variadic(1, extreme(-1)),
	}
}

func gamma(x float64) float64 {
	if x <= 0 && x == math.Trunc(x) {
		// Poles and -inf.
		return math.NaN()
	}
	return math.Gamma(x)
}

func lgamma(x float64) float64 {
	switch {
	case math.IsInf(x, 0):
		return math.Inf(1)
	case x <= 0 && x == math.Trunc(x):
		return math.NaN()
	}
	r, _ := math.Lgamma(x)
	return r
}

func ulp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return math.Abs(x)
	}
	x = math.Abs(x)
	y := math.Nextafter(x, math.Inf(1))
	if math.IsInf(y, 0) {
		// x is the largest finite float.
		y = math.Nextafter(x, math.Inf(-1))
		return x - y
	}
	return y - x
}

func fma(args []Value) (Value, error) {
	x, err := args[0].Float64()
	if err != nil {
		return Value{}, err
	}
	y, z, err := floats(args[1], args[2])
	if err != nil {
		return Value{}, err
	}
	r := math.FMA(x, y, z)
	finite := true
	for _, v := range [...]float64{x, y, z} {
		finite = finite && !math.IsInf(v, 0) && !math.IsNaN(v)
	}
	switch {
	case math.IsNaN(r) && !math.IsNaN(x) && !math.IsNaN(y) && !math.IsNaN(z):
		return Value{}, &DomainError{Func: "fma"}
	case math.IsInf(r, 0) && finite:
		return Value{}, &OverflowError{Op: "fma"}
	}
	return Float(r), nil
}

// rounder creates a function rounding floats to integers with f. Integers are
// returned unchanged.
func rounder(name string, f func(float64) float64) Func {
	return Monadic(func(x Value) (Value, error) {
		if x.integral() {
			a, _ := x.BigInt()
			return bigint(a), nil
		}
		switch {
		case math.IsNaN(x.f):
			return Value{}, &DomainError{X: x, Arg: 1, Func: name}
		case math.IsInf(x.f, 0):
			return Value{}, &OverflowError{Op: name, Msg: "cannot convert float infinity to integer"}
		}
		i, _ := new(big.Float).SetFloat64(f(x.f)).Int(nil)
		return bigint(i), nil
	})
}

// lnof computes a logarithm of x. Integers too large for float64 use an
// arbitrary-precision natural logarithm divided by lnbase.
func lnof(name string, arg int, x Value, f func(float64) float64, lnbase float64) (float64, error) {
	if x.integral() {
		a, _ := x.BigInt()
		if a.Sign() <= 0 {
			return 0, &DomainError{X: x, Arg: arg, Func: name}
		}
		if fx, err := x.Float64(); err == nil {
			return f(fx), nil
		}
		z := bigfloat.Log(new(big.Float).SetPrec(64), new(big.Float).SetInt(a))
		r, _ := z.Float64()
		return r / lnbase, nil
	}
	if x.f <= 0 {
		return 0, &DomainError{X: x, Arg: arg, Func: name}
	}
	return f(x.f), nil
}

func logfn(name string, f func(float64) float64, lnbase float64) func(Value) (Value, error) {
	return func(x Value) (Value, error) {
		r, err := lnof(name, 1, x, f, lnbase)
		if err != nil {
			return Value{}, err
		}
		return Float(r), nil
	}
}

// logb is log(x) or log(x, base).
func logb(args []Value) (Value, error) {
	num, err := lnof("log", 1, args[0], math.Log, 1)
	if err != nil {
		return Value{}, err
	}
	if len(args) == 1 {
		return Float(num), nil
	}
	den, err := lnof("log", 2, args[1], math.Log, 1)
	if err != nil {
		return Value{}, err
	}
	if den == 0 {
		return Value{}, &DivisionByZeroError{Op: "log"}
	}
	return Float(num / den), nil
}

// mathpow is the pow function, which always computes with floats. Unlike the
// ^ operator, zero to a negative power is a domain error.
func mathpow(x, y Value) (Value, error) {
	a, b, err := floats(x, y)
	if err != nil {
		return Value{}, err
	}
	if a == 0 && b < 0 && !math.IsInf(b, 0) {
		return Value{}, &DomainError{X: x, Arg: 1, Func: "pow"}
	}
	return floatpow("pow", a, b)
}

func ldexp(x, i Value) (Value, error) {
	f, err := x.Float64()
	if err != nil {
		return Value{}, err
	}
	n, ok := i.BigInt()
	if !ok {
		return Value{}, &DomainError{X: i, Arg: 2, Func: "ldexp"}
	}
	var e int
	switch {
	case n.IsInt64() && n.Int64() < 1<<20 && n.Int64() > -1<<20:
		e = int(n.Int64())
	case n.Sign() > 0:
		e = 1 << 20
	default:
		e = -1 << 20
	}
	r := math.Ldexp(f, e)
	if math.IsInf(r, 0) && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Value{}, &OverflowError{Op: "ldexp"}
	}
	return Float(r), nil
}

// hypot is the Euclidean norm of any number of coordinates.
func hypot(args []Value) (Value, error) {
	xs := make([]float64, len(args))
	var m float64
	nan := false
	for i, v := range args {
		x, err := v.Float64()
		if err != nil {
			return Value{}, err
		}
		x = math.Abs(x)
		switch {
		case math.IsInf(x, 0):
			return Float(math.Inf(1)), nil
		case math.IsNaN(x):
			nan = true
		case x > m:
			m = x
		}
		xs[i] = x
	}
	if nan {
		return Float(math.NaN()), nil
	}
	if m == 0 {
		return Float(0), nil
	}
	var s float64
	for _, x := range xs {
		x /= m
		s += x * x
	}
	r := m * math.Sqrt(s)
	if math.IsInf(r, 0) {
		return Value{}, &OverflowError{Op: "hypot"}
	}
	return Float(r), nil
}

func isclose(args []Value) (Value, error) {
	tol := [2]float64{1e-9, 0}
	for i, v := range args[2:] {
		t, err := v.Float64()
		if err != nil {
			return Value{}, err
		}
		if t < 0 || math.IsNaN(t) {
			return Value{}, &DomainError{X: v, Arg: i + 3, Func: "isclose"}
		}
		tol[i] = t
	}
	a, b, err := floats(args[0], args[1])
	if err != nil {
		return Value{}, err
	}
	if a == b {
		return Bool(true), nil
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return Bool(false), nil
	}
	d := math.Abs(b - a)
	return Bool(d <= math.Abs(tol[0]*b) || d <= math.Abs(tol[0]*a) || d <= tol[1]), nil
}

func classify(name string, f func(float64) bool) func(Value) (Value, error) {
	return func(x Value) (Value, error) {
		v, err := x.Float64()
		if err != nil {
			return Value{}, err
		}
		return Bool(f(v)), nil
	}
}

// intarg gets an integer argument, which must be non-negative if nonneg.
func intarg(name string, arg int, x Value, nonneg bool) (*big.Int, error) {
	a, ok := x.BigInt()
	if !ok || nonneg && a.Sign() < 0 {
		return nil, &DomainError{X: x, Arg: arg, Func: name}
	}
	return a, nil
}

func factorial(x Value) (Value, error) {
	n, err := intarg("factorial", 1, x, true)
	if err != nil {
		return Value{}, err
	}
	if !n.IsInt64() || n.Int64() > maxFactorial {
		return Value{}, &OverflowError{Op: "factorial"}
	}
	return bigint(new(big.Int).MulRange(1, n.Int64())), nil
}

func comb(x, y Value) (Value, error) {
	n, err := intarg("comb", 1, x, true)
	if err != nil {
		return Value{}, err
	}
	k, err := intarg("comb", 2, y, true)
	if err != nil {
		return Value{}, err
	}
	if k.Cmp(n) > 0 {
		return Int(0), nil
	}
	// C(n, k) = C(n, n-k); the smaller of the two bounds the work.
	if d := new(big.Int).Sub(n, k); d.Cmp(k) < 0 {
		k = d
	}
	if !n.IsInt64() || k.Int64() > maxFactorial {
		return Value{}, &OverflowError{Op: "comb"}
	}
	return bigint(new(big.Int).Binomial(n.Int64(), k.Int64())), nil
}

func perm(args []Value) (Value, error) {
	if len(args) == 1 {
		return factorial(args[0])
	}
	n, err := intarg("perm", 1, args[0], true)
	if err != nil {
		return Value{}, err
	}
	k, err := intarg("perm", 2, args[1], true)
	if err != nil {
		return Value{}, err
	}
	if k.Cmp(n) > 0 {
		return Int(0), nil
	}
	if !n.IsInt64() || k.Int64() > maxFactorial {
		return Value{}, &OverflowError{Op: "perm"}
	}
	return bigint(new(big.Int).MulRange(n.Int64()-k.Int64()+1, n.Int64())), nil
}

func gcd(args []Value) (Value, error) {
	r := new(big.Int)
	for i, v := range args {
		a, err := intarg("gcd", i+1, v, false)
		if err != nil {
			return Value{}, err
		}
		r.GCD(nil, nil, r, a)
	}
	return bigint(r), nil
}

func lcm(args []Value) (Value, error) {
	r := big.NewInt(1)
	for i, v := range args {
		a, err := intarg("lcm", i+1, v, false)
		if err != nil {
			return Value{}, err
		}
		if a.Sign() == 0 || r.Sign() == 0 {
			r.SetInt64(0)
			continue
		}
		g := new(big.Int).GCD(nil, nil, r, a)
		r.Mul(r, new(big.Int).Quo(new(big.Int).Abs(a), g))
	}
	return bigint(r), nil
}

func isqrt(x Value) (Value, error) {
	n, err := intarg("isqrt", 1, x, true)
	if err != nil {
		return Value{}, err
	}
	return bigint(new(big.Int).Sqrt(n)), nil
}

// extreme creates max for sign 1 or min for sign -1. The first argument
// that compares strictly beyond every earlier one wins.
func extreme(sign int) func(args []Value) (Value, error) {
	return func(args []Value) (Value, error) {
		r := args[0]
		for _, v := range args[1:] {
			if c, ok := order(v, r); ok && c == sign {
				r = v
			}
		}
		return r, nil
	}
}
