package calc

import (
	"math"
	"math/big"
	"strconv"
)

// floats converts both operands to float64.
func floats(x, y Value) (float64, float64, error) {
	a, err := x.Float64()
	if err != nil {
		return 0, 0, err
	}
	b, err := y.Float64()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// ints returns both operands as integers. Only valid if both are integral.
func ints(x, y Value) (*big.Int, *big.Int) {
	a, _ := x.BigInt()
	b, _ := y.BigInt()
	return a, b
}

func add(x, y Value) (Value, error) {
	if x.integral() && y.integral() {
		a, b := ints(x, y)
		return bigint(new(big.Int).Add(a, b)), nil
	}
	a, b, err := floats(x, y)
	if err != nil {
		return Value{}, err
	}
	return Float(a + b), nil
}

func sub(x, y Value) (Value, error) {
	if x.integral() && y.integral() {
		a, b := ints(x, y)
		return bigint(new(big.Int).Sub(a, b)), nil
	}
	a, b, err := floats(x, y)
	if err != nil {
		return Value{}, err
	}
	return Float(a - b), nil
}

func mul(x, y Value) (Value, error) {
	if x.integral() && y.integral() {
		a, b := ints(x, y)
		return bigint(new(big.Int).Mul(a, b)), nil
	}
	a, b, err := floats(x, y)
	if err != nil {
		return Value{}, err
	}
	return Float(a * b), nil
}

// div is true division. The result is always a float. Integer quotients are
// correctly rounded even when the operands are too large for float64.
func div(x, y Value) (Value, error) {
	if x.integral() && y.integral() {
		a, b := ints(x, y)
		if b.Sign() == 0 {
			return Value{}, &DivisionByZeroError{Op: "/"}
		}
		f, _ := new(big.Rat).SetFrac(a, b).Float64()
		if math.IsInf(f, 0) {
			return Value{}, &OverflowError{Op: "/", Msg: "integer division result too large for a float"}
		}
		return Float(f), nil
	}
	a, b, err := floats(x, y)
	if err != nil {
		return Value{}, err
	}
	if b == 0 {
		return Value{}, &DivisionByZeroError{Op: "/"}
	}
	return Float(a / b), nil
}

// pow is exponentiation. Integers raised to non-negative integers are exact,
// limited to results of about maxbits bits; maxbits of 0 means no limit.
// Everything else is a float.
func pow(x, y Value, maxbits uint) (Value, error) {
	if x.integral() && y.integral() {
		a, b := ints(x, y)
		if b.Sign() >= 0 {
			return intpow(a, b, maxbits)
		}
		if a.Sign() == 0 {
			return Value{}, &DivisionByZeroError{Op: "^"}
		}
	}
	a, b, err := floats(x, y)
	if err != nil {
		return Value{}, err
	}
	if a == 0 && b < 0 && !math.IsInf(b, 0) {
		return Value{}, &DivisionByZeroError{Op: "^"}
	}
	return floatpow("^", a, b)
}

func intpow(a, b *big.Int, maxbits uint) (Value, error) {
	// 0, 1, and -1 have small results for every exponent.
	if a.CmpAbs(big.NewInt(1)) <= 0 {
		switch {
		case a.Sign() == 0 && b.Sign() == 0:
			return Int(1), nil
		case a.Sign() >= 0:
			return BigInt(a), nil
		case b.Bit(0) == 0:
			return Int(1), nil
		default:
			return Int(-1), nil
		}
	}
	if maxbits > 0 {
		if !b.IsUint64() || float64(b.Uint64())*log2abs(a) > float64(maxbits) {
			return Value{}, &OverflowError{Op: "^", Msg: "integer result exceeds " + strconv.FormatUint(uint64(maxbits), 10) + " bits"}
		}
	}
	return bigint(new(big.Int).Exp(a, b, nil)), nil
}

// log2abs approximates the base 2 logarithm of the magnitude of a nonzero a.
func log2abs(a *big.Int) float64 {
	n := a.BitLen()
	shift := 0
	if n > 64 {
		shift = n - 64
	}
	top := new(big.Int).Rsh(new(big.Int).Abs(a), uint(shift))
	return math.Log2(float64(top.Uint64())) + float64(shift)
}

// floatpow raises a to b, reporting negative bases with fractional exponents
// as domain errors and finite operands with infinite results as overflow.
func floatpow(op string, a, b float64) (Value, error) {
	finite := !math.IsInf(a, 0) && !math.IsNaN(a) && !math.IsInf(b, 0) && !math.IsNaN(b)
	if finite && a < 0 && b != math.Trunc(b) {
		return Value{}, &DomainError{X: Float(a), Arg: 1, Func: op}
	}
	r := math.Pow(a, b)
	if finite && math.IsInf(r, 0) {
		return Value{}, &OverflowError{Op: op}
	}
	return Float(r), nil
}

// neg negates v. Booleans become integers.
func neg(v Value) Value {
	switch v.kind {
	case KindFloat:
		return Float(-v.f)
	default:
		a, _ := v.BigInt()
		return bigint(new(big.Int).Neg(a))
	}
}

// abs is the magnitude of v. Booleans become integers.
func abs(v Value) Value {
	switch v.kind {
	case KindFloat:
		return Float(math.Abs(v.f))
	default:
		a, _ := v.BigInt()
		if a.Sign() >= 0 {
			return bigint(a)
		}
		return bigint(new(big.Int).Neg(a))
	}
}

// order compares two values exactly, regardless of kind. The second result is
// false if the values are unordered, i.e. either is NaN.
func order(x, y Value) (int, bool) {
	switch {
	case x.integral() && y.integral():
		a, b := ints(x, y)
		return a.Cmp(b), true
	case x.kind == KindFloat && y.kind == KindFloat:
		switch {
		case math.IsNaN(x.f), math.IsNaN(y.f):
			return 0, false
		case x.f < y.f:
			return -1, true
		case x.f > y.f:
			return 1, true
		default:
			return 0, true
		}
	case x.kind == KindFloat:
		c, ok := order(y, x)
		return -c, ok
	default:
		// x is an integer and y is a float.
		switch {
		case math.IsNaN(y.f):
			return 0, false
		case math.IsInf(y.f, 1):
			return -1, true
		case math.IsInf(y.f, -1):
			return 1, true
		}
		a, _ := x.BigInt()
		return new(big.Float).SetInt(a).Cmp(big.NewFloat(y.f)), true
	}
}

// compare applies a comparison operator.
func compare(op nodeKind, x, y Value) Value {
	c, ok := order(x, y)
	if !ok {
		return Bool(op == nodeNe)
	}
	switch op {
	case nodeLt:
		return Bool(c < 0)
	case nodeLe:
		return Bool(c <= 0)
	case nodeGt:
		return Bool(c > 0)
	case nodeGe:
		return Bool(c >= 0)
	case nodeEq:
		return Bool(c == 0)
	case nodeNe:
		return Bool(c != 0)
	default:
		panic("calc: invalid comparison " + op.String())
	}
}
