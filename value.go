package calc

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind is the type of a Value.
type Kind uint8

const (
	// KindInvalid is the kind of the zero Value.
	KindInvalid Kind = iota
	// KindInt is an exact integer of any size.
	KindInt
	// KindFloat is an IEEE-754 double.
	KindFloat
	// KindBool is the result of a comparison. In arithmetic it acts as the
	// integer 1 or 0.
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Value is the result of evaluating a program or any part of one. Values are
// immutable; in particular, the *big.Int returned from BigInt must not be
// modified.
type Value struct {
	kind Kind
	i    *big.Int
	f    float64
	b    bool
}

// Int returns an integer Value.
func Int(x int64) Value {
	return Value{kind: KindInt, i: big.NewInt(x)}
}

// BigInt returns an integer Value. The Value holds a copy of x.
func BigInt(x *big.Int) Value {
	return Value{kind: KindInt, i: new(big.Int).Set(x)}
}

// bigint wraps x without copying. x must not be modified afterward.
func bigint(x *big.Int) Value {
	return Value{kind: KindInt, i: x}
}

// Float returns a real Value.
func Float(x float64) Value {
	return Value{kind: KindFloat, f: x}
}

// Bool returns a boolean Value.
func Bool(x bool) Value {
	return Value{kind: KindBool, b: x}
}

// Kind returns the kind of v.
func (v Value) Kind() Kind {
	return v.kind
}

// BigInt returns v as an integer. Booleans convert to 1 or 0. The second
// result is false if v is a float or invalid.
func (v Value) BigInt() (*big.Int, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindBool:
		if v.b {
			return big.NewInt(1), true
		}
		return new(big.Int), true
	default:
		return nil, false
	}
}

// Float64 returns v as a float64. The result is an *OverflowError if v is an
// integer too large to represent.
func (v Value) Float64() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindInt:
		if v.i.IsInt64() {
			return float64(v.i.Int64()), nil
		}
		f, _ := new(big.Float).SetInt(v.i).Float64()
		if math.IsInf(f, 0) {
			return 0, &OverflowError{Op: "float", Msg: "int too large to convert to float"}
		}
		return f, nil
	default:
		panic("calc: Float64 of invalid Value")
	}
}

// Truth returns whether v is nonzero.
func (v Value) Truth() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i.Sign() != 0
	case KindFloat:
		return v.f != 0
	default:
		return false
	}
}

// integral reports whether v is an int or bool, i.e. whether integer
// arithmetic applies.
func (v Value) integral() bool {
	return v.kind == KindInt || v.kind == KindBool
}

// String formats v the way a calculator user expects: integers in decimal,
// floats in shortest round-trip form with a decimal point or exponent, and
// booleans as true or false.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return v.i.String()
	case KindFloat:
		return formatFloat(v.f)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "<invalid>"
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	// Use the exponent of the shortest representation to choose between
	// fixed and scientific notation.
	s := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(s[strings.IndexByte(s, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return s
	}
	s = strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Format implements fmt.Formatter. The verbs v and s print String. Integers
// accept the integer verbs of *big.Int and the floating-point verbs of
// *big.Float, floats accept the floating-point verbs, and booleans accept t
// or act as integers.
func (v Value) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v', 's':
		fmt.Fprintf(s, fmt.FormatString(s, 's'), v.String())
		return
	}
	switch v.kind {
	case KindInt:
		switch verb {
		case 'e', 'E', 'f', 'F', 'g', 'G':
			fmt.Fprintf(s, fmt.FormatString(s, verb), new(big.Float).SetInt(v.i))
		default:
			fmt.Fprintf(s, fmt.FormatString(s, verb), v.i)
		}
	case KindFloat:
		fmt.Fprintf(s, fmt.FormatString(s, verb), v.f)
	case KindBool:
		if verb == 't' {
			fmt.Fprintf(s, fmt.FormatString(s, verb), v.b)
			return
		}
		i, _ := v.BigInt()
		bigint(i).Format(s, verb)
	default:
		fmt.Fprintf(s, "%%!%c(calc.Value=<invalid>)", verb)
	}
}

// Equal reports whether v and w are the same kind and value. Unlike the ==
// operator of the language, Equal distinguishes kinds, and NaN is Equal to
// NaN.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i.Cmp(w.i) == 0
	case KindFloat:
		return v.f == w.f || math.IsNaN(v.f) && math.IsNaN(w.f)
	case KindBool:
		return v.b == w.b
	default:
		return true
	}
}
