package calc_test

import (
	"errors"
	"testing"

	"github.com/zephyrtronium/calc"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("y = -x^2")
	f.Add("f(1, (2), -g(3)) <= 4")
	f.Add("1 $ 2")
	f.Add("a = (1\n)\n-b\n")
	f.Fuzz(func(t *testing.T, s string) {
		p, err := calc.ParseString(s)
		if err != nil {
			var serr calc.SyntaxError
			if !errors.As(err, &serr) {
				t.Errorf("%q gave non-syntax error %#v", s, err)
			}
			return
		}
		// The formatted program must not panic.
		_ = p.String()
	})
}
