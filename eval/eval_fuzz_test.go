package eval_test

import (
	"math/big"
	"testing"

	"github.com/zephyrtronium/minilang"
	"github.com/zephyrtronium/minilang/eval"
)

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("(-x) ^ 3 % 2")
	f.Add("sqrt(x - 1) / 0")
	f.Fuzz(func(t *testing.T, s string) {
		n, err := minilang.ParseString(s)
		if err != nil {
			return
		}
		ctx := eval.NewContext(eval.SetVar("x", new(big.Float)), eval.Prec(32))
		r, err := ctx.Eval(n)
		if (r == nil) == (err == nil) {
			t.Errorf("%q gave result %v and error %v", s, r, err)
		}
	})
}
