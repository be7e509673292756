package minilang

import (
	"errors"
	"testing"
)

func FuzzTokenize(f *testing.F) {
	f.Add("x")
	f.Add("3 + 4 * 2")
	f.Add("def f(a, b) = a ^ b;\nvar y = f(1.5, 2.);")
	f.Add("1.2.3 $ π")
	f.Add("\xff(")
	f.Fuzz(func(t *testing.T, s string) {
		checkTokens(t, s, Tokenize(s))
	})
}

func FuzzParsersAgree(f *testing.F) {
	f.Add("x")
	f.Add("-2 ^ -3 ^ 2")
	f.Add("f(g(), -(x), 1 % 2)")
	f.Add("((1)")
	f.Add("f(1,)")
	f.Add("1, 2)")
	f.Fuzz(func(t *testing.T, s string) {
		toks := Tokenize(s)
		a, aerr := RecursiveDescent{}.Parse(toks)
		b, berr := ShuntingYard{}.Parse(toks)
		if aerr != nil || berr != nil {
			var ae, be *ParseError
			if !errors.As(aerr, &ae) || !errors.As(berr, &be) {
				t.Fatalf("%q: want two parse errors, got %v and %v", s, aerr, berr)
			}
			if ae.Loc != be.Loc || !errors.Is(berr, ae.Err) {
				t.Errorf("%q: parsers disagree on error:\n\t%v\n\t%v", s, aerr, berr)
			}
			return
		}
		if !Equal(a, b) {
			t.Fatalf("%q: parsers disagree: %v vs %v", s, a, b)
		}
		c, err := ParseString(a.String())
		if err != nil {
			t.Fatalf("%q: printed form %q does not parse: %v", s, a.String(), err)
		}
		if !Equal(a, c) {
			t.Errorf("%q: printed form %q parses as %v", s, a.String(), c)
		}
	})
}
