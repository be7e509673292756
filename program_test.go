package minilang

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireDefs(t *testing.T, want, got []Definition) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		switch w := want[i].(type) {
		case *VarDef:
			g, ok := got[i].(*VarDef)
			require.Truef(t, ok, "definition %d: want %v, got %v", i, w, got[i])
			require.Equal(t, w.Name, g.Name)
			require.Truef(t, Equal(w.Body, g.Body), "definition %d: want %v, got %v", i, w, g)
		case *FuncDef:
			g, ok := got[i].(*FuncDef)
			require.Truef(t, ok, "definition %d: want %v, got %v", i, w, got[i])
			require.Equal(t, w.Name, g.Name)
			require.Equal(t, w.Params, g.Params)
			require.Truef(t, Equal(w.Body, g.Body), "definition %d: want %v, got %v", i, w, g)
		}
	}
}

var programCases = []struct {
	name string
	src  string
	want []Definition
}{
	{"empty", "", nil},
	{"blank", " \n\t", nil},
	{"var", "var x = 1;", []Definition{&VarDef{Name: "x", Body: num(1)}}},
	{"def0", "def f() = 1;", []Definition{&FuncDef{Name: "f", Body: num(1)}}},
	{"def1", "def sq(x) = x * x;", []Definition{
		&FuncDef{Name: "sq", Params: []string{"x"}, Body: bin(OpMul, vr("x"), vr("x"))},
	}},
	{"def3", "def g(a, b, c) = a + b*c;", []Definition{
		&FuncDef{Name: "g", Params: []string{"a", "b", "c"}, Body: bin(OpAdd, vr("a"), bin(OpMul, vr("b"), vr("c")))},
	}},
	{"dupparams", "def h(a, a) = a;", []Definition{&FuncDef{Name: "h", Params: []string{"a", "a"}, Body: vr("a")}}},
	{"several", "var r = 2;\ndef area(r) = 3.5 * r^2;\nvar a = area(r);", []Definition{
		&VarDef{Name: "r", Body: num(2)},
		&FuncDef{Name: "area", Params: []string{"r"}, Body: bin(OpMul, num(3.5), bin(OpPow, vr("r"), num(2)))},
		&VarDef{Name: "a", Body: call("area", vr("r"))},
	}},
	{"negation", "var n = --f(-x, (1));", []Definition{
		&VarDef{Name: "n", Body: call("f", negated(vr("x")), num(1))},
	}},
}

func TestParseProgram(t *testing.T) {
	for _, c := range programCases {
		for _, p := range parsers {
			t.Run(c.name+"/"+p.name, func(t *testing.T) {
				defs, err := ParseProgramString(c.src, p.p)
				require.NoError(t, err)
				requireDefs(t, c.want, defs)
			})
		}
	}
}

func TestParseProgramDefaultParser(t *testing.T) {
	defs, err := ParseProgram(Tokenize("var x = 2 ^ 3 ^ 2;"), nil)
	require.NoError(t, err)
	requireDefs(t, []Definition{&VarDef{Name: "x", Body: bin(OpPow, num(2), bin(OpPow, num(3), num(2)))}}, defs)
}

func TestProgramRoundTrip(t *testing.T) {
	for _, c := range programCases {
		defs, err := ParseProgramString(c.src, nil)
		require.NoError(t, err)
		var b strings.Builder
		for _, d := range defs {
			b.WriteString(d.String())
			b.WriteByte('\n')
		}
		again, err := ParseProgramString(b.String(), nil)
		require.NoErrorf(t, err, "reparsing %q", b.String())
		requireDefs(t, defs, again)
	}
}

func TestDefinitionString(t *testing.T) {
	v := &VarDef{Name: "x", Body: bin(OpAdd, num(1), num(2))}
	require.Equal(t, "var x = (1 + 2);", v.String())
	f := &FuncDef{Name: "f", Params: []string{"a", "b"}, Body: call("g", vr("a"), vr("b"))}
	require.Equal(t, "def f(a, b) = g(a, b);", f.String())
	require.Equal(t, "def k() = 1;", (&FuncDef{Name: "k", Body: num(1)}).String())
}

func TestParseProgramErrors(t *testing.T) {
	loc := func(line, col int) Location { return Location{Line: line, Column: col} }
	cases := []struct {
		name  string
		src   string
		class error
		loc   Location
	}{
		{"bare", "1;", ErrUnexpectedToken, loc(1, 1)},
		{"ident", "x = 1;", ErrUnexpectedToken, loc(1, 1)},
		{"noname", "var = 1;", ErrUnexpectedToken, loc(1, 5)},
		{"keyword", "var def = 1;", ErrUnexpectedToken, loc(1, 5)},
		{"noequals", "var x 1;", ErrUnexpectedToken, loc(1, 7)},
		{"nosemi", "var x = 1", ErrUnexpectedToken, loc(1, 10)},
		{"nosemi2", "var x = 1\nvar y = 2;", ErrUnexpectedToken, loc(2, 1)},
		{"nobody", "var x = ;", ErrEmpty, loc(1, 9)},
		{"opend", "var x = 1 + ;", ErrOperatorAtEnd, loc(1, 13)},
		{"unclosed", "var x = (1;", ErrUnclosedParen, loc(1, 11)},
		{"unmatched", "var x = 1);", ErrUnmatchedParen, loc(1, 10)},
		{"noparen", "def f = 1;", ErrUnexpectedToken, loc(1, 7)},
		{"numparam", "def f(1) = 1;", ErrUnexpectedToken, loc(1, 7)},
		{"trailcomma", "def f(a,) = 1;", ErrUnexpectedToken, loc(1, 9)},
		{"nocomma", "def f(a b) = 1;", ErrUnexpectedToken, loc(1, 9)},
		{"unclosedparams", "def f(a", ErrUnexpectedToken, loc(1, 8)},
		{"defnoequals", "def f(a) a;", ErrUnexpectedToken, loc(1, 10)},
		{"trailing", "var x = 1; 2", ErrUnexpectedToken, loc(1, 12)},
		{"second", "var x = 1;\ndef f(x) = x +;", ErrOperatorAtEnd, loc(2, 15)},
	}
	for _, c := range cases {
		for _, p := range parsers {
			t.Run(c.name+"/"+p.name, func(t *testing.T) {
				defs, err := ParseProgramString(c.src, p.p)
				require.Errorf(t, err, "parsed as %v", defs)
				require.Nil(t, defs)
				require.ErrorIs(t, err, c.class)
				var ierr InputError
				require.True(t, errors.As(err, &ierr))
				require.Equal(t, c.loc, ierr.Pos())
			})
		}
	}
}
