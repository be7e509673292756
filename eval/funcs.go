package eval

import (
	"errors"
	"math/big"
	"sort"

	"github.com/zephyrtronium/bigfloat"

	"github.com/zephyrtronium/minilang"
)

// Func is a function from reals to reals.
type Func interface {
	// Call evaluates the function. The function arguments are passed in
	// invoc, which has a length for which CanCall returned true. The function
	// must set r to its result and should not use the value of r otherwise.
	// Call may modify the elements of invoc.
	Call(ctx *Context, invoc []*big.Float, r *big.Float) error

	// CanCall returns whether the function can be called with n arguments.
	// A variable reference to a function for which CanCall(0) is true calls
	// the function.
	CanCall(n int) bool
}

var globalfuncs = map[string]Func{
	"exp": Monadic(bigfloat.Exp),
	"ln":  Monadic(bigfloat.Log),
	"log": Monadic(func(out, in *big.Float) *big.Float {
		bigfloat.Log(out, in)
		in.SetFloat64(10).SetPrec(out.Prec())
		bigfloat.Log(in, in)
		return out.Quo(out, in)
	}),
	"sqrt": Monadic((*big.Float).Sqrt),
	"abs":  Monadic((*big.Float).Abs),

	// constants
	"pi": Niladic(bigfloat.Pi),
	"e": Niladic(func(out *big.Float) *big.Float {
		var one big.Float
		one.SetFloat64(1)
		return bigfloat.Exp(out, &one)
	}),
}

// Builtins returns the sorted names of the default functions.
func Builtins() []string {
	r := make([]string, 0, len(globalfuncs))
	for k := range globalfuncs {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// callFunc calls f, converting a domain panic into an error.
func callFunc(ctx *Context, name string, f Func, invoc []*big.Float, r *big.Float) (err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		e, ok := p.(error)
		if !ok {
			panic(p)
		}
		var nan big.ErrNaN
		if !errors.As(e, &nan) {
			panic(p)
		}
		d := &DomainError{Func: name, Err: nan}
		if len(invoc) == 1 {
			d.X, d.Arg = invoc[0], 1
		}
		err = d
	}()
	return f.Call(ctx, invoc, r)
}

type monadic struct {
	f func(out, in *big.Float) *big.Float
}

func (m monadic) Call(ctx *Context, invoc []*big.Float, r *big.Float) error {
	r.SetPrec(ctx.Prec())
	m.f(r, invoc[0])
	return nil
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one variable into a Func. f must set out to its
// result, to the precision of out; its return value is always ignored. If f is
// called on an argument outside f's domain, it should panic with an error of
// type big.ErrNaN, or that unwraps to it.
func Monadic(f func(out, in *big.Float) *big.Float) Func {
	return monadic{f}
}

type niladic struct {
	f func(out *big.Float) *big.Float
}

func (n niladic) Call(ctx *Context, invoc []*big.Float, r *big.Float) error {
	r.SetPrec(ctx.Prec())
	n.f(r)
	return nil
}

func (n niladic) CanCall(k int) bool {
	return k == 0
}

// Niladic wraps a function of zero variables, generally a function which
// computes a constant, into a Func. f must set out to its result; its return
// value is always ignored.
func Niladic(f func(out *big.Float) *big.Float) Func {
	return niladic{f}
}

// userFunc is a function defined by a program. Its body sees the context's
// variables and its own parameters, with parameters taking priority. When a
// parameter name is repeated, the last argument for it wins.
type userFunc struct {
	def *minilang.FuncDef
}

func (f *userFunc) Call(ctx *Context, invoc []*big.Float, r *big.Float) error {
	if ctx.depth >= ctx.maxDepth {
		return &CallError{Name: f.def.Name, Args: len(invoc), Reason: "calls nested too deeply"}
	}
	scope := make(map[string]*big.Float, len(invoc))
	for i, p := range f.def.Params {
		scope[p] = new(big.Float).SetPrec(ctx.prec).Set(invoc[i])
	}
	saved := ctx.scope
	ctx.scope = scope
	ctx.depth++
	err := ctx.eval(f.def.Body)
	ctx.depth--
	ctx.scope = saved
	if err != nil {
		return err
	}
	r.Set(ctx.pop())
	return nil
}

func (f *userFunc) CanCall(n int) bool {
	return n == len(f.def.Params)
}
