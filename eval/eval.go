// Package eval evaluates minilang expressions and programs in arbitrary
// precision.
package eval

import (
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"

	"github.com/zephyrtronium/minilang"
)

// DefaultMaxDepth is the default limit on nested calls to functions defined
// by programs.
const DefaultMaxDepth = 256

// Context is a context for evaluating expressions and programs. It is not safe
// to use a Context concurrently.
type Context struct {
	stack []*big.Float
	names map[string]*big.Float
	funcs map[string]Func
	// scope holds the parameters of the user function being evaluated.
	scope    map[string]*big.Float
	prec     uint
	depth    int
	maxDepth int
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  *big.Float
	}
	varsopt map[string]*big.Float
	precopt uint
	funcopt struct {
		name string
		f    Func
	}
	depthopt int
)

func (varopt) ctxOption()   {}
func (varsopt) ctxOption()  {}
func (precopt) ctxOption()  {}
func (funcopt) ctxOption()  {}
func (depthopt) ctxOption() {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val *big.Float) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]*big.Float) ContextOption {
	return varsopt(vars)
}

// Prec sets the precision of calculations.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// WithFunc adds a function to the context, replacing any builtin of the same
// name. A nil f removes the function.
func WithFunc(name string, f Func) ContextOption {
	return funcopt{name, f}
}

// MaxDepth limits the nesting of calls to functions defined by programs.
func MaxDepth(n int) ContextOption {
	return depthopt(n)
}

// NewContext creates a new evaluation context with the builtin functions. If
// no precision is given, the default is 64.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{funcs: globalfuncs, prec: 64, maxDepth: DefaultMaxDepth}
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		stack:    make([]*big.Float, 0, cap(ctx.stack)),
		names:    make(map[string]*big.Float, len(ctx.names)),
		funcs:    make(map[string]Func, len(ctx.funcs)),
		prec:     ctx.prec,
		maxDepth: ctx.maxDepth,
	}
	// Apply the last precision first so that every copied value uses it.
	for i := len(opts) - 1; i >= 0; i-- {
		if p, ok := opts[i].(precopt); ok {
			n.prec = uint(p)
			break
		}
	}
	if n.prec == ctx.prec {
		for name, val := range ctx.names {
			n.names[name] = val
		}
	} else {
		for name, val := range ctx.names {
			n.names[name] = new(big.Float).SetPrec(n.prec).Set(val)
		}
	}
	for name, f := range ctx.funcs {
		n.funcs[name] = f
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names[opt.name] = new(big.Float).SetPrec(n.prec).Set(opt.val)
		case varsopt:
			for k, v := range opt {
				n.names[k] = new(big.Float).SetPrec(n.prec).Set(v)
			}
		case funcopt:
			if opt.f == nil {
				delete(n.funcs, opt.name)
			} else {
				n.funcs[opt.name] = opt.f
			}
		case depthopt:
			n.maxDepth = int(opt)
		case precopt:
			// Already done.
		default:
			panic("eval: unknown option type")
		}
	}
	return &n
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Set sets the value of a variable. Returns ctx for chaining.
func (ctx *Context) Set(name string, value *big.Float) *Context {
	if ctx.names == nil {
		ctx.names = make(map[string]*big.Float)
	}
	ctx.names[name] = new(big.Float).SetPrec(ctx.prec).Set(value)
	return ctx
}

// Lookup returns a copy of the value of a variable. If there is no such
// variable in the context, then the result is nil.
func (ctx *Context) Lookup(name string) *big.Float {
	v := ctx.names[name]
	if v == nil {
		return nil
	}
	return new(big.Float).Copy(v)
}

// Func returns the function with the given name, or nil if there is none.
func (ctx *Context) Func(name string) Func {
	return ctx.funcs[name]
}

// Eval evaluates an expression and returns its value. Variables are looked up
// in the context. A variable which is not defined but names a function that
// accepts no arguments evaluates to a call of that function, so "pi" and
// "pi()" are the same.
func (ctx *Context) Eval(n minilang.Node) (r *big.Float, err error) {
	if len(ctx.stack) > 0 {
		panic("eval: Eval during Eval")
	}
	defer func() {
		ctx.stack = ctx.stack[:0]
		ctx.scope = nil
		ctx.depth = 0
		p := recover()
		if p == nil {
			return
		}
		nan, ok := p.(big.ErrNaN)
		if !ok {
			panic(p)
		}
		r, err = nil, &DomainError{Err: nan}
	}()
	if err := ctx.eval(n); err != nil {
		return nil, err
	}
	if len(ctx.stack) != 1 {
		panic("eval: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items")
	}
	return new(big.Float).Copy(ctx.stack[0]), nil
}

// Run evaluates a program. Each variable definition is evaluated and bound in
// order, and each function definition becomes callable by the definitions
// after it and by later evaluations with ctx. A definition replaces any
// variable or function of the same name.
func (ctx *Context) Run(defs []minilang.Definition) error {
	for _, d := range defs {
		switch d := d.(type) {
		case *minilang.VarDef:
			v, err := ctx.Eval(d.Body)
			if err != nil {
				return &DefinitionError{Name: d.Name, Err: err}
			}
			ctx.Set(d.Name, v)
		case *minilang.FuncDef:
			if ctx.funcs == nil {
				ctx.funcs = make(map[string]Func)
			}
			ctx.funcs[d.Name] = &userFunc{def: d}
		default:
			panic("eval: unknown definition type")
		}
	}
	return nil
}

// push ensures a settable value on the stack.
func (ctx *Context) push() *big.Float {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(big.Float).SetPrec(ctx.prec)
		}
	} else {
		ctx.stack = append(ctx.stack, new(big.Float).SetPrec(ctx.prec))
	}
	return ctx.stack[len(ctx.stack)-1]
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future node evaluations.
func (ctx *Context) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *Context) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// lookup finds the value of a variable, preferring parameters of the function
// being evaluated.
func (ctx *Context) lookup(name string) *big.Float {
	if v := ctx.scope[name]; v != nil {
		return v
	}
	return ctx.names[name]
}

// eval pushes the node's value to the context's stack.
func (ctx *Context) eval(n minilang.Node) error {
	switch n := n.(type) {
	case *minilang.Num:
		ctx.push().SetFloat64(n.Value)
	case *minilang.Var:
		if v := ctx.lookup(n.Name); v != nil {
			ctx.push().Set(v)
			return nil
		}
		if f := ctx.funcs[n.Name]; f != nil && f.CanCall(0) {
			return ctx.call(n.Name, f, nil)
		}
		return &NameError{Name: n.Name}
	case *minilang.Call:
		f := ctx.funcs[n.Name]
		if f == nil {
			return &CallError{Name: n.Name, Args: len(n.Args), Reason: "undefined function"}
		}
		if !f.CanCall(len(n.Args)) {
			return &CallError{Name: n.Name, Args: len(n.Args), Reason: "wrong number of arguments"}
		}
		return ctx.call(n.Name, f, n.Args)
	case *minilang.BinOp:
		if err := ctx.eval(n.LHS); err != nil {
			return err
		}
		if err := ctx.eval(n.RHS); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		return binary(n.Op, l, r)
	default:
		panic("eval: invalid AST node " + n.String())
	}
	return nil
}

// call evaluates args and calls f with them.
func (ctx *Context) call(name string, f Func, args []minilang.Node) error {
	r := ctx.push()
	k := len(ctx.stack)
	for _, arg := range args {
		if err := ctx.eval(arg); err != nil {
			return err
		}
	}
	invoc := ctx.stack[k:len(ctx.stack):len(ctx.stack)]
	if err := callFunc(ctx, name, f, invoc, r); err != nil {
		return err
	}
	ctx.stack = ctx.stack[:k]
	return nil
}

// binary sets l to l op r.
func binary(op minilang.Op, l, r *big.Float) error {
	switch op {
	case minilang.OpAdd:
		// Guard against inf-inf.
		if l.IsInf() && r.IsInf() && l.Signbit() != r.Signbit() {
			return &DomainError{X: r, Arg: 2, Func: "+"}
		}
		l.Add(l, r)
	case minilang.OpSub:
		if l.IsInf() && r.IsInf() && l.Signbit() == r.Signbit() {
			return &DomainError{X: r, Arg: 2, Func: "-"}
		}
		l.Sub(l, r)
	case minilang.OpMul:
		// Guard against 0*inf.
		if l.Sign() == 0 && r.IsInf() {
			return &DomainError{X: l, Arg: 1, Func: "*"}
		}
		if l.IsInf() && r.Sign() == 0 {
			return &DomainError{X: r, Arg: 2, Func: "*"}
		}
		l.Mul(l, r)
	case minilang.OpDiv:
		// Guard against invalid divisions, 0/0 or inf/inf.
		if l.Sign() == 0 && r.Sign() == 0 || l.IsInf() && r.IsInf() {
			return &DomainError{X: r, Arg: 2, Func: "/"}
		}
		l.Quo(l, r)
	case minilang.OpMod:
		if r.Sign() == 0 {
			return &DomainError{X: r, Arg: 2, Func: "%"}
		}
		if l.IsInf() {
			return &DomainError{X: l, Arg: 1, Func: "%"}
		}
		mod(l, l, r)
	case minilang.OpPow:
		return pow(l, l, r)
	default:
		panic("eval: invalid operator " + op.String())
	}
	return nil
}

// mod sets z to the remainder of x/y truncated toward zero, having the sign
// of x. y must be nonzero and x finite.
func mod(z, x, y *big.Float) *big.Float {
	if y.IsInf() {
		return z.Set(x)
	}
	q := new(big.Float).SetPrec(z.Prec()).Quo(x, y)
	i, _ := q.Int(nil)
	q.SetInt(i)
	q.Mul(q, y)
	return z.Sub(x, q)
}

// pow sets z to x^y. A negative base is allowed only with an integer
// exponent.
func pow(z, x, y *big.Float) error {
	switch {
	case y.Sign() == 0:
		z.SetInt64(1)
		return nil
	case x.Sign() == 0:
		// 0^y is 0 for positive y and +inf for negative y.
		if y.Sign() > 0 {
			z.SetInt64(0)
		} else {
			z.SetInf(false)
		}
		return nil
	}
	odd := false
	if x.Sign() < 0 {
		if y.IsInf() || !y.IsInt() {
			return &DomainError{X: x, Arg: 1, Func: "^"}
		}
		i, _ := y.Int(nil)
		odd = i.Bit(0) == 1
	}
	ax := new(big.Float).Abs(x)
	switch {
	case !ax.IsInf():
		// Pow may return a new value rather than writing z.
		z.Set(bigfloat.Pow(z, ax, y))
	case y.Sign() > 0:
		z.SetInf(false)
	default:
		z.SetInt64(0)
	}
	if odd {
		z.Neg(z)
	}
	return nil
}
