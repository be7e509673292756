package minilang

// ShuntingYard parses expressions with an operator precedence table and
// explicit operator, output, and arity stacks. The zero value is ready to use.
type ShuntingYard struct{}

// Parse parses an expression from tokens.
func (ShuntingYard) Parse(tokens []Token, opts ...ParseOption) (Node, error) {
	ctx := newParsectx(opts)
	var y yard
	// prefix indicates that the next token must begin an operand, as
	// opposed to continuing one with an infix operator or closer.
	prefix := true
	var prev Token
	for i := 0; ; i++ {
		tok := tokenAt(tokens, i)
		if ctx.ends(tok.Kind) {
			return y.finish(tok, prefix, i)
		}
		var err error
		if prefix {
			var skip int
			prefix, skip, err = y.prefix(tok, prev, tokenAt(tokens, i+1))
			i += skip
		} else {
			prefix, err = y.infix(tok)
		}
		if err != nil {
			return nil, err
		}
		prev = tokenAt(tokens, i)
	}
}

type pendKind int8

const (
	pendBinary pendKind = iota
	pendNeg
	pendParen
	pendCall
)

// pending is an entry on the operator stack.
type pending struct {
	operator
	kind pendKind
	// tok is the operator or open parenthesis token.
	tok Token
	// name is the function name of a pendCall.
	name string
}

func (p pending) opens() bool {
	return p.kind == pendParen || p.kind == pendCall
}

// yard holds the stacks of one shunting-yard parse.
type yard struct {
	ops []pending
	out []Node
	// arity has one argument count per open call, innermost last.
	arity []int
}

// prefix handles a token where an operand must begin. prev and next are the
// tokens around tok. skip is the number of tokens after tok consumed along
// with it.
func (y *yard) prefix(tok, prev, next Token) (expectPrefix bool, skip int, err error) {
	switch tok.Kind {
	case TokenNumber:
		y.out = append(y.out, &Num{Value: tok.Num})
		return false, 0, nil
	case TokenPlus:
		// Unary + does nothing.
		return true, 0, nil
	case TokenMinus:
		// Pairs of unary - cancel. In prefix position, a negation on top of
		// the stack can only come from the current run of prefix operators.
		if n := len(y.ops); n > 0 && y.ops[n-1].kind == pendNeg {
			y.ops = y.ops[:n-1]
			return true, 0, nil
		}
		y.ops = append(y.ops, pending{operator: negprec, kind: pendNeg, tok: tok})
		return true, 0, nil
	case TokenLParen:
		y.ops = append(y.ops, pending{operator: openprec, kind: pendParen, tok: tok})
		return true, 0, nil
	case TokenIdent:
		if next.Kind != TokenLParen {
			y.out = append(y.out, &Var{Name: tok.Text})
			return false, 0, nil
		}
		// Every call starts with an arity of 1. A call with no arguments
		// is closed in prefix position immediately after its parenthesis.
		y.arity = append(y.arity, 1)
		y.ops = append(y.ops, pending{operator: openprec, kind: pendCall, tok: next, name: tok.Text})
		return true, 1, nil
	case TokenRParen:
		n := len(y.ops)
		if n == 0 || y.ops[n-1].kind != pendCall || prev.Kind != TokenLParen {
			break
		}
		f := y.ops[n-1]
		y.ops = y.ops[:n-1]
		y.arity = y.arity[:len(y.arity)-1]
		y.out = append(y.out, &Call{Name: f.name})
		return false, 0, nil
	}
	return true, 0, unexpected(tok, "expression")
}

// infix handles a token following a complete operand.
func (y *yard) infix(tok Token) (expectPrefix bool, err error) {
	switch tok.Kind {
	case TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent, TokenCaret:
		op := binop(tok.Kind)
		for len(y.ops) > 0 && !op.moreBinding(y.ops[len(y.ops)-1].operator) {
			if err := y.pop(); err != nil {
				return false, err
			}
		}
		y.ops = append(y.ops, pending{operator: op, kind: pendBinary, tok: tok})
		return true, nil
	case TokenComma:
		if err := y.reduce(); err != nil {
			return false, err
		}
		n := len(y.ops)
		if n == 0 {
			return false, misplaced(tok, ErrSeparator, "infix operator or end of input")
		}
		if y.ops[n-1].kind != pendCall {
			return false, unexpected(tok, "')' or infix operator")
		}
		y.arity[len(y.arity)-1]++
		return true, nil
	case TokenRParen:
		if err := y.reduce(); err != nil {
			return false, err
		}
		n := len(y.ops)
		if n == 0 {
			return false, misplaced(tok, ErrUnmatchedParen, "infix operator or end of input")
		}
		open := y.ops[n-1]
		y.ops = y.ops[:n-1]
		if open.kind == pendCall {
			k := y.arity[len(y.arity)-1]
			y.arity = y.arity[:len(y.arity)-1]
			if len(y.out) < k {
				return false, &InternalError{Msg: "call to " + open.name + " has fewer operands than arguments"}
			}
			args := make([]Node, k)
			copy(args, y.out[len(y.out)-k:])
			y.out = y.out[:len(y.out)-k]
			y.out = append(y.out, &Call{Name: open.name, Args: args})
		}
		return false, nil
	}
	return false, unexpected(tok, y.closers())
}

// reduce pops operators until the stack is empty or an open bracket or call is
// on top.
func (y *yard) reduce() error {
	for len(y.ops) > 0 && !y.ops[len(y.ops)-1].opens() {
		if err := y.pop(); err != nil {
			return err
		}
	}
	return nil
}

// pop pops one operator and applies it to the operands on the output stack.
func (y *yard) pop() error {
	top := y.ops[len(y.ops)-1]
	y.ops = y.ops[:len(y.ops)-1]
	n := len(y.out)
	switch top.kind {
	case pendBinary:
		if n < 2 {
			return errorAt(top.tok, ErrOperatorAtEnd, "operator '"+top.tok.Text+"' at end of input")
		}
		lhs, rhs := y.out[n-2], y.out[n-1]
		y.out = y.out[:n-2]
		y.out = append(y.out, &BinOp{Op: top.op, LHS: lhs, RHS: rhs})
	case pendNeg:
		if n < 1 {
			return errorAt(top.tok, ErrOperatorAtEnd, "operator '-' at end of input")
		}
		y.out[n-1] = neg(y.out[n-1])
	case pendParen, pendCall:
		// Only a closing parenthesis removes these.
		return errorAt(top.tok, ErrUnclosedParen, "unclosed '"+top.tok.Text+"'")
	}
	return nil
}

// innermost returns the innermost open bracket or call on the stack, or -1.
func (y *yard) innermost() int {
	for i := len(y.ops) - 1; i >= 0; i-- {
		if y.ops[i].opens() {
			return i
		}
	}
	return -1
}

// closers describes the tokens which may follow a complete operand.
func (y *yard) closers() string {
	k := y.innermost()
	switch {
	case k < 0:
		return "infix operator or end of input"
	case y.ops[k].kind == pendCall:
		return "',', ')' or infix operator"
	default:
		return "')' or infix operator"
	}
}

// finish drains the stacks at the end of the expression. end is the token
// which ended it, and consumed is the number of tokens before end.
func (y *yard) finish(end Token, prefix bool, consumed int) (Node, error) {
	want := "expression"
	if !prefix {
		want = y.closers()
	}
	if k := y.innermost(); k >= 0 {
		return nil, unclosed(end, y.ops[k].tok, want)
	}
	if prefix {
		if consumed == 0 {
			return nil, misplaced(end, ErrEmpty, want)
		}
		return nil, misplaced(end, ErrOperatorAtEnd, want)
	}
	for len(y.ops) > 0 {
		if err := y.pop(); err != nil {
			return nil, err
		}
	}
	switch len(y.out) {
	case 0:
		return nil, misplaced(end, ErrEmpty, want)
	case 1:
		return y.out[0], nil
	default:
		return nil, &InternalError{Msg: "multiple expressions without an operator between them"}
	}
}
