package minilang

// RecursiveDescent parses expressions with one function per precedence
// level. The zero value is ready to use.
type RecursiveDescent struct{}

// Parse parses an expression from tokens.
func (RecursiveDescent) Parse(tokens []Token, opts ...ParseOption) (Node, error) {
	p := descent{tokens: tokens, ctx: newParsectx(opts)}
	return p.parseExpressionEOF()
}

// descent is the state of one recursive descent parse.
type descent struct {
	tokens []Token
	i      int
	ctx    parsectx
	// opens holds the open bracket tokens which are not yet closed,
	// innermost last.
	opens []Token
}

func (p *descent) current() Token {
	return tokenAt(p.tokens, p.i)
}

// fail creates an error for the current token, which is not in the expected
// set.
func (p *descent) fail(want string) error {
	tok := p.current()
	if !p.ctx.ends(tok.Kind) {
		return unexpected(tok, want)
	}
	if len(p.opens) > 0 {
		return unclosed(tok, p.opens[len(p.opens)-1], want)
	}
	return misplaced(tok, ErrOperatorAtEnd, want)
}

func (p *descent) parseExpressionEOF() (Node, error) {
	tok := p.current()
	if p.ctx.ends(tok.Kind) {
		return nil, misplaced(tok, ErrEmpty, "expression")
	}
	n, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	tok = p.current()
	switch {
	case p.ctx.ends(tok.Kind):
		return n, nil
	case tok.Kind == TokenRParen:
		return nil, misplaced(tok, ErrUnmatchedParen, "infix operator or end of input")
	case tok.Kind == TokenComma:
		return nil, misplaced(tok, ErrSeparator, "infix operator or end of input")
	default:
		return nil, unexpected(tok, "infix operator or end of input")
	}
}

func (p *descent) parseExpression() (Node, error) {
	return p.parseAdditive()
}

func (p *descent) parseAdditive() (Node, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.current()
		if tok.Kind != TokenPlus && tok.Kind != TokenMinus {
			return lhs, nil
		}
		p.i++
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		lhs = &BinOp{Op: binop(tok.Kind).op, LHS: lhs, RHS: rhs}
	}
}

func (p *descent) parseMultiplicative() (Node, error) {
	lhs, err := p.parseExponential()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.current()
		if tok.Kind != TokenStar && tok.Kind != TokenSlash && tok.Kind != TokenPercent {
			return lhs, nil
		}
		p.i++
		rhs, err := p.parseExponential()
		if err != nil {
			return nil, err
		}
		lhs = &BinOp{Op: binop(tok.Kind).op, LHS: lhs, RHS: rhs}
	}
}

func (p *descent) parseExponential() (Node, error) {
	lhs, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	if p.current().Kind != TokenCaret {
		return lhs, nil
	}
	p.i++
	// Recurse instead of looping because ^ is right-associative.
	rhs, err := p.parseExponential()
	if err != nil {
		return nil, err
	}
	return &BinOp{Op: OpPow, LHS: lhs, RHS: rhs}, nil
}

func (p *descent) parsePrefix() (Node, error) {
	// Unary + does nothing. Pairs of unary - cancel.
	negate := false
	for k := p.current().Kind; k == TokenPlus || k == TokenMinus; k = p.current().Kind {
		if k == TokenMinus {
			negate = !negate
		}
		p.i++
	}
	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if negate {
		return neg(n), nil
	}
	return n, nil
}

func (p *descent) parsePrimary() (Node, error) {
	tok := p.current()
	switch tok.Kind {
	case TokenNumber:
		p.i++
		return &Num{Value: tok.Num}, nil
	case TokenIdent:
		p.i++
		open := p.current()
		if open.Kind != TokenLParen {
			return &Var{Name: tok.Text}, nil
		}
		p.i++
		p.opens = append(p.opens, open)
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		p.opens = p.opens[:len(p.opens)-1]
		return &Call{Name: tok.Text, Args: args}, nil
	case TokenLParen:
		p.i++
		p.opens = append(p.opens, tok)
		n, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.current().Kind != TokenRParen {
			return nil, p.fail("')' or infix operator")
		}
		p.i++
		p.opens = p.opens[:len(p.opens)-1]
		return n, nil
	default:
		return nil, p.fail("expression")
	}
}

// parseArgs parses a function call's arguments following the open
// parenthesis, through the closing parenthesis.
func (p *descent) parseArgs() ([]Node, error) {
	if p.current().Kind == TokenRParen {
		p.i++
		return nil, nil
	}
	var args []Node
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch p.current().Kind {
		case TokenComma:
			p.i++
		case TokenRParen:
			p.i++
			return args, nil
		default:
			return nil, p.fail("',', ')' or infix operator")
		}
	}
}
