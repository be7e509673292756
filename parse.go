package minilang

import "math"

// Expression grammar, loosest binding first:
//
// Expr    = Term { ('+' | '-') Term }
// Term    = Factor { ('*' | '/' | '%') Factor }
// Factor  = Prefix [ '^' Factor ]
// Prefix  = { '+' | '-' } Primary
// Primary = num | name | name '(' [ Expr { ',' Expr } ] ')' | '(' Expr ')'

// ExpressionParser parses a complete expression from a token stream. Both
// RecursiveDescent and ShuntingYard implement ExpressionParser, and they
// produce equal trees for every input they accept.
type ExpressionParser interface {
	// Parse parses an expression from tokens, which should end with
	// TokenEOF as produced by Tokenize. The entire stream up to EOF, or up
	// to a token chosen with StopOn, must form one expression. Errors
	// resulting from the input are *ParseError.
	Parse(tokens []Token, opts ...ParseOption) (Node, error)
}

var (
	_ ExpressionParser = RecursiveDescent{}
	_ ExpressionParser = ShuntingYard{}
)

// ParseExpression parses an expression using recursive descent.
func ParseExpression(tokens []Token, opts ...ParseOption) (Node, error) {
	return RecursiveDescent{}.Parse(tokens, opts...)
}

// ParseString tokenizes and parses an expression.
func ParseString(src string, opts ...ParseOption) (Node, error) {
	return ParseExpression(Tokenize(src), opts...)
}

// tokenAt returns the token at index i, or an EOF token located at the last
// token if i is past the end of the stream.
func tokenAt(tokens []Token, i int) Token {
	if i < len(tokens) {
		return tokens[i]
	}
	if len(tokens) == 0 {
		return Token{Kind: TokenEOF, Loc: Location{Line: 1, Column: 1}}
	}
	return Token{Kind: TokenEOF, Loc: tokens[len(tokens)-1].Loc}
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the operator to use in the BinOp node.
	op Op
}

// moreBinding returns whether p binds its operands more tightly than an
// operator to its left.
func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token kind. If there is no such binary
// operator, then the result has an op of 0.
func binop(k TokenKind) operator {
	switch k {
	case TokenPlus:
		return operator{1, false, OpAdd}
	case TokenMinus:
		return operator{1, false, OpSub}
	case TokenStar:
		return operator{2, false, OpMul}
	case TokenSlash:
		return operator{2, false, OpDiv}
	case TokenPercent:
		return operator{2, false, OpMod}
	case TokenCaret:
		return operator{3, true, OpPow}
	default:
		return operator{}
	}
}

var (
	// negprec is the precedence of unary minus, which binds more tightly
	// than any binary operator.
	negprec = operator{math.MaxInt8, true, OpSub}
	// openprec is the precedence of open brackets and calls, which no binary
	// operator can reduce.
	openprec = operator{math.MinInt8, false, 0}
)
