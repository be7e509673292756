package minilang

import "strings"

// Program grammar:
//
// Program    = { Definition } EOF
// Definition = 'var' name '=' Expr ';' | 'def' name '(' [ name { ',' name } ] ')' '=' Expr ';'

// Definition is a top-level definition in a program. Every Definition is a
// *VarDef or *FuncDef.
type Definition interface {
	// String formats the definition as source text.
	String() string
	definition()
}

// VarDef is a variable definition.
type VarDef struct {
	Name string
	Body Node
}

// FuncDef is a function definition. Parameter names are not checked for
// uniqueness.
type FuncDef struct {
	Name   string
	Params []string
	Body   Node
}

func (*VarDef) definition()  {}
func (*FuncDef) definition() {}

func (d *VarDef) String() string {
	return "var " + d.Name + " = " + d.Body.String() + ";"
}

func (d *FuncDef) String() string {
	return "def " + d.Name + "(" + strings.Join(d.Params, ", ") + ") = " + d.Body.String() + ";"
}

// ParseProgram parses a sequence of definitions, using p to parse the body of
// each. If p is nil, ParseProgram uses RecursiveDescent. The definitions are
// returned in source order.
func ParseProgram(tokens []Token, p ExpressionParser) ([]Definition, error) {
	if p == nil {
		p = RecursiveDescent{}
	}
	pp := progparser{tokens: tokens, expr: p}
	return pp.parse()
}

// ParseProgramString tokenizes and parses a program using p.
func ParseProgramString(src string, p ExpressionParser) ([]Definition, error) {
	return ParseProgram(Tokenize(src), p)
}

type progparser struct {
	tokens []Token
	i      int
	expr   ExpressionParser
}

func (p *progparser) current() Token {
	return tokenAt(p.tokens, p.i)
}

func (p *progparser) parse() ([]Definition, error) {
	var defs []Definition
	for {
		tok := p.current()
		var def Definition
		var err error
		switch tok.Kind {
		case TokenEOF:
			return defs, nil
		case TokenVar:
			p.i++
			def, err = p.parseVar()
		case TokenDef:
			p.i++
			def, err = p.parseDef()
		default:
			return nil, unexpected(tok, "'var' or 'def'")
		}
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
}

// requireToken consumes a token of the given kind.
func (p *progparser) requireToken(kind TokenKind, want string) (Token, error) {
	tok := p.current()
	if tok.Kind != kind {
		return Token{}, unexpected(tok, want)
	}
	p.i++
	return tok, nil
}

// Reads after "var".
func (p *progparser) parseVar() (Definition, error) {
	name, err := p.requireToken(TokenIdent, "variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.requireToken(TokenEquals, "'='"); err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &VarDef{Name: name.Text, Body: body}, nil
}

// Reads after "def".
func (p *progparser) parseDef() (Definition, error) {
	name, err := p.requireToken(TokenIdent, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.requireToken(TokenLParen, "'('"); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.requireToken(TokenEquals, "'='"); err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &FuncDef{Name: name.Text, Params: params, Body: body}, nil
}

// parseParams parses a parameter list following the open parenthesis,
// through the closing parenthesis.
func (p *progparser) parseParams() ([]string, error) {
	if p.current().Kind == TokenRParen {
		p.i++
		return nil, nil
	}
	var params []string
	for {
		tok, err := p.requireToken(TokenIdent, "parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, tok.Text)
		switch tok := p.current(); tok.Kind {
		case TokenComma:
			p.i++
		case TokenRParen:
			p.i++
			return params, nil
		default:
			return nil, unexpected(tok, "',' or ')'")
		}
	}
}

// parseBody parses an expression through its terminating semicolon.
func (p *progparser) parseBody() (Node, error) {
	body, err := p.expr.Parse(p.tokens[p.i:], StopOn(TokenSemicolon))
	if err != nil {
		return nil, err
	}
	// A semicolon can never appear inside an expression, so the expression
	// ends at the first one.
	for k := p.current().Kind; k != TokenSemicolon && k != TokenEOF; k = p.current().Kind {
		p.i++
	}
	if _, err := p.requireToken(TokenSemicolon, "';'"); err != nil {
		return nil, err
	}
	return body, nil
}
