package minilang

// ParseOption is an option for parsing expressions.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type stopopt uint32

// parsectx holds the options of one parse.
type parsectx struct {
	// stop is the set of token kinds, as bits, which end an expression the
	// same way EOF does.
	stop uint32
}

func newParsectx(opts []ParseOption) parsectx {
	var p parsectx
	for _, opt := range opts {
		if opt != nil {
			p = opt.parseOption(p)
		}
	}
	return p
}

// ends returns whether a token of kind k ends the expression.
func (p *parsectx) ends(k TokenKind) bool {
	return k == TokenEOF || p.stop&(1<<uint(k)) != 0
}

// StopOn tells the parser to treat tokens of the given kinds as the end of
// the expression, as if they were EOF. The parser does not consume the
// stopping token. Only kinds which can never continue an expression are
// allowed: TokenSemicolon, TokenEquals, TokenVar, TokenDef, and TokenOther.
// Any other kind panics.
//
// StopOn overrides the effect of any previous StopOn in the parsing options.
// With no arguments, StopOn produces the default behavior, which is to parse
// to EOF.
func StopOn(kinds ...TokenKind) ParseOption {
	var o stopopt
	for _, k := range kinds {
		switch k {
		case TokenSemicolon, TokenEquals, TokenVar, TokenDef, TokenOther:
			o |= 1 << uint(k)
		case TokenEOF:
			// Always stops.
		default:
			panic("minilang: cannot stop on " + k.String())
		}
	}
	return o
}

func (o stopopt) parseOption(p parsectx) parsectx {
	p.stop = uint32(o)
	return p
}
