package minilang

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Location is a position in source text. Lines and columns count from 1.
// Columns count runes, not bytes.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
}

// Token is a single lexeme of source text.
type Token struct {
	// Kind is the kind of the token.
	Kind TokenKind
	// Text is the lexeme as it appears in the source. It is empty only for
	// TokenEOF.
	Text string
	// Num is the value of a TokenNumber.
	Num float64
	// Loc is the location of the first rune of the token.
	Loc Location
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + t.Loc.String()
}

// describe names the token for error messages.
func (t Token) describe() string {
	switch t.Kind {
	case TokenEOF:
		return "EOF"
	case TokenNumber:
		return "number " + t.Text
	case TokenIdent:
		return "identifier " + t.Text
	case TokenMalformed:
		return "malformed number " + t.Text
	case TokenOther:
		return strconv.Quote(t.Text)
	default:
		return "'" + t.Text + "'"
	}
}

// TokenKind is the kind of a token.
type TokenKind int8

const (
	// TokenEOF terminates every token stream.
	TokenEOF TokenKind = iota
	// TokenNumber is a run of digits and decimal points that parses as a
	// float64.
	TokenNumber
	// TokenIdent is a variable or function name.
	TokenIdent
	// TokenVar and TokenDef are the keywords var and def.
	TokenVar
	TokenDef

	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenSlash     // /
	TokenPercent   // %
	TokenCaret     // ^
	TokenLParen    // (
	TokenRParen    // )
	TokenComma     // ,
	TokenSemicolon // ;
	TokenEquals    // =

	// TokenMalformed is a run of digits and decimal points that is not a
	// valid number, e.g. 1.2.3.
	TokenMalformed
	// TokenOther is any other single character. The parsers reject it.
	TokenOther
)

var tokenKindNames = [...]string{
	TokenEOF:       "EOF",
	TokenNumber:    "Number",
	TokenIdent:     "Ident",
	TokenVar:       "Var",
	TokenDef:       "Def",
	TokenPlus:      "Plus",
	TokenMinus:     "Minus",
	TokenStar:      "Star",
	TokenSlash:     "Slash",
	TokenPercent:   "Percent",
	TokenCaret:     "Caret",
	TokenLParen:    "LParen",
	TokenRParen:    "RParen",
	TokenComma:     "Comma",
	TokenSemicolon: "Semicolon",
	TokenEquals:    "Equals",
	TokenMalformed: "Malformed",
	TokenOther:     "Other",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// Operators contains the characters which lex as operator tokens. The token
// kind of the character at byte position k is opkinds[k].
const Operators = "+-*/%^(),;="

var opkinds = [len(Operators)]TokenKind{
	TokenPlus,
	TokenMinus,
	TokenStar,
	TokenSlash,
	TokenPercent,
	TokenCaret,
	TokenLParen,
	TokenRParen,
	TokenComma,
	TokenSemicolon,
	TokenEquals,
}

// Tokenize scans the entire source. It always succeeds: characters which
// start no other token become single-character tokens, which the parsers
// reject where they are not allowed. The result always ends with exactly one
// TokenEOF located just after the last character of the source.
func Tokenize(src string) []Token {
	l := lexer{src: src, loc: Location{Line: 1, Column: 1}}
	toks := make([]Token, 0, len(src)/2+1)
	for {
		tok := l.next()
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks
		}
	}
}

type lexer struct {
	src string
	off int
	loc Location

	// prevoff and prevloc are the state before the last readRune.
	prevoff int
	prevloc Location
}

// readRune reads a rune from the source and updates the lexer's position
// info. The second result is false at the end of the source.
func (l *lexer) readRune() (rune, bool) {
	if l.off >= len(l.src) {
		return 0, false
	}
	r, sz := utf8.DecodeRuneInString(l.src[l.off:])
	l.prevoff, l.prevloc = l.off, l.loc
	l.off += sz
	if r == '\n' {
		l.loc.Line++
		l.loc.Column = 1
	} else {
		l.loc.Column++
	}
	return r, true
}

// unreadRune unreads the last rune read. It must be called at most once per
// readRune.
func (l *lexer) unreadRune() {
	l.off, l.loc = l.prevoff, l.prevloc
}

// next scans the next token from the source.
func (l *lexer) next() Token {
	for {
		start, loc := l.off, l.loc
		r, ok := l.readRune()
		if !ok {
			return Token{Kind: TokenEOF, Loc: loc}
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case isIdentStart(r):
			l.scanWhile(isIdentRune)
			text := l.src[start:l.off]
			return Token{Kind: keyword(text), Text: text, Loc: loc}
		case isDigit(r):
			l.scanWhile(isNumRune)
			return number(l.src[start:l.off], loc)
		default:
			// Slice the source rather than converting r so that invalid
			// UTF-8 passes through unchanged.
			tok := Token{Kind: TokenOther, Text: l.src[start:l.off], Loc: loc}
			if k := strings.IndexRune(Operators, r); k >= 0 && r != utf8.RuneError {
				tok.Kind = opkinds[k]
			}
			return tok
		}
	}
}

// scanWhile consumes a maximal run of runes satisfying f.
func (l *lexer) scanWhile(f func(rune) bool) {
	for {
		r, ok := l.readRune()
		if !ok {
			return
		}
		if !f(r) {
			l.unreadRune()
			return
		}
	}
}

func keyword(text string) TokenKind {
	switch text {
	case "var":
		return TokenVar
	case "def":
		return TokenDef
	default:
		return TokenIdent
	}
}

// number creates a number token from a run of digits and dots. Runs with more
// than one dot become TokenMalformed. Runs too large for a float64 are +Inf.
func number(text string, loc Location) Token {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Token{Kind: TokenMalformed, Text: text, Loc: loc}
	}
	return Token{Kind: TokenNumber, Text: text, Num: v, Loc: loc}
}

func isIdentStart(r rune) bool {
	return r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isIdentRune(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isNumRune(r rune) bool {
	return isDigit(r) || r == '.'
}
