package lang

import (
	"unicode/utf8"
)

// Lexer produces [Token]s from source text on demand.
type Lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

// NewLexer returns a lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{input: []byte(src), line: 1, col: 1}
}

// Tokenize returns every token of src, ending with a [TokenEOF] token.
// It stops at the first invalid character.
func Tokenize(src string) ([]Token, error) {
	lx := NewLexer(src)

	var toks []Token

	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)

		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

// twoCharOps are matched before any single-character operator.
var twoCharOps = [...]string{"==", "!=", "<=", ">=", "&&", "||", "??"}

// Next scans and returns the next token. At end of input it returns a
// [TokenEOF] token on every call.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	start := l.position()

	if l.eof() {
		return Token{Kind: TokenEOF, Pos: start}, nil
	}

	ch := l.peek()

	switch {
	case isDigit(ch):
		return l.scanNumber(start), nil

	case ch == '"' || ch == '\'':
		return l.scanString(start)

	case isIdentifierStart(ch):
		return l.scanIdentifier(start), nil
	}

	for _, op := range twoCharOps {
		if l.peekN(2) == op {
			l.advance()
			l.advance()

			return Token{Kind: TokenOperator, Text: op, Pos: start}, nil
		}
	}

	switch ch {
	case '+', '-', '*', '/', '=', '<', '>', '!', '?':
		l.advance()

		return Token{Kind: TokenOperator, Text: string(ch), Pos: start}, nil

	case ':', '.', ',', '(', ')', '{', '}', ';':
		l.advance()

		return Token{Kind: TokenPunct, Text: string(ch), Pos: start}, nil
	}

	return Token{}, &LexError{Pos: start, Char: ch}
}

func (l *Lexer) scanNumber(start Position) Token {
	begin := l.pos

	l.skipDigits()

	// A fraction needs at least one digit after the dot; otherwise the dot is
	// left for member access.
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		l.skipDigits()
	}

	if e := l.peek(); e == 'e' || e == 'E' {
		next := l.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
			l.advance()

			if next == '+' || next == '-' {
				l.advance()
			}

			l.skipDigits()
		}
	}

	return Token{Kind: TokenNumber, Text: string(l.input[begin:l.pos]), Pos: start}
}

func (l *Lexer) scanString(start Position) (Token, error) {
	quote := l.peek()
	l.advance()

	begin := l.pos

	for !l.eof() {
		if l.peek() == quote {
			text := string(l.input[begin:l.pos])
			l.advance()

			return Token{Kind: TokenString, Text: text, Pos: start}, nil
		}

		l.advance()
	}

	return Token{}, &LexError{Pos: start, Char: quote, Unterminated: true}
}

func (l *Lexer) scanIdentifier(start Position) Token {
	begin := l.pos

	for !l.eof() && isIdentifierContinue(l.peek()) {
		l.advance()
	}

	text := string(l.input[begin:l.pos])

	switch text {
	case keywordReturn, keywordTrue, keywordFalse:
		return Token{Kind: TokenKeyword, Text: text, Pos: start}
	}

	return Token{Kind: TokenIdent, Text: text, Pos: start}
}

func (l *Lexer) skipDigits() {
	for !l.eof() && isDigit(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.eof() {
		switch l.peek() {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the rune n runes ahead of the cursor, or 0 past the end.
func (l *Lexer) peekAt(n int) rune {
	pos := l.pos

	for range n {
		if pos >= len(l.input) {
			return 0
		}

		_, size := utf8.DecodeRune(l.input[pos:])
		pos += size
	}

	if pos >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[pos:])

	return r
}

func (l *Lexer) peekN(n int) string {
	if l.pos+n > len(l.input) {
		return string(l.input[l.pos:])
	}

	return string(l.input[l.pos : l.pos+n])
}

func (l *Lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentifierContinue(r rune) bool {
	return isIdentifierStart(r) || isDigit(r)
}
