package lang

import (
	"strconv"
)

// Position is a location in source text.
// Line and Column are 1-based; Offset is the 0-based byte offset.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// TokenKind classifies a [Token].
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenNumber
	TokenString
	TokenIdent
	TokenKeyword
	TokenOperator
	TokenPunct
)

// String returns a human-readable name of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenIdent:
		return "identifier"
	case TokenKeyword:
		return "keyword"
	case TokenOperator:
		return "operator"
	case TokenPunct:
		return "punctuation"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Keywords.
const (
	keywordReturn = "return"
	keywordTrue   = "true"
	keywordFalse  = "false"
)

// Token is a lexical unit.
//
// Text holds the literal payload: the digits of a number, the unquoted
// contents of a string, or the spelling of an identifier, keyword, operator
// or punctuation mark.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position
}

// is reports whether t is an operator or punctuation mark spelled text.
func (t Token) is(text string) bool {
	return (t.Kind == TokenOperator || t.Kind == TokenPunct) && t.Text == text
}

// isKeyword reports whether t is the keyword spelled text.
func (t Token) isKeyword(text string) bool {
	return t.Kind == TokenKeyword && t.Text == text
}

// describe renders t for diagnostics.
func (t Token) describe() string {
	switch t.Kind {
	case TokenEOF:
		return t.Kind.String()
	case TokenString:
		return "string " + strconv.Quote(t.Text)
	case TokenNumber, TokenIdent, TokenKeyword:
		return t.Kind.String() + " " + strconv.Quote(t.Text)
	default:
		return strconv.Quote(t.Text)
	}
}
