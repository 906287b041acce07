package lang

import (
	"math"
	"strconv"
	"strings"
)

// Expr is a node of the abstract syntax tree.
//
// The set of node types is closed: [NumberLit], [StringLit], [BoolLit],
// [Ident], [Access], [Call], [Unary], [Binary], [Ternary], [Assign], [Block]
// and [Return]. Nodes returned by the parser must not be modified; a parsed
// tree may be shared freely between goroutines and compiled functions.
type Expr interface {
	// Pos returns the position of the node's first token.
	Pos() Position
	// Source renders the node as source text that parses back to an equal
	// tree.
	Source() string

	expr()
}

// NumberLit is a numeric literal.
type NumberLit struct {
	At    Position
	Value float64
}

// StringLit is a string literal. Value holds the text between the quotes.
// Quotes cannot be escaped, so a Value holding both ' and " has no source
// form; see [Writable].
type StringLit struct {
	At    Position
	Value string
}

// BoolLit is the keyword true or false.
type BoolLit struct {
	At    Position
	Value bool
}

// Ident is a bare name looked up in scope.
type Ident struct {
	At   Position
	Name string
}

// Access is member access: Object.Name.
type Access struct {
	At     Position
	Object Expr
	Name   string
}

// Call is a call of Callee with lazily evaluated Args.
type Call struct {
	At     Position
	Callee Expr
	Args   []Expr
}

// Unary is a prefix operation: - or !.
type Unary struct {
	At      Position
	Op      string
	Operand Expr
}

// Binary is an infix operation.
type Binary struct {
	At    Position
	Op    string
	Left  Expr
	Right Expr
}

// Ternary is Cond ? Then : Else.
type Ternary struct {
	At   Position
	Cond Expr
	Then Expr
	Else Expr
}

// Assign stores Value under Target, which is an [*Ident] or an [*Access].
type Assign struct {
	At     Position
	Target Expr
	Value  Expr
}

// Block is a braced sequence of expressions.
type Block struct {
	At    Position
	Exprs []Expr
}

// Return sets the evaluator's return register.
type Return struct {
	At    Position
	Value Expr
}

func (e *NumberLit) Pos() Position { return e.At }
func (e *StringLit) Pos() Position { return e.At }
func (e *BoolLit) Pos() Position   { return e.At }
func (e *Ident) Pos() Position     { return e.At }
func (e *Access) Pos() Position    { return e.At }
func (e *Call) Pos() Position      { return e.At }
func (e *Unary) Pos() Position     { return e.At }
func (e *Binary) Pos() Position    { return e.At }
func (e *Ternary) Pos() Position   { return e.At }
func (e *Assign) Pos() Position    { return e.At }
func (e *Block) Pos() Position     { return e.At }
func (e *Return) Pos() Position    { return e.At }

func (e *NumberLit) Source() string { return sourceOf(e) }
func (e *StringLit) Source() string { return sourceOf(e) }
func (e *BoolLit) Source() string   { return sourceOf(e) }
func (e *Ident) Source() string     { return sourceOf(e) }
func (e *Access) Source() string    { return sourceOf(e) }
func (e *Call) Source() string      { return sourceOf(e) }
func (e *Unary) Source() string     { return sourceOf(e) }
func (e *Binary) Source() string    { return sourceOf(e) }
func (e *Ternary) Source() string   { return sourceOf(e) }
func (e *Assign) Source() string    { return sourceOf(e) }
func (e *Block) Source() string     { return sourceOf(e) }
func (e *Return) Source() string    { return sourceOf(e) }

func (*NumberLit) expr() {}
func (*StringLit) expr() {}
func (*BoolLit) expr()   {}
func (*Ident) expr()     {}
func (*Access) expr()    {}
func (*Call) expr()      {}
func (*Unary) expr()     {}
func (*Binary) expr()    {}
func (*Ternary) expr()   {}
func (*Assign) expr()    {}
func (*Block) expr()     {}
func (*Return) expr()    {}

// Visitor receives one method call per node type from [Visit].
type Visitor[R any] interface {
	VisitNumber(e *NumberLit) R
	VisitString(e *StringLit) R
	VisitBool(e *BoolLit) R
	VisitIdent(e *Ident) R
	VisitAccess(e *Access) R
	VisitCall(e *Call) R
	VisitUnary(e *Unary) R
	VisitBinary(e *Binary) R
	VisitTernary(e *Ternary) R
	VisitAssign(e *Assign) R
	VisitBlock(e *Block) R
	VisitReturn(e *Return) R
}

// Visit dispatches e to the matching method of v.
// A nil e yields the zero value of R.
func Visit[R any](e Expr, v Visitor[R]) R {
	switch e := e.(type) {
	case *NumberLit:
		return v.VisitNumber(e)
	case *StringLit:
		return v.VisitString(e)
	case *BoolLit:
		return v.VisitBool(e)
	case *Ident:
		return v.VisitIdent(e)
	case *Access:
		return v.VisitAccess(e)
	case *Call:
		return v.VisitCall(e)
	case *Unary:
		return v.VisitUnary(e)
	case *Binary:
		return v.VisitBinary(e)
	case *Ternary:
		return v.VisitTernary(e)
	case *Assign:
		return v.VisitAssign(e)
	case *Block:
		return v.VisitBlock(e)
	case *Return:
		return v.VisitReturn(e)
	}

	var zero R

	return zero
}

// Source renders a script body: each expression separated by "; ".
func Source(exprs []Expr) string {
	var b strings.Builder

	writeList(&b, exprs)

	return b.String()
}

// Equal reports whether a and b are structurally equal trees.
// Positions are ignored. A negative [NumberLit] is written as a negation, so
// it equals the negation of the positive literal.
func Equal(a, b Expr) bool {
	if x, ok := numberValue(a); ok {
		if y, ok := numberValue(b); ok {
			return x == y
		}
	}

	switch a := a.(type) {
	case nil:
		return b == nil
	case *NumberLit:
		b, ok := b.(*NumberLit)
		return ok && a.Value == b.Value
	case *StringLit:
		b, ok := b.(*StringLit)
		return ok && a.Value == b.Value
	case *BoolLit:
		b, ok := b.(*BoolLit)
		return ok && a.Value == b.Value
	case *Ident:
		b, ok := b.(*Ident)
		return ok && a.Name == b.Name
	case *Access:
		b, ok := b.(*Access)
		return ok && a.Name == b.Name && Equal(a.Object, b.Object)
	case *Call:
		b, ok := b.(*Call)
		return ok && Equal(a.Callee, b.Callee) && EqualAll(a.Args, b.Args)
	case *Unary:
		b, ok := b.(*Unary)
		return ok && a.Op == b.Op && Equal(a.Operand, b.Operand)
	case *Binary:
		b, ok := b.(*Binary)
		return ok && a.Op == b.Op && Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
	case *Ternary:
		b, ok := b.(*Ternary)
		return ok && Equal(a.Cond, b.Cond) && Equal(a.Then, b.Then) &&
			Equal(a.Else, b.Else)
	case *Assign:
		b, ok := b.(*Assign)
		return ok && Equal(a.Target, b.Target) && Equal(a.Value, b.Value)
	case *Block:
		b, ok := b.(*Block)
		return ok && EqualAll(a.Exprs, b.Exprs)
	case *Return:
		b, ok := b.(*Return)
		return ok && Equal(a.Value, b.Value)
	}

	return false
}

// EqualAll reports whether a and b hold pairwise equal trees.
func EqualAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}

// Writable reports whether the source text of e parses back to e, which
// holds unless some string literal in e contains both quote characters.
func Writable(e Expr) bool {
	switch e := e.(type) {
	case *StringLit:
		return !strings.Contains(e.Value, `"`) || !strings.Contains(e.Value, "'")
	case *Access:
		return Writable(e.Object)
	case *Call:
		return Writable(e.Callee) && writableAll(e.Args)
	case *Unary:
		return Writable(e.Operand)
	case *Binary:
		return Writable(e.Left) && Writable(e.Right)
	case *Ternary:
		return Writable(e.Cond) && Writable(e.Then) && Writable(e.Else)
	case *Assign:
		return Writable(e.Target) && Writable(e.Value)
	case *Block:
		return writableAll(e.Exprs)
	case *Return:
		return Writable(e.Value)
	}

	return true
}

func writableAll(exprs []Expr) bool {
	for _, e := range exprs {
		if !Writable(e) {
			return false
		}
	}

	return true
}

// numberValue reports the value of a number literal or a negated number
// literal.
func numberValue(e Expr) (float64, bool) {
	switch e := e.(type) {
	case *NumberLit:
		return e.Value, true
	case *Unary:
		if n, ok := e.Operand.(*NumberLit); ok && e.Op == "-" {
			return -n.Value, true
		}
	}

	return 0, false
}

// Binding strength of each grammar level, lowest first.
const (
	precAssign = iota + 1
	precTernary
	precCoalesce
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
	precPrimary
)

func binaryPrec(op string) int {
	switch op {
	case "??":
		return precCoalesce
	case "||":
		return precOr
	case "&&":
		return precAnd
	case "==", "!=":
		return precEquality
	case "<", "<=", ">", ">=":
		return precRelational
	case "+", "-":
		return precAdditive
	case "*", "/":
		return precMultiplicative
	}

	return 0
}

func exprPrec(e Expr) int {
	switch e := e.(type) {
	case *NumberLit:
		if math.Signbit(e.Value) {
			return precUnary
		}

		return precPrimary
	case *StringLit, *BoolLit, *Ident, *Block:
		return precPrimary
	case *Access, *Call:
		return precPostfix
	case *Unary:
		return precUnary
	case *Binary:
		return binaryPrec(e.Op)
	case *Ternary:
		return precTernary
	}

	// Assign and Return extend as far right as possible.
	return precAssign
}

func sourceOf(e Expr) string {
	var b strings.Builder

	writeSource(&b, e)

	return b.String()
}

// writeOperand writes e, parenthesized when it binds looser than min.
func writeOperand(b *strings.Builder, e Expr, minPrec int) {
	if exprPrec(e) < minPrec {
		b.WriteByte('(')
		writeSource(b, e)
		b.WriteByte(')')

		return
	}

	writeSource(b, e)
}

func writeList(b *strings.Builder, exprs []Expr) {
	for i, e := range exprs {
		if i > 0 {
			b.WriteString("; ")
		}

		writeSource(b, e)
	}
}

func writeSource(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *NumberLit:
		if math.IsInf(e.Value, 0) {
			// Literals that overflow parse to +Inf; write one that does again.
			if e.Value < 0 {
				b.WriteByte('-')
			}

			b.WriteString(infLiteral)

			break
		}

		b.WriteString(formatNumber(e.Value))

	case *StringLit:
		quote := byte('"')
		if strings.IndexByte(e.Value, '"') >= 0 {
			quote = '\''
		}

		b.WriteByte(quote)
		b.WriteString(e.Value)
		b.WriteByte(quote)

	case *BoolLit:
		b.WriteString(strconv.FormatBool(e.Value))

	case *Ident:
		b.WriteString(e.Name)

	case *Access:
		writeOperand(b, e.Object, precPostfix)
		b.WriteByte('.')
		b.WriteString(e.Name)

	case *Call:
		writeOperand(b, e.Callee, precPostfix)
		b.WriteByte('(')

		for i, arg := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}

			writeSource(b, arg)
		}

		b.WriteByte(')')

	case *Unary:
		b.WriteString(e.Op)
		writeOperand(b, e.Operand, precUnary)

	case *Binary:
		prec := binaryPrec(e.Op)
		writeOperand(b, e.Left, prec)
		b.WriteByte(' ')
		b.WriteString(e.Op)
		b.WriteByte(' ')
		// Left-associative: an equal-precedence right operand needs parens.
		writeOperand(b, e.Right, prec+1)

	case *Ternary:
		writeOperand(b, e.Cond, precTernary+1)
		b.WriteString(" ? ")
		writeSource(b, e.Then)
		b.WriteString(" : ")
		writeSource(b, e.Else)

	case *Assign:
		writeSource(b, e.Target)
		b.WriteString(" = ")
		writeSource(b, e.Value)

	case *Block:
		b.WriteByte('{')
		writeList(b, e.Exprs)
		b.WriteByte('}')

	case *Return:
		b.WriteString(keywordReturn)
		b.WriteByte(' ')
		writeSource(b, e.Value)
	}
}

const infLiteral = "1e999"

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
