package lang

import (
	"errors"
	"strconv"
)

// DefaultMaxDepth is the default limit on syntactic nesting (parentheses,
// blocks, unary chains, right-nested assignments).
const DefaultMaxDepth = 512

// Parse parses src as a script body using [DefaultMaxDepth].
//
// The first lexical or syntax error aborts the parse; no partial tree is
// returned. Errors are [*LexError] or [*ParseError] with the source attached
// for diagnostics.
func Parse(src string) ([]Expr, error) {
	return parse(src, DefaultMaxDepth)
}

func parse(src string, maxDepth int) ([]Expr, error) {
	p := &parser{lexer: NewLexer(src), source: src, maxDepth: maxDepth}

	if err := p.next(); err != nil {
		return nil, err
	}

	exprs, err := p.parseScript(false)
	if err != nil {
		return nil, err
	}

	return exprs, nil
}

// parser holds the parser state.
type parser struct {
	lexer    *Lexer
	tok      Token // lookahead
	source   string
	depth    int
	maxDepth int
}

// next advances the lookahead by one token.
func (p *parser) next() error {
	tok, err := p.lexer.Next()
	if err != nil {
		var lexErr *LexError
		if errors.As(err, &lexErr) {
			lexErr.Source = p.source
		}

		return err
	}

	p.tok = tok

	return nil
}

func (p *parser) fail(expected string) error {
	return &ParseError{
		Pos:      p.tok.Pos,
		Expected: expected,
		Found:    p.tok.describe(),
		Source:   p.source,
	}
}

// expect consumes the operator or punctuation mark text.
func (p *parser) expect(text string) error {
	if !p.tok.is(text) {
		return p.fail(strconv.Quote(text))
	}

	return p.next()
}

// enter guards a recursive descent step against unbounded nesting.
func (p *parser) enter() error {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return p.fail("at most " + strconv.Itoa(p.maxDepth) + " levels of nesting")
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// parseScript parses expressions separated by ';' up to end of input, or up
// to the closing brace of a block. The body may be empty.
func (p *parser) parseScript(inBlock bool) ([]Expr, error) {
	exprs := make([]Expr, 0, 1)

	atEnd := func() bool {
		if inBlock {
			return p.tok.is("}")
		}

		return p.tok.Kind == TokenEOF
	}

	// An empty body may still carry its trailing ';'.
	if p.tok.is(";") {
		if err := p.next(); err != nil {
			return nil, err
		}

		if !atEnd() {
			if inBlock {
				return nil, p.fail(strconv.Quote("}"))
			}

			return nil, p.fail("end of input")
		}

		return exprs, nil
	}

	for !atEnd() {
		if inBlock && p.tok.Kind == TokenEOF {
			return nil, p.fail(strconv.Quote("}"))
		}

		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, e)

		if p.tok.is(";") {
			if err := p.next(); err != nil {
				return nil, err
			}

			continue
		}

		if !atEnd() {
			if inBlock {
				return nil, p.fail(`";" or "}"`)
			}

			return nil, p.fail(`";" or end of input`)
		}
	}

	return exprs, nil
}

func (p *parser) parseExpr() (Expr, error) {
	return p.parseAssignment()
}

func (p *parser) parseAssignment() (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	target, err := p.parseTernary()
	if err != nil {
		return nil, err
	}

	if !p.tok.is("=") {
		return target, nil
	}

	switch target.(type) {
	case *Ident, *Access:
	default:
		return nil, &ParseError{
			Pos:      target.Pos(),
			Expected: "identifier or member before \"=\"",
			Found:    strconv.Quote(target.Source()),
			Source:   p.source,
		}
	}

	if err := p.next(); err != nil {
		return nil, err
	}

	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}

	return &Assign{At: target.Pos(), Target: target, Value: value}, nil
}

func (p *parser) parseTernary() (Expr, error) {
	cond, err := p.parseBinary(precCoalesce)
	if err != nil {
		return nil, err
	}

	if !p.tok.is("?") {
		return cond, nil
	}

	if err := p.next(); err != nil {
		return nil, err
	}

	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expect(":"); err != nil {
		return nil, err
	}

	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &Ternary{At: cond.Pos(), Cond: cond, Then: then, Else: els}, nil
}

// parseBinary parses the left-associative levels from prec up to
// multiplicative.
func (p *parser) parseBinary(prec int) (Expr, error) {
	if prec > precMultiplicative {
		return p.parseUnary()
	}

	left, err := p.parseBinary(prec + 1)
	if err != nil {
		return nil, err
	}

	for p.tok.Kind == TokenOperator && binaryPrec(p.tok.Text) == prec {
		op := p.tok.Text

		if err := p.next(); err != nil {
			return nil, err
		}

		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}

		left = &Binary{At: left.Pos(), Op: op, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if !p.tok.is("-") && !p.tok.is("!") {
		return p.parsePostfix()
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	op := p.tok

	if err := p.next(); err != nil {
		return nil, err
	}

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return &Unary{At: op.Pos, Op: op.Text, Operand: operand}, nil
}

func (p *parser) parsePostfix() (Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.tok.is("."):
			if err := p.next(); err != nil {
				return nil, err
			}

			if p.tok.Kind != TokenIdent {
				return nil, p.fail("member name")
			}

			e = &Access{At: e.Pos(), Object: e, Name: p.tok.Text}

			if err := p.next(); err != nil {
				return nil, err
			}

		case p.tok.is("("):
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}

			e = &Call{At: e.Pos(), Callee: e, Args: args}

		default:
			return e, nil
		}
	}
}

// parseArgs parses a parenthesized, comma-separated argument list.
func (p *parser) parseArgs() ([]Expr, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}

	var args []Expr

	if p.tok.is(")") {
		return args, p.next()
	}

	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if p.tok.is(",") {
			if err := p.next(); err != nil {
				return nil, err
			}

			continue
		}

		if !p.tok.is(")") {
			return nil, p.fail(`"," or ")"`)
		}

		return args, p.next()
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.tok

	switch {
	case tok.Kind == TokenNumber:
		// The lexer guarantees the syntax; out-of-range literals become ±Inf.
		n, _ := strconv.ParseFloat(tok.Text, 64)

		return &NumberLit{At: tok.Pos, Value: n}, p.next()

	case tok.Kind == TokenString:
		return &StringLit{At: tok.Pos, Value: tok.Text}, p.next()

	case tok.Kind == TokenIdent:
		return &Ident{At: tok.Pos, Name: tok.Text}, p.next()

	case tok.isKeyword(keywordTrue), tok.isKeyword(keywordFalse):
		return &BoolLit{At: tok.Pos, Value: tok.Text == keywordTrue}, p.next()

	case tok.isKeyword(keywordReturn):
		if err := p.next(); err != nil {
			return nil, err
		}

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		return &Return{At: tok.Pos, Value: value}, nil

	case tok.is("("):
		if err := p.next(); err != nil {
			return nil, err
		}

		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		return e, p.expect(")")

	case tok.is("{"):
		if err := p.next(); err != nil {
			return nil, err
		}

		exprs, err := p.parseScript(true)
		if err != nil {
			return nil, err
		}

		return &Block{At: tok.Pos, Exprs: exprs}, p.expect("}")
	}

	return nil, p.fail("expression")
}
