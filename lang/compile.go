package lang

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
)

// Type is a declared parameter or return type of a [Signature].
type Type uint8

const (
	// TypeAny passes values through unchanged.
	TypeAny Type = iota
	TypeNumber
	TypeString
	TypeBoolean
	// TypeVoid discards the value; it is valid only as a return type.
	TypeVoid
)

// String returns the type's name as accepted by [ParseType].
func (t Type) String() string {
	switch t {
	case TypeAny:
		return "any"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	case TypeVoid:
		return "void"
	default:
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
}

// ParseType parses a type name. Accepted spellings are any, number (double,
// float), string, boolean (bool) and void (unit).
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "any", "value":
		return TypeAny, nil
	case "number", "double", "float":
		return TypeNumber, nil
	case "string":
		return TypeString, nil
	case "boolean", "bool":
		return TypeBoolean, nil
	case "void", "unit":
		return TypeVoid, nil
	}

	return TypeAny, ErrSignature.With(slog.String("type", s))
}

// Coerce converts v to t using the total conversions of [Value].
func Coerce(v Value, t Type) Value {
	switch t {
	case TypeNumber:
		return Number(v.AsDouble())
	case TypeString:
		return String(v.AsString())
	case TypeBoolean:
		return Boolean(v.AsBoolean())
	case TypeVoid:
		return Null()
	}

	return v
}

// Param is a named, typed parameter.
type Param struct {
	Name string
	Type Type
}

// Signature declares the ordered parameters and the return type of a
// [CompiledFunction].
type Signature struct {
	Params []Param
	Return Type
}

// Sig is shorthand for a signature whose parameters are all numbers.
func Sig(ret Type, names ...string) Signature {
	params := make([]Param, len(names))
	for i, name := range names {
		params[i] = Param{Name: name, Type: TypeNumber}
	}

	return Signature{Params: params, Return: ret}
}

// String renders the signature in the syntax read by [ParseSignature].
func (s Signature) String() string {
	var b strings.Builder

	b.WriteByte('(')

	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(p.Type.String())
	}

	b.WriteString(") -> ")
	b.WriteString(s.Return.String())

	return b.String()
}

// Validate reports an error unless every parameter has a distinct
// identifier name and a non-void type.
func (s Signature) Validate() error {
	seen := make(map[string]struct{}, len(s.Params))

	for i, p := range s.Params {
		attrs := []slog.Attr{slog.Int("param", i), slog.String("name", p.Name)}

		if !isIdentifier(p.Name) {
			return ErrSignature.With(attrs...).
				Wrap(NewError("parameter name is not an identifier"))
		}

		if _, dup := seen[p.Name]; dup {
			return ErrSignature.With(attrs...).
				Wrap(NewError("duplicate parameter name"))
		}

		if p.Type == TypeVoid {
			return ErrSignature.With(attrs...).
				Wrap(NewError("parameter cannot be void"))
		}

		seen[p.Name] = struct{}{}
	}

	return nil
}

// ParseSignature parses a signature written as
//
//	(name[: type], ...) [-> type]
//
// Omitted types are any. For example "(a: number, b: number) -> number".
func ParseSignature(src string) (Signature, error) {
	var sig Signature

	toks, err := Tokenize(src)
	if err != nil {
		return sig, ErrSignature.With(slog.String("signature", src)).Wrap(err)
	}

	i := 0
	fail := func(expected string) (Signature, error) {
		return Signature{}, ErrSignature.With(slog.String("signature", src)).
			Wrap(&ParseError{
				Pos:      toks[i].Pos,
				Expected: expected,
				Found:    toks[i].describe(),
				Source:   src,
			})
	}

	typeAt := func() (Type, bool) {
		if toks[i].Kind != TokenIdent {
			return TypeAny, false
		}

		t, err := ParseType(toks[i].Text)

		return t, err == nil
	}

	if !toks[i].is("(") {
		return fail(strconv.Quote("("))
	}

	i++

	for !toks[i].is(")") {
		if len(sig.Params) > 0 {
			if !toks[i].is(",") {
				return fail(`"," or ")"`)
			}

			i++
		}

		if toks[i].Kind != TokenIdent {
			return fail("parameter name")
		}

		p := Param{Name: toks[i].Text}
		i++

		if toks[i].is(":") {
			i++

			t, ok := typeAt()
			if !ok {
				return fail("type name")
			}

			p.Type = t
			i++
		}

		sig.Params = append(sig.Params, p)
	}

	i++

	if toks[i].is("-") && toks[i+1].is(">") {
		i += 2

		t, ok := typeAt()
		if !ok {
			return fail("return type")
		}

		sig.Return = t
		i++
	}

	if toks[i].Kind != TokenEOF {
		return fail("end of signature")
	}

	if err := sig.Validate(); err != nil {
		return Signature{}, err
	}

	return sig, nil
}

func isIdentifier(s string) bool {
	if s == "" || !isIdentifierStart(rune(s[0])) {
		return false
	}

	for _, r := range s[1:] {
		if !isIdentifierContinue(r) {
			return false
		}
	}

	switch s {
	case keywordReturn, keywordTrue, keywordFalse:
		return false
	}

	return true
}

// CompiledFunction is a parsed script bound to a [Signature].
//
// Calls are independent of each other: every call gets a fresh scope over
// the engine's globals holding the declared parameters. The engine's temp
// storage is the exception; values written to temp by one call are visible
// to later calls on the same engine.
type CompiledFunction struct {
	engine *Engine
	exprs  []Expr
	sig    Signature
}

// Signature returns the declared signature.
func (f *CompiledFunction) Signature() Signature { return f.sig }

// Exprs returns the script body. The slice must not be modified.
func (f *CompiledFunction) Exprs() []Expr { return f.exprs }

// Call invokes the function with positional arguments.
//
// A wrong argument count fails with [*ArityError] before anything is
// evaluated. Each argument is coerced to its parameter type and the result
// to the return type.
func (f *CompiledFunction) Call(ctx context.Context, args ...Value) (Value, error) {
	return f.CallEntity(ctx, nil, args...)
}

// CallEntity is [CompiledFunction.Call] with a bound host entity.
func (f *CompiledFunction) CallEntity(
	ctx context.Context,
	entity any,
	args ...Value,
) (Value, error) {
	if len(args) != len(f.sig.Params) {
		return Null(), &ArityError{Expected: len(f.sig.Params), Given: len(args)}
	}

	ev := f.engine.evaluator(ctx, entity, nil)

	for i, p := range f.sig.Params {
		ev.Scope().Define(p.Name, Coerce(args[i], p.Type))
	}

	result, err := ev.EvalAll(f.exprs)
	if err != nil {
		return Null(), err
	}

	return Coerce(result, f.sig.Return), nil
}

// Invoke converts host arguments with [ValueOf], calls the function and
// converts the result with [Value.Any].
func (f *CompiledFunction) Invoke(ctx context.Context, args ...any) (any, error) {
	vals := make([]Value, len(args))
	for i, arg := range args {
		vals[i] = ValueOf(arg)
	}

	v, err := f.Call(ctx, vals...)
	if err != nil {
		return nil, err
	}

	return v.Any(), nil
}

// Function exposes f as a callable value for other scripts. Its arguments are
// evaluated eagerly in the caller, and the caller's entity is bound.
func (f *CompiledFunction) Function() Function {
	return FunctionFunc(func(ev *Evaluator, args []Argument) (Value, error) {
		vals, err := EvalArgs(args)
		if err != nil {
			return Null(), err
		}

		return f.CallEntity(ev.Context(), ev.Entity(), vals...)
	})
}
