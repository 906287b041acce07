package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes exprs as source text followed by a newline. With indent 0
// the script is a single line; otherwise each top-level expression is
// written on its own line.
func Format(w io.Writer, exprs []Expr, indent int) error {
	sep := "; "
	if indent > 0 {
		sep = ";\n"
	}

	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.Source()
	}

	_, err := fmt.Fprintln(w, strings.Join(parts, sep))

	return err
}

// FormatJSON writes the syntax tree of exprs as a JSON array.
func FormatJSON(_ context.Context, w io.Writer, exprs []Expr, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ToMaps(exprs), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ToMaps(exprs))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the syntax tree of exprs as a YAML sequence. With indent
// 0 the output uses flow style.
func FormatYAML(ctx context.Context, w io.Writer, exprs []Expr, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, ToMaps(exprs), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// Print writes an indented outline of the syntax tree, one node per line.
func Print(w io.Writer, exprs []Expr) error {
	for _, e := range exprs {
		for _, line := range Visit[[]string](e, outliner{}) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}

	return nil
}

// ToMaps converts each tree in exprs with [ToMap].
func ToMaps(exprs []Expr) []map[string]any {
	out := make([]map[string]any, len(exprs))
	for i, e := range exprs {
		out[i] = ToMap(e)
	}

	return out
}

// ToMap converts a tree to nested maps keyed by field name. Every node has a
// "node" kind and a "pos" of the form line:column.
func ToMap(e Expr) map[string]any {
	return Visit[map[string]any](e, mapper{})
}

type mapper struct{}

func (mapper) node(kind string, e Expr, kv ...any) map[string]any {
	m := map[string]any{"node": kind, "pos": e.Pos().String()}

	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}

	return m
}

func (m mapper) list(exprs []Expr) []map[string]any {
	out := make([]map[string]any, len(exprs))
	for i, e := range exprs {
		out[i] = Visit[map[string]any](e, m)
	}

	return out
}

func (m mapper) VisitNumber(e *NumberLit) map[string]any {
	return m.node("number", e, "value", e.Value)
}

func (m mapper) VisitString(e *StringLit) map[string]any {
	return m.node("string", e, "value", e.Value)
}

func (m mapper) VisitBool(e *BoolLit) map[string]any {
	return m.node("boolean", e, "value", e.Value)
}

func (m mapper) VisitIdent(e *Ident) map[string]any {
	return m.node("ident", e, "name", e.Name)
}

func (m mapper) VisitAccess(e *Access) map[string]any {
	return m.node("access", e, "object", Visit[map[string]any](e.Object, m),
		"name", e.Name)
}

func (m mapper) VisitCall(e *Call) map[string]any {
	return m.node("call", e, "callee", Visit[map[string]any](e.Callee, m),
		"args", m.list(e.Args))
}

func (m mapper) VisitUnary(e *Unary) map[string]any {
	return m.node("unary", e, "op", e.Op,
		"operand", Visit[map[string]any](e.Operand, m))
}

func (m mapper) VisitBinary(e *Binary) map[string]any {
	return m.node("binary", e, "op", e.Op,
		"left", Visit[map[string]any](e.Left, m),
		"right", Visit[map[string]any](e.Right, m))
}

func (m mapper) VisitTernary(e *Ternary) map[string]any {
	return m.node("ternary", e,
		"cond", Visit[map[string]any](e.Cond, m),
		"then", Visit[map[string]any](e.Then, m),
		"else", Visit[map[string]any](e.Else, m))
}

func (m mapper) VisitAssign(e *Assign) map[string]any {
	return m.node("assign", e,
		"target", Visit[map[string]any](e.Target, m),
		"value", Visit[map[string]any](e.Value, m))
}

func (m mapper) VisitBlock(e *Block) map[string]any {
	return m.node("block", e, "exprs", m.list(e.Exprs))
}

func (m mapper) VisitReturn(e *Return) map[string]any {
	return m.node("return", e, "value", Visit[map[string]any](e.Value, m))
}

// outliner renders a node as a header line followed by its children,
// indented two spaces per level.
type outliner struct{}

func (o outliner) node(header string, children ...Expr) []string {
	lines := []string{header}

	for _, c := range children {
		for _, line := range Visit[[]string](c, o) {
			lines = append(lines, "  "+line)
		}
	}

	return lines
}

func (o outliner) VisitNumber(e *NumberLit) []string {
	return o.node("Number " + formatNumber(e.Value))
}

func (o outliner) VisitString(e *StringLit) []string {
	return o.node("String " + sourceOf(e))
}

func (o outliner) VisitBool(e *BoolLit) []string {
	return o.node("Boolean " + sourceOf(e))
}

func (o outliner) VisitIdent(e *Ident) []string {
	return o.node("Ident " + e.Name)
}

func (o outliner) VisitAccess(e *Access) []string {
	return o.node("Access ."+e.Name, e.Object)
}

func (o outliner) VisitCall(e *Call) []string {
	return o.node("Call", append([]Expr{e.Callee}, e.Args...)...)
}

func (o outliner) VisitUnary(e *Unary) []string {
	return o.node("Unary "+e.Op, e.Operand)
}

func (o outliner) VisitBinary(e *Binary) []string {
	return o.node("Binary "+e.Op, e.Left, e.Right)
}

func (o outliner) VisitTernary(e *Ternary) []string {
	return o.node("Ternary", e.Cond, e.Then, e.Else)
}

func (o outliner) VisitAssign(e *Assign) []string {
	return o.node("Assign", e.Target, e.Value)
}

func (o outliner) VisitBlock(e *Block) []string {
	return o.node("Block", e.Exprs...)
}

func (o outliner) VisitReturn(e *Return) []string {
	return o.node("Return", e.Value)
}
