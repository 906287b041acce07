package lang

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", ""},
		{"number", "1.50", "1.5"},
		{"exponent", "2e3", "2000"},
		{"overflow", "1e999", "1e999"},
		{"single quoted", "'abc'", `"abc"`},
		{"embedded double quote", `'say "hi"'`, `'say "hi"'`},
		{"precedence", "1+2*3", "1 + 2 * 3"},
		{"grouping kept", "(1+2)*3", "(1 + 2) * 3"},
		{"redundant parens dropped", "((a))", "a"},
		{"left associative", "a-b-c", "a - b - c"},
		{"right operand grouped", "a-(b-c)", "a - (b - c)"},
		{"unary", "-x*!y", "-x * !y"},
		{"unary of binary", "-(a+b)", "-(a + b)"},
		{"double negation", "- -x", "--x"},
		{"logical", "a&&b||c", "a && b || c"},
		{"coalesce", "a??b", "a ?? b"},
		{"ternary", "a>1?'x':'y'", `a > 1 ? "x" : "y"`},
		{"nested ternary", "a?b:c?d:e", "a ? b : c ? d : e"},
		{"ternary condition grouped", "(a?b:c)?d:e", "(a ? b : c) ? d : e"},
		{"assignment chain", "a=b=1", "a = b = 1"},
		{"member assignment", "temp.x=1", "temp.x = 1"},
		{"assignment operand grouped", "(a=1)+2", "(a = 1) + 2"},
		{"call", "math.max(1,2)", "math.max(1, 2)"},
		{"call no args", "f()", "f()"},
		{"call chain", "f(1)(2).x", "f(1)(2).x"},
		{"number member", "1.x", "1.x"},
		{"block", "{a=1;b}", "{a = 1; b}"},
		{"empty block", "{}", "{}"},
		{"lone separator", ";", ""},
		{"empty block separator", "{;}", "{}"},
		{"return", "return a+1", "return a + 1"},
		{"statements", "a=1;b=2;", "a = 1; b = 2"},
		{"booleans", "true==!false", "true == !false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exprs, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.src, err)
			}

			got := Source(exprs)
			if got != tt.want {
				t.Errorf("Source(Parse(%q)) = %q, want %q", tt.src, got, tt.want)
			}

			again, err := Parse(got)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", got, err)
			}

			if !EqualAll(exprs, again) {
				t.Errorf("Parse(%q) is not equal to Parse(%q)", got, tt.src)
			}
		})
	}
}

func TestParseTree(t *testing.T) {
	exprs, err := Parse("x = a.b(1, 'two') ?? -3")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := &Assign{
		Target: &Ident{Name: "x"},
		Value: &Binary{
			Op: "??",
			Left: &Call{
				Callee: &Access{Object: &Ident{Name: "a"}, Name: "b"},
				Args:   []Expr{&NumberLit{Value: 1}, &StringLit{Value: "two"}},
			},
			Right: &Unary{Op: "-", Operand: &NumberLit{Value: 3}},
		},
	}

	if len(exprs) != 1 || !Equal(exprs[0], want) {
		t.Errorf("Parse() = %s, want %s", Source(exprs), want.Source())
	}
}

func TestParsePositions(t *testing.T) {
	exprs, err := Parse("a;\n  f(x) + -y")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	bin, ok := exprs[1].(*Binary)
	if !ok {
		t.Fatalf("exprs[1] is %T, want *Binary", exprs[1])
	}

	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"binary takes left operand", bin, "2:3"},
		{"call takes callee", bin.Left, "2:3"},
		{"unary takes operator", bin.Right, "2:10"},
		{"unary operand", bin.Right.(*Unary).Operand, "2:11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.Pos().String(); got != tt.want {
				t.Errorf("Pos() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSourceConstructed(t *testing.T) {
	num := func(n float64) Expr { return &NumberLit{Value: n} }
	ident := func(name string) Expr { return &Ident{Name: name} }

	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"negative literal", num(-5), "-5"},
		{"negative zero", num(math.Copysign(0, -1)), "-0"},
		{"negative infinity", num(math.Inf(-1)), "-1e999"},
		{"subtract negative", &Binary{Op: "-", Left: num(1), Right: num(-2)}, "1 - -2"},
		{"negate negative", &Unary{Op: "-", Operand: num(-3)}, "--3"},
		{"negative member", &Access{Object: num(-2), Name: "x"}, "(-2).x"},
		{"negative callee", &Call{Callee: num(-1), Args: []Expr{num(-1)}}, "(-1)(-1)"},
		{
			"ternary",
			&Ternary{Cond: &BoolLit{Value: true}, Then: num(-1), Else: &StringLit{Value: "a"}},
			`true ? -1 : "a"`,
		},
		{
			"nested binary",
			&Binary{Op: "*", Left: &Binary{Op: "+", Left: ident("a"), Right: num(-1)}, Right: num(2)},
			"(a + -1) * 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.expr.Source()
			if got != tt.want {
				t.Errorf("Source() = %q, want %q", got, tt.want)
			}

			again, err := Parse(got)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", got, err)
			}

			if len(again) != 1 || !Equal(tt.expr, again[0]) {
				t.Errorf("Parse(%q) is not equal to the constructed tree", got)
			}
		})
	}

	if Equal(num(-5), &Unary{Op: "-", Operand: num(-5)}) {
		t.Error("Equal(-5, -(-5)) = true")
	}

	if Equal(num(5), &Unary{Op: "!", Operand: num(-5)}) {
		t.Error("Equal(5, !(-5)) = true")
	}
}

// Neither quote can be escaped, so text holding both has no literal form.
func TestSourceUnwritableString(t *testing.T) {
	lit := &StringLit{Value: `a'b"c`}

	if _, err := Parse(lit.Source()); !errors.Is(err, ErrParse) {
		t.Errorf("Parse(%q) error = %v, want ErrParse", lit.Source(), err)
	}

	if Writable(lit) {
		t.Errorf("Writable(%q) = true", lit.Value)
	}

	if !Writable(&Call{Callee: &Ident{Name: "f"}, Args: []Expr{&StringLit{Value: `it's`}}}) {
		t.Error("Writable(f(\"it's\")) = false")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		pos      string
		expected string
		found    string
	}{
		{
			name:     "missing separator",
			src:      "1 2",
			pos:      "1:3",
			expected: `";" or end of input`,
			found:    `number "2"`,
		},
		{
			name:     "dangling operator",
			src:      "1 +",
			pos:      "1:4",
			expected: "expression",
			found:    "end of input",
		},
		{
			name:     "unclosed call",
			src:      "f(1 2)",
			pos:      "1:5",
			expected: `"," or ")"`,
			found:    `number "2"`,
		},
		{
			name:     "missing member name",
			src:      "a.1",
			pos:      "1:3",
			expected: "member name",
			found:    `number "1"`,
		},
		{
			name:     "invalid assignment target",
			src:      "\n1 + 2 = 3",
			pos:      "2:1",
			expected: `identifier or member before "="`,
			found:    `"1 + 2"`,
		},
		{
			name:     "unclosed paren",
			src:      "(1",
			pos:      "1:3",
			expected: `")"`,
			found:    "end of input",
		},
		{
			name:     "unclosed block",
			src:      "{a;",
			pos:      "1:4",
			expected: `"}"`,
			found:    "end of input",
		},
		{
			name:     "block separator",
			src:      "{a b}",
			pos:      "1:4",
			expected: `";" or "}"`,
			found:    `identifier "b"`,
		},
		{
			name:     "ternary missing colon",
			src:      "a ? b",
			pos:      "1:6",
			expected: `":"`,
			found:    "end of input",
		},
		{
			name:     "expression after lone separator",
			src:      ";1",
			pos:      "1:2",
			expected: "end of input",
			found:    `number "1"`,
		},
		{
			name:     "block expression after lone separator",
			src:      "{;a}",
			pos:      "1:3",
			expected: `"}"`,
			found:    `identifier "a"`,
		},
		{
			name:     "closing paren",
			src:      ")",
			pos:      "1:1",
			expected: "expression",
			found:    `")"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exprs, err := Parse(tt.src)
			if exprs != nil {
				t.Errorf("Parse(%q) returned a partial tree", tt.src)
			}

			if !errors.Is(err, ErrParse) {
				t.Fatalf("Parse(%q) error = %v, want ErrParse", tt.src, err)
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error %T is not *ParseError", err)
			}

			if got := parseErr.Pos.String(); got != tt.pos {
				t.Errorf("Pos = %s, want %s", got, tt.pos)
			}

			if parseErr.Expected != tt.expected {
				t.Errorf("Expected = %s, want %s", parseErr.Expected, tt.expected)
			}

			if parseErr.Found != tt.found {
				t.Errorf("Found = %s, want %s", parseErr.Found, tt.found)
			}

			if parseErr.Source != tt.src {
				t.Errorf("Source = %q, want %q", parseErr.Source, tt.src)
			}
		})
	}
}

func TestParseMaxDepth(t *testing.T) {
	nest := func(n int) string {
		return strings.Repeat("(", n) + "x" + strings.Repeat(")", n)
	}

	if _, err := parse(nest(2), 3); err != nil {
		t.Errorf("parse(depth 3) error = %v", err)
	}

	_, err := parse(nest(3), 3)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("parse() error = %v, want *ParseError", err)
	}

	if want := "at most 3 levels of nesting"; parseErr.Expected != want {
		t.Errorf("Expected = %q, want %q", parseErr.Expected, want)
	}

	if _, err := Parse(strings.Repeat("-", 10000) + "1"); !errors.Is(err, ErrParse) {
		t.Errorf("Parse(deep unary) error = %v, want ErrParse", err)
	}
}

func FuzzParseSource(f *testing.F) {
	for _, seed := range []string{
		"1 + 2 * 3",
		"a = b.c(1, 'x') ?? -2",
		"{t.x = 1; return t.x > 0 ? 'y' : \"n\"}",
		"(a ? b : c) ? d : e",
		"!(a && b) || c != 1e999",
		"f(1)(2).g.h = (x = 3) / 4",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		exprs, err := Parse(src)
		if err != nil {
			return
		}

		out := Source(exprs)

		again, err := Parse(out)
		if err != nil {
			t.Fatalf("Parse(Source(Parse(%q))) = Parse(%q) error = %v", src, out, err)
		}

		if !EqualAll(exprs, again) {
			t.Fatalf("round trip of %q through %q changed the tree", src, out)
		}
	})
}
