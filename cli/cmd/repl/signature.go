package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/molang/lang"
)

// mathParams names the parameters of the math library functions.
var mathParams = map[string][]string{
	"abs":              {"value"},
	"acos":             {"value"},
	"asin":             {"value"},
	"atan":             {"value"},
	"atan2":            {"y", "x"},
	"ceil":             {"value"},
	"clamp":            {"value", "min", "max"},
	"cos":              {"degrees"},
	"die_roll":         {"count", "low", "high"},
	"die_roll_integer": {"count", "low", "high"},
	"exp":              {"value"},
	"floor":            {"value"},
	"hermite_blend":    {"t"},
	"lerp":             {"start", "end", "t"},
	"lerprotate":       {"start", "end", "t"},
	"ln":               {"value"},
	"max":              {"a", "b"},
	"min":              {"a", "b"},
	"min_angle":        {"degrees"},
	"mod":              {"value", "denominator"},
	"pow":              {"base", "exponent"},
	"random":           {"low", "high"},
	"random_integer":   {"low", "high"},
	"round":            {"value"},
	"sin":              {"degrees"},
	"sqrt":             {"value"},
	"trunc":            {"value"},
}

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // callee path (e.g., "math.clamp")
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's argument list. It returns the callee, the current
// argument index, and whether we're inside a call.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Scan backward from cursor to the unmatched opening paren.
	depth := 0
	open := -1

	for i := cursor; i > 0 && open < 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			} else {
				depth--
			}
		}
	}

	if open < 0 {
		return functionCall{}
	}

	// Collect the callee path before the paren.
	start := open

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r == '.' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			start -= size
		} else {
			break
		}
	}

	name := strings.Trim(input[start:open], ".")
	if name == "" {
		return functionCall{}
	}

	// Count commas outside nested parens between the paren and the cursor.
	argIndex := 0
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

// getSignature returns the rendered signature and parameter names of the
// callable at the given path, or "" if the path does not name a callable
// with known parameters.
func getSignature(g *lang.GlobalScope, path string) (signature string, params []string) {
	v, ok := resolvePath(g, path)
	if !ok || v.Kind() != lang.KindCallable {
		return "", nil
	}

	return signatureOf(v, path)
}

// signatureOf describes the callable v bound at path.
func signatureOf(v lang.Value, path string) (string, []string) {
	fn, _ := v.Function()

	var params []string

	if sf, ok := fn.(*lang.ScriptFunction); ok {
		params = sf.Params
	} else if lib, member, ok := strings.Cut(path, "."); ok && lib == lang.MathNamespace {
		if params, ok = mathParams[member]; !ok {
			return "", nil
		}
	} else {
		return "", nil
	}

	return path + "(" + strings.Join(params, ", ") + ")", params
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(name string, params []string, currentArgIdx int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == currentArgIdx {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
