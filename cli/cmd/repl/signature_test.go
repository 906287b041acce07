package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no function call", "label", 5, "", 0, false},
		{"first arg", "add(", 4, "add", 0, true},
		{"first arg with value", "add(1", 5, "add", 0, true},
		{"second arg", "add(1,", 6, "add", 1, true},
		{"second arg with value", "add(1, 2", 8, "add", 1, true},
		{"library function", "math.clamp(", 11, "math.clamp", 0, true},
		{"library function third arg", "math.clamp(v, 0,", 16, "math.clamp", 2, true},
		{"nested parens", "add(math.abs(2), ", 17, "add", 1, true},
		{"cursor inside nested call", "add(math.pow(2, 3), 4)", 15, "math.pow", 1, true},
		{"after closed call", "add(1, 2) + ", 12, "", 0, false},
		{"grouping paren", "(1 + ", 5, "", 0, false},
		{"cursor past end", "add(1", 99, "add", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)

			if got.name != tt.wantName {
				t.Errorf("detectFunctionCall().name = %q, want %q", got.name, tt.wantName)
			}

			if got.argIndex != tt.wantIndex {
				t.Errorf("detectFunctionCall().argIndex = %d, want %d", got.argIndex, tt.wantIndex)
			}

			if got.inCall != tt.wantInCall {
				t.Errorf("detectFunctionCall().inCall = %v, want %v", got.inCall, tt.wantInCall)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	g := newTestEngine(t).Global()

	tests := []struct {
		name          string
		path          string
		wantSignature string
		wantParams    []string
	}{
		{"script function", "add", "add(a, b)", []string{"a", "b"}},
		{"math clamp", "math.clamp", "math.clamp(value, min, max)", []string{"value", "min", "max"}},
		{"math pow", "math.pow", "math.pow(base, exponent)", []string{"base", "exponent"}},
		{"not callable", "label", "", nil},
		{"namespace", "math", "", nil},
		{"nonexistent", "doesnotexist", "", nil},
		{"nonexistent member", "math.nope", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSig, gotParams := getSignature(g, tt.path)

			if gotSig != tt.wantSignature {
				t.Errorf("getSignature(%q) signature = %q, want %q", tt.path, gotSig, tt.wantSignature)
			}

			if !slices.Equal(gotParams, tt.wantParams) {
				t.Errorf("getSignature(%q) params = %v, want %v", tt.path, gotParams, tt.wantParams)
			}
		})
	}
}

func TestMathParamsCoverLibrary(t *testing.T) {
	g := newTestEngine(t).Global()

	for name := range mathParams {
		if _, ok := resolvePath(g, "math."+name); !ok {
			t.Errorf("mathParams names %q, which the math library does not define", name)
		}
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name       string
		callee     string
		params     []string
		currentArg int
	}{
		{"no params", "rand", nil, 0},
		{"first param", "add", []string{"a", "b"}, 0},
		{"second param", "add", []string{"a", "b"}, 1},
		{"past last param", "add", []string{"a", "b"}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderSignatureHint(tt.callee, tt.params, tt.currentArg)

			for _, want := range append([]string{tt.callee}, tt.params...) {
				if !strings.Contains(got, want) {
					t.Errorf("renderSignatureHint() = %q, missing %q", got, want)
				}
			}
		})
	}
}
