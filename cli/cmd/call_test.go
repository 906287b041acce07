package cmd

import (
	"errors"
	"testing"

	"github.com/ardnew/molang/lang"
)

func TestCallRun(t *testing.T) {
	dir := t.TempDir()

	area := writeScript(t, dir, "area.mol", "return w * h;")

	tests := []struct {
		name  string
		call  Call
		stdin string
		want  string
	}{
		{
			name: "expr",
			call: Call{Signature: "(a: number, b: number) -> number", Expr: "a * b", Args: []string{"6", "7"}},
			want: "42\n",
		},
		{
			name: "file",
			call: Call{Signature: "(w: number, h: number)", File: area, Args: []string{"3", "4"}},
			want: "12\n",
		},
		{
			name:  "stdin",
			call:  Call{Signature: "(name: string) -> string", Args: []string{"steve"}},
			stdin: "name",
			want:  "\"steve\"\n",
		},
		{
			name: "coerced return",
			call: Call{Signature: "(x) -> boolean", Expr: "x", Args: []string{"2"}},
			want: "true\n",
		},
		{
			name: "void return",
			call: Call{Signature: "() -> void", Expr: "temp.x = 1"},
			want: "null\n",
		},
		{
			name: "json output",
			call: Call{Output: Output{"json"}, Signature: "(s: string)", Expr: "s", Args: []string{"4"}},
			want: "\"4\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _, stdout := newSession(t, tt.stdin)

			if err := tt.call.Run(ctx); err != nil {
				t.Fatalf("Call.Run() error = %v", err)
			}

			if got := stdout.String(); got != tt.want {
				t.Errorf("Call.Run() wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCallRunErrors(t *testing.T) {
	tests := []struct {
		name string
		call Call
		want error
	}{
		{
			name: "bad signature",
			call: Call{Signature: "a, b", Expr: "a"},
			want: lang.ErrSignature,
		},
		{
			name: "arity",
			call: Call{Signature: "(a, b)", Expr: "a", Args: []string{"1"}},
			want: lang.ErrArity,
		},
		{
			name: "parse error",
			call: Call{Signature: "()", Expr: "("},
			want: lang.ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _, _ := newSession(t, "")

			err := tt.call.Run(ctx)
			if !errors.Is(err, ErrCall) || !errors.Is(err, tt.want) {
				t.Errorf("Call.Run() error = %v, want %v and %v", err, ErrCall, tt.want)
			}
		})
	}
}
