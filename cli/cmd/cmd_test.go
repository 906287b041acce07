package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/molang/lang"
	"github.com/ardnew/molang/pkg"
)

// newSession returns a context holding a session over a fresh engine whose
// standard streams are in-memory buffers.
func newSession(
	t *testing.T,
	stdin string,
	opts ...lang.Option,
) (context.Context, *Session, *bytes.Buffer) {
	t.Helper()

	eng, err := lang.New(opts...)
	if err != nil {
		t.Fatalf("lang.New() error = %v", err)
	}

	var stdout bytes.Buffer

	sess := &Session{
		Engine: eng,
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: io.Discard,
	}

	return WithSession(t.Context(), sess), sess, &stdout
}

func writeScript(t *testing.T, dir, name, src string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func readSources(t *testing.T, srcs []source) []string {
	t.Helper()

	out := make([]string, len(srcs))

	for i, src := range srcs {
		b, err := io.ReadAll(src)
		if err != nil {
			t.Fatalf("reading %s: %v", src.name, err)
		}

		out[i] = string(b)
	}

	return out
}

func TestOpenSources(t *testing.T) {
	dir := t.TempDir()

	a := writeScript(t, dir, "a.mol", "1")
	b := writeScript(t, dir, "b.mol", "2")

	link := filepath.Join(dir, "link.mol")
	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{"single", []string{a}, []string{"1"}},
		{"ordered", []string{b, a}, []string{"2", "1"}},
		{"duplicate path", []string{a, a, b}, []string{"1", "2"}},
		{"duplicate via symlink", []string{a, link}, []string{"1"}},
		{"stdin last", []string{"-", a}, []string{"1", "stdin"}},
		{"stdin once", []string{"-", b, "-"}, []string{"2", "stdin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sess, _ := newSession(t, "stdin")

			srcs, closeAll, err := sess.openSources(tt.names)
			if err != nil {
				t.Fatalf("openSources() error = %v", err)
			}
			defer closeAll()

			got := readSources(t, srcs)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("openSources() read %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	lib, other := t.TempDir(), t.TempDir()

	spawn := writeScript(t, lib, "spawn.mol", "temp.x = 1")
	plain := writeScript(t, lib, "plain", "2")
	shadow := writeScript(t, other, "spawn.mol", "3")

	_, sess, _ := newSession(t, "")
	sess.Path = []string{lib, other}

	tests := []struct {
		name    string
		script  string
		want    string
		wantErr error
	}{
		{"existing path", shadow, shadow, nil},
		{"search path", "spawn.mol", spawn, nil},
		{"extension added", "spawn", spawn, nil},
		{"no extension", "plain", plain, nil},
		{"not found", "absent", "", pkg.ErrScriptNotFound},
		{"absolute not searched", filepath.Join(string(filepath.Separator), "spawn.mol"), "", pkg.ErrScriptNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sess.resolve(tt.script)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("resolve(%q) error = %v, want %v", tt.script, err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("resolve(%q) = %q, want %q", tt.script, got, tt.want)
			}
		})
	}
}

func TestParseArg(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"3", 3.0},
		{"-0.5", -0.5},
		{" 7 ", 7.0},
		{"true", true},
		{"false", false},
		{"True", "True"},
		{"steve", "steve"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseArg(tt.in); got != tt.want {
				t.Errorf("parseArg(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSessionFromDefaults(t *testing.T) {
	sess, err := sessionFrom(t.Context())
	if err != nil {
		t.Fatalf("sessionFrom() error = %v", err)
	}

	if sess.Engine == nil || sess.Stdin != os.Stdin || sess.Stdout != os.Stdout {
		t.Errorf("sessionFrom() = %+v, want default engine and standard streams", sess)
	}
}

func TestErrorIs(t *testing.T) {
	cause := errors.New("boom")
	err := ErrEvaluate.With().Wrap(cause)

	if !errors.Is(err, ErrEvaluate) {
		t.Errorf("errors.Is(%v, ErrEvaluate) = false", err)
	}

	if errors.Is(err, ErrCall) {
		t.Errorf("errors.Is(%v, ErrCall) = true", err)
	}

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(%v, cause) = false", err)
	}
}
