package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	val, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%q) error = %v", name, err)
	}

	return val
}

func TestResolveYAML(t *testing.T) {
	doc := `
log-level: debug
log:
  format: text
  pretty: false
max_depth: 64
recursion-limit: -1
include:
  - /usr/share/molang
  - ./scripts
eval:
  output: json
`

	r, err := resolveYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("resolveYAML() error = %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "text"},
		{"log-pretty", false},
		{"max-depth", "64"},
		{"recursion-limit", "-1"},
		{"include", "/usr/share/molang,./scripts"},
		{"eval-output", "json"},
		{"log", nil},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			if got := resolveFlag(t, r, tt.flag); got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolveYAML_Empty(t *testing.T) {
	r, err := resolveYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("resolveYAML(empty) error = %v", err)
	}

	if got := resolveFlag(t, r, "log-level"); got != nil {
		t.Errorf("Resolve(log-level) = %v, want nil", got)
	}
}

func TestResolveYAML_Invalid(t *testing.T) {
	if _, err := resolveYAML(strings.NewReader("log: [unterminated")); err == nil {
		t.Error("resolveYAML(invalid) error = nil, want error")
	}
}

func TestResolveYAML_Parser(t *testing.T) {
	var cli struct {
		Level string `default:"info"`
		Depth int    `default:"0"`
		Tags  []string
	}

	r, err := resolveYAML(strings.NewReader("level: warn\ndepth: 12\ntags: [a, b]\n"))
	if err != nil {
		t.Fatalf("resolveYAML() error = %v", err)
	}

	parser, err := kong.New(&cli, kong.Resolvers(r), kong.Exit(func(int) {}))
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}

	if _, err := parser.Parse([]string{"--depth=3"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cli.Level != "warn" || cli.Depth != 3 || strings.Join(cli.Tags, ",") != "a,b" {
		t.Errorf("parsed = %+v, want {Level:warn Depth:3 Tags:[a b]}", cli)
	}
}
