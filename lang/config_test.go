package lang

import (
	"errors"
	"strings"
	"testing"
)

const testConfig = `
max_depth: 64
recursion_limit: 32
bindings:
  gravity: 9.5
  player: { name: Steve, health: 20 }
functions:
  double: { params: [x], body: "x * 2" }
queries:
  health: health
`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(testConfig))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.MaxDepth != 64 || cfg.RecursionLimit != 32 {
		t.Errorf("limits = %d, %d, want 64, 32", cfg.MaxDepth, cfg.RecursionLimit)
	}

	if got := cfg.Functions["double"]; got.Body != "x * 2" || len(got.Params) != 1 {
		t.Errorf("functions.double = %+v", got)
	}

	if cfg.Queries["health"] != "health" {
		t.Errorf("queries = %v", cfg.Queries)
	}

	e, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}

	exprs, err := e.Parse(t.Context(), "double(gravity) + player.health + q.health")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got, err := e.EvaluateEntity(t.Context(), map[string]any{"health": 5}, exprs, nil)
	if err != nil {
		t.Fatalf("EvaluateEntity() error = %v", err)
	}

	if got.AsDouble() != 44 {
		t.Errorf("EvaluateEntity() = %v, want 44", got)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown field", "bogus: 1\n"},
		{"wrong type", "max_depth: deep\n"},
		{"unknown function field", "functions:\n  f: { body: x, args: [x] }\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(strings.NewReader(tt.src)); !errors.Is(err, ErrConfig) {
				t.Errorf("LoadConfig() error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestLoadConfigEmpty(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadConfig(empty) error = %v", err)
	}

	if cfg.Bindings != nil || cfg.MaxDepth != 0 {
		t.Errorf("LoadConfig(empty) = %+v, want zero", cfg)
	}
}

func TestConfigMerge(t *testing.T) {
	base := Config{
		Bindings:       map[string]any{"a": 1, "b": 2},
		Functions:      map[string]FunctionSpec{"f": {Body: "1"}},
		MaxDepth:       10,
		RecursionLimit: 5,
	}
	over := Config{
		Bindings: map[string]any{"b": 3},
		Queries:  map[string]string{"q": "1"},
		MaxDepth: 20,
	}

	got := base.Merge(over)

	if got.Bindings["a"] != 1 || got.Bindings["b"] != 3 {
		t.Errorf("Bindings = %v, want a=1 b=3", got.Bindings)
	}

	if got.Functions["f"].Body != "1" || got.Queries["q"] != "1" {
		t.Errorf("Functions = %v, Queries = %v", got.Functions, got.Queries)
	}

	if got.MaxDepth != 20 || got.RecursionLimit != 5 {
		t.Errorf("limits = %d, %d, want 20, 5", got.MaxDepth, got.RecursionLimit)
	}

	if base.Bindings["b"] != 2 {
		t.Errorf("Merge modified the receiver: b = %v", base.Bindings["b"])
	}
}

func TestConfigOptionsErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{
			name: "binding name",
			cfg:  Config{Bindings: map[string]any{"a-b": 1}},
			want: ErrConfig,
		},
		{
			name: "function name",
			cfg:  Config{Functions: map[string]FunctionSpec{"true": {Body: "1"}}},
			want: ErrConfig,
		},
		{
			name: "parameter name",
			cfg:  Config{Functions: map[string]FunctionSpec{"f": {Body: "1", Params: []string{"2x"}}}},
			want: ErrConfig,
		},
		{
			name: "function body",
			cfg:  Config{Functions: map[string]FunctionSpec{"f": {Body: "1 +"}}},
			want: ErrParse,
		},
		{
			name: "query source",
			cfg:  Config{Queries: map[string]string{"q": "1 +"}},
			want: ErrQueryCompile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFromConfig(tt.cfg); !errors.Is(err, tt.want) {
				t.Errorf("NewFromConfig() error = %v, want %v", err, tt.want)
			}
		})
	}
}
