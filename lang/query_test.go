package lang

import (
	"errors"
	"slices"
	"testing"
)

type testEntity struct {
	Name   string
	Health int
}

func TestQueries(t *testing.T) {
	e := newEngine(t, WithQueries(nil, map[string]string{
		"health": "health",
		"alive":  "health > 0",
		"named":  `name + "!"`,
		"broken": "health % divisor",
	}))

	entity := map[string]any{"name": "Steve", "health": 20, "divisor": 0}

	tests := []struct {
		name   string
		src    string
		entity any
		want   Value
	}{
		{"number", "q.health + 1", entity, Number(21)},
		{"full name", "query.health", entity, Number(20)},
		{"boolean", "q.alive", entity, Boolean(true)},
		{"string", "q.named", entity, String("Steve!")},
		{"unknown query", "q.mana", entity, Number(0)},
		{"runtime failure", "q.broken", entity, Number(0)},
		{"no entity", "q.health", nil, Number(0)},
		{"inside function", "first(q.health) / 4", entity, Number(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exprs, err := e.Parse(t.Context(), tt.src)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			got, err := e.EvaluateEntity(t.Context(), tt.entity, exprs, nil)
			if err != nil {
				t.Fatalf("EvaluateEntity(%q) error = %v", tt.src, err)
			}

			if got.Kind() != tt.want.Kind() || !got.Equal(tt.want) {
				t.Errorf("EvaluateEntity(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestQueriesTyped(t *testing.T) {
	e := newEngine(t, WithQueries(testEntity{}, map[string]string{
		"hp":    "Health",
		"label": `Name + ":" + string(Health)`,
	}))

	exprs, err := e.Parse(t.Context(), "q.label")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got, err := e.EvaluateEntity(t.Context(), testEntity{Name: "Alex", Health: 7}, exprs, nil)
	if err != nil {
		t.Fatalf("EvaluateEntity() error = %v", err)
	}

	if got.AsString() != "Alex:7" {
		t.Errorf("q.label = %v, want Alex:7", got)
	}
}

func TestCompileQueriesErrors(t *testing.T) {
	tests := []struct {
		name     string
		exemplar any
		queries  map[string]string
	}{
		{"syntax", nil, map[string]string{"bad": "1 +"}},
		{"unknown field", testEntity{}, map[string]string{"mp": "Mana"}},
		{"name not identifier", nil, map[string]string{"two words": "1"}},
		{"keyword name", nil, map[string]string{"return": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CompileQueries(tt.exemplar, tt.queries); !errors.Is(err, ErrQueryCompile) {
				t.Errorf("CompileQueries() error = %v, want ErrQueryCompile", err)
			}
		})
	}

	_, err := New(WithQueries(testEntity{}, map[string]string{"mp": "Mana"}))
	if !errors.Is(err, ErrQueryCompile) {
		t.Errorf("New() error = %v, want ErrQueryCompile", err)
	}
}

func TestQueriesMember(t *testing.T) {
	q, err := CompileQueries(nil, map[string]string{"b": "1", "a": "2"})
	if err != nil {
		t.Fatalf("CompileQueries() error = %v", err)
	}

	if got := q.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v, want [a b]", got)
	}

	if v, ok := q.Member("a"); !ok || v.AsDouble() != 0 {
		t.Errorf("Member(a) = %v, %v, want 0, true", v, ok)
	}

	if _, ok := q.Member("c"); ok {
		t.Error("Member(c) reported ok")
	}
}
