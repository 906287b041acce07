package lang

import (
	"math"
	"testing"
)

func TestValueConversions(t *testing.T) {
	fn := FunctionFunc(func(*Evaluator, []Argument) (Value, error) { return Null(), nil })

	tests := []struct {
		name    string
		value   Value
		kind    Kind
		double  float64
		boolean bool
		str     string
		display string
	}{
		{"null", Null(), KindNull, 0, false, "", "null"},
		{"zero", Number(0), KindNumber, 0, false, "0", "0"},
		{"integer", Number(76), KindNumber, 76, true, "76", "76"},
		{"fraction", Number(0.5), KindNumber, 0.5, true, "0.5", "0.5"},
		{"negative", Number(-2.25), KindNumber, -2.25, true, "-2.25", "-2.25"},
		{"large", Number(1e21), KindNumber, 1e21, true, "1000000000000000000000", "1000000000000000000000"},
		{"true", Boolean(true), KindBoolean, 1, true, "true", "true"},
		{"false", Boolean(false), KindBoolean, 0, false, "false", "false"},
		{"numeric string", String(" 12.5 "), KindString, 12.5, true, " 12.5 ", `" 12.5 "`},
		{"text", String("abc"), KindString, 0, false, "abc", `"abc"`},
		{"infinite string", String("1e999"), KindString, 0, false, "1e999", `"1e999"`},
		{"nan string", String("NaN"), KindString, 0, false, "NaN", `"NaN"`},
		{"empty string", String(""), KindString, 0, false, "", `""`},
		{"callable", Callable(fn), KindCallable, 0, false, "", "<callable>"},
		{"object", Object(Members{}), KindObject, 0, false, "", "<object>"},
		{"nil callable", Callable(nil), KindNull, 0, false, "", "null"},
		{"nil object", Object(nil), KindNull, 0, false, "", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Kind(); got != tt.kind {
				t.Errorf("Kind() = %v, want %v", got, tt.kind)
			}

			if got := tt.value.AsDouble(); got != tt.double {
				t.Errorf("AsDouble() = %v, want %v", got, tt.double)
			}

			if got := tt.value.AsBoolean(); got != tt.boolean {
				t.Errorf("AsBoolean() = %v, want %v", got, tt.boolean)
			}

			if got := tt.value.AsString(); got != tt.str {
				t.Errorf("AsString() = %q, want %q", got, tt.str)
			}

			if got := tt.value.String(); got != tt.display {
				t.Errorf("String() = %q, want %q", got, tt.display)
			}
		})
	}
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"numbers", Number(1), Number(1), true},
		{"different numbers", Number(1), Number(2), false},
		{"strings", String("a"), String("a"), true},
		{"different strings", String("a"), String("b"), false},
		{"numeric strings compare as text", String("1.0"), String("1"), false},
		{"string and number compare numerically", String("1.0"), Number(1), true},
		{"boolean and number", Boolean(true), Number(1), true},
		{"null and zero", Null(), Number(0), true},
		{"null and text", Null(), String("x"), true},
		{"nan", Number(math.NaN()), Number(math.NaN()), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}

			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind Kind
		want string
	}{
		{"nil", nil, KindNull, "null"},
		{"value", Number(3), KindNumber, "3"},
		{"bool", true, KindBoolean, "true"},
		{"string", "hi", KindString, `"hi"`},
		{"int", 42, KindNumber, "42"},
		{"int8", int8(-8), KindNumber, "-8"},
		{"uint64", uint64(7), KindNumber, "7"},
		{"float32", float32(0.5), KindNumber, "0.5"},
		{"float64", 2.5, KindNumber, "2.5"},
		{"map", map[string]any{"x": 1}, KindObject, "<object>"},
		{"value map", map[string]Value{"x": Number(1)}, KindObject, "<object>"},
		{"members", Members{}, KindObject, "<object>"},
		{"storage", NewStorage(), KindObject, "<object>"},
		{
			"func",
			func(*Evaluator, []Argument) (Value, error) { return Null(), nil },
			KindCallable,
			"<callable>",
		},
		{"unsupported", []int{1}, KindNull, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValueOf(tt.in)

			if v.Kind() != tt.kind {
				t.Errorf("ValueOf(%v).Kind() = %v, want %v", tt.in, v.Kind(), tt.kind)
			}

			if got := v.String(); got != tt.want {
				t.Errorf("ValueOf(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestValueOfNestedMap(t *testing.T) {
	v := ValueOf(map[string]any{
		"pos": map[string]any{"x": 1, "y": 2.5},
	})

	ns, ok := v.Namespace()
	if !ok {
		t.Fatalf("ValueOf(map) is %v, want object", v.Kind())
	}

	pos, ok := ns.Member("pos")
	if !ok {
		t.Fatal("member pos missing")
	}

	inner, _ := pos.Namespace()

	y, ok := inner.Member("y")
	if !ok || y.AsDouble() != 2.5 {
		t.Errorf("pos.y = %v, %v, want 2.5", y, ok)
	}

	if got, want := NamesOf(inner), []string{"x", "y"}; len(got) != 2 ||
		got[0] != want[0] || got[1] != want[1] {
		t.Errorf("NamesOf(pos) = %v, want %v", got, want)
	}
}

func TestValueAny(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  any
	}{
		{"null", Null(), nil},
		{"number", Number(1.5), 1.5},
		{"string", String("s"), "s"},
		{"boolean", Boolean(true), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Any(); got != tt.want {
				t.Errorf("Any() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNull, "null"},
		{KindNumber, "number"},
		{KindString, "string"},
		{KindBoolean, "boolean"},
		{KindCallable, "callable"},
		{KindObject, "object"},
		{Kind(99), "Kind(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
