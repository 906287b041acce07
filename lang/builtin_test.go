package lang

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"
)

func TestMath(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"math.pi", math.Pi},
		{"math.abs(-3)", 3},
		{"math.ceil(1.2)", 2},
		{"math.floor(-1.2)", -2},
		{"math.round(2.5)", 3},
		{"math.trunc(-2.7)", -2},
		{"math.sqrt(16)", 4},
		{"math.exp(0)", 1},
		{"math.ln(1)", 0},
		{"math.sin(90)", 1},
		{"math.cos(180)", -1},
		{"math.asin(1)", 90},
		{"math.acos(1)", 0},
		{"math.atan(1)", 45},
		{"math.atan2(1, 0)", 90},
		{"math.pow(2, 10)", 1024},
		{"math.mod(7, 3)", 1},
		{"math.min(2, -1)", -1},
		{"math.max(2, -1)", 2},
		{"math.clamp(5, 0, 3)", 3},
		{"math.clamp(-5, 0, 3)", 0},
		{"math.clamp(2, 0, 3)", 2},
		{"math.lerp(0, 10, 0.25)", 2.5},
		{"math.lerprotate(350, 10, 0.5)", 360},
		{"math.hermite_blend(0.5)", 0.5},
		{"math.min_angle(270)", -90},
		{"math.min_angle(-190)", 170},
		{"math.abs()", 0},
		{"math.pow(2)", 1},
		{"math.abs(-1, temp.x = 5) + temp.x", 1},
		{"math.floor('3.7')", 3},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := newEngine(t).EvaluateString(t.Context(), tt.src, nil)
			if err != nil {
				t.Fatalf("EvaluateString(%q) error = %v", tt.src, err)
			}

			if math.Abs(got.AsDouble()-tt.want) > 1e-9 {
				t.Errorf("EvaluateString(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestMathRandom(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		src      string
		lo, hi   float64
		integral bool
	}{
		{"math.random(1, 2)", 1, 2, false},
		{"math.random_integer(1, 6)", 1, 6, true},
		{"math.random_integer(6, 1)", 1, 6, true},
		{"math.die_roll(3, 1, 2)", 3, 6, false},
		{"math.die_roll_integer(2, 1, 6)", 2, 12, true},
		{"math.die_roll_integer(0, 1, 6)", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			exprs, err := e.Parse(t.Context(), tt.src)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			for range 100 {
				got, err := e.Evaluate(t.Context(), exprs, nil)
				if err != nil {
					t.Fatalf("Evaluate() error = %v", err)
				}

				n := got.AsDouble()
				if n < tt.lo || n > tt.hi {
					t.Fatalf("%s = %v, want within [%v, %v]", tt.src, n, tt.lo, tt.hi)
				}

				if tt.integral && n != math.Trunc(n) {
					t.Fatalf("%s = %v, want an integer", tt.src, n)
				}
			}
		})
	}
}

func TestMathRandomBounds(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		src    string
		lo, hi float64
	}{
		{"math.random_integer(-5e18, 5e18)", -maxExactInt, maxExactInt},
		{"math.random_integer(1e300, -1e300)", -maxExactInt, maxExactInt},
		{"math.random_integer(0, 0/0)", 0, 0},
		{"math.random_integer(0/0, 0/0)", 0, 0},
		{"math.die_roll_integer(1, 0, 9.3e18)", 0, maxExactInt},
		{"math.die_roll_integer(0/0, 1, 6)", 0, 0},
		{"math.die_roll_integer(-1e300, 1, 6)", 0, 0},
		{"math.die_roll(0/0, 1, 6)", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := e.EvaluateString(t.Context(), tt.src, nil)
			if err != nil {
				t.Fatalf("EvaluateString() error = %v", err)
			}

			if n := got.AsDouble(); n < tt.lo || n > tt.hi || n != math.Trunc(n) {
				t.Errorf("%s = %v, want an integer within [%v, %v]", tt.src, n, tt.lo, tt.hi)
			}
		})
	}
}

func TestMathDieRollCount(t *testing.T) {
	e := newEngine(t)

	got, err := e.EvaluateString(t.Context(), "math.die_roll_integer(1e15, 1, 1)", nil)
	if err != nil {
		t.Fatalf("EvaluateString() error = %v", err)
	}

	if got.AsDouble() != MaxDieRolls {
		t.Errorf("die_roll_integer(1e15, 1, 1) = %v, want %d", got, MaxDieRolls)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	exprs := mustParse(t, "1e15; 1; 2")
	ev := NewEvaluator(ctx, nil, nil)

	args := make([]Argument, len(exprs))
	for i, x := range exprs {
		args[i] = Argument{expr: x, ev: ev}
	}

	for _, name := range []string{"die_roll", "die_roll_integer"} {
		fn, _ := Math()[name].Function()
		if _, err := fn.Call(ev, args); !errors.Is(err, context.Canceled) {
			t.Errorf("%s error = %v, want context.Canceled", name, err)
		}
	}
}

func TestMathNames(t *testing.T) {
	want := []string{
		"abs", "acos", "asin", "atan", "atan2", "ceil", "clamp", "cos",
		"die_roll", "die_roll_integer", "exp", "floor", "hermite_blend", "lerp",
		"lerprotate", "ln", "max", "min", "min_angle", "mod", "pi", "pow",
		"random", "random_integer", "round", "sin", "sqrt", "trunc",
	}

	if got := Math().Names(); !slices.Equal(got, want) {
		t.Errorf("Math().Names() = %v, want %v", got, want)
	}
}
