package lang

import (
	"math"
	"math/rand/v2"
)

// MathNamespace is the global name of the standard math library.
const MathNamespace = "math"

// Math returns the standard math library. Angles are in degrees. Missing
// numeric arguments are 0 and surplus arguments are not evaluated.
func Math() Members {
	return Members{
		"pi": Number(math.Pi),

		"abs":   unaryMath(math.Abs),
		"ceil":  unaryMath(math.Ceil),
		"floor": unaryMath(math.Floor),
		"round": unaryMath(math.Round),
		"trunc": unaryMath(math.Trunc),
		"sqrt":  unaryMath(math.Sqrt),
		"exp":   unaryMath(math.Exp),
		"ln":    unaryMath(math.Log),

		"sin":  unaryMath(func(x float64) float64 { return math.Sin(x * degToRad) }),
		"cos":  unaryMath(func(x float64) float64 { return math.Cos(x * degToRad) }),
		"asin": unaryMath(func(x float64) float64 { return math.Asin(x) / degToRad }),
		"acos": unaryMath(func(x float64) float64 { return math.Acos(x) / degToRad }),
		"atan": unaryMath(func(x float64) float64 { return math.Atan(x) / degToRad }),
		"atan2": mathFunc(2, func(a []float64) float64 {
			return math.Atan2(a[0], a[1]) / degToRad
		}),

		"pow": mathFunc(2, func(a []float64) float64 { return math.Pow(a[0], a[1]) }),
		"mod": mathFunc(2, func(a []float64) float64 { return math.Mod(a[0], a[1]) }),
		"min": mathFunc(2, func(a []float64) float64 { return math.Min(a[0], a[1]) }),
		"max": mathFunc(2, func(a []float64) float64 { return math.Max(a[0], a[1]) }),
		"clamp": mathFunc(3, func(a []float64) float64 {
			return math.Max(a[1], math.Min(a[2], a[0]))
		}),

		"lerp": mathFunc(3, func(a []float64) float64 {
			return a[0] + (a[1]-a[0])*a[2]
		}),
		"lerprotate": mathFunc(3, func(a []float64) float64 {
			return a[0] + minAngle(a[1]-a[0])*a[2]
		}),
		"hermite_blend": unaryMath(func(t float64) float64 {
			return 3*t*t - 2*t*t*t
		}),
		"min_angle": unaryMath(minAngle),

		"random": mathFunc(2, func(a []float64) float64 {
			return a[0] + rand.Float64()*(a[1]-a[0])
		}),
		"random_integer": mathFunc(2, func(a []float64) float64 {
			return randomInteger(a[0], a[1])
		}),
		"die_roll": diceFunc(func(lo, hi float64) float64 {
			return lo + rand.Float64()*(hi-lo)
		}),
		"die_roll_integer": diceFunc(randomInteger),
	}
}

const degToRad = math.Pi / 180

// mathFunc returns a callable that evaluates its first n arguments as numbers
// and passes them to f.
func mathFunc(n int, f func(args []float64) float64) Value {
	return Callable(FunctionFunc(func(_ *Evaluator, args []Argument) (Value, error) {
		nums := make([]float64, n)

		for i := range min(n, len(args)) {
			x, err := args[i].EvalAsDouble()
			if err != nil {
				return Null(), err
			}

			nums[i] = x
		}

		return Number(f(nums)), nil
	}))
}

// MaxDieRolls bounds the roll count of die_roll and die_roll_integer.
const MaxDieRolls = 1 << 20

// diceFunc returns a callable summing roll(lo, hi) over a count of rolls
// clamped to [0, MaxDieRolls]. A canceled context stops the rolling.
func diceFunc(roll func(lo, hi float64) float64) Value {
	return Callable(FunctionFunc(func(ev *Evaluator, args []Argument) (Value, error) {
		var a [3]float64

		for i := range min(len(a), len(args)) {
			x, err := args[i].EvalAsDouble()
			if err != nil {
				return Null(), err
			}

			a[i] = x
		}

		n := 0
		if a[0] > 0 {
			n = int(math.Min(a[0], MaxDieRolls))
		}

		var sum float64

		for range n {
			if err := ev.Context().Err(); err != nil {
				return Null(), err
			}

			sum += roll(a[1], a[2])
		}

		return Number(sum), nil
	}))
}

func unaryMath(f func(float64) float64) Value {
	return mathFunc(1, func(a []float64) float64 { return f(a[0]) })
}

// minAngle normalizes a to [-180, 180).
func minAngle(a float64) float64 {
	a = math.Mod(a+180, 360)
	if a < 0 {
		a += 360
	}

	return a - 180
}

// maxExactInt is the largest magnitude below which every integer is exactly
// representable as a float64.
const maxExactInt = 1 << 53

// randomInteger returns an integer in [lo, hi], inclusive. Bounds are
// clamped to ±2^53 and NaN bounds are 0.
func randomInteger(lo, hi float64) float64 {
	l, h := exactInt(lo), exactInt(hi)
	if h < l {
		l, h = h, l
	}

	return float64(l + rand.Int64N(h-l+1))
}

func exactInt(x float64) int64 {
	if math.IsNaN(x) {
		return 0
	}

	return int64(math.Max(-maxExactInt, math.Min(maxExactInt, math.Round(x))))
}
