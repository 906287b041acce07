package lang

// Function is the contract of every callable value.
//
// Arguments arrive unevaluated: each [Argument] evaluates its expression only
// when asked, so a function decides whether and in what order its arguments
// run.
type Function interface {
	Call(ev *Evaluator, args []Argument) (Value, error)
}

// FunctionFunc adapts an ordinary function to [Function].
type FunctionFunc func(ev *Evaluator, args []Argument) (Value, error)

// Call implements [Function].
func (f FunctionFunc) Call(ev *Evaluator, args []Argument) (Value, error) {
	return f(ev, args)
}

// Argument is a lazily evaluated call argument bound to the caller's
// evaluator.
type Argument struct {
	expr Expr
	ev   *Evaluator
}

// NewArgument binds e for evaluation by ev.
func NewArgument(ev *Evaluator, e Expr) Argument {
	return Argument{expr: e, ev: ev}
}

// Expr returns the unevaluated argument expression.
func (a Argument) Expr() Expr { return a.expr }

// Eval evaluates the argument in the caller's scope. Each call evaluates the
// expression again.
func (a Argument) Eval() (Value, error) {
	if a.ev == nil || a.expr == nil {
		return Null(), nil
	}

	return a.ev.Eval(a.expr)
}

// EvalAsDouble evaluates the argument and converts it with
// [Value.AsDouble].
func (a Argument) EvalAsDouble() (float64, error) {
	v, err := a.Eval()

	return v.AsDouble(), err
}

// EvalAsString evaluates the argument and converts it with
// [Value.AsString].
func (a Argument) EvalAsString() (string, error) {
	v, err := a.Eval()

	return v.AsString(), err
}

// EvalAsBoolean evaluates the argument and converts it with
// [Value.AsBoolean].
func (a Argument) EvalAsBoolean() (bool, error) {
	v, err := a.Eval()

	return v.AsBoolean(), err
}

// EvalArgs evaluates every argument in order.
func EvalArgs(args []Argument) ([]Value, error) {
	vals := make([]Value, len(args))

	for i, arg := range args {
		v, err := arg.Eval()
		if err != nil {
			return nil, err
		}

		vals[i] = v
	}

	return vals, nil
}

// ScriptFunction is a [Function] whose body is a parsed script.
//
// Each call evaluates the arguments in the caller, binds them to Params in a
// child evaluator, and runs Body there. A return inside the body ends the
// call without affecting the caller. Missing arguments are null; extra
// arguments are never evaluated.
type ScriptFunction struct {
	Name   string
	Params []string
	Body   []Expr
}

// NewScriptFunction returns a script-backed function.
func NewScriptFunction(name string, params []string, body []Expr) *ScriptFunction {
	return &ScriptFunction{Name: name, Params: params, Body: body}
}

// Call implements [Function].
func (f *ScriptFunction) Call(ev *Evaluator, args []Argument) (Value, error) {
	child := ev.CreateChild(ev.Entity())

	for i, name := range f.Params {
		v := Null()

		if i < len(args) {
			var err error

			v, err = args[i].Eval()
			if err != nil {
				return Null(), err
			}
		}

		child.Scope().Define(name, v)
	}

	return child.EvalAll(f.Body)
}
