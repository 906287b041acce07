package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/molang/log"
)

// DefaultRecursionLimit is the default limit on nested calls.
const DefaultRecursionLimit = 256

// traceFrames is the number of innermost frames reported by a
// [RecursionLimitError].
const traceFrames = 8

// Evaluator walks expression trees against a [Scope].
//
// An Evaluator carries the bound host entity, a single return register and a
// stack of active calls. It is not safe for concurrent use; create one per
// evaluation, and use [Evaluator.CreateChild] for nested scopes.
type Evaluator struct {
	ctx      context.Context
	entity   any
	scope    *Scope
	logger   log.Logger
	stack    *[]string // callees of active calls, shared with children
	ret      Value
	limit    int
	returned bool
}

// NewEvaluator returns an evaluator with its own local scope over parent,
// bound to entity (which may be nil), using [DefaultRecursionLimit].
func NewEvaluator(ctx context.Context, parent *Scope, entity any) *Evaluator {
	return newEvaluator(ctx, parent, entity, DefaultRecursionLimit, log.Logger{})
}

func newEvaluator(
	ctx context.Context,
	parent *Scope,
	entity any,
	limit int,
	logger log.Logger,
) *Evaluator {
	if ctx == nil {
		ctx = context.Background()
	}

	return &Evaluator{
		ctx:    ctx,
		entity: entity,
		scope:  NewScope(parent),
		logger: logger,
		stack:  new([]string),
		limit:  limit,
	}
}

// Context returns the context the evaluator was created with.
func (ev *Evaluator) Context() context.Context { return ev.ctx }

// Entity returns the bound host entity, or nil.
func (ev *Evaluator) Entity() any { return ev.entity }

// EntityAs returns the evaluator's entity as a T.
func EntityAs[T any](ev *Evaluator) (T, bool) {
	t, ok := ev.entity.(T)

	return t, ok
}

// Scope returns the evaluator's local scope.
func (ev *Evaluator) Scope() *Scope { return ev.scope }

// Depth returns the number of active calls, including those of ancestor
// evaluators.
func (ev *Evaluator) Depth() int { return len(*ev.stack) }

// CreateChild returns an evaluator bound to entity whose local scope is
// layered over ev's. The child reads every binding visible to ev, keeps its
// own definitions private, and has an empty return register, so a return
// inside the child never reaches ev. Calls made by the child count toward
// ev's recursion limit.
func (ev *Evaluator) CreateChild(entity any) *Evaluator {
	child := newEvaluator(ev.ctx, ev.scope, entity, ev.limit, ev.logger)
	child.stack = ev.stack

	return child
}

// PopReturn returns and clears the return register.
func (ev *Evaluator) PopReturn() (Value, bool) {
	v, ok := ev.ret, ev.returned
	ev.ret, ev.returned = Null(), false

	return v, ok
}

// EvalAll evaluates a script body: each expression in order until one of
// them captures a return value, which becomes the result. Otherwise the
// result is the last expression's value, or the number 0 for an empty
// body. The return register is cleared first.
func (ev *Evaluator) EvalAll(exprs []Expr) (Value, error) {
	ev.PopReturn()

	result := Number(0)

	for _, e := range exprs {
		v, err := ev.Eval(e)
		if err != nil {
			return Null(), err
		}

		result = v

		if r, ok := ev.PopReturn(); ok {
			result = r

			break
		}
	}

	return result, nil
}

// Eval evaluates a single expression.
func (ev *Evaluator) Eval(e Expr) (Value, error) {
	switch e := e.(type) {
	case *NumberLit:
		return Number(e.Value), nil

	case *StringLit:
		return String(e.Value), nil

	case *BoolLit:
		return Boolean(e.Value), nil

	case *Ident:
		if v, ok := ev.scope.Lookup(e.Name); ok {
			return v, nil
		}

		return Number(0), nil

	case *Access:
		obj, err := ev.Eval(e.Object)
		if err != nil {
			return Null(), err
		}

		return ev.member(obj, e.Name), nil

	case *Call:
		return ev.call(e)

	case *Unary:
		v, err := ev.Eval(e.Operand)
		if err != nil {
			return Null(), err
		}

		if e.Op == "!" {
			return Boolean(!v.AsBoolean()), nil
		}

		return Number(-v.AsDouble()), nil

	case *Binary:
		return ev.binary(e)

	case *Ternary:
		cond, err := ev.Eval(e.Cond)
		if err != nil {
			return Null(), err
		}

		if cond.AsBoolean() {
			return ev.Eval(e.Then)
		}

		return ev.Eval(e.Else)

	case *Assign:
		return ev.assign(e)

	case *Block:
		result := Null()

		for _, child := range e.Exprs {
			v, err := ev.Eval(child)
			if err != nil {
				return Null(), err
			}

			if ev.returned {
				return ev.ret, nil
			}

			result = v
		}

		return result, nil

	case *Return:
		v, err := ev.Eval(e.Value)
		if err != nil {
			return Null(), err
		}

		ev.ret, ev.returned = v, true

		return v, nil
	}

	return Null(), nil
}

// member resolves name on obj, yielding 0 when obj is not a namespace or
// lacks the member.
func (ev *Evaluator) member(obj Value, name string) Value {
	ns, ok := obj.Namespace()
	if !ok {
		return Number(0)
	}

	var v Value

	if cn, isContext := ns.(ContextNamespace); isContext {
		v, ok = cn.MemberOf(ev, name)
	} else {
		v, ok = ns.Member(name)
	}

	if !ok {
		return Number(0)
	}

	return v
}

func (ev *Evaluator) call(e *Call) (Value, error) {
	if err := ev.ctx.Err(); err != nil {
		return Null(), err
	}

	callee, err := ev.Eval(e.Callee)
	if err != nil {
		return Null(), err
	}

	fn, ok := callee.Function()
	if !ok {
		return Null(), &NotCallableError{
			Callee: e.Callee.Source(),
			Kind:   callee.Kind(),
			Pos:    e.At,
		}
	}

	name := e.Callee.Source()

	stack := ev.stack
	*stack = append(*stack, name)
	defer func() { *stack = (*stack)[:len(*stack)-1] }()

	if ev.limit > 0 && ev.Depth() > ev.limit {
		trace := (*stack)[max(0, len(*stack)-traceFrames):]

		return Null(), &RecursionLimitError{
			Limit: ev.limit,
			Trace: append([]string(nil), trace...),
		}
	}

	ev.logger.TraceContext(ev.ctx, "call",
		slog.String("callee", name),
		slog.Int("args", len(e.Args)),
		slog.Int("depth", ev.Depth()),
	)

	args := make([]Argument, len(e.Args))
	for i, arg := range e.Args {
		args[i] = Argument{expr: arg, ev: ev}
	}

	return fn.Call(ev, args)
}

func (ev *Evaluator) binary(e *Binary) (Value, error) {
	left, err := ev.Eval(e.Left)
	if err != nil {
		return Null(), err
	}

	// Short-circuiting operators evaluate the right side only when needed.
	switch e.Op {
	case "&&":
		if !left.AsBoolean() {
			return Boolean(false), nil
		}

		right, err := ev.Eval(e.Right)

		return Boolean(right.AsBoolean()), err

	case "||":
		if left.AsBoolean() {
			return Boolean(true), nil
		}

		right, err := ev.Eval(e.Right)

		return Boolean(right.AsBoolean()), err

	case "??":
		if !left.IsNull() {
			return left, nil
		}

		return ev.Eval(e.Right)
	}

	right, err := ev.Eval(e.Right)
	if err != nil {
		return Null(), err
	}

	switch e.Op {
	case "==":
		return Boolean(left.Equal(right)), nil
	case "!=":
		return Boolean(!left.Equal(right)), nil
	}

	l, r := left.AsDouble(), right.AsDouble()

	switch e.Op {
	case "+":
		return Number(l + r), nil
	case "-":
		return Number(l - r), nil
	case "*":
		return Number(l * r), nil
	case "/":
		return Number(l / r), nil
	case "<":
		return Boolean(l < r), nil
	case "<=":
		return Boolean(l <= r), nil
	case ">":
		return Boolean(l > r), nil
	case ">=":
		return Boolean(l >= r), nil
	}

	return Number(0), nil
}

func (ev *Evaluator) assign(e *Assign) (Value, error) {
	v, err := ev.Eval(e.Value)
	if err != nil {
		return Null(), err
	}

	switch target := e.Target.(type) {
	case *Ident:
		ev.scope.Assign(target.Name, v)

	case *Access:
		obj, err := ev.Eval(target.Object)
		if err != nil {
			return Null(), err
		}

		if ns, ok := obj.Namespace(); ok {
			if mn, ok := ns.(MutableNamespace); ok {
				mn.SetMember(target.Name, v)
			}
		}
	}

	return v, nil
}
