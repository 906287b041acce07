package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/ardnew/molang/log"
)

// Engine owns a global scope and parses, evaluates and compiles scripts
// against it.
//
// An Engine is safe for concurrent use once constructed. Evaluations share
// the read-only globals and the temp storage; everything else they define is
// private to the evaluation.
type Engine struct {
	global    *GlobalScope
	cache     *parseCache
	bindings  map[string]Value
	scripts   map[string]scriptDef
	queries   *queryDef
	logger    log.Logger
	resolvers Resolvers
	errs      []error
	maxDepth  int
	limit     int
}

type scriptDef struct {
	src    string
	params []string
}

type queryDef struct {
	exemplar any
	sources  map[string]string
}

// Option configures an [Engine].
type Option func(*Engine)

// WithBinding binds name to the host value x, converted with [ValueOf].
func WithBinding(name string, x any) Option {
	return func(e *Engine) {
		if name == "" {
			e.errs = append(e.errs, ErrConfig.Wrap(NewError("empty binding name")))

			return
		}

		e.bindings[name] = ValueOf(x)
	}
}

// WithBindings binds every entry of m as by [WithBinding].
func WithBindings(m map[string]any) Option {
	return func(e *Engine) {
		for name, x := range m {
			WithBinding(name, x)(e)
		}
	}
}

// WithNamespace binds name to ns.
func WithNamespace(name string, ns Namespace) Option {
	return WithBinding(name, Object(ns))
}

// WithFunction binds name to fn.
func WithFunction(name string, fn Function) Option {
	return WithBinding(name, Callable(fn))
}

// WithScript binds name to a [ScriptFunction] parsed from src.
func WithScript(name string, params []string, src string) Option {
	return func(e *Engine) {
		if e.scripts == nil {
			e.scripts = make(map[string]scriptDef)
		}

		e.scripts[name] = scriptDef{src: src, params: params}
	}
}

// WithResolver adds a resolver consulted for names the globals do not bind.
// Resolvers are consulted in the order they are added.
func WithResolver(r Resolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.resolvers = append(e.resolvers, r)
		}
	}
}

// WithQueries binds the query namespace (and its alias) to expr-lang programs
// compiled from sources. See [CompileQueries] for the role of exemplar.
func WithQueries(exemplar any, sources map[string]string) Option {
	return func(e *Engine) {
		e.queries = &queryDef{exemplar: exemplar, sources: sources}
	}
}

// WithMaxDepth sets the parser nesting limit. Non-positive values restore
// [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth <= 0 {
			depth = DefaultMaxDepth
		}

		e.maxDepth = depth
	}
}

// WithRecursionLimit sets the limit on nested calls. Zero or less disables
// the limit.
func WithRecursionLimit(limit int) Option {
	return func(e *Engine) { e.limit = limit }
}

// WithCache enables or disables the parse cache. It is enabled by default.
func WithCache(enabled bool) Option {
	return func(e *Engine) {
		if enabled {
			e.cache = new(parseCache)
		} else {
			e.cache = nil
		}
	}
}

// WithLogger sets the logger used for trace and debug output.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New returns an engine whose globals hold the [Math] library, the temp
// storage, and whatever the options bind.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		cache:    new(parseCache),
		bindings: map[string]Value{MathNamespace: Object(Math())},
		maxDepth: DefaultMaxDepth,
		limit:    DefaultRecursionLimit,
	}

	for _, opt := range opts {
		opt(e)
	}

	for name, def := range e.scripts {
		body, err := parse(def.src, e.maxDepth)
		if err != nil {
			e.errs = append(e.errs,
				ErrConfig.With(slog.String("function", name)).Wrap(err))

			continue
		}

		e.bindings[name] = Callable(NewScriptFunction(name, def.params, body))
	}

	if e.queries != nil {
		q, err := CompileQueries(e.queries.exemplar, e.queries.sources)
		if err != nil {
			e.errs = append(e.errs, err)
		} else {
			q.logger = e.logger
			e.bindings[QueryNamespace] = Object(q)
			e.bindings[QueryNamespaceAlias] = Object(q)
		}
	}

	if err := errors.Join(e.errs...); err != nil {
		return nil, err
	}

	var resolver Resolver
	if len(e.resolvers) > 0 {
		resolver = e.resolvers
	}

	e.global = NewGlobalScope(e.bindings, resolver)
	e.bindings, e.scripts, e.queries, e.errs = nil, nil, nil, nil

	e.logger.Trace("engine ready",
		slog.Int("globals", len(e.global.Names())),
		slog.Int("max_depth", e.maxDepth),
		slog.Int("recursion_limit", e.limit),
		slog.Bool("cache", e.cache != nil),
	)

	return e, nil
}

// Global returns the engine's global scope.
func (e *Engine) Global() *GlobalScope { return e.global }

// Logger returns the engine's logger.
func (e *Engine) Logger() log.Logger { return e.logger }

// ClearCache discards every cached parse.
func (e *Engine) ClearCache() {
	if e.cache != nil {
		e.cache.clear()
	}
}

// Parse parses src into a script body.
func (e *Engine) Parse(ctx context.Context, src string) ([]Expr, error) {
	start := time.Now()

	e.logger.TraceContext(ctx, "parse start", slog.Int("source_bytes", len(src)))

	var (
		exprs []Expr
		err   error
	)

	if e.cache != nil {
		exprs, err = e.cache.load(ctx, e, src)
	} else {
		exprs, err = parse(src, e.maxDepth)
	}

	if err != nil {
		e.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	e.logger.TraceContext(ctx, "parse complete",
		slog.Int("exprs", len(exprs)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return exprs, nil
}

// ParseReader reads all of r and parses it as [Engine.Parse] does.
func (e *Engine) ParseReader(ctx context.Context, r io.Reader) ([]Expr, error) {
	src, err := readSource(r)
	if err != nil {
		return nil, err
	}

	e.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(src)),
		slog.Bool("read_ahead", true),
	)

	return e.Parse(ctx, src)
}

// Evaluate runs exprs as a script body with no entity. Bindings, which may be
// nil, are visible only to this evaluation and receive assignments to the
// names they hold.
func (e *Engine) Evaluate(
	ctx context.Context,
	exprs []Expr,
	bindings map[string]Value,
) (Value, error) {
	return e.EvaluateEntity(ctx, nil, exprs, bindings)
}

// EvaluateEntity is [Engine.Evaluate] with a bound host entity.
func (e *Engine) EvaluateEntity(
	ctx context.Context,
	entity any,
	exprs []Expr,
	bindings map[string]Value,
) (Value, error) {
	ev := e.evaluator(ctx, entity, bindings)

	v, err := ev.EvalAll(exprs)
	if err != nil {
		e.logger.DebugContext(ctx, "evaluation failed", slog.Any("error", err))

		return Null(), err
	}

	e.logger.TraceContext(ctx, "evaluation complete",
		slog.String("kind", v.Kind().String()),
		slog.String("result", v.String()),
	)

	return v, nil
}

// EvaluateString parses src and evaluates it as [Engine.Evaluate] does.
func (e *Engine) EvaluateString(
	ctx context.Context,
	src string,
	bindings map[string]Value,
) (Value, error) {
	exprs, err := e.Parse(ctx, src)
	if err != nil {
		return Null(), err
	}

	return e.Evaluate(ctx, exprs, bindings)
}

// Compile binds exprs to sig. The trees are shared, not copied.
func (e *Engine) Compile(exprs []Expr, sig Signature) (*CompiledFunction, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	return &CompiledFunction{
		engine: e,
		exprs:  append([]Expr(nil), exprs...),
		sig:    sig,
	}, nil
}

// CompileString parses src and binds it to sig.
func (e *Engine) CompileString(
	ctx context.Context,
	src string,
	sig Signature,
) (*CompiledFunction, error) {
	exprs, err := e.Parse(ctx, src)
	if err != nil {
		return nil, err
	}

	return e.Compile(exprs, sig)
}

// evaluator returns a fresh evaluator over the globals. Non-empty bindings
// get a scope of their own between the globals and the evaluator's locals.
func (e *Engine) evaluator(
	ctx context.Context,
	entity any,
	bindings map[string]Value,
) *Evaluator {
	parent := e.global.Scope()

	if len(bindings) > 0 {
		parent = NewScope(parent)

		for name, v := range bindings {
			parent.Define(name, v)
		}
	}

	return newEvaluator(ctx, parent, entity, e.limit, e.logger)
}
