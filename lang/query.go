package lang

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/molang/log"
)

// Names under which compiled entity queries are bound in the global scope.
const (
	QueryNamespace      = "query"
	QueryNamespaceAlias = "q"
)

// Queries is a [ContextNamespace] of expr-lang programs evaluated against
// the bound entity of the evaluator that reads them.
//
// A query that has no entity to run against, or that fails at run time,
// yields 0.
type Queries struct {
	programs map[string]*vm.Program
	logger   log.Logger
}

// CompileQueries compiles each source in queries. When exemplar is non-nil,
// programs are type-checked against its type and every entity must have the
// same type.
func CompileQueries(exemplar any, queries map[string]string) (*Queries, error) {
	q := &Queries{programs: make(map[string]*vm.Program, len(queries))}

	for name, src := range queries {
		if !isIdentifier(name) {
			return nil, ErrQueryCompile.With(slog.String("query", name)).
				Wrap(NewError("query name is not an identifier"))
		}

		var opts []expr.Option
		if exemplar != nil {
			opts = append(opts, expr.Env(exemplar))
		}

		program, err := expr.Compile(src, opts...)
		if err != nil {
			return nil, ErrQueryCompile.With(
				slog.String("query", name),
				slog.String("source", src),
			).Wrap(err)
		}

		q.programs[name] = program
	}

	return q, nil
}

// Names returns the query names, sorted.
func (q *Queries) Names() []string {
	return slices.Sorted(maps.Keys(q.programs))
}

// Member implements [Namespace]. Outside of an evaluation there is no entity,
// so a known query yields 0.
func (q *Queries) Member(name string) (Value, bool) {
	if _, ok := q.programs[name]; !ok {
		return Null(), false
	}

	return Number(0), true
}

// MemberOf implements [ContextNamespace].
func (q *Queries) MemberOf(ev *Evaluator, name string) (Value, bool) {
	program, ok := q.programs[name]
	if !ok {
		return Null(), false
	}

	entity := ev.Entity()
	if entity == nil {
		q.logger.DebugContext(ev.Context(), "query without entity",
			slog.String("query", name))

		return Number(0), true
	}

	out, err := vm.Run(program, entity)
	if err != nil {
		q.logger.DebugContext(ev.Context(), "query failed",
			slog.String("query", name),
			slog.Any("error", err),
		)

		return Number(0), true
	}

	return ValueOf(out), true
}
