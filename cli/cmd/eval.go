package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/molang/lang"
)

// argsSource names the script given as positional arguments.
const argsSource = "<args>"

// Eval evaluates scripts and prints the last result.
type Eval struct {
	Output

	Files []string          `help:"Script file(s) evaluated in order, or '-' for stdin" name:"file" short:"f"`
	Set   map[string]string `help:"Bind name=value for every evaluated script"                       short:"s"`
	Expr  []string          `arg:"" help:"Script text, evaluated after any files" name:"expr" optional:""`
}

// Run executes the eval command.
//
// Each script runs in a fresh local scope, but all of them share the
// session engine, so temp storage written by one is visible to the next.
// Without files or script text the script is read from stdin.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sess, err := sessionFrom(ctx)
	if err != nil {
		return err
	}

	files := e.Files
	if len(files) == 0 && len(e.Expr) == 0 {
		files = []string{stdinSource}
	}

	srcs, closeAll, err := sess.openSources(files)
	if err != nil {
		return ErrEvaluate.Wrap(err)
	}
	defer closeAll()

	if len(e.Expr) > 0 {
		srcs = append(srcs, source{
			name:   argsSource,
			Reader: strings.NewReader(strings.Join(e.Expr, " ")),
		})
	}

	bindings := make(map[string]lang.Value, len(e.Set))
	for name, val := range e.Set {
		bindings[name] = parseValue(val)
	}

	result := lang.Number(0)

	for _, src := range srcs {
		exprs, err := sess.Engine.ParseReader(ctx, src)
		if err != nil {
			return ErrEvaluate.With(slog.String("source", src.name)).Wrap(err)
		}

		result, err = sess.Engine.EvaluateEntity(ctx, sess.Entity, exprs, bindings)
		if err != nil {
			return ErrEvaluate.With(slog.String("source", src.name)).Wrap(err)
		}
	}

	return e.write(sess.Stdout, result)
}
