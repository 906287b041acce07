package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/molang/lang"
	"github.com/ardnew/molang/pkg"
)

// Fmt parses a script and writes it in the chosen format.
type Fmt struct {
	Source SourceFmt `cmd:"" default:"withargs" help:"Format as canonical molang source (default)."`
	JSON   JSON      `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML      `cmd:""                    help:"Format the syntax tree as YAML."`
	AST    AST       `cmd:""                    help:"Print an outline of the syntax tree."`
}

// Input names the script read by every fmt subcommand.
type Input struct {
	Source string `arg:"" default:"-" help:"Script file or '-' for stdin." name:"source"`
}

// parse reads and parses the named script with the session engine.
func (in Input) parse(ctx context.Context, format string) (*Session, []lang.Expr, error) {
	sess, err := sessionFrom(ctx)
	if err != nil {
		return nil, nil, err
	}

	src, done, err := sess.openSource(in.Source)
	if err != nil {
		return nil, nil, err
	}
	defer done()

	exprs, err := sess.Engine.ParseReader(ctx, src)
	if err != nil {
		return nil, nil, lang.WrapError(err).With(
			slog.String("format", format),
			slog.String("source", in.Source),
		)
	}

	return sess, exprs, nil
}

// SourceFmt formats a script as canonical source text.
type SourceFmt struct {
	Input

	Indent int `default:"0" help:"Write each top-level expression on its own line when positive" short:"i"`
}

// Run executes the fmt source command.
func (f *SourceFmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sess, exprs, err := f.parse(ctx, "source")
	if err != nil {
		return err
	}

	return lang.Format(sess.Stdout, exprs, f.Indent)
}

// JSON formats the syntax tree as JSON.
type JSON struct {
	Input

	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)" short:"i"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sess, exprs, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	if err := lang.FormatJSON(ctx, sess.Stdout, exprs, j.Indent); err != nil {
		return pkg.ErrJSONMarshal.Wrap(err)
	}

	return nil
}

// YAML formats the syntax tree as YAML.
type YAML struct {
	Input

	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sess, exprs, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	if err := lang.FormatYAML(ctx, sess.Stdout, exprs, y.Indent); err != nil {
		return pkg.ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// AST prints an indented outline of the syntax tree.
type AST struct {
	Input
}

// Run executes the fmt ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sess, exprs, err := a.parse(ctx, "ast")
	if err != nil {
		return err
	}

	return lang.Print(sess.Stdout, exprs)
}
