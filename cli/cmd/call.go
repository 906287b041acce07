package cmd

import (
	"context"
	"io"
	"log/slog"
	"slices"

	"github.com/ardnew/molang/lang"
	"github.com/ardnew/molang/pkg"
)

// Call compiles a script against a signature and calls it with arguments.
type Call struct {
	Output

	Signature string   `help:"Parameters and return type, as in \"(a: number, b: number) -> number\"" required:"" short:"S"`
	Expr      string   `help:"Function body"                                                           short:"e" xor:"body"`
	File      string   `help:"Script file holding the function body, or '-' for stdin"     name:"file" short:"f" xor:"body"`
	Args      []string `arg:"" help:"Arguments, coerced to the parameter types" name:"args" optional:""`
}

// Run executes the call command.
func (c *Call) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sess, err := sessionFrom(ctx)
	if err != nil {
		return err
	}

	sig, err := lang.ParseSignature(c.Signature)
	if err != nil {
		return ErrCall.Wrap(err)
	}

	body, err := c.body(sess)
	if err != nil {
		return ErrCall.Wrap(err)
	}

	fn, err := sess.Engine.CompileString(ctx, body, sig)
	if err != nil {
		return ErrCall.With(slog.String("signature", sig.String())).Wrap(err)
	}

	args := slices.Collect(pkg.TypeCast[string, lang.Value](parseValue).Values(c.Args...))

	result, err := fn.CallEntity(ctx, sess.Entity, args...)
	if err != nil {
		return ErrCall.With(
			slog.String("signature", sig.String()),
			slog.Int("args", len(args)),
		).Wrap(err)
	}

	return c.write(sess.Stdout, result)
}

// body returns the function source from --expr, or else from --file, or
// else from stdin.
func (c *Call) body(sess *Session) (string, error) {
	if c.Expr != "" {
		return c.Expr, nil
	}

	name := c.File
	if name == "" {
		name = stdinSource
	}

	src, done, err := sess.openSource(name)
	if err != nil {
		return "", err
	}
	defer done()

	b, err := io.ReadAll(src)
	if err != nil {
		return "", pkg.ErrReadInput.Wrap(err)
	}

	return string(b), nil
}
