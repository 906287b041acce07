package cmd

import (
	"context"

	"github.com/ardnew/molang/cli/cmd/repl"
	"github.com/ardnew/molang/log"
)

// Repl starts an interactive session over the configured engine.
type Repl struct{}

// Run executes the repl command.
func (Repl) Run(ctx context.Context) error {
	sess, err := sessionFrom(ctx)
	if err != nil {
		return err
	}

	return repl.Run(ctx, repl.Config{
		Engine:   sess.Engine,
		Entity:   sess.Entity,
		CacheDir: sess.CacheDir,
		Logger:   log.Default().WithGroup("repl"),
	})
}
