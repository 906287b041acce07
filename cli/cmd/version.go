package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/molang/pkg"
)

// Version prints the program name and version.
type Version struct{}

// Run executes the version command.
func (Version) Run(ctx context.Context) error {
	sess, err := sessionFrom(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(sess.Stdout, pkg.Name, pkg.Version)

	return err
}
