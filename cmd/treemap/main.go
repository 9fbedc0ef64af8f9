package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/treemap/internal/cli"
	tmerrors "github.com/matzehuels/treemap/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for bad input files or settings and 1 otherwise.
func exitCode(err error) int {
	switch tmerrors.GetCode(err) {
	case tmerrors.ErrCodeInvalidInput, tmerrors.ErrCodeInvalidConfig,
		tmerrors.ErrCodeInvalidFormat, tmerrors.ErrCodeDuplicateID:
		return 2
	}
	return 1
}
