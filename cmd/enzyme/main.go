package main

import (
	"context"
	"os"

	"github.com/arthur-debert/enzyme/internal/cli"
	"github.com/arthur-debert/enzyme/internal/version"
	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/charmbracelet/fang"
)

func main() {
	rootCmd := cli.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.String()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(cli.ErrorHandler),
		fang.WithoutManpage(),
	); err != nil {
		os.Exit(errors.ExitCode(err))
	}
}
