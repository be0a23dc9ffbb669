// Package cli provides the command-line interface for elblog.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/elblog/internal/cli/commands"
	"github.com/ccollicutt/elblog/pkg/parser"
	"github.com/ccollicutt/elblog/pkg/pipeline"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitInvalidLine = 1
	ExitError       = 2
	ExitFault       = 3
	ExitInterrupted = 130
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCommand().ExecuteContext(ctx)
	return ExitCode(err, os.Stderr)
}

// ExitCode maps the error returned by a command to an exit code and prints
// it to stderr. Rejected lines are not printed again: the reporter has
// already described them.
func ExitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}

	var (
		encErr *parser.EncodingError
		fault  *pipeline.FaultError
	)
	switch {
	case errors.Is(err, parser.ErrNoMatch):
		return ExitInvalidLine
	case errors.As(err, &encErr):
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidLine
	case errors.As(err, &fault):
		_, _ = fmt.Fprintf(stderr, "Error: %v\n%s", err, fault.Stack)
		return ExitFault
	case errors.Is(err, context.Canceled):
		_, _ = fmt.Fprintln(stderr, "Interrupted")
		return ExitInterrupted
	default:
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
}

// NewRootCommand creates the root cobra command. Run without a subcommand it
// converts the given paths.
func NewRootCommand() *cobra.Command {
	rootCmd := commands.NewParseCommand()
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.Version = commands.Version

	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
