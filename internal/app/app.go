package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/FxEmbed/polyglot/internal/cli"
)

// exitError carries a process exit code through cobra's error return.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError(format string, args ...any) error {
	return &exitError{code: 2, err: fmt.Errorf(format, args...)}
}

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	return execute(args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func execute(args []string, stdio streams) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdio.in)
	cmd.SetOut(stdio.out)
	cmd.SetErr(stdio.err)

	err := cmd.Execute()
	if err == nil {
		return 0
	}

	fmt.Fprintln(stdio.err, "Error:", err)
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return 1
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "polyglot",
		Short:         "Translation service that fails over between providers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return cmd.Help()
		},
		Args: cobra.ArbitraryArgs,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitError{code: 2, err: err}
	})

	envLoader := cli.AddEnvFlag(cmd.PersistentFlags(), ".env", "Path to the .env file")

	cmd.AddCommand(
		newServeCmd(envLoader),
		newTranslateCmd(envLoader),
		newProvidersCmd(envLoader),
		newLanguagesCmd(envLoader),
		newHashTokenCmd(),
	)
	return cmd
}
