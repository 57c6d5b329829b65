package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/twig/pkg/repo"
)

const version = "0.1.0-dev"

// globalOptions carries persistent flags and the operator I/O that
// commands share.
type globalOptions struct {
	verbose bool
	yes     bool

	prompt      prompter
	interactive func() bool
}

func main() {
	opts := &globalOptions{prompt: surveyPrompter{}, interactive: stdinIsTerminal}
	os.Exit(run(opts, os.Args[1:], os.Stdout, os.Stderr))
}

func newRootCmd(opts *globalOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "twig",
		Short:         "A small local version-control system",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "also log to stderr at debug level")
	root.PersistentFlags().BoolVarP(&opts.yes, "yes", "y", false, "skip confirmation for commands that overwrite working files")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(opts))
	root.AddCommand(newAddCmd(opts))
	root.AddCommand(newRmCmd(opts))
	root.AddCommand(newCommitCmd(opts))
	root.AddCommand(newLogCmd(opts))
	root.AddCommand(newGlobalLogCmd(opts))
	root.AddCommand(newFindCmd(opts))
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newCheckoutCmd(opts))
	root.AddCommand(newResetCmd(opts))
	root.AddCommand(newBranchCmd(opts))
	root.AddCommand(newRmBranchCmd(opts))
	root.AddCommand(newMergeCmd(opts))
	root.AddCommand(newRebaseCmd(opts))
	root.AddCommand(newInteractiveRebaseCmd(opts))
	root.AddCommand(newReflogCmd(opts))
	root.AddCommand(newVerifyCmd(opts))
	root.AddCommand(newGcCmd(opts))
	return root
}

// run executes one command line and returns the process exit code.
func run(opts *globalOptions, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return exitCode(root.Execute(), stderr)
}

// exitCode reports err on stderr. Refusals print their message alone and
// exit 1; I/O failures exit 2; a corrupted repository exits 3.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var e *repo.Error
	if !errors.As(err, &e) {
		// Usage errors from flag and argument parsing.
		fmt.Fprintln(stderr, err)
		return 1
	}
	switch e.Kind {
	case repo.KindUser:
		fmt.Fprintln(stderr, e.Err)
		return 1
	case repo.KindInvariant:
		fmt.Fprintf(stderr, "fatal: %v\n", err)
		return 3
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "twig %s\n", version)
		},
	}
}
