package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/odvcencio/twig/pkg/repo"
)

func newRebaseCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rebase <branch>",
		Short: "Replay the current branch's commits on top of another branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRebase(cmd, opts, args[0], false)
		},
	}
}

func newInteractiveRebaseCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "i-rebase <branch>",
		Short: "Rebase, choosing to keep, skip or reword each commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRebase(cmd, opts, args[0], true)
		},
	}
}

func runRebase(cmd *cobra.Command, opts *globalOptions, onto string, interactive bool) error {
	op := "rebase"
	if interactive {
		op = "i-rebase"
	}
	return withRepo(cmd, opts, op, func(r *repo.Repo) error {
		if err := confirmDangerous(opts, r, op); err != nil {
			return err
		}
		var decider repo.Decider
		if interactive {
			if !opts.interactive() {
				return &repo.Error{Kind: repo.KindUser, Op: op, Err: fmt.Errorf("%w: i-rebase needs a terminal", repo.ErrAborted)}
			}
			decider = &promptDecider{prompt: opts.prompt, out: cmd.OutOrStdout()}
		}
		report, err := r.Rebase(onto, decider)
		if err != nil {
			return err
		}
		writeRebaseReport(cmd.OutOrStdout(), report)
		return nil
	})
}

func writeRebaseReport(out io.Writer, report *repo.RebaseReport) {
	switch report.Outcome {
	case repo.RebaseFastForward:
		fmt.Fprintf(out, "Current branch fast-forwarded to %s (%s)\n", report.Onto, report.Head.Short())
	default:
		fmt.Fprintf(out, "Replayed %d commit(s) onto %s", len(report.Replayed), report.Onto)
		if report.Skipped > 0 {
			fmt.Fprintf(out, ", skipped %d", report.Skipped)
		}
		fmt.Fprintf(out, "; head is now %s\n", report.Head.Short())
	}
}
