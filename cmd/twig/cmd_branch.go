package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/twig/pkg/repo"
)

func newBranchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "branch [name]",
		Short: "Create a branch at the current head, or list branches",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return withRepo(cmd, opts, "branch", func(r *repo.Repo) error {
					return r.CreateBranch(args[0])
				})
			}
			return withRepo(cmd, opts, "", func(r *repo.Repo) error {
				out := cmd.OutOrStdout()
				current := r.CurrentBranch()
				for _, b := range r.Status().Branches {
					if b == current {
						fmt.Fprintf(out, "* %s\n", b)
					} else {
						fmt.Fprintf(out, "  %s\n", b)
					}
				}
				return nil
			})
		},
	}
}

func newRmBranchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-branch <name>",
		Short: "Delete a branch pointer; its commits are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, opts, "rm-branch", func(r *repo.Repo) error {
				if err := r.DeleteBranch(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted branch '%s'\n", args[0])
				return nil
			})
		},
	}
}
