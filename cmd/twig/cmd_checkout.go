package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/twig/pkg/repo"
)

func newCheckoutCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <branch> | <file> | <commit> <file>",
		Short: "Switch branches or restore a file from a commit",
		Long: `Switch branches or restore a file from a commit.

With one argument naming a branch, switch to it and write its files into the
working directory. Otherwise the argument is a file restored from the head
commit. With two arguments the file is restored from the given commit, which
may be abbreviated to any unique prefix.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, opts, "checkout", func(r *repo.Repo) error {
				if err := confirmDangerous(opts, r, "checkout"); err != nil {
					return err
				}
				if len(args) == 2 {
					name, err := r.RelPath(args[1])
					if err != nil {
						return err
					}
					return r.CheckoutFileAt(args[0], name)
				}
				if r.HasBranch(args[0]) {
					if err := r.CheckoutBranch(args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Switched to branch '%s'\n", args[0])
					return nil
				}
				name, err := r.RelPath(args[0])
				if err != nil {
					return err
				}
				return r.CheckoutFile(name)
			})
		},
	}
}
