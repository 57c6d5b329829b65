package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/twig/pkg/repo"
)

func newResetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <commit>",
		Short: "Move the current branch to a commit and restore its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, opts, "reset", func(r *repo.Repo) error {
				if err := confirmDangerous(opts, r, "reset"); err != nil {
					return err
				}
				c, err := r.Reset(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "HEAD is now at %s %s\n", c.ID.Short(), firstLine(c.Message))
				return nil
			})
		},
	}
}
