package main

import (
	"github.com/spf13/cobra"

	"github.com/odvcencio/twig/pkg/repo"
)

func newRmCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <file>",
		Short: "Mark a file for removal from the next commit",
		Long:  "Mark a file for removal from the next commit. The working file is kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, opts, "rm", func(r *repo.Repo) error {
				name, err := r.RelPath(args[0])
				if err != nil {
					return err
				}
				return r.Remove(name)
			})
		},
	}
}
