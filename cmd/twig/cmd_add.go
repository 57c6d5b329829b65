package main

import (
	"github.com/spf13/cobra"

	"github.com/odvcencio/twig/pkg/repo"
)

func newAddCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>",
		Short: "Stage a file for the next commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, opts, "add", func(r *repo.Repo) error {
				name, err := r.RelPath(args[0])
				if err != nil {
					return err
				}
				return r.Add(name)
			})
		},
	}
}
