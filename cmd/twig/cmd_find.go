package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/twig/pkg/repo"
)

func newFindCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <message>",
		Short: "Print the ids of commits with exactly this message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, opts, "", func(r *repo.Repo) error {
				ids, err := r.Find(args[0])
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	}
}
