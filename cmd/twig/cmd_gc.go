package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/twig/pkg/repo"
)

func newGcCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gc",
		Short: "Remove snapshot directories no commit refers to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, opts, "", func(r *repo.Repo) error {
				removed, err := r.GC()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(removed) == 0 {
					fmt.Fprintln(out, "nothing to collect")
					return nil
				}
				for _, id := range removed {
					fmt.Fprintf(out, "removed %s\n", id.Short())
				}
				return nil
			})
		},
	}
}
