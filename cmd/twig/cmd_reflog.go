package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/odvcencio/twig/pkg/repo"
)

func newReflogCmd(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "reflog [branch]",
		Short: "Show head movements of a branch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			branch := ""
			if len(args) == 1 {
				branch = args[0]
			}
			return withRepo(cmd, opts, "", func(r *repo.Repo) error {
				entries, err := r.ReadReflog(branch, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, e := range entries {
					ts := time.Unix(e.Timestamp, 0).UTC().Format(time.RFC3339)
					fmt.Fprintf(out, "%s %s %s %s\n", e.NewHash.Short(), ts, e.Branch, e.Reason)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to show")
	return cmd
}
