package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/twig/pkg/repo"
)

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show branches and pending changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, opts, "", func(r *repo.Repo) error {
				st := r.Status()
				out := cmd.OutOrStdout()

				fmt.Fprintln(out, "=== Branches ===")
				for _, b := range st.Branches {
					if b == st.Current {
						fmt.Fprintf(out, "*%s\n", b)
					} else {
						fmt.Fprintln(out, b)
					}
				}
				fmt.Fprintln(out)

				fmt.Fprintln(out, "=== Staged Files ===")
				for _, f := range st.Staged {
					fmt.Fprintln(out, f)
				}
				fmt.Fprintln(out)

				fmt.Fprintln(out, "=== Files Marked for Removal ===")
				for _, f := range st.Removed {
					fmt.Fprintln(out, f)
				}
				return nil
			})
		},
	}
}
