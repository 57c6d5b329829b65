package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odvcencio/twig/pkg/repo"
)

func newCommitCmd(opts *globalOptions) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit [message]",
		Short: "Record staged changes as a new commit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if message != "" {
					return fmt.Errorf("commit: give the message either as an argument or with -m, not both")
				}
				message = args[0]
			}
			return withRepo(cmd, opts, "commit", func(r *repo.Repo) error {
				c, err := r.Commit(message)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", r.CurrentBranch(), c.ID.Short(), firstLine(c.Message))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	return cmd
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
