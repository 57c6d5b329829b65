package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/repo"
)

func newLogCmd(opts *globalOptions) *cobra.Command {
	var oneline bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the current branch's history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, opts, "", func(r *repo.Repo) error {
				commits, err := r.Log()
				if err != nil {
					return err
				}
				writeCommits(cmd.OutOrStdout(), commits, oneline)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	return cmd
}

func newGlobalLogCmd(opts *globalOptions) *cobra.Command {
	var oneline bool

	cmd := &cobra.Command{
		Use:   "global-log",
		Short: "Show every commit ever made, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, opts, "", func(r *repo.Repo) error {
				writeCommits(cmd.OutOrStdout(), r.GlobalLog(), oneline)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	return cmd
}

func writeCommits(out io.Writer, commits []*object.Commit, oneline bool) {
	for _, c := range commits {
		if oneline {
			fmt.Fprintf(out, "%s %s\n", c.ID.Short(), firstLine(c.Message))
			continue
		}
		writeCommit(out, c)
	}
}

func writeCommit(out io.Writer, c *object.Commit) {
	fmt.Fprintln(out, "===")
	fmt.Fprintf(out, "Commit %s\n", c.ID)
	fmt.Fprintln(out, c.Time().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(out, c.Message)
	fmt.Fprintln(out)
}
