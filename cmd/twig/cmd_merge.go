package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/twig/pkg/repo"
)

func newMergeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <branch>",
		Short: "Bring another branch's file changes into the working directory",
		Long: `Bring another branch's file changes into the working directory.

Files changed only on the other branch are overwritten. Files changed on
both sides are left alone and the other version is written next to them
with a .conflicted suffix. No commit is made.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, opts, "merge", func(r *repo.Repo) error {
				if err := confirmDangerous(opts, r, "merge"); err != nil {
					return err
				}
				report, err := r.Merge(args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				updated := 0
				for _, f := range report.Files {
					switch f.Status {
					case repo.MergeUpdated:
						updated++
						fmt.Fprintf(out, "updated  %s\n", f.Path)
					case repo.MergeConflict:
						fmt.Fprintf(out, "CONFLICT %s (theirs in %s%s)\n", f.Path, f.Path, repo.ConflictSuffix)
					}
				}
				fmt.Fprintf(out, "merged %s: %d updated, %d conflict(s)\n", args[0], updated, report.TotalConflicts)
				return nil
			})
		},
	}
}
