package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/twig/pkg/config"
	"github.com/odvcencio/twig/pkg/repo"
)

func newInitCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty repository in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := workingDir()
			if err != nil {
				return err
			}
			cfg := config.Default()
			logger, logFile := newLogger(repo.LogPath(dir), cfg, opts.verbose, cmd.ErrOrStderr())
			defer logFile.Close()

			r, err := repo.Init(dir, repo.WithConfig(cfg), repo.WithLogger(logger))
			if err != nil {
				return err
			}
			defer r.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty twig repository in %s\n", r.TwigDir)
			return nil
		},
	}
}
