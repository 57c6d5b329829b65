package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/twig/pkg/config"
	"github.com/odvcencio/twig/pkg/repo"
)

// withRepo opens the repository containing the working directory, runs fn,
// and saves the state when fn succeeds and reason is non-empty. Read-only
// commands pass an empty reason.
func withRepo(cmd *cobra.Command, opts *globalOptions, reason string, fn func(r *repo.Repo) error) error {
	root, err := repo.FindRoot(".")
	if err != nil {
		return err
	}
	cfg, err := config.Load(repo.ConfigPath(root))
	if err != nil {
		return &repo.Error{Kind: repo.KindEnvironment, Op: "config", Err: err}
	}
	logger, logFile := newLogger(repo.LogPath(root), cfg, opts.verbose, cmd.ErrOrStderr())
	defer logFile.Close()

	r, err := repo.Open(root, repo.WithConfig(cfg), repo.WithLogger(logger))
	if err != nil {
		return err
	}
	runErr := fn(r)
	if runErr == nil && reason != "" {
		runErr = r.Save(reason)
	}
	if runErr != nil {
		logger.WithError(runErr).WithField("op", cmd.Name()).Debug("command failed")
	}
	return errors.Join(runErr, closeErr(r))
}

func closeErr(c io.Closer) error {
	if err := c.Close(); err != nil {
		return &repo.Error{Kind: repo.KindEnvironment, Op: "close", Err: err}
	}
	return nil
}

func workingDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", &repo.Error{Kind: repo.KindEnvironment, Op: "getwd", Err: err}
	}
	return dir, nil
}
