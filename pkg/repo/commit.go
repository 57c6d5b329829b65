package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/state"
)

// Commit records the staging area as a new commit on the current branch
// and returns it.
//
// With nothing staged the call is refused, except for a branch that has no
// head yet: that produces the root commit. Changed files are copied into
// the snapshot store before the state is touched, so a failed copy leaves
// the branch, arena and staging area as they were.
func (r *Repo) Commit(message string) (*object.Commit, error) {
	if strings.TrimSpace(message) == "" {
		return nil, userError("commit", ErrEmptyMessage)
	}
	branch := r.State.CurrentBranch()
	if branch == nil {
		return nil, invariantError("commit", fmt.Errorf("%w: %s", ErrBranchNotFound, r.State.Current))
	}
	head := r.State.Head(branch)
	stg := r.State.Staging
	if stg.Empty() && head != nil {
		return nil, userError("commit", ErrNothingToCommit)
	}

	c := object.NewCommit(head, message, r.now(), stg.Staged, stg.Removed)
	if _, exists := r.State.Commit(c.ID); exists {
		return nil, userError("commit", fmt.Errorf("%w: %s", ErrIDCollision, c.ID.Short()))
	}
	if err := r.Snapshots.Materialize(c.ID, c.Added, r.Worktree); err != nil {
		return nil, wrap("commit", err)
	}

	r.State.AddCommit(c)
	branch.Head = c.ID
	stg.Clear()

	r.log.WithFields(logrus.Fields{
		"op":      "commit",
		"branch":  branch.Name,
		"commit":  c.ID.Short(),
		"files":   len(c.Added),
		"removed": len(c.Removed),
	}).Info("created commit")
	return c, nil
}

// Log returns the current branch's history, newest first.
func (r *Repo) Log() ([]*object.Commit, error) {
	head := r.currentHead()
	if head == nil {
		return nil, nil
	}
	commits, err := r.State.History(head.ID)
	if err != nil {
		return nil, wrap("log", err)
	}
	return commits, nil
}

// GlobalLog returns every commit ever made, newest first.
func (r *Repo) GlobalLog() []*object.Commit {
	return r.State.SortedCommits()
}

// Find returns the ids of commits whose message is exactly message.
func (r *Repo) Find(message string) ([]object.Hash, error) {
	ids := r.State.FindByMessage(message)
	if len(ids) == 0 {
		return nil, userError("find", ErrNoCommitMessage)
	}
	return ids, nil
}

// ResolveCommit expands a full id or unique id prefix.
func (r *Repo) ResolveCommit(prefix string) (*object.Commit, error) {
	return r.resolveCommit("resolve", prefix)
}

func (r *Repo) resolveCommit(op, prefix string) (*object.Commit, error) {
	id, err := r.State.ResolveID(prefix)
	if err != nil {
		if errors.Is(err, state.ErrAmbiguousCommit) {
			return nil, userError(op, fmt.Errorf("%w: %s", ErrAmbiguousID, prefix))
		}
		return nil, userError(op, fmt.Errorf("%w: %s", ErrCommitNotFound, prefix))
	}
	c, _ := r.State.Commit(id)
	return c, nil
}
