package repo

import (
	"fmt"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/odvcencio/twig/pkg/worktree"
)

// Status is a point-in-time view of the branch table and staging area.
type Status struct {
	Current  string
	Branches []string
	Staged   []string
	Removed  []string
}

func cleanName(op, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", userError(op, fmt.Errorf("%w: empty path", ErrFileNotFound))
	}
	name = path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == ".." || strings.HasPrefix(name, "../") || path.IsAbs(name) {
		return "", userError(op, fmt.Errorf("%w: %s", ErrFileNotFound, name))
	}
	return name, nil
}

// Add stages name for the next commit. The file must exist in the working
// directory and differ from the version recorded by the current head.
func (r *Repo) Add(name string) error {
	name, err := cleanName("add", name)
	if err != nil {
		return err
	}
	if !r.Worktree.Exists(name) {
		return userError("add", fmt.Errorf("%w: %s", ErrFileNotFound, name))
	}

	changed, err := r.changedSinceHead(name)
	if err != nil {
		return wrap("add", err)
	}
	if !changed {
		return userError("add", fmt.Errorf("%w: %s", ErrNotModified, name))
	}

	r.State.Staging.Stage(name)
	r.log.WithFields(logrus.Fields{"op": "add", "file": name}).Debug("staged file")
	return nil
}

// changedSinceHead compares the working copy of name with the version in
// the current head. A file the head does not track counts as changed.
func (r *Repo) changedSinceHead(name string) (bool, error) {
	head := r.currentHead()
	if head == nil {
		return true, nil
	}
	src, ok := head.Manifest[name]
	if !ok {
		return true, nil
	}
	stored, err := r.Snapshots.Retrieve(src, name)
	if err != nil {
		return false, err
	}
	current, err := r.Worktree.Read(name)
	if err != nil {
		return false, err
	}
	return !worktree.SameLines(current, stored), nil
}

// Remove marks name for removal from the next commit. The working file is
// left in place. The file must be tracked by the current head or staged.
func (r *Repo) Remove(name string) error {
	name, err := cleanName("rm", name)
	if err != nil {
		return err
	}
	tracked := false
	if head := r.currentHead(); head != nil {
		_, tracked = head.Manifest[name]
	}
	if !tracked && !r.State.Staging.Staged.Has(name) {
		return userError("rm", fmt.Errorf("%w: %s", ErrNoReasonToRemove, name))
	}

	r.State.Staging.MarkRemoved(name)
	r.log.WithFields(logrus.Fields{"op": "rm", "file": name}).Debug("marked file for removal")
	return nil
}

// Status reports branches and pending changes, each sorted.
func (r *Repo) Status() *Status {
	return &Status{
		Current:  r.State.Current,
		Branches: r.State.BranchNames(),
		Staged:   r.State.Staging.Staged.Sorted(),
		Removed:  r.State.Staging.Removed.Sorted(),
	}
}
