package repo

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/odvcencio/twig/pkg/state"
)

// CreateBranch creates a branch pointing at the current head. It does not
// switch to it.
func (r *Repo) CreateBranch(name string) error {
	if err := validBranchName(name); err != nil {
		return userError("branch", err)
	}
	if _, ok := r.State.Branches[name]; ok {
		return userError("branch", fmt.Errorf("%w: %s", ErrBranchExists, name))
	}
	head := r.currentHead()
	if head == nil {
		return invariantError("branch", state.ErrBrokenChain)
	}
	r.State.Branches[name] = &state.Branch{Name: name, Head: head.ID}
	r.log.WithFields(logrus.Fields{"op": "branch", "branch": name, "commit": head.ID.Short()}).Info("created branch")
	return nil
}

// DeleteBranch removes a branch pointer. Its commits stay in the arena.
func (r *Repo) DeleteBranch(name string) error {
	if _, ok := r.State.Branches[name]; !ok {
		return userError("rm-branch", fmt.Errorf("%w: %s", ErrBranchNotFound, name))
	}
	if name == r.State.Current {
		return userError("rm-branch", fmt.Errorf("%w: cannot remove %s", ErrCurrentBranch, name))
	}
	delete(r.State.Branches, name)
	r.log.WithFields(logrus.Fields{"op": "rm-branch", "branch": name}).Info("removed branch")
	return nil
}

// HasBranch reports whether name is a branch.
func (r *Repo) HasBranch(name string) bool {
	_, ok := r.State.Branches[name]
	return ok
}

func (r *Repo) branch(op, name string) (*state.Branch, error) {
	b, ok := r.State.Branches[name]
	if !ok {
		return nil, userError(op, fmt.Errorf("%w: %s", ErrBranchNotFound, name))
	}
	return b, nil
}

func validBranchName(name string) error {
	if strings.TrimSpace(name) == "" || name != strings.TrimSpace(name) {
		return fmt.Errorf("%w: %q", ErrInvalidBranchName, name)
	}
	if strings.ContainsAny(name, " \t\n\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidBranchName, name)
	}
	return nil
}
