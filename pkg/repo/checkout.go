package repo

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/odvcencio/twig/pkg/object"
)

// CheckoutFile restores name from the current head.
func (r *Repo) CheckoutFile(name string) error {
	name, err := cleanName("checkout", name)
	if err != nil {
		return err
	}
	head := r.currentHead()
	if head == nil || !hasFile(head, name) {
		return userError("checkout", fmt.Errorf("%w: %s", ErrFileNotInCommit, name))
	}
	return r.restoreFile("checkout", head, name)
}

// CheckoutFileAt restores name from the commit named by id (or a unique
// prefix of it).
func (r *Repo) CheckoutFileAt(id, name string) error {
	name, err := cleanName("checkout", name)
	if err != nil {
		return err
	}
	c, err := r.resolveCommit("checkout", id)
	if err != nil {
		return err
	}
	if !hasFile(c, name) {
		return userError("checkout", fmt.Errorf("%w: %s", ErrFileNotInCommit, name))
	}
	return r.restoreFile("checkout", c, name)
}

// CheckoutBranch makes name the current branch and resets the working
// directory to its head.
func (r *Repo) CheckoutBranch(name string) error {
	b, err := r.branch("checkout", name)
	if err != nil {
		return err
	}
	if name == r.State.Current {
		return userError("checkout", fmt.Errorf("%w: no need to checkout %s", ErrCurrentBranch, name))
	}
	head := r.State.Head(b)
	if head == nil {
		return invariantError("checkout", fmt.Errorf("branch %s has no head", name))
	}
	if err := r.resetTo(b, head); err != nil {
		return wrap("checkout", err)
	}
	r.State.Current = name
	r.log.WithFields(logrus.Fields{"op": "checkout", "branch": name, "commit": head.ID.Short()}).Info("switched branch")
	return nil
}

func hasFile(c *object.Commit, name string) bool {
	_, ok := c.Manifest[name]
	return ok
}

func (r *Repo) restoreFile(op string, c *object.Commit, name string) error {
	data, err := r.Snapshots.Retrieve(c.Manifest[name], name)
	if err != nil {
		return wrap(op, err)
	}
	if err := r.Worktree.Write(name, data); err != nil {
		return wrap(op, fmt.Errorf("write %s: %w", name, err))
	}
	r.log.WithFields(logrus.Fields{"op": op, "file": name, "commit": c.ID.Short()}).Debug("restored file")
	return nil
}
