package repo

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/state"
)

// Reset moves the current branch to the commit named by id (or a unique
// prefix of it) and writes every file in that commit's manifest into the
// working directory. Files the manifest does not name are left alone.
func (r *Repo) Reset(id string) (*object.Commit, error) {
	c, err := r.resolveCommit("reset", id)
	if err != nil {
		return nil, err
	}
	if err := r.resetTo(r.State.CurrentBranch(), c); err != nil {
		return nil, wrap("reset", err)
	}
	r.log.WithFields(logrus.Fields{"op": "reset", "branch": r.State.Current, "commit": c.ID.Short()}).Info("reset branch")
	return c, nil
}

// resetTo reads every stored version first so that a missing snapshot
// fails before the working directory or the branch is touched.
func (r *Repo) resetTo(b *state.Branch, c *object.Commit) error {
	paths := c.Manifest.Paths()
	contents := make([][]byte, len(paths))
	for i, name := range paths {
		data, err := r.Snapshots.Retrieve(c.Manifest[name], name)
		if err != nil {
			return err
		}
		contents[i] = data
	}
	for i, name := range paths {
		if err := r.Worktree.Write(name, contents[i]); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	b.Head = c.ID
	return nil
}
