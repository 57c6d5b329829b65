package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/twig/pkg/boltstore"
)

// ReadReflog returns the recorded head movements of branch, newest first.
// An empty branch means the current one. limit <= 0 returns everything.
func (r *Repo) ReadReflog(branch string, limit int) ([]boltstore.ReflogEntry, error) {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		branch = r.State.Current
	}
	if _, ok := r.State.Branches[branch]; !ok {
		return nil, userError("reflog", fmt.Errorf("%w: %s", ErrBranchNotFound, branch))
	}
	if r.db == nil {
		return nil, nil
	}
	entries, err := r.db.ReadReflog(branch, limit)
	if err != nil {
		return nil, wrap("reflog", err)
	}
	return entries, nil
}
