package repo

import (
	"fmt"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/state"
)

// FindSplitPoint returns the nearest commit shared by the histories of
// branches a and b. History is single-parented, so this is the first commit
// on b's chain that also lies on a's chain.
func (r *Repo) FindSplitPoint(a, b string) (*object.Commit, error) {
	ba, err := r.branch("merge-base", a)
	if err != nil {
		return nil, err
	}
	bb, err := r.branch("merge-base", b)
	if err != nil {
		return nil, err
	}
	split, err := r.splitPoint(ba, bb)
	if err != nil {
		return nil, wrap("merge-base", err)
	}
	return split, nil
}

func (r *Repo) splitPoint(a, b *state.Branch) (*object.Commit, error) {
	ancestors, err := r.State.History(a.Head)
	if err != nil {
		return nil, err
	}
	seen := make(map[object.Hash]struct{}, len(ancestors))
	for _, c := range ancestors {
		seen[c.ID] = struct{}{}
	}
	chain, err := r.State.History(b.Head)
	if err != nil {
		return nil, err
	}
	for _, c := range chain {
		if _, ok := seen[c.ID]; ok {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%s and %s: %w", a.Name, b.Name, ErrNoCommonAncestor)
}

// since returns the commits from head back to (but excluding) stop, newest
// first, together with every filename they added or removed.
func (r *Repo) since(head object.Hash, stop object.Hash) ([]*object.Commit, object.FileSet, error) {
	chain, err := r.State.History(head)
	if err != nil {
		return nil, nil, err
	}
	changed := object.NewFileSet()
	for i, c := range chain {
		if c.ID == stop {
			return chain[:i], changed, nil
		}
		changed.Union(c.Changed())
	}
	return nil, nil, fmt.Errorf("split point %s not on chain from %s: %w", stop.Short(), head.Short(), ErrNoCommonAncestor)
}
