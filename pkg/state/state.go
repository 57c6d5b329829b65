// Package state holds the repository aggregate: the commit arena, branch
// table, staging area and commit-message index.
//
// A State is a plain value. Commands load it, operate on it, and hand it
// back for saving; nothing in this package keeps it in a global.
package state

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/odvcencio/twig/pkg/object"
)

var (
	ErrUnknownCommit   = errors.New("no commit with that id exists")
	ErrAmbiguousCommit = errors.New("commit id prefix is ambiguous")
	ErrBrokenChain     = errors.New("commit chain is broken")
)

// DefaultBranch is the branch created by a new repository.
const DefaultBranch = "master"

// InitialMessage is the message of every repository's first commit.
const InitialMessage = "initial commit"

// Branch is a named pointer to a commit.
type Branch struct {
	Name string
	Head object.Hash
}

// State is the repository aggregate root.
type State struct {
	Commits  map[object.Hash]*object.Commit
	Branches map[string]*Branch
	Current  string
	Staging  *Staging
	Messages map[string]map[object.Hash]struct{}
}

// New returns a State holding a single branch with no commits yet.
func New(branch string) *State {
	if branch == "" {
		branch = DefaultBranch
	}
	return &State{
		Commits:  make(map[object.Hash]*object.Commit),
		Branches: map[string]*Branch{branch: {Name: branch}},
		Current:  branch,
		Staging:  NewStaging(),
		Messages: make(map[string]map[object.Hash]struct{}),
	}
}

// AddCommit registers c in the arena and the message index. The arena is
// append-only: an id already present is left untouched.
func (s *State) AddCommit(c *object.Commit) {
	if _, ok := s.Commits[c.ID]; ok {
		return
	}
	s.Commits[c.ID] = c
	ids, ok := s.Messages[c.Message]
	if !ok {
		ids = make(map[object.Hash]struct{})
		s.Messages[c.Message] = ids
	}
	ids[c.ID] = struct{}{}
}

// Commit looks up a commit by full id.
func (s *State) Commit(id object.Hash) (*object.Commit, bool) {
	c, ok := s.Commits[id]
	return c, ok
}

// CurrentBranch returns the checked-out branch.
func (s *State) CurrentBranch() *Branch {
	return s.Branches[s.Current]
}

// Head returns the head commit of b, or nil when b has no commits.
func (s *State) Head(b *Branch) *object.Commit {
	if b == nil || b.Head == "" {
		return nil
	}
	return s.Commits[b.Head]
}

// History returns the chain starting at id and following parent links to
// the root, newest first. The walk is bounded by the arena size so a
// corrupted cycle cannot loop forever.
func (s *State) History(id object.Hash) ([]*object.Commit, error) {
	var out []*object.Commit
	cur := id
	for cur != "" {
		if len(out) > len(s.Commits) {
			return nil, fmt.Errorf("history from %s: %w: cycle detected", id.Short(), ErrBrokenChain)
		}
		c, ok := s.Commits[cur]
		if !ok {
			return nil, fmt.Errorf("history from %s: %w: missing %s", id.Short(), ErrBrokenChain, cur.Short())
		}
		out = append(out, c)
		cur = c.ParentID
	}
	return out, nil
}

// ResolveID expands a full id or unique id prefix into a commit id.
func (s *State) ResolveID(prefix string) (object.Hash, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", ErrUnknownCommit
	}
	if _, ok := s.Commits[object.Hash(prefix)]; ok {
		return object.Hash(prefix), nil
	}
	var match object.Hash
	for id := range s.Commits {
		if strings.HasPrefix(string(id), prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguousCommit, prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", ErrUnknownCommit
	}
	return match, nil
}

// FindByMessage returns the ids of commits whose message equals msg, sorted.
func (s *State) FindByMessage(msg string) []object.Hash {
	ids := s.Messages[msg]
	out := make([]object.Hash, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// BranchNames returns every branch name, sorted.
func (s *State) BranchNames() []string {
	out := make([]string, 0, len(s.Branches))
	for n := range s.Branches {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Heads snapshots the head of every branch.
func (s *State) Heads() map[string]object.Hash {
	out := make(map[string]object.Hash, len(s.Branches))
	for n, b := range s.Branches {
		out[n] = b.Head
	}
	return out
}

// SortedCommits returns every commit, newest first; ties break on id.
func (s *State) SortedCommits() []*object.Commit {
	out := make([]*object.Commit, 0, len(s.Commits))
	for _, c := range s.Commits {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp > out[j].Timestamp
		}
		return out[i].ID < out[j].ID
	})
	return out
}
