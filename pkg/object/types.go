package object

import (
	"sort"
	"time"
)

// Hash is a 64-character hex-encoded SHA-256 commit id.
type Hash string

// Short returns the first 8 characters of h, for display.
func (h Hash) Short() string {
	if len(h) > 8 {
		return string(h[:8])
	}
	return string(h)
}

// Manifest maps a filename to the id of the commit whose snapshot holds the
// version of that file visible in a commit.
type Manifest map[string]Hash

// Clone returns a copy of m. A nil manifest clones to an empty one.
func (m Manifest) Clone() Manifest {
	out := make(Manifest, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Paths returns the manifest's filenames in sorted order.
func (m Manifest) Paths() []string {
	out := make([]string, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// FileSet is an unordered set of filenames.
type FileSet map[string]struct{}

// NewFileSet builds a set from the given names.
func NewFileSet(names ...string) FileSet {
	s := make(FileSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s FileSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s FileSet) Add(name string) { s[name] = struct{}{} }

func (s FileSet) Delete(name string) { delete(s, name) }

// Union adds every member of other to s.
func (s FileSet) Union(other FileSet) {
	for n := range other {
		s[n] = struct{}{}
	}
}

func (s FileSet) Clone() FileSet {
	out := make(FileSet, len(s))
	out.Union(s)
	return out
}

// Sorted returns the members of s in sorted order.
func (s FileSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Commit is an immutable snapshot record. Commits form singly-parented
// chains; ParentID is empty only for a repository's initial commit.
type Commit struct {
	ID        Hash
	Message   string
	Timestamp int64 // Unix nanoseconds
	ParentID  Hash
	Manifest  Manifest
	Added     FileSet
	Removed   FileSet
}

// NewCommit derives a commit from parent (nil for the initial commit). The
// manifest is the parent's manifest with every added file pointing at the new
// commit and every removed file dropped.
func NewCommit(parent *Commit, message string, ts time.Time, added, removed FileSet) *Commit {
	var parentID Hash
	var base Manifest
	if parent != nil {
		parentID = parent.ID
		base = parent.Manifest
	}

	c := &Commit{
		Message:   message,
		Timestamp: ts.UnixNano(),
		ParentID:  parentID,
		Manifest:  base.Clone(),
		Added:     added.Clone(),
		Removed:   removed.Clone(),
	}
	c.ID = CommitID(parentID, c.Timestamp, message)

	for name := range c.Added {
		c.Manifest[name] = c.ID
	}
	for name := range c.Removed {
		delete(c.Manifest, name)
	}
	return c
}

// Time returns the commit timestamp as a time.Time.
func (c *Commit) Time() time.Time {
	return time.Unix(0, c.Timestamp)
}

// HasParent reports whether c has a parent commit.
func (c *Commit) HasParent() bool {
	return c.ParentID != ""
}

// Changed returns the union of c's added and removed filenames.
func (c *Commit) Changed() FileSet {
	out := c.Added.Clone()
	out.Union(c.Removed)
	return out
}
