package state

import "github.com/odvcencio/twig/pkg/object"

// Staging holds the additions and removals pending for the next commit.
// A filename is never in both sets.
type Staging struct {
	Staged  object.FileSet
	Removed object.FileSet
}

func NewStaging() *Staging {
	return &Staging{Staged: object.NewFileSet(), Removed: object.NewFileSet()}
}

// Stage marks name for inclusion and clears any pending removal.
func (s *Staging) Stage(name string) {
	s.Staged.Add(name)
	s.Removed.Delete(name)
}

// MarkRemoved marks name for exclusion and unstages it.
func (s *Staging) MarkRemoved(name string) {
	s.Removed.Add(name)
	s.Staged.Delete(name)
}

// Empty reports whether nothing is pending.
func (s *Staging) Empty() bool {
	return len(s.Staged) == 0 && len(s.Removed) == 0
}

// Clear drops all pending changes.
func (s *Staging) Clear() {
	s.Staged = object.NewFileSet()
	s.Removed = object.NewFileSet()
}
