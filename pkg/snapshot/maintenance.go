package snapshot

import (
	"fmt"

	"github.com/go-git/go-billy/v5/util"

	"github.com/odvcencio/twig/pkg/object"
)

// VerifyReport summarizes a Verify run.
type VerifyReport struct {
	Commits int
	Entries int // distinct (commit, file) pairs checked
}

// Verify checks that every manifest entry of every given commit can be
// retrieved and passes its checksum. The first failure is returned.
func (s *Store) Verify(commits []*object.Commit) (*VerifyReport, error) {
	type key struct {
		id   object.Hash
		name string
	}
	seen := make(map[key]struct{})
	report := &VerifyReport{Commits: len(commits)}

	for _, c := range commits {
		for _, name := range c.Manifest.Paths() {
			k := key{id: c.Manifest[name], name: name}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			if _, err := s.Retrieve(k.id, k.name); err != nil {
				return report, fmt.Errorf("verify commit %s: %w", c.ID.Short(), err)
			}
			report.Entries++
		}
	}
	return report, nil
}

// GC removes snapshot directories whose id is not in live and returns the
// removed ids. Such directories are left behind when a command materializes
// files and then fails before the repository state is saved.
func (s *Store) GC(live map[object.Hash]struct{}) ([]object.Hash, error) {
	dirs, err := s.Dirs()
	if err != nil {
		return nil, fmt.Errorf("gc: %w", err)
	}
	var removed []object.Hash
	for _, id := range dirs {
		if _, ok := live[id]; ok {
			continue
		}
		if err := util.RemoveAll(s.fs, string(id)); err != nil {
			return removed, fmt.Errorf("gc: remove %s: %w", id.Short(), err)
		}
		removed = append(removed, id)
	}
	return removed, nil
}
