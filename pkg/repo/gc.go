package repo

import (
	"github.com/sirupsen/logrus"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/snapshot"
)

// Verify checks that every file version named by any commit's manifest
// can be read back intact.
func (r *Repo) Verify() (*snapshot.VerifyReport, error) {
	report, err := r.Snapshots.Verify(r.State.SortedCommits())
	if err != nil {
		return report, wrap("verify", err)
	}
	r.log.WithFields(logrus.Fields{"op": "verify", "commits": report.Commits, "entries": report.Entries}).Info("verified snapshots")
	return report, nil
}

// GC removes snapshot directories that no manifest refers to.
func (r *Repo) GC() ([]object.Hash, error) {
	live := make(map[object.Hash]struct{})
	for _, c := range r.State.Commits {
		for _, src := range c.Manifest {
			live[src] = struct{}{}
		}
	}
	removed, err := r.Snapshots.GC(live)
	if err != nil {
		return removed, wrap("gc", err)
	}
	r.log.WithFields(logrus.Fields{"op": "gc", "removed": len(removed)}).Info("collected snapshots")
	return removed, nil
}
