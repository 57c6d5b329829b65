package repo

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/odvcencio/twig/pkg/object"
)

// ConflictSuffix is appended to a filename to hold the other branch's
// version when both sides changed the file.
const ConflictSuffix = ".conflicted"

// File merge outcomes.
const (
	MergeUpdated   = "updated"
	MergeConflict  = "conflict"
	MergeUnchanged = "unchanged"
)

// FileMergeReport records the merge outcome for a single file.
type FileMergeReport struct {
	Path   string
	Status string
}

// MergeReport is the result of merging another branch into the working
// directory.
type MergeReport struct {
	Branch         string
	SplitPoint     object.Hash
	Files          []FileMergeReport
	HasConflicts   bool
	TotalConflicts int
}

// Merge reconciles the working directory with branch name at whole-file
// granularity. For every file in the other head's manifest:
//
//   - changed only on the other branch (or new there): overwrite the
//     working file with its version
//   - changed on both sides: write its version to <file>.conflicted and
//     leave the working file alone
//   - otherwise: nothing
//
// No commit is created and neither head moves. Files deleted on the other
// branch are not deleted here.
func (r *Repo) Merge(name string) (*MergeReport, error) {
	other, err := r.branch("merge", name)
	if err != nil {
		return nil, err
	}
	if name == r.State.Current {
		return nil, userError("merge", fmt.Errorf("%w: cannot merge a branch with itself", ErrCurrentBranch))
	}
	current := r.State.CurrentBranch()

	split, err := r.splitPoint(current, other)
	if err != nil {
		return nil, wrap("merge", err)
	}
	_, theseChanged, err := r.since(current.Head, split.ID)
	if err != nil {
		return nil, wrap("merge", err)
	}
	_, otherChanged, err := r.since(other.Head, split.ID)
	if err != nil {
		return nil, wrap("merge", err)
	}
	otherHead := r.State.Head(other)
	currentHead := r.State.Head(current)

	type write struct {
		target string
		data   []byte
	}
	var writes []write
	report := &MergeReport{Branch: name, SplitPoint: split.ID}

	for _, f := range otherHead.Manifest.Paths() {
		status := MergeUnchanged
		target := f
		switch {
		case !otherChanged.Has(f):
		case !hasFile(currentHead, f) || !theseChanged.Has(f):
			status = MergeUpdated
		default:
			status = MergeConflict
			target = f + ConflictSuffix
		}
		report.Files = append(report.Files, FileMergeReport{Path: f, Status: status})
		if status == MergeUnchanged {
			continue
		}
		data, err := r.Snapshots.Retrieve(otherHead.Manifest[f], f)
		if err != nil {
			return nil, wrap("merge", err)
		}
		writes = append(writes, write{target: target, data: data})
		if status == MergeConflict {
			report.HasConflicts = true
			report.TotalConflicts++
		}
	}

	for _, w := range writes {
		if err := r.Worktree.Write(w.target, w.data); err != nil {
			return nil, wrap("merge", fmt.Errorf("write %s: %w", w.target, err))
		}
	}

	r.log.WithFields(logrus.Fields{
		"op":        "merge",
		"branch":    name,
		"split":     split.ID.Short(),
		"files":     len(writes),
		"conflicts": report.TotalConflicts,
	}).Info("merged branch into working directory")
	return report, nil
}
