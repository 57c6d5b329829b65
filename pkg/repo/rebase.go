package repo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/odvcencio/twig/pkg/object"
)

// Action is the operator's choice for one replayed commit.
type Action int

const (
	Continue Action = iota
	Skip
	Reword
)

func (a Action) String() string {
	switch a {
	case Continue:
		return "continue"
	case Skip:
		return "skip"
	case Reword:
		return "reword"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Decision is an Action plus the replacement message for Reword.
type Decision struct {
	Action  Action
	Message string
}

// Decider chooses what to do with each commit being replayed. Decide may
// block, for instance on an operator prompt. An error aborts the rebase
// before anything is changed.
type Decider interface {
	Decide(c *object.Commit) (Decision, error)
}

// DeciderFunc adapts a function to a Decider.
type DeciderFunc func(c *object.Commit) (Decision, error)

func (f DeciderFunc) Decide(c *object.Commit) (Decision, error) { return f(c) }

// ScriptedDecider answers from a fixed list, in order, then continues.
type ScriptedDecider struct {
	Decisions []Decision
	next      int
}

func (s *ScriptedDecider) Decide(*object.Commit) (Decision, error) {
	if s.next >= len(s.Decisions) {
		return Decision{Action: Continue}, nil
	}
	d := s.Decisions[s.next]
	s.next++
	return d, nil
}

// Rebase outcomes.
const (
	RebaseFastForward = "fast-forward"
	RebaseReplayed    = "replayed"
)

// RebaseReport describes a finished rebase.
type RebaseReport struct {
	Outcome    string
	Onto       string
	SplitPoint object.Hash
	Head       object.Hash
	Replayed   []*object.Commit // new commits, oldest first
	Skipped    int
}

// ReplayPlan is everything replay needs, computed once up front.
type ReplayPlan struct {
	Onto      *object.Commit   // target head; the first new parent
	Commits   []*object.Commit // originals to replay, oldest first
	Propagate object.Manifest  // filename -> entry in the target head's manifest
}

// Replay rewrites plan.Commits onto plan.Onto without touching any
// repository state. Each new commit keeps its original's added and removed
// sets, inherits from its new parent, takes every propagated entry, and
// finally points its own added files back at their original snapshots.
// now supplies each new commit's timestamp.
func Replay(plan *ReplayPlan, decider Decider, now func() time.Time) ([]*object.Commit, int, error) {
	var out []*object.Commit
	skipped := 0
	parent := plan.Onto
	for _, orig := range plan.Commits {
		msg := orig.Message
		if decider != nil {
			d, err := decider.Decide(orig)
			if err != nil {
				return nil, 0, err
			}
			switch d.Action {
			case Continue:
			case Skip:
				skipped++
				continue
			case Reword:
				if strings.TrimSpace(d.Message) == "" {
					return nil, 0, ErrEmptyMessage
				}
				msg = d.Message
			default:
				return nil, 0, fmt.Errorf("unknown rebase action %v", d.Action)
			}
		}

		c := object.NewCommit(parent, msg, now(), orig.Added, orig.Removed)
		// The parent already carries every propagated entry, and propagate never
		// names a file this range touched, so the overlay leaves the inherited
		// manifest as it is.
		for f, src := range plan.Propagate {
			c.Manifest[f] = src
		}
		for f := range orig.Added {
			if src, ok := orig.Manifest[f]; ok {
				c.Manifest[f] = src
			}
		}
		out = append(out, c)
		parent = c
	}
	return out, skipped, nil
}

// Rebase moves the current branch's commits since its split point with
// branch onto onto's head. A nil decider replays every commit unchanged.
//
// When the current head is already behind onto the branch is fast-forwarded.
// When onto is already contained in the current branch the call is refused
// with ErrUpToDate. Otherwise the replayed commits are added, the head
// advances to the last of them, and the working directory is reset to it.
func (r *Repo) Rebase(onto string, decider Decider) (*RebaseReport, error) {
	op := "rebase"
	if decider != nil {
		op = "i-rebase"
	}
	target, err := r.branch(op, onto)
	if err != nil {
		return nil, err
	}
	if onto == r.State.Current {
		return nil, userError(op, fmt.Errorf("%w: cannot rebase a branch onto itself", ErrCurrentBranch))
	}
	current := r.State.CurrentBranch()

	split, err := r.splitPoint(current, target)
	if err != nil {
		return nil, wrap(op, err)
	}
	targetHead := r.State.Head(target)
	report := &RebaseReport{Onto: onto, SplitPoint: split.ID}

	switch split.ID {
	case target.Head:
		return nil, userError(op, ErrUpToDate)
	case current.Head:
		if err := r.resetTo(current, targetHead); err != nil {
			return nil, wrap(op, err)
		}
		report.Outcome = RebaseFastForward
		report.Head = targetHead.ID
		r.log.WithFields(logrus.Fields{"op": op, "branch": current.Name, "commit": targetHead.ID.Short()}).Info("fast-forwarded branch")
		return report, nil
	}

	plan, err := r.planReplay(current.Head, targetHead, split.ID)
	if err != nil {
		return nil, wrap(op, err)
	}
	replayed, skipped, err := Replay(plan, decider, r.now)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			return nil, userError(op, err)
		}
		return nil, userError(op, fmt.Errorf("%w: %w", ErrAborted, err))
	}

	final := targetHead
	if len(replayed) > 0 {
		final = replayed[len(replayed)-1]
	}
	for _, c := range replayed {
		if _, exists := r.State.Commit(c.ID); exists {
			return nil, userError(op, fmt.Errorf("%w: %s", ErrIDCollision, c.ID.Short()))
		}
	}
	for _, c := range replayed {
		r.State.AddCommit(c)
	}
	if err := r.resetTo(current, final); err != nil {
		return nil, wrap(op, err)
	}

	report.Outcome = RebaseReplayed
	report.Head = final.ID
	report.Replayed = replayed
	report.Skipped = skipped
	r.log.WithFields(logrus.Fields{
		"op":       op,
		"branch":   current.Name,
		"onto":     onto,
		"commit":   final.ID.Short(),
		"replayed": len(replayed),
		"skipped":  skipped,
	}).Info("rebased branch")
	return report, nil
}

func (r *Repo) planReplay(head object.Hash, onto *object.Commit, split object.Hash) (*ReplayPlan, error) {
	mine, theseChanged, err := r.since(head, split)
	if err != nil {
		return nil, err
	}
	_, otherChanged, err := r.since(onto.ID, split)
	if err != nil {
		return nil, err
	}

	propagate := make(object.Manifest)
	for f := range otherChanged {
		if theseChanged.Has(f) {
			continue
		}
		if src, ok := onto.Manifest[f]; ok {
			propagate[f] = src
		}
	}

	ordered := make([]*object.Commit, len(mine))
	for i, c := range mine {
		ordered[len(mine)-1-i] = c
	}
	return &ReplayPlan{Onto: onto, Commits: ordered, Propagate: propagate}, nil
}
