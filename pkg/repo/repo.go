package repo

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/odvcencio/twig/pkg/boltstore"
	"github.com/odvcencio/twig/pkg/config"
	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/snapshot"
	"github.com/odvcencio/twig/pkg/state"
	"github.com/odvcencio/twig/pkg/worktree"
)

// Repo represents an opened twig repository: its state plus the
// collaborators that operations read and write through.
type Repo struct {
	RootDir   string // working directory root; empty for in-memory repos
	TwigDir   string // .twig/ directory
	Config    *config.Config
	State     *state.State
	Snapshots *snapshot.Store
	Worktree  worktree.Accessor

	log logrus.FieldLogger
	now func() time.Time
	db  *boltstore.Store
}

// Option configures a Repo.
type Option func(*Repo)

// WithLogger routes operation logs to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Repo) { r.log = l }
}

// WithClock replaces the wall clock used for commit timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repo) { r.now = now }
}

// New assembles a Repo from an existing state and collaborators without
// touching disk. Init and Open build on it.
func New(st *state.State, snaps *snapshot.Store, wt worktree.Accessor, opts ...Option) *Repo {
	r := newRepo(st, snaps, wt, opts)
	if r.Config == nil {
		r.Config = config.Default()
	}
	return r
}

func newRepo(st *state.State, snaps *snapshot.Store, wt worktree.Accessor, opts []Option) *Repo {
	r := &Repo{
		State:     st,
		Snapshots: snaps,
		Worktree:  wt,
		log:       discardLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create starts a fresh history on branch with an empty initial commit.
func Create(branch string, snaps *snapshot.Store, wt worktree.Accessor, opts ...Option) (*Repo, error) {
	r := New(state.New(branch), snaps, wt, opts...)
	if _, err := r.Commit(state.InitialMessage); err != nil {
		return nil, err
	}
	return r, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (r *Repo) currentHead() *object.Commit {
	return r.State.Head(r.State.CurrentBranch())
}

// Head returns the head commit of the current branch.
func (r *Repo) Head() (*object.Commit, error) {
	h := r.currentHead()
	if h == nil {
		return nil, invariantError("head", state.ErrBrokenChain)
	}
	return h, nil
}

// CurrentBranch returns the checked-out branch name.
func (r *Repo) CurrentBranch() string {
	return r.State.Current
}
