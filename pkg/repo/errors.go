package repo

import (
	"errors"
	"fmt"

	"github.com/odvcencio/twig/pkg/snapshot"
	"github.com/odvcencio/twig/pkg/state"
)

// Kind classifies a failure.
type Kind int

const (
	// KindUser is a recoverable refusal; nothing was changed.
	KindUser Kind = iota + 1
	// KindInvariant means the repository is corrupted or the engine has a bug.
	KindInvariant
	// KindEnvironment is an I/O failure in storage or the working directory.
	KindEnvironment
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindInvariant:
		return "invariant"
	case KindEnvironment:
		return "environment"
	default:
		return "unknown"
	}
}

var (
	ErrNothingToCommit   = errors.New("no changes added to the commit")
	ErrEmptyMessage      = errors.New("please enter a commit message")
	ErrNotModified       = errors.New("file has not been modified since the last commit")
	ErrNoReasonToRemove  = errors.New("no reason to remove the file")
	ErrFileNotFound      = errors.New("file does not exist")
	ErrFileNotInCommit   = errors.New("file does not exist in that commit")
	ErrCommitNotFound    = errors.New("no commit with that id exists")
	ErrAmbiguousID       = errors.New("commit id prefix is ambiguous")
	ErrNoCommitMessage   = errors.New("found no commit with that message")
	ErrBranchNotFound    = errors.New("a branch with that name does not exist")
	ErrBranchExists      = errors.New("a branch with that name already exists")
	ErrInvalidBranchName = errors.New("invalid branch name")
	ErrCurrentBranch     = errors.New("operation not allowed on the current branch")
	ErrUpToDate          = errors.New("already up-to-date")
	ErrAborted           = errors.New("aborted")
	ErrRepoExists        = errors.New("a twig repository already exists in this directory")
	ErrNotARepo          = errors.New("not a twig repository (or any parent up to /)")
	ErrIDCollision       = errors.New("a commit with the same parent, time and message already exists")

	ErrNoCommonAncestor = errors.New("branches share no common ancestor")
)

// Error carries the failing operation and the kind of failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// KindOf reports the kind of err. Errors not produced by this package are
// treated as environment failures.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindEnvironment
}

func userError(op string, err error) error {
	return &Error{Kind: KindUser, Op: op, Err: err}
}

func invariantError(op string, err error) error {
	return &Error{Kind: KindInvariant, Op: op, Err: err}
}

// wrap classifies an error from a collaborator. Errors already classified
// pass through unchanged.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	switch {
	case errors.Is(err, snapshot.ErrNotMaterialized),
		errors.Is(err, snapshot.ErrCorrupt),
		errors.Is(err, state.ErrBrokenChain),
		errors.Is(err, state.ErrInconsistent),
		errors.Is(err, ErrNoCommonAncestor):
		return &Error{Kind: KindInvariant, Op: op, Err: err}
	}
	return &Error{Kind: KindEnvironment, Op: op, Err: err}
}
