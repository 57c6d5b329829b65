// Package worktree provides access to the files of a repository's working
// directory.
package worktree

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Accessor is the set of working-directory primitives the engine needs.
// Paths are slash-separated and relative to the working directory root.
type Accessor interface {
	Exists(name string) bool
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
}

// Tree is an Accessor over a billy filesystem.
type Tree struct {
	fs billy.Filesystem
}

// New wraps fs.
func New(fs billy.Filesystem) *Tree {
	return &Tree{fs: fs}
}

// OS returns a Tree rooted at dir on the host filesystem.
func OS(dir string) *Tree {
	return New(osfs.New(dir))
}

// Memory returns a Tree over an empty in-memory filesystem.
func Memory() *Tree {
	return New(memfs.New())
}

// Exists reports whether name is a regular file.
func (t *Tree) Exists(name string) bool {
	info, err := t.fs.Stat(name)
	return err == nil && !info.IsDir()
}

func (t *Tree) Read(name string) ([]byte, error) {
	data, err := util.ReadFile(t.fs, name)
	if err != nil {
		return nil, fmt.Errorf("worktree read %q: %w", name, err)
	}
	return data, nil
}

// Write replaces name with data, creating parent directories as needed.
func (t *Tree) Write(name string, data []byte) error {
	if dir := path.Dir(name); dir != "." && dir != "/" {
		if err := t.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("worktree mkdir %q: %w", dir, err)
		}
	}
	if err := util.WriteFile(t.fs, name, data, 0o644); err != nil {
		return fmt.Errorf("worktree write %q: %w", name, err)
	}
	return nil
}

// Remove deletes name. A missing file is not an error.
func (t *Tree) Remove(name string) error {
	if err := t.fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("worktree remove %q: %w", name, err)
	}
	return nil
}

// LinesDiffer compares two files line by line. A file present on one side
// and absent on the other counts as differing.
func (t *Tree) LinesDiffer(a, b string) (bool, error) {
	aOK, bOK := t.Exists(a), t.Exists(b)
	if !aOK && !bOK {
		return false, nil
	}
	if aOK != bOK {
		return true, nil
	}
	da, err := t.Read(a)
	if err != nil {
		return false, err
	}
	db, err := t.Read(b)
	if err != nil {
		return false, err
	}
	return !SameLines(da, db), nil
}

// SameLines reports whether a and b hold the same sequence of text lines.
// Line terminators ("\n" or "\r\n") are not part of a line, so a missing
// final newline does not make two texts differ.
func SameLines(a, b []byte) bool {
	la, lb := splitLines(a), splitLines(b)
	if len(la) != len(lb) {
		return false
	}
	for i := range la {
		if !bytes.Equal(la[i], lb[i]) {
			return false
		}
	}
	return true
}

func splitLines(data []byte) [][]byte {
	if len(data) == 0 {
		return nil
	}
	lines := bytes.Split(data, []byte("\n"))
	if len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = bytes.TrimSuffix(l, []byte("\r"))
	}
	return lines
}
