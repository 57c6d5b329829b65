package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/odvcencio/twig/pkg/object"
)

// SchemaVersion is the snapshot format written by Encode.
const SchemaVersion = 1

var (
	ErrUnsupportedSchema = errors.New("unsupported state schema version")
	ErrInconsistent      = errors.New("inconsistent repository state")
)

type snapshotDoc struct {
	SchemaVersion int                 `json:"schema_version"`
	Commits       []commitRecord      `json:"commits"`
	Branches      []branchRecord      `json:"branches"`
	Current       string              `json:"current"`
	Staging       stagingRecord       `json:"staging"`
	Messages      map[string][]string `json:"messages"`
}

type commitRecord struct {
	ID        string            `json:"id"`
	Message   string            `json:"message"`
	Timestamp int64             `json:"timestamp"`
	Parent    string            `json:"parent,omitempty"`
	Manifest  map[string]string `json:"manifest"`
	Added     []string          `json:"added"`
	Removed   []string          `json:"removed"`
}

type branchRecord struct {
	Name string `json:"name"`
	Head string `json:"head,omitempty"`
}

type stagingRecord struct {
	Staged  []string `json:"staged"`
	Removed []string `json:"removed"`
}

// Encode serializes s into the versioned snapshot schema. Output is
// deterministic: tables and sets are emitted in sorted order.
func Encode(s *State) ([]byte, error) {
	doc := snapshotDoc{
		SchemaVersion: SchemaVersion,
		Current:       s.Current,
		Staging: stagingRecord{
			Staged:  s.Staging.Staged.Sorted(),
			Removed: s.Staging.Removed.Sorted(),
		},
		Messages: make(map[string][]string, len(s.Messages)),
	}

	ids := make([]object.Hash, 0, len(s.Commits))
	for id := range s.Commits {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		c := s.Commits[id]
		manifest := make(map[string]string, len(c.Manifest))
		for name, src := range c.Manifest {
			manifest[name] = string(src)
		}
		doc.Commits = append(doc.Commits, commitRecord{
			ID:        string(c.ID),
			Message:   c.Message,
			Timestamp: c.Timestamp,
			Parent:    string(c.ParentID),
			Manifest:  manifest,
			Added:     c.Added.Sorted(),
			Removed:   c.Removed.Sorted(),
		})
	}

	for _, name := range s.BranchNames() {
		b := s.Branches[name]
		doc.Branches = append(doc.Branches, branchRecord{Name: b.Name, Head: string(b.Head)})
	}

	for msg := range s.Messages {
		hashes := s.FindByMessage(msg)
		out := make([]string, len(hashes))
		for i, h := range hashes {
			out[i] = string(h)
		}
		doc.Messages[msg] = out
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot produced by Encode and checks that every
// reference in it resolves.
func Decode(data []byte) (*State, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if doc.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("decode state: %w: %d", ErrUnsupportedSchema, doc.SchemaVersion)
	}

	s := &State{
		Commits:  make(map[object.Hash]*object.Commit, len(doc.Commits)),
		Branches: make(map[string]*Branch, len(doc.Branches)),
		Current:  doc.Current,
		Staging: &Staging{
			Staged:  object.NewFileSet(doc.Staging.Staged...),
			Removed: object.NewFileSet(doc.Staging.Removed...),
		},
		Messages: make(map[string]map[object.Hash]struct{}, len(doc.Messages)),
	}

	for _, rec := range doc.Commits {
		manifest := make(object.Manifest, len(rec.Manifest))
		for name, src := range rec.Manifest {
			manifest[name] = object.Hash(src)
		}
		s.Commits[object.Hash(rec.ID)] = &object.Commit{
			ID:        object.Hash(rec.ID),
			Message:   rec.Message,
			Timestamp: rec.Timestamp,
			ParentID:  object.Hash(rec.Parent),
			Manifest:  manifest,
			Added:     object.NewFileSet(rec.Added...),
			Removed:   object.NewFileSet(rec.Removed...),
		}
	}
	for _, rec := range doc.Branches {
		s.Branches[rec.Name] = &Branch{Name: rec.Name, Head: object.Hash(rec.Head)}
	}
	for msg, ids := range doc.Messages {
		set := make(map[object.Hash]struct{}, len(ids))
		for _, id := range ids {
			set[object.Hash(id)] = struct{}{}
		}
		s.Messages[msg] = set
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return s, nil
}

// Validate checks referential integrity: parents, manifest entries, branch
// heads and message-index entries all name commits in the arena, the
// current branch exists, and the staging sets are disjoint.
func (s *State) Validate() error {
	for id, c := range s.Commits {
		if c.ID != id {
			return fmt.Errorf("%w: commit keyed %s has id %s", ErrInconsistent, id.Short(), c.ID.Short())
		}
		if c.ParentID != "" {
			if _, ok := s.Commits[c.ParentID]; !ok {
				return fmt.Errorf("%w: commit %s parent %s missing", ErrInconsistent, id.Short(), c.ParentID.Short())
			}
		}
		for name, src := range c.Manifest {
			if _, ok := s.Commits[src]; !ok {
				return fmt.Errorf("%w: commit %s manifest %s -> missing %s", ErrInconsistent, id.Short(), name, src.Short())
			}
		}
	}
	for name, b := range s.Branches {
		if b.Name != name {
			return fmt.Errorf("%w: branch keyed %q named %q", ErrInconsistent, name, b.Name)
		}
		if b.Head != "" {
			if _, ok := s.Commits[b.Head]; !ok {
				return fmt.Errorf("%w: branch %q head %s missing", ErrInconsistent, name, b.Head.Short())
			}
		}
	}
	if _, ok := s.Branches[s.Current]; !ok {
		return fmt.Errorf("%w: current branch %q missing", ErrInconsistent, s.Current)
	}
	for msg, ids := range s.Messages {
		for id := range ids {
			c, ok := s.Commits[id]
			if !ok || c.Message != msg {
				return fmt.Errorf("%w: message index entry %s", ErrInconsistent, id.Short())
			}
		}
	}
	for name := range s.Staging.Staged {
		if s.Staging.Removed.Has(name) {
			return fmt.Errorf("%w: %s both staged and removed", ErrInconsistent, name)
		}
	}
	return nil
}
