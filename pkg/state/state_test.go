package state

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/odvcencio/twig/pkg/object"
)

// buildState returns a state with master: root -> c1 -> c2 and feature at c1.
func buildState(t *testing.T) (*State, []*object.Commit) {
	t.Helper()
	s := New("")
	t0 := time.Unix(1000, 0)
	root := object.NewCommit(nil, InitialMessage, t0, nil, nil)
	c1 := object.NewCommit(root, "add f", t0.Add(time.Second), object.NewFileSet("f.txt"), nil)
	c2 := object.NewCommit(c1, "edit f", t0.Add(2*time.Second), object.NewFileSet("f.txt", "g.txt"), nil)
	for _, c := range []*object.Commit{root, c1, c2} {
		s.AddCommit(c)
	}
	s.CurrentBranch().Head = c2.ID
	s.Branches["feature"] = &Branch{Name: "feature", Head: c1.ID}
	return s, []*object.Commit{root, c1, c2}
}

func TestNew_DefaultBranch(t *testing.T) {
	s := New("")
	if s.Current != DefaultBranch {
		t.Fatalf("Current = %q, want %q", s.Current, DefaultBranch)
	}
	if s.CurrentBranch() == nil || s.Head(s.CurrentBranch()) != nil {
		t.Fatalf("new state should have a headless %s branch", DefaultBranch)
	}
}

func TestStaging_Disjoint(t *testing.T) {
	st := NewStaging()
	st.Stage("a")
	st.MarkRemoved("a")
	if st.Staged.Has("a") || !st.Removed.Has("a") {
		t.Fatalf("after remove: staged=%v removed=%v", st.Staged, st.Removed)
	}
	st.Stage("a")
	if !st.Staged.Has("a") || st.Removed.Has("a") {
		t.Fatalf("after re-add: staged=%v removed=%v", st.Staged, st.Removed)
	}
	if st.Empty() {
		t.Fatal("Empty = true with a staged file")
	}
	st.Clear()
	if !st.Empty() {
		t.Fatal("Empty = false after Clear")
	}
}

func TestState_HistoryAndMessages(t *testing.T) {
	s, cs := buildState(t)

	hist, err := s.History(cs[2].ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 3 || hist[0] != cs[2] || hist[2] != cs[0] {
		t.Fatalf("History = %v", hist)
	}

	ids := s.FindByMessage("add f")
	if len(ids) != 1 || ids[0] != cs[1].ID {
		t.Fatalf("FindByMessage = %v", ids)
	}
	if got := s.FindByMessage("nope"); len(got) != 0 {
		t.Fatalf("FindByMessage(nope) = %v", got)
	}
}

func TestState_HistoryDetectsBrokenChain(t *testing.T) {
	s := New("")
	orphan := &object.Commit{ID: "aa", ParentID: "missing", Manifest: object.Manifest{}}
	s.AddCommit(orphan)
	if _, err := s.History("aa"); !errors.Is(err, ErrBrokenChain) {
		t.Fatalf("History: err = %v, want ErrBrokenChain", err)
	}

	loopA := &object.Commit{ID: "a1", ParentID: "b1"}
	loopB := &object.Commit{ID: "b1", ParentID: "a1"}
	s.AddCommit(loopA)
	s.AddCommit(loopB)
	if _, err := s.History("a1"); !errors.Is(err, ErrBrokenChain) {
		t.Fatalf("History on cycle: err = %v, want ErrBrokenChain", err)
	}
}

func TestState_ResolveID(t *testing.T) {
	s, cs := buildState(t)

	got, err := s.ResolveID(string(cs[1].ID))
	if err != nil || got != cs[1].ID {
		t.Fatalf("ResolveID(full) = %q, %v", got, err)
	}
	got, err = s.ResolveID(string(cs[1].ID[:12]))
	if err != nil || got != cs[1].ID {
		t.Fatalf("ResolveID(prefix) = %q, %v", got, err)
	}
	if _, err := s.ResolveID("zzzz"); !errors.Is(err, ErrUnknownCommit) {
		t.Fatalf("ResolveID(unknown): err = %v", err)
	}

	s.AddCommit(&object.Commit{ID: "abc1", Manifest: object.Manifest{}})
	s.AddCommit(&object.Commit{ID: "abc2", Manifest: object.Manifest{}})
	if _, err := s.ResolveID("abc"); !errors.Is(err, ErrAmbiguousCommit) {
		t.Fatalf("ResolveID(ambiguous): err = %v", err)
	}
}

func TestState_AddCommitAppendOnly(t *testing.T) {
	s, cs := buildState(t)
	dup := *cs[1]
	dup.Message = "rewritten"
	s.AddCommit(&dup)
	if s.Commits[cs[1].ID].Message != "add f" {
		t.Fatal("AddCommit replaced an existing commit")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	s, _ := buildState(t)
	s.Staging.Stage("new.txt")
	s.Staging.MarkRemoved("g.txt")

	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !reflect.DeepEqual(got, s) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got, s)
	}

	again, err := Encode(got)
	if err != nil {
		t.Fatalf("Encode again: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Fatal("Encode is not deterministic across a round trip")
	}
}

func TestCodec_RejectsBadInput(t *testing.T) {
	if _, err := Decode([]byte(`{"schema_version": 99}`)); !errors.Is(err, ErrUnsupportedSchema) {
		t.Fatalf("Decode(v99): err = %v, want ErrUnsupportedSchema", err)
	}

	s, cs := buildState(t)
	s.Branches["ghost"] = &Branch{Name: "ghost", Head: "deadbeef"}
	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := Decode(data); !errors.Is(err, ErrInconsistent) {
		t.Fatalf("Decode(dangling head): err = %v, want ErrInconsistent", err)
	}

	s, _ = buildState(t)
	s.Commits[cs[2].ID].Manifest["x"] = "deadbeef"
	data, _ = Encode(s)
	if _, err := Decode(data); !errors.Is(err, ErrInconsistent) {
		t.Fatalf("Decode(dangling manifest): err = %v, want ErrInconsistent", err)
	}
}
