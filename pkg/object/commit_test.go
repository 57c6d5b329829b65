package object

import (
	"regexp"
	"testing"
	"time"
)

var hexID = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestCommitID_Deterministic(t *testing.T) {
	a := CommitID("abc", 42, "msg")
	b := CommitID("abc", 42, "msg")
	if a != b {
		t.Fatalf("CommitID not deterministic: %s vs %s", a, b)
	}
	if !hexID.MatchString(string(a)) {
		t.Fatalf("CommitID = %q, want 64 lowercase hex chars", a)
	}
}

func TestCommitID_InputsMatter(t *testing.T) {
	base := CommitID("abc", 42, "msg")
	cases := map[string]Hash{
		"parent":    CommitID("abd", 42, "msg"),
		"timestamp": CommitID("abc", 43, "msg"),
		"message":   CommitID("abc", 42, "msh"),
		"no parent": CommitID("", 42, "msg"),
	}
	for name, h := range cases {
		if h == base {
			t.Errorf("%s change did not change id", name)
		}
	}
}

func TestStringHash(t *testing.T) {
	if got := stringHash(""); got != 0 {
		t.Fatalf("stringHash(\"\") = %d, want 0", got)
	}
	// "ab" = 'a'*31 + 'b'
	if got, want := stringHash("ab"), int64(97*31+98); got != want {
		t.Fatalf("stringHash(ab) = %d, want %d", got, want)
	}
}

func TestNewCommit_ManifestInheritance(t *testing.T) {
	t0 := time.Unix(100, 0)
	root := NewCommit(nil, "initial commit", t0, nil, nil)
	if root.HasParent() {
		t.Fatalf("root commit has parent %q", root.ParentID)
	}
	if len(root.Manifest) != 0 {
		t.Fatalf("root manifest = %v, want empty", root.Manifest)
	}

	c1 := NewCommit(root, "add a b", t0.Add(time.Second), NewFileSet("a.txt", "b.txt"), nil)
	if c1.ParentID != root.ID {
		t.Fatalf("c1 parent = %q, want %q", c1.ParentID, root.ID)
	}
	for _, p := range []string{"a.txt", "b.txt"} {
		if c1.Manifest[p] != c1.ID {
			t.Errorf("c1 manifest[%s] = %q, want own id", p, c1.Manifest[p])
		}
	}

	c2 := NewCommit(c1, "edit a drop b", t0.Add(2*time.Second), NewFileSet("a.txt", "c.txt"), NewFileSet("b.txt"))
	if c2.Manifest["a.txt"] != c2.ID {
		t.Errorf("c2 manifest[a.txt] = %q, want %q", c2.Manifest["a.txt"], c2.ID)
	}
	if _, ok := c2.Manifest["b.txt"]; ok {
		t.Errorf("c2 manifest still holds removed b.txt")
	}
	if c2.Manifest["c.txt"] != c2.ID {
		t.Errorf("c2 manifest[c.txt] = %q, want %q", c2.Manifest["c.txt"], c2.ID)
	}

	// The parent must not observe the child's overlay.
	if c1.Manifest["a.txt"] != c1.ID {
		t.Fatalf("c1 manifest mutated by child: %q", c1.Manifest["a.txt"])
	}

	c3 := NewCommit(c2, "unrelated", t0.Add(3*time.Second), NewFileSet("d.txt"), nil)
	if c3.Manifest["a.txt"] != c2.ID {
		t.Errorf("c3 manifest[a.txt] = %q, want inherited %q", c3.Manifest["a.txt"], c2.ID)
	}
}

func TestNewCommit_CopiesInputSets(t *testing.T) {
	added := NewFileSet("x")
	c := NewCommit(nil, "m", time.Unix(1, 0), added, nil)
	added.Add("y")
	if c.Added.Has("y") {
		t.Fatal("commit shares caller's added set")
	}
}

func TestFileSetSorted(t *testing.T) {
	s := NewFileSet("b", "a", "c")
	got := s.Sorted()
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted() = %v, want %v", got, want)
		}
	}
}
