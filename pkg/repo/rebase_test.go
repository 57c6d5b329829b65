package repo

import (
	"errors"
	"testing"
	"time"

	"github.com/odvcencio/twig/pkg/object"
)

// setupRebase builds master and feature from a shared commit holding f.txt
// and g.txt. feature edits f.txt then adds x.txt; master edits g.txt then
// adds y.txt. The repo is left on feature.
func setupRebase(t *testing.T) (tr *testRepo, featureCommits []*object.Commit) {
	t.Helper()
	tr = newTestRepo(t)
	tr.commitFiles(t, "base", map[string]string{"f.txt": "base f", "g.txt": "base g"})
	if err := tr.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	tr.commitFiles(t, "master g", map[string]string{"g.txt": "master g"})
	tr.commitFiles(t, "master y", map[string]string{"y.txt": "master y"})

	tr.checkout(t, "feature")
	c1 := tr.commitFiles(t, "feature f", map[string]string{"f.txt": "feature f"})
	c2 := tr.commitFiles(t, "feature x", map[string]string{"x.txt": "feature x"})
	return tr, []*object.Commit{c1, c2}
}

func TestRebase_FastForward(t *testing.T) {
	tr := newTestRepo(t)
	tr.commitFiles(t, "base", map[string]string{"a.txt": "a"})
	if err := tr.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	tr.commitFiles(t, "ahead 1", map[string]string{"a.txt": "a2"})
	masterHead := tr.commitFiles(t, "ahead 2", map[string]string{"b.txt": "b"})
	tr.checkout(t, "feature")
	commits := len(tr.State.Commits)

	report, err := tr.Rebase("master", nil)
	if err != nil {
		t.Fatalf("Rebase: %v", err)
	}
	if report.Outcome != RebaseFastForward {
		t.Fatalf("outcome = %s, want fast-forward", report.Outcome)
	}
	if tr.head(t).ID != masterHead.ID {
		t.Fatalf("feature head = %s, want master head", tr.head(t).ID.Short())
	}
	if len(tr.State.Commits) != commits {
		t.Fatal("fast-forward created commits")
	}
	if tr.read(t, "a.txt") != "a2" || tr.read(t, "b.txt") != "b" {
		t.Fatal("working directory not reset to the new head")
	}
}

func TestRebase_AlreadyUpToDate(t *testing.T) {
	tr := newTestRepo(t)
	tr.commitFiles(t, "base", map[string]string{"a.txt": "a"})
	if err := tr.CreateBranch("behind"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	head := tr.commitFiles(t, "ahead", map[string]string{"a.txt": "a2"})
	commits := len(tr.State.Commits)

	_, err := tr.Rebase("behind", nil)
	assertUserError(t, err, ErrUpToDate)
	if tr.head(t).ID != head.ID || len(tr.State.Commits) != commits {
		t.Fatal("up-to-date rebase mutated state")
	}
}

func TestRebase_Replay(t *testing.T) {
	tr, originals := setupRebase(t)
	master := tr.State.Head(tr.State.Branches["master"])
	commits := len(tr.State.Commits)

	report, err := tr.Rebase("master", nil)
	if err != nil {
		t.Fatalf("Rebase: %v", err)
	}
	if report.Outcome != RebaseReplayed || len(report.Replayed) != 2 || report.Skipped != 0 {
		t.Fatalf("report = %+v", report)
	}
	if len(tr.State.Commits) != commits+2 {
		t.Fatalf("arena grew by %d, want 2", len(tr.State.Commits)-commits)
	}
	for _, c := range originals {
		if _, ok := tr.State.Commit(c.ID); !ok {
			t.Fatal("original commit dropped from the arena")
		}
	}

	first, second := report.Replayed[0], report.Replayed[1]
	if first.ParentID != master.ID || second.ParentID != first.ID {
		t.Fatal("replayed commits not chained onto master")
	}
	if first.Message != "feature f" || second.Message != "feature x" {
		t.Fatalf("messages = %q, %q", first.Message, second.Message)
	}
	if first.ID == originals[0].ID || second.ID == originals[1].ID {
		t.Fatal("replayed commits kept their old ids")
	}

	head := tr.head(t)
	if head.ID != second.ID {
		t.Fatal("head not at last replayed commit")
	}
	want := object.Manifest{
		"f.txt": originals[0].ID,
		"x.txt": originals[1].ID,
		"g.txt": master.Manifest["g.txt"],
		"y.txt": master.Manifest["y.txt"],
	}
	for f, src := range want {
		if head.Manifest[f] != src {
			t.Errorf("final manifest %s -> %s, want %s", f, head.Manifest[f].Short(), src.Short())
		}
	}
	if len(head.Manifest) != len(want) {
		t.Errorf("final manifest has %d entries, want %d", len(head.Manifest), len(want))
	}

	for f, content := range map[string]string{
		"f.txt": "feature f", "x.txt": "feature x", "g.txt": "master g", "y.txt": "master y",
	} {
		if got := tr.read(t, f); got != content {
			t.Errorf("%s = %q, want %q", f, got, content)
		}
	}
	if tr.State.Branches["master"].Head != master.ID {
		t.Fatal("rebase moved the target branch")
	}
}

func TestRebase_InteractiveSkipAndReword(t *testing.T) {
	tr, originals := setupRebase(t)
	master := tr.State.Head(tr.State.Branches["master"])

	decider := &ScriptedDecider{Decisions: []Decision{
		{Action: Skip},
		{Action: Reword, Message: "renamed"},
	}}
	report, err := tr.Rebase("master", decider)
	if err != nil {
		t.Fatalf("Rebase: %v", err)
	}
	if len(report.Replayed) != 1 || report.Skipped != 1 {
		t.Fatalf("replayed %d skipped %d, want 1 and 1", len(report.Replayed), report.Skipped)
	}
	head := tr.head(t)
	if head.Message != "renamed" || head.ParentID != master.ID {
		t.Fatalf("head = %+v", head)
	}
	if head.Manifest["f.txt"] != master.Manifest["f.txt"] {
		t.Error("skipped commit's change leaked into the new history")
	}
	if head.Manifest["x.txt"] != originals[1].ID {
		t.Error("x.txt does not point at its original snapshot")
	}
	if ids, _ := tr.Find("renamed"); len(ids) != 1 || ids[0] != head.ID {
		t.Error("reworded commit missing from the message index")
	}
}

func TestRebase_AbortLeavesStateAlone(t *testing.T) {
	cases := map[string]Decider{
		"empty reword": &ScriptedDecider{Decisions: []Decision{{Action: Reword}}},
		"decider error": DeciderFunc(func(*object.Commit) (Decision, error) {
			return Decision{}, errors.New("interrupted")
		}),
	}
	for name, decider := range cases {
		t.Run(name, func(t *testing.T) {
			tr, originals := setupRebase(t)
			commits := len(tr.State.Commits)

			_, err := tr.Rebase("master", decider)
			if KindOf(err) != KindUser {
				t.Fatalf("Rebase err = %v, want user error", err)
			}
			if tr.head(t).ID != originals[1].ID || len(tr.State.Commits) != commits {
				t.Fatal("aborted rebase mutated state")
			}
		})
	}
}

func TestRebase_Errors(t *testing.T) {
	tr := newTestRepo(t)
	_, err := tr.Rebase("master", nil)
	assertUserError(t, err, ErrCurrentBranch)
	_, err = tr.Rebase("ghost", nil)
	assertUserError(t, err, ErrBranchNotFound)
}

func TestReplay_Pure(t *testing.T) {
	at := func(s int64) time.Time { return time.Unix(s, 0) }
	root := object.NewCommit(nil, "root", at(1), nil, nil)
	onto := object.NewCommit(root, "onto", at(2), object.NewFileSet("t.txt"), nil)
	orig := object.NewCommit(root, "mine", at(3), object.NewFileSet("m.txt"), nil)
	gone := object.NewCommit(orig, "drop t", at(4), nil, object.NewFileSet("t.txt"))

	plan := &ReplayPlan{
		Onto:      onto,
		Commits:   []*object.Commit{orig, gone},
		Propagate: object.Manifest{},
	}
	tick := int64(10)
	out, skipped, err := Replay(plan, nil, func() time.Time { tick++; return at(tick) })
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(out) != 2 || skipped != 0 {
		t.Fatalf("Replay returned %d commits, %d skipped", len(out), skipped)
	}
	if out[0].Manifest["m.txt"] != orig.ID || out[0].Manifest["t.txt"] != onto.ID {
		t.Fatalf("first manifest = %v", out[0].Manifest)
	}
	if _, ok := out[1].Manifest["t.txt"]; ok {
		t.Fatal("replayed removal did not drop t.txt")
	}
	if !out[1].Removed.Has("t.txt") {
		t.Fatal("replayed commit lost its removed set")
	}
}

func TestRebase_BothChangedKeepsCurrentVersion(t *testing.T) {
	tr := newTestRepo(t)
	tr.commitFiles(t, "base", map[string]string{"f.txt": "base f", "g.txt": "base g"})
	if err := tr.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	tr.commitFiles(t, "master f", map[string]string{"f.txt": "master f"})
	tr.commitFiles(t, "master g", map[string]string{"g.txt": "master g"})
	master := tr.State.Head(tr.State.Branches["master"])

	tr.checkout(t, "feature")
	c1 := tr.commitFiles(t, "feature f", map[string]string{"f.txt": "feature f"})
	tr.commitFiles(t, "feature z", map[string]string{"z.txt": "feature z"})

	report, err := tr.Rebase("master", nil)
	if err != nil {
		t.Fatalf("Rebase: %v", err)
	}
	if len(report.Replayed) != 2 {
		t.Fatalf("replayed %d commits, want 2", len(report.Replayed))
	}

	first := report.Replayed[0]
	if first.Manifest["g.txt"] != master.Manifest["g.txt"] {
		t.Errorf("first replayed g.txt -> %s, want master's %s",
			first.Manifest["g.txt"].Short(), master.Manifest["g.txt"].Short())
	}
	if first.Manifest["f.txt"] != c1.ID {
		t.Errorf("first replayed f.txt -> %s, want %s", first.Manifest["f.txt"].Short(), c1.ID.Short())
	}

	head := tr.head(t)
	if head.Manifest["f.txt"] != c1.ID {
		t.Errorf("final f.txt -> %s, want feature's %s", head.Manifest["f.txt"].Short(), c1.ID.Short())
	}
	if head.Manifest["g.txt"] != master.Manifest["g.txt"] {
		t.Errorf("final g.txt -> %s, want master's", head.Manifest["g.txt"].Short())
	}
	for f, content := range map[string]string{"f.txt": "feature f", "g.txt": "master g", "z.txt": "feature z"} {
		if got := tr.read(t, f); got != content {
			t.Errorf("%s = %q, want %q", f, got, content)
		}
	}
}

func TestPlanReplay_ExcludesFilesChangedOnBothSides(t *testing.T) {
	tr := newTestRepo(t)
	tr.commitFiles(t, "base", map[string]string{"f.txt": "base f", "g.txt": "base g"})
	if err := tr.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	tr.commitFiles(t, "master fg", map[string]string{"f.txt": "master f", "g.txt": "master g"})
	master := tr.State.Head(tr.State.Branches["master"])
	tr.checkout(t, "feature")
	tr.commitFiles(t, "feature f", map[string]string{"f.txt": "feature f"})

	split, err := tr.FindSplitPoint("feature", "master")
	if err != nil {
		t.Fatalf("FindSplitPoint: %v", err)
	}
	plan, err := tr.planReplay(tr.State.CurrentBranch().Head, master, split.ID)
	if err != nil {
		t.Fatalf("planReplay: %v", err)
	}
	if _, ok := plan.Propagate["f.txt"]; ok {
		t.Error("f.txt changed on both sides but is propagated")
	}
	if plan.Propagate["g.txt"] != master.Manifest["g.txt"] {
		t.Errorf("g.txt not propagated from master")
	}
	if len(plan.Commits) != 1 || plan.Commits[0].Message != "feature f" {
		t.Fatalf("plan commits = %v", plan.Commits)
	}
}
