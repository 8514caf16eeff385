package analytics

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/repopulse/repopulse-go/internal/models"
)

func TestBuildKnowledgeMapNoDecay(t *testing.T) {
	h := &models.History{
		Repo: "acme/widgets",
		Commits: []models.Commit{
			commit("a1", "alice", daysAgo(10), 300, 100, "src/core/a.py"),
			commit("a2", "alice", daysAgo(10), 200, 100, "src/core/a.py"),
			commit("a3", "alice", daysAgo(10), 50, 50, "src/core/b.py"),
			commit("b1", "bob", daysAgo(10), 40, 10, "src/core/a.py"),
		},
	}

	km, err := BuildKnowledgeMap(context.Background(), h, fixtureWindow(30), noDecay())
	if err != nil {
		t.Fatalf("BuildKnowledgeMap: %v", err)
	}

	if got := km.Matrix.Weight("alice", "src/core"); got != 800 {
		t.Errorf("alice weight = %v, want 800", got)
	}
	if got := km.Matrix.Weight("bob", "src/core"); got != 50 {
		t.Errorf("bob weight = %v, want 50", got)
	}
}

func TestBuildKnowledgeMapDecayHalvesWeight(t *testing.T) {
	h := &models.History{
		Commits: []models.Commit{
			commit("old", "alice", daysAgo(90), 100, 0, "pkg/a.go"),
			commit("new", "alice", fixtureEnd.Add(-time.Nanosecond), 100, 0, "pkg/b.go"),
		},
	}
	opts := DefaultOptions()
	opts.DecayHalfLifeDays = 90
	opts.FolderDepth = 1

	km, err := BuildKnowledgeMap(context.Background(), h, fixtureWindow(180), opts)
	if err != nil {
		t.Fatalf("BuildKnowledgeMap: %v", err)
	}

	// One half-life of age halves the contribution.
	got := km.Matrix.Weight("alice", "pkg")
	want := 50.0 + 100.0
	if math.Abs(got-want) > 0.01 {
		t.Errorf("decayed weight = %v, want ~%v", got, want)
	}
}

func TestBuildKnowledgeMapWindowExcludesOutside(t *testing.T) {
	h := &models.History{
		Commits: []models.Commit{
			commit("in", "alice", daysAgo(5), 10, 0, "src/a.go"),
			commit("out", "alice", daysAgo(45), 10, 0, "src/a.go"),
		},
	}
	km, err := BuildKnowledgeMap(context.Background(), h, fixtureWindow(30), noDecay())
	if err != nil {
		t.Fatalf("BuildKnowledgeMap: %v", err)
	}
	if got := km.Matrix.Weight("alice", "src"); got != 10 {
		t.Errorf("weight = %v, want 10 (out-of-window commit must not count)", got)
	}
}

func TestBuildKnowledgeMapZeroActivityFolderAbsent(t *testing.T) {
	h := &models.History{
		Commits: []models.Commit{
			commit("c1", "alice", daysAgo(1), 0, 0, "src/a.go"),
		},
	}
	km, err := BuildKnowledgeMap(context.Background(), h, fixtureWindow(30), noDecay())
	if err != nil {
		t.Fatalf("BuildKnowledgeMap: %v", err)
	}
	// Zero changed lines accumulate zero weight, so the folder never
	// materializes in the matrix.
	if folders := km.Matrix.Folders(); len(folders) != 0 {
		t.Errorf("folders = %v, want none", folders)
	}
}

func TestDetectSilos(t *testing.T) {
	m := NewOwnershipMatrix()
	m.Add("alice", "src/core", 900)
	m.Add("bob", "src/core", 100)
	m.Add("alice", "docs", 40)
	m.Add("bob", "docs", 60)

	silos := detectSilos(m)
	if len(silos) != 1 {
		t.Fatalf("silos = %v, want exactly one", silos)
	}
	if silos[0].Folder != "src/core" || silos[0].Owner != "alice" {
		t.Errorf("silo = %+v, want src/core owned by alice", silos[0])
	}
	if silos[0].Share != 0.9 {
		t.Errorf("share = %v, want 0.9", silos[0].Share)
	}
}

func TestBuildKnowledgeMapCancellation(t *testing.T) {
	commits := make([]models.Commit, 2*cancelCheckStride)
	for i := range commits {
		commits[i] = commit("c", "alice", daysAgo(1), 1, 0, "src/a.go")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildKnowledgeMap(ctx, &models.History{Commits: commits}, fixtureWindow(30), noDecay())
	if !errors.Is(err, ErrCanceled) {
		t.Errorf("err = %v, want ErrCanceled", err)
	}
}
