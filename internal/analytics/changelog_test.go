package analytics

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/repopulse/repopulse-go/internal/models"
)

func changelogHistory() *models.History {
	return &models.History{
		PullRequests: []models.PullRequest{
			// fix merged after feat: category order must still put feat
			// first.
			mergedPR(2, "bob", "fix: null check", daysAgo(6), daysAgo(2)),
			mergedPR(1, "alice", "feat: add cache", daysAgo(8), daysAgo(4)),
			mergedPR(3, "carol", "update the deployment runbook", daysAgo(7), daysAgo(3)),
			openPR(4, "dana", "feat: not merged yet", daysAgo(1)),
		},
		Commits: []models.Commit{
			commit("abc1234def", "erin", daysAgo(5), 10, 2, "ci/pipeline.yml"),
		},
	}
}

func TestSynthesizeChangelogCategoryOrder(t *testing.T) {
	h := changelogHistory()
	h.Commits = nil

	report, err := SynthesizeChangelog(context.Background(), h, fixtureWindow(30), noDecay())
	if err != nil {
		t.Fatalf("SynthesizeChangelog: %v", err)
	}

	if len(report.Entries) != 3 {
		t.Fatalf("entries = %+v, want 3 (open PR excluded)", report.Entries)
	}
	if report.Entries[0].Category != "feat" || report.Entries[1].Category != "fix" {
		t.Errorf("order = [%s %s], want feat before fix regardless of merge time",
			report.Entries[0].Category, report.Entries[1].Category)
	}
	if report.Entries[2].Category != "other" {
		t.Errorf("unmatched title category = %s, want other", report.Entries[2].Category)
	}
}

func TestSynthesizeChangelogIdempotent(t *testing.T) {
	h := changelogHistory()
	first, err := SynthesizeChangelog(context.Background(), h, fixtureWindow(30), noDecay())
	if err != nil {
		t.Fatalf("SynthesizeChangelog: %v", err)
	}
	second, err := SynthesizeChangelog(context.Background(), h, fixtureWindow(30), noDecay())
	if err != nil {
		t.Fatalf("SynthesizeChangelog: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("same input must yield identical ordered output")
	}
}

func TestInferCategory(t *testing.T) {
	prefixes := DefaultCategoryPrefixes()
	tests := []struct {
		title string
		want  string
	}{
		{"feat: add cache", "feat"},
		{"feat(api): add cache", "feat"},
		{"feat!: breaking change", "feat"},
		{"fix(parser): handle nil", "fix"},
		{"Fix: capitalized prefix", "fix"},
		{"docs: describe setup", "docs"},
		{"random text without prefix", "other"},
		{"colon: but unknown prefix", "other"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := inferCategory(tt.title, prefixes); got != tt.want {
				t.Errorf("inferCategory(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSynthesizeChangelogWithinCategoryNewestFirst(t *testing.T) {
	h := &models.History{
		PullRequests: []models.PullRequest{
			mergedPR(1, "alice", "feat: older", daysAgo(20), daysAgo(15)),
			mergedPR(2, "bob", "feat: newer", daysAgo(10), daysAgo(5)),
		},
	}
	report, err := SynthesizeChangelog(context.Background(), h, fixtureWindow(30), noDecay())
	if err != nil {
		t.Fatalf("SynthesizeChangelog: %v", err)
	}
	if report.Entries[0].Description != "feat: newer" {
		t.Errorf("first entry = %q, want the most recent", report.Entries[0].Description)
	}
}

func TestSynthesizeChangelogDeduplicates(t *testing.T) {
	h := &models.History{
		PullRequests: []models.PullRequest{
			mergedPR(1, "alice", "feat: add cache", daysAgo(8), daysAgo(4)),
		},
		Commits: []models.Commit{
			commit("dup", "alice", daysAgo(4), 10, 0, "src/cache.go"),
		},
	}
	h.Commits[0].Message = "feat: add cache"

	report, err := SynthesizeChangelog(context.Background(), h, fixtureWindow(30), noDecay())
	if err != nil {
		t.Fatalf("SynthesizeChangelog: %v", err)
	}
	if len(report.Entries) != 1 {
		t.Errorf("entries = %+v, want the duplicate commit collapsed", report.Entries)
	}
}

func TestSynthesizeChangelogSkipsMergeAndTrivialCommits(t *testing.T) {
	h := &models.History{
		Commits: []models.Commit{
			commit("m1", "alice", daysAgo(3), 0, 0, "x"),
			commit("t1", "alice", daysAgo(3), 1, 0, "x"),
		},
	}
	h.Commits[0].Message = "Merge pull request #42 from fork/branch"
	h.Commits[1].Message = "wip"

	report, err := SynthesizeChangelog(context.Background(), h, fixtureWindow(30), noDecay())
	if err != nil {
		t.Fatalf("SynthesizeChangelog: %v", err)
	}
	if len(report.Entries) != 0 {
		t.Errorf("entries = %+v, want none", report.Entries)
	}
}

func TestChangelogMarkdown(t *testing.T) {
	report, err := SynthesizeChangelog(context.Background(), changelogHistory(), fixtureWindow(30), noDecay())
	if err != nil {
		t.Fatalf("SynthesizeChangelog: %v", err)
	}
	md := report.Markdown()
	if !strings.Contains(md, "## feat") || !strings.Contains(md, "(#1)") {
		t.Errorf("markdown missing expected sections:\n%s", md)
	}
	if strings.Index(md, "## feat") > strings.Index(md, "## fix") {
		t.Error("feat section must precede fix section")
	}
}
