package annotate

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/repopulse/repopulse-go/internal/analytics"
	"github.com/repopulse/repopulse-go/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestDisabledWithoutKey(t *testing.T) {
	a := New("", "", quietLogger())

	if a.Enabled() {
		t.Error("annotator without a key should be disabled")
	}
	_, err := a.Annotate(context.Background(), &analytics.Snapshot{Repo: "acme/widgets"})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("err = %v, want ErrDisabled", err)
	}
}

func TestEnabledWithKey(t *testing.T) {
	a := New("sk-test", "", quietLogger())
	if !a.Enabled() {
		t.Error("annotator with a key should be enabled")
	}
}

func TestBriefingInputOmitsMissingReports(t *testing.T) {
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	snap := &analytics.Snapshot{
		Repo:   "acme/widgets",
		Window: models.Window{Start: end.AddDate(0, 0, -90), End: end},
		Stats: &analytics.StatsReport{
			Contributors: []analytics.ContributorStats{{Contributor: "alice", Commits: 5}},
		},
	}

	input := briefingInput(snap)

	if input["repo"] != "acme/widgets" {
		t.Errorf("repo = %v", input["repo"])
	}
	if input["total_commits"] != 5 {
		t.Errorf("total_commits = %v, want 5", input["total_commits"])
	}
	for _, absent := range []string{"bus_factor", "reviewers", "stale_branches", "knowledge_silos"} {
		if _, ok := input[absent]; ok {
			t.Errorf("input should omit %s when the report is missing", absent)
		}
	}
}
