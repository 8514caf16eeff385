package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/repopulse/repopulse-go/internal/analytics"
	"github.com/repopulse/repopulse-go/internal/models"
)

func sampleView() SnapshotView {
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return SnapshotView{
		Snapshot: &analytics.Snapshot{
			Repo:   "acme/widgets",
			Window: models.Window{Start: end.AddDate(0, 0, -90), End: end},
			Stats: &analytics.StatsReport{
				Contributors: []analytics.ContributorStats{
					{Contributor: "alice", Commits: 30, LinesAdded: 800, LinesRemoved: 100},
					{Contributor: "bob", Commits: 12, LinesAdded: 250, LinesRemoved: 50},
				},
			},
			BusFactor: &analytics.BusFactorReport{
				Global: &analytics.FolderRisk{Folder: "src/core", BusFactor: 1, RiskSet: []string{"alice"}},
				Folders: []analytics.FolderRisk{
					{Folder: "src/core", BusFactor: 1, RiskSet: []string{"alice"}},
				},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, FormatText, sampleView()); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"acme/widgets", "42 commits", "alice", "Bus factor: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderJSONIsValid(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, FormatJSON, sampleView()); err != nil {
		t.Fatalf("render: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["repo"] != "acme/widgets" {
		t.Errorf("repo = %v, want acme/widgets", decoded["repo"])
	}
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, FormatYAML, sampleView()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "acme/widgets") {
		t.Errorf("yaml output missing repo:\n%s", buf.String())
	}
}

func TestRenderTextRequiresRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, FormatText, map[string]int{"x": 1}); err == nil {
		t.Error("expected error for a value without text rendering")
	}
}

func TestBranchReportViewEmpty(t *testing.T) {
	var buf bytes.Buffer
	v := BranchReportView{BranchReport: &analytics.BranchReport{}}
	if err := v.RenderText(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No branches") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
