package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/repopulse/repopulse-go/internal/analytics"
)

// SnapshotView renders a full snapshot. The embedded snapshot marshals
// directly for json/yaml output.
type SnapshotView struct {
	*analytics.Snapshot `yaml:",inline"`
	Briefing            string `json:"briefing,omitempty" yaml:"briefing,omitempty"`
}

func (v SnapshotView) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "Repository: %s\n", v.Repo)
	fmt.Fprintf(w, "Window:     %s\n\n", v.Window.Label())

	if s := v.Stats; s != nil {
		fmt.Fprintf(w, "Activity: %d commits, %d lines changed, %d contributors\n",
			s.TotalCommits(), s.TotalLinesChanged(), len(s.Contributors))
		for i, c := range s.Contributors {
			if i >= 10 {
				fmt.Fprintf(w, "  ... and %d more\n", len(s.Contributors)-10)
				break
			}
			fmt.Fprintf(w, "  %-24s %4d commits  +%d/-%d\n",
				c.Contributor, c.Commits, c.LinesAdded, c.LinesRemoved)
		}
		fmt.Fprintln(w)
	}

	if km := v.KnowledgeMap; km != nil && len(km.Silos) > 0 {
		fmt.Fprintf(w, "Knowledge silos:\n")
		for _, s := range km.Silos {
			fmt.Fprintf(w, "  %-32s %s holds %.0f%% of recent work\n",
				s.Folder, s.Owner, s.Share*100)
		}
		fmt.Fprintln(w)
	}

	if bf := v.BusFactor; bf != nil {
		if bf.Global != nil {
			fmt.Fprintf(w, "Bus factor: %d (riskiest folder: %s)\n",
				bf.Global.BusFactor, bf.Global.Folder)
		}
		for i, f := range bf.Folders {
			if i >= 8 {
				break
			}
			fmt.Fprintf(w, "  %-32s bus factor %d  at-risk: %s\n",
				f.Folder, f.BusFactor, strings.Join(f.RiskSet, ", "))
		}
		if len(bf.Monopolists) > 0 {
			fmt.Fprintf(w, "  sole owners: %s\n", strings.Join(bf.Monopolists, ", "))
		}
		fmt.Fprintln(w)
	}

	if r := v.Review; r != nil {
		fmt.Fprintf(w, "Reviews: %d reviewed, %d awaiting first review\n",
			r.PRsReviewed, r.PendingReview)
		if r.PRsReviewed > 0 {
			fmt.Fprintf(w, "  time to first review: mean %.1fh, median %.1fh\n",
				r.MeanFirstReviewHours, r.MedianFirstReviewHours)
		}
		if len(r.Bottlenecks) > 0 {
			fmt.Fprintf(w, "  bottlenecks: %s\n", strings.Join(r.Bottlenecks, ", "))
		}
		fmt.Fprintln(w)
	}

	if b := v.Branches; b != nil && b.Total > 0 {
		fmt.Fprintf(w, "Branches: %d wip, %d abandoned, %d merged, %d orphaned\n",
			b.ByCategory[analytics.BranchWIP], b.ByCategory[analytics.BranchAbandoned],
			b.ByCategory[analytics.BranchMerged], b.ByCategory[analytics.BranchOrphan])
		if b.CleanupCandidates > 0 {
			fmt.Fprintf(w, "  %d branches can be deleted without losing work\n", b.CleanupCandidates)
		}
		fmt.Fprintln(w)
	}

	if v.Briefing != "" {
		fmt.Fprintf(w, "Briefing:\n%s\n", v.Briefing)
	}
	return nil
}

// ComparisonView renders a two-window comparison.
type ComparisonView struct {
	*analytics.ComparisonReport `yaml:",inline"`
}

func (v ComparisonView) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "Window A: %s\n", v.WindowA.Label())
	fmt.Fprintf(w, "Window B: %s\n\n", v.WindowB.Label())

	fmt.Fprintf(w, "%-28s %12s %12s %12s\n", "metric", "A", "B", "change")
	for _, d := range v.Deltas {
		fmt.Fprintf(w, "%-28s %12.1f %12.1f %+12.1f\n", d.Metric, d.A, d.B, d.Change)
	}
	fmt.Fprintln(w)

	if len(v.Joined) > 0 {
		fmt.Fprintf(w, "Joined:   %s\n", strings.Join(v.Joined, ", "))
	}
	if len(v.Departed) > 0 {
		fmt.Fprintf(w, "Departed: %s\n", strings.Join(v.Departed, ", "))
	}
	return nil
}

// WhatIfView renders a contributor-removal simulation.
type WhatIfView struct {
	*analytics.WhatIfResult `yaml:",inline"`
}

func (v WhatIfView) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "Simulating departure of: %s\n\n", strings.Join(v.Removed, ", "))

	before, after := "undefined", "undefined"
	if v.GlobalBefore != nil {
		before = fmt.Sprintf("%d", v.GlobalBefore.BusFactor)
	}
	if v.GlobalAfter != nil {
		after = fmt.Sprintf("%d", v.GlobalAfter.BusFactor)
	}
	fmt.Fprintf(w, "Global bus factor: %s -> %s\n", before, after)

	if len(v.OrphanedFolders) > 0 {
		fmt.Fprintf(w, "Folders losing all recorded knowledge:\n")
		for _, f := range v.OrphanedFolders {
			fmt.Fprintf(w, "  %s\n", f)
		}
	} else {
		fmt.Fprintf(w, "No folder loses all recorded knowledge.\n")
	}
	return nil
}

// ChangelogView renders a synthesized changelog as Markdown.
type ChangelogView struct {
	*analytics.ChangelogReport `yaml:",inline"`
}

func (v ChangelogView) RenderText(w io.Writer) error {
	_, err := io.WriteString(w, v.Markdown())
	return err
}

// BranchReportView renders the stale-branch report.
type BranchReportView struct {
	*analytics.BranchReport `yaml:",inline"`
}

func (v BranchReportView) RenderText(w io.Writer) error {
	if len(v.Branches) == 0 {
		fmt.Fprintln(w, "No branches to report.")
		return nil
	}
	fmt.Fprintf(w, "%-40s %-10s %6s %6s  %s\n", "branch", "state", "ahead", "behind", "last activity")
	for _, b := range v.Branches {
		fmt.Fprintf(w, "%-40s %-10s %6d %6d  %s\n",
			b.Branch.Name, b.Category, b.Branch.AheadBy, b.Branch.BehindBy,
			b.Branch.LastActivity.Format("2006-01-02"))
	}
	if v.CleanupCandidates > 0 {
		fmt.Fprintf(w, "\n%d branches can be deleted without losing work.\n", v.CleanupCandidates)
	}
	return nil
}
