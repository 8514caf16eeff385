package analytics

import (
	"time"

	"github.com/repopulse/repopulse-go/internal/models"
)

// Shared fixture clock: windows in tests are anchored here so results
// never depend on the wall clock.
var fixtureEnd = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func fixtureWindow(days int) models.Window {
	return models.Window{Start: fixtureEnd.AddDate(0, 0, -days), End: fixtureEnd}
}

func daysAgo(n int) time.Time {
	return fixtureEnd.AddDate(0, 0, -n)
}

func commit(sha, author string, at time.Time, added, removed int, files ...string) models.Commit {
	return models.Commit{
		SHA:          sha,
		Author:       author,
		Message:      "update " + sha,
		AuthoredAt:   at,
		FilesChanged: files,
		Additions:    added,
		Deletions:    removed,
	}
}

func mergedPR(number int, author, title string, created, merged time.Time, reviews ...models.Review) models.PullRequest {
	return models.PullRequest{
		Number:    number,
		Title:     title,
		Author:    author,
		State:     models.PRStateMerged,
		CreatedAt: created,
		MergedAt:  &merged,
		Reviews:   reviews,
	}
}

func openPR(number int, author, title string, created time.Time, reviews ...models.Review) models.PullRequest {
	return models.PullRequest{
		Number:    number,
		Title:     title,
		Author:    author,
		State:     models.PRStateOpen,
		CreatedAt: created,
		Reviews:   reviews,
	}
}

func review(who string, at time.Time, verdict models.ReviewVerdict) models.Review {
	return models.Review{Reviewer: who, SubmittedAt: at, Verdict: verdict}
}

// noDecay returns options with decay disabled so weights stay exact in
// assertions.
func noDecay() Options {
	opts := DefaultOptions()
	opts.DecayHalfLifeDays = 0
	return opts
}
