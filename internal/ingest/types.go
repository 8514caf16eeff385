// Package ingest fetches raw repository history and normalizes it into
// the canonical entities the analysis engine consumes.
package ingest

// Raw records mirror what the GitHub API returns, with timestamps kept as
// strings so malformed values survive until the normalizer can count and
// drop them. They are also the unit the fetch cache stores.

// RawCommit is an unnormalized commit record.
type RawCommit struct {
	SHA         string   `json:"sha"`
	AuthorLogin string   `json:"author_login,omitempty"`
	AuthorName  string   `json:"author_name,omitempty"`
	AuthorEmail string   `json:"author_email,omitempty"`
	Message     string   `json:"message"`
	AuthoredAt  string   `json:"authored_at"`
	Files       []string `json:"files,omitempty"`
	Additions   int      `json:"additions"`
	Deletions   int      `json:"deletions"`
}

// RawReview is an unnormalized review on a pull request.
type RawReview struct {
	ReviewerLogin string `json:"reviewer_login"`
	SubmittedAt   string `json:"submitted_at"`
	State         string `json:"state"`
}

// RawPullRequest is an unnormalized pull request record.
type RawPullRequest struct {
	Number      int         `json:"number"`
	Title       string      `json:"title"`
	AuthorLogin string      `json:"author_login"`
	State       string      `json:"state"`
	HeadRef     string      `json:"head_ref,omitempty"`
	CreatedAt   string      `json:"created_at"`
	MergedAt    string      `json:"merged_at,omitempty"`
	ClosedAt    string      `json:"closed_at,omitempty"`
	Reviews     []RawReview `json:"reviews,omitempty"`
}

// RawIssue is an unnormalized issue record.
type RawIssue struct {
	Number      int      `json:"number"`
	Title       string   `json:"title"`
	AuthorLogin string   `json:"author_login"`
	Labels      []string `json:"labels,omitempty"`
	CreatedAt   string   `json:"created_at"`
	ClosedAt    string   `json:"closed_at,omitempty"`
}

// RawBranch is an unnormalized branch ref with divergence data.
type RawBranch struct {
	Name         string `json:"name"`
	HeadSHA      string `json:"head_sha"`
	LastActivity string `json:"last_activity"`
	AheadBy      int    `json:"ahead_by"`
	BehindBy     int    `json:"behind_by"`
	Merged       bool   `json:"merged"`
}

// RawHistory bundles everything one fetch produced. Complete reports
// whether pagination finished; a partial fetch still normalizes, the
// caller decides whether partial data is acceptable.
type RawHistory struct {
	Repo          string           `json:"repo"`
	DefaultBranch string           `json:"default_branch"`
	Commits       []RawCommit      `json:"commits"`
	PullRequests  []RawPullRequest `json:"pull_requests"`
	Issues        []RawIssue       `json:"issues"`
	Branches      []RawBranch      `json:"branches"`
	Complete      bool             `json:"complete"`
}
