package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const perPage = 100

// PageCache stores raw fetch results keyed by repository so repeat runs
// against the same repo skip the network entirely. Implemented by the
// bbolt cache in internal/cache.
type PageCache interface {
	Get(repo string) (RawHistory, bool, error)
	Put(repo string, raw RawHistory) error
}

// Fetcher pulls repository history from the GitHub API with rate limiting.
type Fetcher struct {
	client      *github.Client
	rateLimiter *rate.Limiter
	cache       PageCache
	logger      *logrus.Logger
	maxPages    int
}

// NewFetcher creates a fetcher. rateLimit is requests per second; cache may
// be nil to always hit the network.
func NewFetcher(token string, rateLimit int, cache PageCache, logger *logrus.Logger) *Fetcher {
	if rateLimit <= 0 {
		rateLimit = 1
	}
	if logger == nil {
		logger = logrus.New()
	}
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &Fetcher{
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
		cache:       cache,
		logger:      logger,
		maxPages:    50,
	}
}

// Fetch pulls the full raw history for owner/name since the given time.
// Commits, pull requests, issues, and branches are fetched concurrently.
// A cached result for the same repo is returned without touching the API.
func (f *Fetcher) Fetch(ctx context.Context, owner, name string, since time.Time) (RawHistory, error) {
	repo := fmt.Sprintf("%s/%s", owner, name)

	if f.cache != nil {
		if cached, ok, err := f.cache.Get(repo); err != nil {
			f.logger.WithError(err).Warn("cache read failed, fetching from API")
		} else if ok {
			f.logger.WithField("repo", repo).Debug("serving history from cache")
			return cached, nil
		}
	}

	if err := f.rateLimiter.Wait(ctx); err != nil {
		return RawHistory{}, fmt.Errorf("rate limiter: %w", err)
	}
	meta, _, err := f.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return RawHistory{}, fmt.Errorf("fetch repository: %w", err)
	}

	raw := RawHistory{
		Repo:          repo,
		DefaultBranch: meta.GetDefaultBranch(),
		Complete:      true,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		commits, err := f.fetchCommits(gctx, owner, name, since)
		raw.Commits = commits
		return err
	})
	g.Go(func() error {
		prs, err := f.fetchPullRequests(gctx, owner, name)
		raw.PullRequests = prs
		return err
	})
	g.Go(func() error {
		issues, err := f.fetchIssues(gctx, owner, name, since)
		raw.Issues = issues
		return err
	})
	g.Go(func() error {
		branches, err := f.fetchBranches(gctx, owner, name, meta.GetDefaultBranch())
		raw.Branches = branches
		return err
	})
	if err := g.Wait(); err != nil {
		return RawHistory{}, err
	}

	markMergedBranches(raw.Branches, raw.PullRequests)

	if f.cache != nil {
		if err := f.cache.Put(repo, raw); err != nil {
			f.logger.WithError(err).Warn("cache write failed")
		}
	}
	return raw, nil
}

func (f *Fetcher) fetchCommits(ctx context.Context, owner, name string, since time.Time) ([]RawCommit, error) {
	opts := &github.CommitsListOptions{
		Since:       since,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var all []RawCommit
	for page := 0; page < f.maxPages; page++ {
		if err := f.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		commits, resp, err := f.client.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch commits: %w", err)
		}
		for _, c := range commits {
			// The list endpoint returns neither files nor stats; only a
			// per-SHA get does.
			full, err := f.fetchFullCommit(ctx, owner, name, c.GetSHA())
			if err != nil {
				if ctx.Err() != nil {
					return nil, err
				}
				f.logger.WithError(err).WithField("sha", c.GetSHA()).Warn("commit detail fetch failed, keeping listing record")
				full = rawCommitFrom(c)
			}
			all = append(all, full)
		}
		if resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
	f.logger.WithField("repo", owner+"/"+name).Warn("commit pagination truncated")
	return all, nil
}

// fetchFullCommit retrieves a single commit, whose response carries the
// changed files and line stats the listing omits.
func (f *Fetcher) fetchFullCommit(ctx context.Context, owner, name, sha string) (RawCommit, error) {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return RawCommit{}, fmt.Errorf("rate limiter: %w", err)
	}
	commit, _, err := f.client.Repositories.GetCommit(ctx, owner, name, sha, nil)
	if err != nil {
		return RawCommit{}, fmt.Errorf("fetch commit %s: %w", sha, err)
	}
	return rawCommitFrom(commit), nil
}

// rawCommitFrom maps an API commit onto the raw record. Line totals come
// from the commit-level stats, falling back to summing the per-file
// numbers when stats are absent.
func rawCommitFrom(c *github.RepositoryCommit) RawCommit {
	rc := RawCommit{
		SHA:         c.GetSHA(),
		AuthorLogin: c.GetAuthor().GetLogin(),
		AuthorName:  c.GetCommit().GetAuthor().GetName(),
		AuthorEmail: c.GetCommit().GetAuthor().GetEmail(),
		Message:     c.GetCommit().GetMessage(),
		AuthoredAt:  c.GetCommit().GetAuthor().GetDate().Format(time.RFC3339),
	}
	for _, file := range c.Files {
		rc.Files = append(rc.Files, file.GetFilename())
	}
	if stats := c.GetStats(); stats != nil {
		rc.Additions = stats.GetAdditions()
		rc.Deletions = stats.GetDeletions()
		return rc
	}
	for _, file := range c.Files {
		rc.Additions += file.GetAdditions()
		rc.Deletions += file.GetDeletions()
	}
	return rc
}

// markMergedBranches flags branches whose head ref belongs to a merged
// pull request. A branch counts as merged only when such a ref exists and
// the branch carries no commits ahead; ahead-of-zero alone also matches
// orphaned refs.
func markMergedBranches(branches []RawBranch, prs []RawPullRequest) {
	mergedRefs := make(map[string]bool, len(prs))
	for _, pr := range prs {
		if pr.MergedAt != "" && pr.HeadRef != "" {
			mergedRefs[pr.HeadRef] = true
		}
	}
	for i := range branches {
		branches[i].Merged = branches[i].AheadBy == 0 && mergedRefs[branches[i].Name]
	}
}

func (f *Fetcher) fetchPullRequests(ctx context.Context, owner, name string) ([]RawPullRequest, error) {
	opts := &github.PullRequestListOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var all []RawPullRequest
	for page := 0; page < f.maxPages; page++ {
		if err := f.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		prs, resp, err := f.client.PullRequests.List(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch pull requests: %w", err)
		}
		for _, pr := range prs {
			rp := RawPullRequest{
				Number:      pr.GetNumber(),
				Title:       pr.GetTitle(),
				AuthorLogin: pr.GetUser().GetLogin(),
				State:       pr.GetState(),
				HeadRef:     pr.GetHead().GetRef(),
				CreatedAt:   pr.GetCreatedAt().Format(time.RFC3339),
			}
			if pr.MergedAt != nil {
				rp.MergedAt = pr.GetMergedAt().Format(time.RFC3339)
			}
			if pr.ClosedAt != nil {
				rp.ClosedAt = pr.GetClosedAt().Format(time.RFC3339)
			}
			reviews, err := f.fetchReviews(ctx, owner, name, pr.GetNumber())
			if err != nil {
				return nil, err
			}
			rp.Reviews = reviews
			all = append(all, rp)
		}
		if resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
	f.logger.WithField("repo", owner+"/"+name).Warn("pull request pagination truncated")
	return all, nil
}

func (f *Fetcher) fetchReviews(ctx context.Context, owner, name string, number int) ([]RawReview, error) {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	reviews, _, err := f.client.PullRequests.ListReviews(ctx, owner, name, number, &github.ListOptions{PerPage: perPage})
	if err != nil {
		return nil, fmt.Errorf("fetch reviews for #%d: %w", number, err)
	}
	var out []RawReview
	for _, r := range reviews {
		out = append(out, RawReview{
			ReviewerLogin: r.GetUser().GetLogin(),
			SubmittedAt:   r.GetSubmittedAt().Format(time.RFC3339),
			State:         r.GetState(),
		})
	}
	return out, nil
}

func (f *Fetcher) fetchIssues(ctx context.Context, owner, name string, since time.Time) ([]RawIssue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Since:       since,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var all []RawIssue
	for page := 0; page < f.maxPages; page++ {
		if err := f.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		issues, resp, err := f.client.Issues.ListByRepo(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch issues: %w", err)
		}
		for _, issue := range issues {
			// The issues API also returns pull requests.
			if issue.IsPullRequest() {
				continue
			}
			ri := RawIssue{
				Number:      issue.GetNumber(),
				Title:       issue.GetTitle(),
				AuthorLogin: issue.GetUser().GetLogin(),
				CreatedAt:   issue.GetCreatedAt().Format(time.RFC3339),
			}
			if issue.ClosedAt != nil {
				ri.ClosedAt = issue.GetClosedAt().Format(time.RFC3339)
			}
			for _, label := range issue.Labels {
				ri.Labels = append(ri.Labels, label.GetName())
			}
			all = append(all, ri)
		}
		if resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
	f.logger.WithField("repo", owner+"/"+name).Warn("issue pagination truncated")
	return all, nil
}

func (f *Fetcher) fetchBranches(ctx context.Context, owner, name, defaultBranch string) ([]RawBranch, error) {
	opts := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: perPage}}

	var all []RawBranch
	for page := 0; page < f.maxPages; page++ {
		if err := f.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		branches, resp, err := f.client.Repositories.ListBranches(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch branches: %w", err)
		}
		for _, b := range branches {
			rb, err := f.describeBranch(ctx, owner, name, defaultBranch, b)
			if err != nil {
				return nil, err
			}
			all = append(all, rb)
		}
		if resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
	f.logger.WithField("repo", owner+"/"+name).Warn("branch pagination truncated")
	return all, nil
}

func (f *Fetcher) describeBranch(ctx context.Context, owner, name, defaultBranch string, b *github.Branch) (RawBranch, error) {
	rb := RawBranch{
		Name:    b.GetName(),
		HeadSHA: b.GetCommit().GetSHA(),
	}

	if err := f.rateLimiter.Wait(ctx); err != nil {
		return rb, fmt.Errorf("rate limiter: %w", err)
	}
	head, _, err := f.client.Repositories.GetCommit(ctx, owner, name, rb.HeadSHA, nil)
	if err != nil {
		return rb, fmt.Errorf("fetch branch head %s: %w", rb.Name, err)
	}
	rb.LastActivity = head.GetCommit().GetCommitter().GetDate().Format(time.RFC3339)

	if strings.EqualFold(rb.Name, defaultBranch) {
		return rb, nil
	}

	if err := f.rateLimiter.Wait(ctx); err != nil {
		return rb, fmt.Errorf("rate limiter: %w", err)
	}
	cmp, _, err := f.client.Repositories.CompareCommits(ctx, owner, name, defaultBranch, rb.Name, nil)
	if err != nil {
		return rb, fmt.Errorf("compare branch %s: %w", rb.Name, err)
	}
	rb.AheadBy = cmp.GetAheadBy()
	rb.BehindBy = cmp.GetBehindBy()
	return rb, nil
}
