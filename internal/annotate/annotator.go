// Package annotate turns a finished snapshot into a prose briefing via an
// LLM. Annotation is strictly one-way: it reads computed metrics and never
// feeds anything back into them, so analysis output stays deterministic
// whether or not annotation runs.
package annotate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/repopulse/repopulse-go/internal/analytics"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("annotation disabled: no API key configured")

const defaultModel = openai.GPT4oMini

const systemPrompt = `You are a senior engineering manager reviewing repository
collaboration metrics. Summarize the findings in plain prose: who the
knowledge silos are, which folders have a dangerous bus factor, whether
review latency is healthy, and which branches need cleanup. Be specific,
cite the numbers you were given, and keep it under 300 words. Do not
invent metrics that are not in the input.`

// Annotator generates natural-language briefings for snapshots.
type Annotator struct {
	client  *openai.Client
	model   string
	logger  *logrus.Logger
	enabled bool
}

// New creates an annotator. An empty apiKey yields a disabled annotator
// whose Annotate always returns ErrDisabled.
func New(apiKey, model string, logger *logrus.Logger) *Annotator {
	if logger == nil {
		logger = logrus.New()
	}
	if model == "" {
		model = defaultModel
	}
	a := &Annotator{model: model, logger: logger}
	if apiKey == "" {
		logger.Debug("no API key, annotator disabled")
		return a
	}
	a.client = openai.NewClient(apiKey)
	a.enabled = true
	return a
}

// Enabled reports whether an API key was configured.
func (a *Annotator) Enabled() bool { return a.enabled }

// Annotate produces a prose briefing for the snapshot.
func (a *Annotator) Annotate(ctx context.Context, snap *analytics.Snapshot) (string, error) {
	if !a.enabled {
		return "", ErrDisabled
	}

	payload, err := json.Marshal(briefingInput(snap))
	if err != nil {
		return "", fmt.Errorf("encode briefing input: %w", err)
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("annotate snapshot: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("annotate snapshot: empty response")
	}

	a.logger.WithFields(logrus.Fields{
		"repo":   snap.Repo,
		"model":  a.model,
		"tokens": resp.Usage.TotalTokens,
	}).Debug("snapshot annotated")
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// briefingInput trims the snapshot down to what the prompt needs; sending
// the full ownership matrix wastes tokens without improving the summary.
func briefingInput(snap *analytics.Snapshot) map[string]any {
	input := map[string]any{
		"repo":   snap.Repo,
		"window": snap.Window.Label(),
	}
	if snap.Stats != nil {
		input["total_commits"] = snap.Stats.TotalCommits()
		input["contributors"] = len(snap.Stats.Contributors)
	}
	if snap.KnowledgeMap != nil {
		input["knowledge_silos"] = snap.KnowledgeMap.Silos
	}
	if snap.BusFactor != nil {
		input["bus_factor"] = snap.BusFactor.Folders
		input["monopolists"] = snap.BusFactor.Monopolists
	}
	if snap.Review != nil {
		input["reviewers"] = snap.Review.Reviewers
		input["pending_review"] = snap.Review.PendingReview
		input["bottlenecks"] = snap.Review.Bottlenecks
	}
	if snap.Branches != nil {
		input["stale_branches"] = snap.Branches.ByCategory
		input["cleanup_candidates"] = snap.Branches.CleanupCandidates
	}
	return input
}
