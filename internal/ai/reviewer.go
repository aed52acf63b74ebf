// Package ai generates review feedback for a pull request diff.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// maxDiffChars bounds how much of the diff goes into the prompt.
const maxDiffChars = 10000

const systemPrompt = `You are a Senior DevOps Engineer. Perform a code review
for the pull request diff you are given. Provide a concise feedback summary
in Markdown.`

// FallbackFeedback is stored when the model call fails, so the reviewer still
// sees an item instead of the pipeline silently dropping the PR.
const FallbackFeedback = "Error generating AI review."

// Reviewer wraps the Anthropic API for diff review.
type Reviewer struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewReviewer creates a reviewer with the given API key and model name.
func NewReviewer(apiKey, model string) *Reviewer {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &Reviewer{
		api:   &client,
		model: anthropic.Model(model),
	}
}

// BranchContext picks the review focus from the branch naming convention.
func BranchContext(branch string) string {
	switch {
	case strings.HasPrefix(branch, "feature/"):
		return "Focus on scalability, code style, and performance."
	case strings.HasPrefix(branch, "fix/"), strings.HasPrefix(branch, "hotfix/"):
		return "Focus on bug fixes, error handling, and security."
	default:
		return "General code review."
	}
}

// BuildPrompt assembles the user prompt for one diff. Oversized diffs are
// cut at maxDiffChars to stay within API limits.
func BuildPrompt(diff, branch string) string {
	if len(diff) > maxDiffChars {
		diff = diff[:maxDiffChars]
	}
	return fmt.Sprintf("Context: %s\n\nCode Diff:\n%s", BranchContext(branch), diff)
}

// Review sends the diff to the model and returns markdown feedback. API
// failures degrade to FallbackFeedback rather than an error: the review item
// must still reach the queue.
func (r *Reviewer) Review(ctx context.Context, diff, branch string) string {
	msg, err := r.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(diff, branch))),
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "anthropic API call failed", slog.Any("error", err))
		return FallbackFeedback
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text)
		}
	}

	slog.ErrorContext(ctx, "no text content in model response")
	return FallbackFeedback
}
