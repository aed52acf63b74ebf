package forge

import (
	"context"
	"fmt"
)

// Forge abstracts the source-control host the review pipeline talks to:
// reading pull request diffs, and posting the approved feedback back.
type Forge interface {
	// FetchDiff returns a concatenated per-file patch for the PR, suitable
	// for prompting.
	FetchDiff(ctx context.Context, repoName string, prNumber int) (string, error)
	// CreateComment posts body as an issue comment on the PR.
	CreateComment(ctx context.Context, repoName string, prNumber int, body string) error
}

// New returns the forge for the configured kind. An empty kind means GitHub,
// and an empty baseURL means the host's public API.
func New(kind, baseURL, token string) (Forge, error) {
	switch kind {
	case "", "github":
		return NewGitHub(baseURL, token), nil
	case "gitlab":
		return NewGitLab(baseURL, token), nil
	default:
		return nil, fmt.Errorf("unknown forge kind %q", kind)
	}
}
