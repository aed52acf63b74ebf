package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBranchContext(t *testing.T) {
	tests := []struct {
		branch string
		want   string
	}{
		{"feature/payments", "Focus on scalability, code style, and performance."},
		{"fix/nil-deref", "Focus on bug fixes, error handling, and security."},
		{"hotfix/prod-outage", "Focus on bug fixes, error handling, and security."},
		{"main", "General code review."},
		{"chore/deps", "General code review."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BranchContext(tt.branch), tt.branch)
	}
}

func TestBuildPromptTruncatesOversizedDiff(t *testing.T) {
	diff := strings.Repeat("x", maxDiffChars+500)
	prompt := BuildPrompt(diff, "main")

	assert.LessOrEqual(t, len(prompt), maxDiffChars+200, "prompt must carry at most maxDiffChars of diff plus the preamble")
	assert.Contains(t, prompt, "General code review.")
}

func TestBuildPromptKeepsSmallDiffIntact(t *testing.T) {
	diff := "File: a.go\n-old\n+new"
	prompt := BuildPrompt(diff, "feature/x")

	assert.Contains(t, prompt, diff)
	assert.Contains(t, prompt, "scalability")
}
