package forge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultGitLabAPIURL is the public GitLab REST endpoint.
const DefaultGitLabAPIURL = "https://gitlab.com/api/v4"

type gitLab struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewGitLab returns a Forge backed by the GitLab REST API. The repo name is
// the full project path ("group/project"); PR numbers map to MR IIDs.
func NewGitLab(baseURL, token string) Forge {
	if baseURL == "" {
		baseURL = DefaultGitLabAPIURL
	}
	return &gitLab{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// glChange mirrors the fields we care about from the MR changes listing.
type glChange struct {
	NewPath string `json:"new_path"`
	Diff    string `json:"diff"`
}

type glChanges struct {
	Changes []glChange `json:"changes"`
}

func (g *gitLab) FetchDiff(ctx context.Context, repoName string, prNumber int) (string, error) {
	u := fmt.Sprintf("%s/projects/%s/merge_requests/%d/changes",
		g.baseURL, url.PathEscape(repoName), prNumber)

	body, err := g.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("fetch mr changes: %w", err)
	}

	var changes glChanges
	if err := json.Unmarshal(body, &changes); err != nil {
		return "", fmt.Errorf("decode mr changes: %w", err)
	}

	var b strings.Builder
	for _, c := range changes.Changes {
		if c.Diff == "" {
			continue
		}
		fmt.Fprintf(&b, "\nFile: %s\n%s\n", c.NewPath, c.Diff)
	}
	return b.String(), nil
}

func (g *gitLab) CreateComment(ctx context.Context, repoName string, prNumber int, commentBody string) error {
	u := fmt.Sprintf("%s/projects/%s/merge_requests/%d/notes",
		g.baseURL, url.PathEscape(repoName), prNumber)

	payload, err := json.Marshal(map[string]string{"body": commentBody})
	if err != nil {
		return fmt.Errorf("encode note: %w", err)
	}

	if _, err := g.do(ctx, http.MethodPost, u, payload); err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (g *gitLab) do(ctx context.Context, method, u string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if g.token != "" {
		req.Header.Set("PRIVATE-TOKEN", g.token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gitlab api %s %s: status %d", method, u, resp.StatusCode)
	}
	return out, nil
}
