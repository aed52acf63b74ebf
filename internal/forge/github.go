package forge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com"

type gitHub struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewGitHub returns a Forge backed by the GitHub REST API. An empty baseURL
// targets github.com; set it for GHE instances or tests.
func NewGitHub(baseURL, token string) Forge {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &gitHub{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// ghFile mirrors the fields we care about from the PR files listing.
type ghFile struct {
	Filename string `json:"filename"`
	Patch    string `json:"patch"`
}

func (g *gitHub) FetchDiff(ctx context.Context, repoName string, prNumber int) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/pulls/%d/files?per_page=100", g.baseURL, repoName, prNumber)

	body, err := g.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("fetch pr files: %w", err)
	}

	var files []ghFile
	if err := json.Unmarshal(body, &files); err != nil {
		return "", fmt.Errorf("decode pr files: %w", err)
	}

	var b strings.Builder
	for _, f := range files {
		// Binary files come back without a patch; skip them.
		if f.Patch == "" {
			continue
		}
		fmt.Fprintf(&b, "\nFile: %s\n%s\n", f.Filename, f.Patch)
	}
	return b.String(), nil
}

func (g *gitHub) CreateComment(ctx context.Context, repoName string, prNumber int, commentBody string) error {
	url := fmt.Sprintf("%s/repos/%s/issues/%d/comments", g.baseURL, repoName, prNumber)

	payload, err := json.Marshal(map[string]string{"body": commentBody})
	if err != nil {
		return fmt.Errorf("encode comment: %w", err)
	}

	if _, err := g.do(ctx, http.MethodPost, url, payload); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (g *gitHub) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
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
		return nil, fmt.Errorf("github api %s %s: status %d", method, url, resp.StatusCode)
	}
	return out, nil
}
