package forge

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDiffConcatenatesPatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/api/pulls/42/files", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[
			{"filename": "a.go", "patch": "@@ -1 +1 @@\n-old\n+new"},
			{"filename": "img.png", "patch": ""},
			{"filename": "b.go", "patch": "@@ -2 +2 @@\n+added"}
		]`))
	}))
	defer srv.Close()

	gh := NewGitHub(srv.URL, "tok")
	diff, err := gh.FetchDiff(context.Background(), "acme/api", 42)
	require.NoError(t, err)

	assert.Contains(t, diff, "File: a.go")
	assert.Contains(t, diff, "+new")
	assert.Contains(t, diff, "File: b.go")
	assert.NotContains(t, diff, "img.png", "binary files carry no patch and are skipped")
}

func TestCreateComment(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	gh := NewGitHub(srv.URL, "")
	require.NoError(t, gh.CreateComment(context.Background(), "acme/api", 42, "Looks fine"))

	assert.Equal(t, "/repos/acme/api/issues/42/comments", gotPath)
	assert.Contains(t, gotBody, `"body":"Looks fine"`)
}

func TestNonSuccessStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	gh := NewGitHub(srv.URL, "tok")
	_, err := gh.FetchDiff(context.Background(), "acme/api", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
