package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewdeck/internal/apperrors"
	"reviewdeck/internal/model"
	"reviewdeck/internal/tasks"
)

type fakeService struct {
	reviews    []model.Review
	approved   []int64
	rejected   []int64
	approveErr error
}

func (f *fakeService) ListReviews(context.Context) ([]model.Review, error) {
	return f.reviews, nil
}

func (f *fakeService) Approve(_ context.Context, id int64) error {
	if f.approveErr != nil {
		return f.approveErr
	}
	f.approved = append(f.approved, id)
	return nil
}

func (f *fakeService) Reject(_ context.Context, id int64) error {
	f.rejected = append(f.rejected, id)
	return nil
}

type fakeEnqueuer struct {
	payloads []tasks.GenerateReviewPayload
}

func (f *fakeEnqueuer) EnqueueGenerateReview(_ context.Context, p tasks.GenerateReviewPayload) error {
	f.payloads = append(f.payloads, p)
	return nil
}

func newTestServer(svc ReviewService, enq ReviewEnqueuer) *httptest.Server {
	return httptest.NewServer(New(svc, enq).Router())
}

func TestListReviews(t *testing.T) {
	svc := &fakeService{reviews: []model.Review{
		{ID: 2, PRNumber: 7, Branch: "fix/crash", Status: model.StatusPending, AIFeedback: "nil deref"},
		{ID: 1, PRNumber: 42, Branch: "feature-x", Status: model.StatusApproved, AIFeedback: "Looks fine"},
	}}
	srv := newTestServer(svc, &fakeEnqueuer{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/reviews")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []model.Review
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, svc.reviews, got)
}

func TestApproveReview(t *testing.T) {
	svc := &fakeService{}
	srv := newTestServer(svc, &fakeEnqueuer{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/reviews/3/approve", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []int64{3}, svc.approved)
}

func TestApproveUnknownReviewReturns404(t *testing.T) {
	svc := &fakeService{approveErr: apperrors.New(apperrors.CodeNotFound, "review 9 not found")}
	srv := newTestServer(svc, &fakeEnqueuer{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/reviews/9/approve", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, apperrors.CodeNotFound, body.Error.Code)
}

func TestApproveRejectsNonNumericID(t *testing.T) {
	srv := newTestServer(&fakeService{}, &fakeEnqueuer{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/reviews/abc/approve", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRejectReview(t *testing.T) {
	svc := &fakeService{}
	srv := newTestServer(svc, &fakeEnqueuer{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/reviews/5/reject", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []int64{5}, svc.rejected)
}

const prOpenedPayload = `{
	"action": "opened",
	"pull_request": {"number": 42, "head": {"ref": "feature/x"}},
	"repository": {"full_name": "acme/api"}
}`

func TestWebhookEnqueuesRelevantAction(t *testing.T) {
	enq := &fakeEnqueuer{}
	srv := newTestServer(&fakeService{}, enq)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(prOpenedPayload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, enq.payloads, 1)
	assert.Equal(t, tasks.GenerateReviewPayload{
		RepoName: "acme/api",
		PRNumber: 42,
		Branch:   "feature/x",
	}, enq.payloads[0])
}

func TestWebhookIgnoresIrrelevantAction(t *testing.T) {
	enq := &fakeEnqueuer{}
	srv := newTestServer(&fakeService{}, enq)
	defer srv.Close()

	payload := `{"action": "closed", "pull_request": {"number": 1, "head": {"ref": "x"}}, "repository": {"full_name": "a/b"}}`
	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, enq.payloads)
}

func TestWebhookRejectsIncompletePayload(t *testing.T) {
	enq := &fakeEnqueuer{}
	srv := newTestServer(&fakeService{}, enq)
	defer srv.Close()

	payload := `{"action": "opened", "pull_request": {"number": 0, "head": {"ref": ""}}}`
	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, enq.payloads)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakeService{}, &fakeEnqueuer{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}
