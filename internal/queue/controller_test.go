package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewdeck/internal/model"
)

// fakeRepo scripts repository responses and records the order of calls.
type fakeRepo struct {
	calls      []string
	listQueue  [][]model.Review
	listErrs   []error
	approveErr error
	rejectErr  error
}

func (f *fakeRepo) List(context.Context) ([]model.Review, error) {
	f.calls = append(f.calls, "list")
	var reviews []model.Review
	if len(f.listQueue) > 0 {
		reviews = f.listQueue[0]
		f.listQueue = f.listQueue[1:]
	}
	var err error
	if len(f.listErrs) > 0 {
		err = f.listErrs[0]
		f.listErrs = f.listErrs[1:]
	}
	return reviews, err
}

func (f *fakeRepo) Approve(_ context.Context, id int64) error {
	f.calls = append(f.calls, "approve")
	return f.approveErr
}

func (f *fakeRepo) Reject(_ context.Context, id int64) error {
	f.calls = append(f.calls, "reject")
	return f.rejectErr
}

func pendingReview() model.Review {
	return model.Review{
		ID:         1,
		PRNumber:   42,
		Branch:     "feature-x",
		Status:     model.StatusPending,
		AIFeedback: "Looks fine",
	}
}

func TestQueueIsEmptyBeforeFirstRefresh(t *testing.T) {
	ctrl := New(&fakeRepo{})
	assert.Empty(t, ctrl.Queue())
}

func TestRefreshReplacesQueueWholesale(t *testing.T) {
	first := []model.Review{pendingReview(), {ID: 2, PRNumber: 7, Branch: "fix/crash", Status: model.StatusApproved}}
	repo := &fakeRepo{listQueue: [][]model.Review{first}}
	ctrl := New(repo)

	require.NoError(t, ctrl.Refresh(context.Background()))
	assert.Equal(t, first, ctrl.Queue(), "queue must equal the fetched sequence, same order, nothing added or dropped")
}

func TestRefreshIsIdempotent(t *testing.T) {
	snapshot := []model.Review{pendingReview()}
	repo := &fakeRepo{listQueue: [][]model.Review{snapshot, snapshot}}
	ctrl := New(repo)

	require.NoError(t, ctrl.Refresh(context.Background()))
	got := ctrl.Queue()
	require.NoError(t, ctrl.Refresh(context.Background()))
	assert.Equal(t, got, ctrl.Queue())
}

func TestFailedRefreshKeepsPreviousQueue(t *testing.T) {
	good := []model.Review{pendingReview()}
	repo := &fakeRepo{
		listQueue: [][]model.Review{good, nil},
		listErrs:  []error{nil, errors.New("connection refused")},
	}
	ctrl := New(repo)

	require.NoError(t, ctrl.Refresh(context.Background()))
	err := ctrl.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, good, ctrl.Queue(), "a failed fetch must not clear the last good snapshot")
}

func TestApproveOrdersMutationBeforeRefresh(t *testing.T) {
	repo := &fakeRepo{listQueue: [][]model.Review{{}}}
	ctrl := New(repo)

	require.NoError(t, ctrl.Approve(context.Background(), 1))
	assert.Equal(t, []string{"approve", "list"}, repo.calls)
}

func TestRejectOrdersMutationBeforeRefresh(t *testing.T) {
	repo := &fakeRepo{listQueue: [][]model.Review{{}}}
	ctrl := New(repo)

	require.NoError(t, ctrl.Reject(context.Background(), 1))
	assert.Equal(t, []string{"reject", "list"}, repo.calls)
}

func TestFailedMutationSkipsRefreshAndPropagates(t *testing.T) {
	good := []model.Review{pendingReview()}
	backendErr := errors.New("backend returned 500")
	repo := &fakeRepo{
		listQueue:  [][]model.Review{good},
		approveErr: backendErr,
	}
	ctrl := New(repo)
	require.NoError(t, ctrl.Refresh(context.Background()))

	err := ctrl.Approve(context.Background(), 1)
	require.ErrorIs(t, err, backendErr)
	assert.Equal(t, []string{"list", "approve"}, repo.calls, "no refresh may follow a failed mutation")
	assert.Equal(t, good, ctrl.Queue(), "queue must be unchanged after a failed mutation")
}

func TestApproveLifecycle(t *testing.T) {
	before := pendingReview()
	after := before
	after.Status = model.StatusApproved

	repo := &fakeRepo{listQueue: [][]model.Review{{before}, {after}}}
	ctrl := New(repo)

	require.NoError(t, ctrl.Refresh(context.Background()))
	require.Equal(t, []model.Review{before}, ctrl.Queue())
	assert.True(t, ctrl.Queue()[0].Status.Actionable())

	require.NoError(t, ctrl.Approve(context.Background(), before.ID))

	got := ctrl.Queue()
	require.Len(t, got, 1)
	assert.Equal(t, model.StatusApproved, got[0].Status)
	assert.False(t, got[0].Status.Actionable())
}

func TestQueueReturnsACopy(t *testing.T) {
	repo := &fakeRepo{listQueue: [][]model.Review{{pendingReview()}}}
	ctrl := New(repo)
	require.NoError(t, ctrl.Refresh(context.Background()))

	snapshot := ctrl.Queue()
	snapshot[0].Status = model.StatusRejected

	assert.Equal(t, model.StatusPending, ctrl.Queue()[0].Status)
}
