// Package service holds the backend business rules around review items.
package service

import (
	"context"
	"log/slog"

	"reviewdeck/internal/apperrors"
	"reviewdeck/internal/model"
)

// ReviewStore is the persistence slice the service needs.
type ReviewStore interface {
	List(ctx context.Context) ([]model.Review, error)
	Get(ctx context.Context, id int64) (model.Review, error)
	SetStatus(ctx context.Context, id int64, status model.Status) error
}

// CommentPoster posts approved feedback back to the source-control host.
type CommentPoster interface {
	CreateComment(ctx context.Context, repoName string, prNumber int, body string) error
}

type ReviewService struct {
	store ReviewStore
	forge CommentPoster
}

func NewReviewService(store ReviewStore, forge CommentPoster) *ReviewService {
	return &ReviewService{store: store, forge: forge}
}

// ListReviews returns every review, newest first.
func (s *ReviewService) ListReviews(ctx context.Context) ([]model.Review, error) {
	return s.store.List(ctx)
}

// Approve posts the feedback as a PR comment and marks the review APPROVED.
// Only PENDING reviews are acted on; approving an already-resolved review is
// a no-op, not an error, since the backend owns all status transitions.
func (s *ReviewService) Approve(ctx context.Context, id int64) error {
	review, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if review.Status != model.StatusPending {
		slog.InfoContext(ctx, "approve skipped, review already resolved",
			slog.Int64("review_id", id),
			slog.String("status", string(review.Status)),
		)
		return nil
	}

	comment := "✅ **AI Review Approved:**\n\n" + review.AIFeedback
	if err := s.forge.CreateComment(ctx, review.RepoName, review.PRNumber, comment); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to post review comment")
	}

	return s.store.SetStatus(ctx, id, model.StatusApproved)
}

// Reject marks the review REJECTED. No upstream side effect.
func (s *ReviewService) Reject(ctx context.Context, id int64) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	return s.store.SetStatus(ctx, id, model.StatusRejected)
}
