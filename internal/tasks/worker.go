package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"reviewdeck/internal/model"
)

// DiffFetcher is the slice of the forge boundary the worker needs.
type DiffFetcher interface {
	FetchDiff(ctx context.Context, repoName string, prNumber int) (string, error)
}

// FeedbackGenerator produces review feedback for a diff. Implemented by
// ai.Reviewer; it degrades internally instead of failing.
type FeedbackGenerator interface {
	Review(ctx context.Context, diff, branch string) string
}

// ReviewCreator stores the generated review.
type ReviewCreator interface {
	Create(ctx context.Context, review model.Review) (model.Review, error)
}

// Handler processes review-generation jobs.
type Handler struct {
	forge    DiffFetcher
	reviewer FeedbackGenerator
	reviews  ReviewCreator
}

func NewHandler(forge DiffFetcher, reviewer FeedbackGenerator, reviews ReviewCreator) *Handler {
	return &Handler{forge: forge, reviewer: reviewer, reviews: reviews}
}

// HandleGenerateReview runs one job end to end. A diff fetch or storage
// failure is returned so asynq retries; the model call never fails the job.
func (h *Handler) HandleGenerateReview(ctx context.Context, t *asynq.Task) error {
	var p GenerateReviewPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal payload: %w", asynq.SkipRetry)
	}

	diff, err := h.forge.FetchDiff(ctx, p.RepoName, p.PRNumber)
	if err != nil {
		return fmt.Errorf("fetch diff for %s#%d: %w", p.RepoName, p.PRNumber, err)
	}

	feedback := h.reviewer.Review(ctx, diff, p.Branch)

	created, err := h.reviews.Create(ctx, model.Review{
		PRNumber:   p.PRNumber,
		RepoName:   p.RepoName,
		Branch:     p.Branch,
		Status:     model.StatusPending,
		AIFeedback: feedback,
	})
	if err != nil {
		return fmt.Errorf("store review for %s#%d: %w", p.RepoName, p.PRNumber, err)
	}

	slog.InfoContext(ctx, "review generated",
		slog.Int64("review_id", created.ID),
		slog.String("repo", p.RepoName),
		slog.Int("pr_number", p.PRNumber),
	)
	return nil
}

// NewServer builds the asynq worker with the handler registered.
func NewServer(redisAddr string, concurrency int, h *Handler) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{Concurrency: concurrency},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeGenerateReview, h.HandleGenerateReview)
	return srv, mux
}
