// Package tasks carries the background review-generation job over asynq.
// The webhook handler enqueues; the worker fetches the diff, asks the model
// for feedback, and stores a PENDING review.
package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const TypeGenerateReview = "review:generate"

// GenerateReviewPayload identifies the pull request to review.
type GenerateReviewPayload struct {
	RepoName string `json:"repo_name"`
	PRNumber int    `json:"pr_number"`
	Branch   string `json:"branch"`
}

// Enqueuer pushes review-generation jobs onto the queue.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(redisAddr string) *Enqueuer {
	return &Enqueuer{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

func (e *Enqueuer) EnqueueGenerateReview(ctx context.Context, payload GenerateReviewPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeGenerateReview, raw)
	if _, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeGenerateReview, err)
	}
	return nil
}

func (e *Enqueuer) Close() error { return e.client.Close() }
