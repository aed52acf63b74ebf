// Package queue owns the in-memory review queue and the act-then-refresh
// discipline around it. It is deliberately independent of any rendering so
// the lifecycle rules can be tested against a fake repository.
package queue

import (
	"context"
	"sync"

	"reviewdeck/internal/model"
)

// Repository is the backend boundary the controller drives. Implemented by
// client.Client in production.
type Repository interface {
	List(ctx context.Context) ([]model.Review, error)
	Approve(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error
}

// Controller holds the last fetched snapshot of the review queue. The queue
// is only ever replaced wholesale, never patched item-by-item; a local copy
// is exactly as fresh as the last completed fetch.
type Controller struct {
	repo Repository

	mu    sync.RWMutex
	queue []model.Review
}

func New(repo Repository) *Controller {
	return &Controller{repo: repo}
}

// Queue returns a copy of the current snapshot. Before the first successful
// Refresh it is empty, which doubles as the pre-load rendering state.
func (c *Controller) Queue() []model.Review {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Review, len(c.queue))
	copy(out, c.queue)
	return out
}

// Refresh re-fetches the queue and replaces the snapshot. On failure the
// previous snapshot stays intact (nothing was mutated locally, so there is
// nothing to roll back) and the error is returned for the caller to report.
func (c *Controller) Refresh(ctx context.Context) error {
	reviews, err := c.repo.List(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.queue = reviews
	c.mu.Unlock()
	return nil
}

// Approve issues the approve mutation and, once it has completed
// successfully, re-fetches the queue. A failed mutation is returned as-is
// and no refresh is issued: refreshing after a failure would suggest the
// action went through.
func (c *Controller) Approve(ctx context.Context, id int64) error {
	if err := c.repo.Approve(ctx, id); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Reject mirrors Approve for the reject mutation.
func (c *Controller) Reject(ctx context.Context, id int64) error {
	if err := c.repo.Reject(ctx, id); err != nil {
		return err
	}
	return c.Refresh(ctx)
}
