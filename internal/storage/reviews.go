// Package storage persists review items in Postgres via sqlx.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"reviewdeck/internal/apperrors"
	"reviewdeck/internal/model"
)

// schema mirrors what the service creates on boot. Statuses are free-form
// strings at the storage level; the model owns the closed set.
const schema = `
CREATE TABLE IF NOT EXISTS reviews (
    id          BIGSERIAL PRIMARY KEY,
    pr_number   INTEGER NOT NULL,
    repo_name   TEXT NOT NULL,
    branch      TEXT NOT NULL,
    status      TEXT NOT NULL DEFAULT 'PENDING',
    ai_feedback TEXT NOT NULL DEFAULT ''
);`

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Connect opens the pool and makes sure the schema exists.
func Connect(ctx context.Context, dsn string, maxIdle, maxOpen int, connMaxLifetime time.Duration) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Connect: %w", err)
	}
	db.SetMaxIdleConns(maxIdle)
	db.SetMaxOpenConns(maxOpen)
	db.SetConnMaxLifetime(connMaxLifetime)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

// List returns every review, newest first.
func (r *ReviewRepository) List(ctx context.Context) ([]model.Review, error) {
	const query = `
		SELECT id, pr_number, repo_name, branch, status, ai_feedback
		FROM reviews
		ORDER BY id DESC`

	reviews := []model.Review{}
	if err := r.db.SelectContext(ctx, &reviews, query); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list reviews")
	}
	return reviews, nil
}

func (r *ReviewRepository) Get(ctx context.Context, id int64) (model.Review, error) {
	const query = `
		SELECT id, pr_number, repo_name, branch, status, ai_feedback
		FROM reviews
		WHERE id = $1`

	var review model.Review
	err := r.db.GetContext(ctx, &review, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Review{}, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("review %d not found", id))
		}
		return model.Review{}, apperrors.Wrap(err, apperrors.CodeInternal, "failed to fetch review")
	}
	return review, nil
}

// Create inserts a new PENDING review and returns it with its assigned id.
func (r *ReviewRepository) Create(ctx context.Context, review model.Review) (model.Review, error) {
	const query = `
		INSERT INTO reviews (pr_number, repo_name, branch, status, ai_feedback)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, pr_number, repo_name, branch, status, ai_feedback`

	var created model.Review
	err := r.db.GetContext(ctx, &created, query,
		review.PRNumber, review.RepoName, review.Branch, review.Status, review.AIFeedback)
	if err != nil {
		return model.Review{}, apperrors.Wrap(err, apperrors.CodeInternal, "failed to create review")
	}
	return created, nil
}

// SetStatus moves a review to the given status.
func (r *ReviewRepository) SetStatus(ctx context.Context, id int64, status model.Status) error {
	const query = `UPDATE reviews SET status = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to update review status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("review %d not found", id))
	}
	return nil
}
