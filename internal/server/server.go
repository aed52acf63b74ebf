// Package server exposes the review queue and the GitHub webhook over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"reviewdeck/internal/apperrors"
	"reviewdeck/internal/model"
	"reviewdeck/internal/tasks"
)

// ReviewService is the business-logic boundary the handlers call into.
type ReviewService interface {
	ListReviews(ctx context.Context) ([]model.Review, error)
	Approve(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error
}

// ReviewEnqueuer schedules background review generation for a webhook event.
type ReviewEnqueuer interface {
	EnqueueGenerateReview(ctx context.Context, payload tasks.GenerateReviewPayload) error
}

type Server struct {
	reviews  ReviewService
	enqueuer ReviewEnqueuer
	validate *validator.Validate
}

func New(reviews ReviewService, enqueuer ReviewEnqueuer) *Server {
	return &Server{
		reviews:  reviews,
		enqueuer: enqueuer,
		validate: validator.New(),
	}
}

// Router wires all routes with the shared middleware stack.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.RealIP,
		RequestID,
		RequestLogger,
	)

	r.Get("/health", s.handleHealth)
	r.Get("/reviews", s.handleListReviews)
	r.Post("/reviews/{id}/approve", s.handleApprove)
	r.Post("/reviews/{id}/reject", s.handleReject)
	r.Post("/webhook", s.handleWebhook)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.reviews.ListReviews(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	id, err := reviewID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.reviews.Approve(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	id, err := reviewID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.reviews.Reject(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

// webhookPayload is the slice of the GitHub pull_request event we consume.
type webhookPayload struct {
	Action      string `json:"action"`
	PullRequest struct {
		Number int `json:"number" validate:"gt=0"`
		Head   struct {
			Ref string `json:"ref" validate:"required"`
		} `json:"head"`
	} `json:"pull_request"`
	Repository struct {
		FullName string `json:"full_name" validate:"required"`
	} `json:"repository"`
}

// relevantActions are the pull_request actions that trigger a review.
var relevantActions = map[string]bool{
	"opened":      true,
	"synchronize": true,
	"reopened":    true,
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var p webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, apperrors.Wrap(err, apperrors.CodeBadInput, "malformed webhook payload"))
		return
	}

	// Irrelevant actions are acknowledged and dropped, per the GitHub
	// webhook contract.
	if !relevantActions[p.Action] {
		writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
		return
	}

	if err := s.validate.Struct(p); err != nil {
		writeError(w, apperrors.Wrap(err, apperrors.CodeBadInput, "incomplete pull_request payload"))
		return
	}

	err := s.enqueuer.EnqueueGenerateReview(r.Context(), tasks.GenerateReviewPayload{
		RepoName: p.Repository.FullName,
		PRNumber: p.PullRequest.Number,
		Branch:   p.PullRequest.Head.Ref,
	})
	if err != nil {
		writeError(w, apperrors.Wrap(err, apperrors.CodeInternal, "failed to schedule review"))
		return
	}

	slog.InfoContext(r.Context(), "review scheduled",
		slog.String("repo", p.Repository.FullName),
		slog.Int("pr_number", p.PullRequest.Number),
	)
	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

func reviewID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeBadInput, "review id must be an integer")
	}
	return id, nil
}
