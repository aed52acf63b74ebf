package model

// Status is the review lifecycle state. The backend is the sole writer of
// transitions; clients only ever observe it.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Actionable reports whether approve/reject may be offered for this status.
func (s Status) Actionable() bool { return s == StatusPending }

// Review is one AI-generated verdict on a pull request.
type Review struct {
	ID         int64  `json:"id" db:"id"`
	PRNumber   int    `json:"pr_number" db:"pr_number"`
	RepoName   string `json:"repo_name" db:"repo_name"`
	Branch     string `json:"branch" db:"branch"`
	Status     Status `json:"status" db:"status"`
	AIFeedback string `json:"ai_feedback" db:"ai_feedback"`
}
