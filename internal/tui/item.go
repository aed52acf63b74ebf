package tui

import (
	"fmt"

	"reviewdeck/internal/model"
)

// reviewItem adapts a model.Review to the bubbles list.
type reviewItem struct {
	r model.Review
}

func (i reviewItem) Title() string {
	return fmt.Sprintf("%s #%d", statusGlyph(i.r.Status), i.r.PRNumber)
}

func (i reviewItem) Description() string { return i.r.Branch }
func (i reviewItem) FilterValue() string { return i.r.Branch }

func statusGlyph(s model.Status) string {
	switch s {
	case model.StatusApproved:
		return "✓"
	case model.StatusRejected:
		return "✗"
	default:
		return "●"
	}
}

// actionHints returns the footer hints for the selected review. Approve and
// reject are offered iff the item is still PENDING; resolved items only get
// the passive keys.
func actionHints(r *model.Review) string {
	if r != nil && r.Status.Actionable() {
		return "↑/↓ navigate   a approve   x reject   r refresh   q quit"
	}
	return "↑/↓ navigate   r refresh   q quit"
}
