// Package tui renders the review queue and drives the controller from
// reviewer keystrokes.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"reviewdeck/internal/model"
	"reviewdeck/internal/queue"
)

type appState int

const (
	stateNormal appState = iota
	stateConfirm
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	dimStyle  = lipgloss.NewStyle().Faint(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	helpStyle = lipgloss.NewStyle().
			Faint(true).
			PaddingLeft(2)

	detailHeadStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().Faint(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 3).
			Width(58)
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

type queueLoadedMsg struct {
	reviews []model.Review
	err     error
}

type mutationDoneMsg struct {
	action  string
	id      int64
	reviews []model.Review
	err     error
}

// Model is the bubbletea model over a queue.Controller.
type Model struct {
	ctrl    *queue.Controller
	list    list.Model
	reviews []model.Review
	width   int
	height  int
	loading bool
	notice  string // last error or action report, shown in the detail pane

	state         appState
	pendingAction string // "approve" | "reject" while confirming
	spinnerFrame  int
}

func New(ctrl *queue.Controller) Model {
	delegate := list.NewDefaultDelegate()

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Review Queue"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = titleStyle

	return Model{
		ctrl:    ctrl,
		list:    l,
		loading: true,
	}
}

func refreshCmd(ctrl *queue.Controller) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.Refresh(context.Background())
		// On failure the controller keeps the last good snapshot; hand it
		// back so the view never blanks on a transient blip.
		return queueLoadedMsg{reviews: ctrl.Queue(), err: err}
	}
}

func approveCmd(ctrl *queue.Controller, id int64) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.Approve(context.Background(), id)
		return mutationDoneMsg{action: "approve", id: id, reviews: ctrl.Queue(), err: err}
	}
}

func rejectCmd(ctrl *queue.Controller, id int64) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.Reject(context.Background(), id)
		return mutationDoneMsg{action: "reject", id: id, reviews: ctrl.Queue(), err: err}
	}
}

func (m *Model) buildItems() {
	items := make([]list.Item, len(m.reviews))
	for i, r := range m.reviews {
		items[i] = reviewItem{r: r}
	}
	m.list.SetItems(items)
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(refreshCmd(m.ctrl), tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		lw, lh := m.listDimensions()
		m.list.SetSize(lw, lh)
		return m, nil

	case tickMsg:
		// The spinner only matters before the first load completes.
		if !m.loading {
			return m, nil
		}
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		return m, tickCmd()

	case queueLoadedMsg:
		m.loading = false
		m.reviews = msg.reviews
		m.buildItems()
		if msg.err != nil {
			m.notice = errStyle.Render("refresh failed: " + msg.err.Error())
		} else {
			m.notice = ""
		}
		return m, nil

	case mutationDoneMsg:
		m.loading = false
		if msg.err != nil {
			// The mutation did not go through; no refresh was issued, so
			// the queue still shows the pre-action state.
			m.notice = errStyle.Render(fmt.Sprintf("%s #%d failed: %v", msg.action, msg.id, msg.err))
			return m, nil
		}
		m.reviews = msg.reviews
		m.buildItems()
		m.notice = okStyle.Render(fmt.Sprintf("%s sent for review %d", msg.action, msg.id))
		return m, nil
	}

	switch m.state {
	case stateConfirm:
		return m.updateConfirm(msg)
	default:
		return m.updateNormal(msg)
	}
}

func (m Model) updateNormal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, refreshCmd(m.ctrl)
		case "a":
			if r := m.selectedReview(); r != nil && r.Status.Actionable() {
				m.state = stateConfirm
				m.pendingAction = "approve"
			}
			return m, nil
		case "x":
			if r := m.selectedReview(); r != nil && r.Status.Actionable() {
				m.state = stateConfirm
				m.pendingAction = "reject"
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "n", "N":
			m.state = stateNormal
			m.pendingAction = ""
			return m, nil
		case "enter", "y", "Y":
			r := m.selectedReview()
			action := m.pendingAction
			m.state = stateNormal
			m.pendingAction = ""
			if r == nil || !r.Status.Actionable() {
				return m, nil
			}
			m.loading = true
			if action == "approve" {
				return m, approveCmd(m.ctrl, r.ID)
			}
			return m, rejectCmd(m.ctrl, r.ID)
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	if m.loading && len(m.reviews) == 0 {
		return lipgloss.NewStyle().Padding(1, 2).Render("Loading reviews… " + spinnerFrames[m.spinnerFrame])
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), m.renderDetail())
	base := lipgloss.JoinVertical(lipgloss.Left, body, m.renderHelp())

	if m.state == stateConfirm {
		return m.renderConfirmOver(base)
	}
	return base
}

func (m Model) listDimensions() (width, height int) {
	return m.width / 3, m.height - 2
}

func (m Model) renderDetail() string {
	lw, _ := m.listDimensions()
	dw := m.width - lw
	dh := m.height - 2

	style := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		PaddingLeft(3).
		PaddingRight(2).
		Width(dw - 1).
		Height(dh)

	contentWidth := (dw - 1) - 3 - 2

	r := m.selectedReview()
	if r == nil {
		msg := dimStyle.Render("No reviews in the queue")
		if m.notice != "" {
			msg += "\n\n" + m.notice
		}
		return style.Render(msg)
	}

	row := func(lbl, val string) string {
		return labelStyle.Render(lbl) + val + "\n"
	}

	sep := dimStyle.Render(strings.Repeat("─", contentWidth))

	var b strings.Builder
	b.WriteString(detailHeadStyle.Render(fmt.Sprintf("PR #%d", r.PRNumber)) + "\n\n")
	if r.RepoName != "" {
		b.WriteString(row("Repo     ", r.RepoName))
	}
	b.WriteString(row("Branch   ", r.Branch))
	b.WriteString(row("Status   ", statusLabel(r.Status)))
	b.WriteString("\n" + sep + "\n")
	b.WriteString(renderFeedback(r))

	if m.notice != "" {
		b.WriteString("\n" + m.notice + "\n")
	}

	return style.Render(b.String())
}

// renderFeedback runs the markdown feedback through glamour. The pane clips
// it visually; the underlying text is never cut.
func renderFeedback(r *model.Review) string {
	if r.AIFeedback == "" {
		return dimStyle.Render("No feedback generated") + "\n"
	}

	out, err := glamour.Render(r.AIFeedback, "dark")
	if err != nil {
		// Raw markdown beats an empty pane.
		return r.AIFeedback
	}
	return out
}

func statusLabel(s model.Status) string {
	switch s {
	case model.StatusApproved:
		return okStyle.Render("approved")
	case model.StatusRejected:
		return dimStyle.Render("rejected")
	default:
		return warnStyle.Render("pending")
	}
}

func (m Model) renderHelp() string {
	var text string
	if m.state == stateConfirm {
		text = "y/Enter confirm   n/Esc cancel"
	} else {
		text = actionHints(m.selectedReview())
	}
	sep := dimStyle.Render(strings.Repeat("─", m.width))
	return sep + "\n" + helpStyle.Render(text)
}

func (m Model) renderConfirmOver(base string) string {
	r := m.selectedReview()
	var b strings.Builder
	if m.pendingAction == "approve" {
		b.WriteString(okStyle.Render("Approve Review") + "\n\n")
		if r != nil {
			b.WriteString(labelStyle.Render("PR       ") + fmt.Sprintf("#%d", r.PRNumber) + "\n")
			b.WriteString(labelStyle.Render("Branch   ") + r.Branch + "\n\n")
		}
		b.WriteString("The AI feedback will be posted as a PR comment.\n")
	} else {
		b.WriteString(errStyle.Render("Reject Review") + "\n\n")
		if r != nil {
			b.WriteString(labelStyle.Render("PR       ") + fmt.Sprintf("#%d", r.PRNumber) + "\n")
			b.WriteString(labelStyle.Render("Branch   ") + r.Branch + "\n\n")
		}
		b.WriteString("The feedback is discarded. Nothing is posted.\n")
	}
	b.WriteString("\n" + dimStyle.Render("y/Enter to confirm · Esc/n to cancel"))

	modal := modalStyle.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceBackground(lipgloss.Color("0")),
	)
}

func (m Model) selectedReview() *model.Review {
	if len(m.reviews) == 0 {
		return nil
	}
	idx := m.list.Index()
	if idx < 0 || idx >= len(m.reviews) {
		return nil
	}
	return &m.reviews[idx]
}
