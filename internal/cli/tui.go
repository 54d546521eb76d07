package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Progress bar styles
var (
	barFilledStyle = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ChainProgressModel - Live sampling progress
// =============================================================================

// chainProgressMsg carries one progress update from the running chain.
type chainProgressMsg struct {
	Iteration int
}

// chainDoneMsg signals that the chain finished (or failed).
type chainDoneMsg struct {
	Err error
}

// ChainProgressModel is the bubbletea model showing a live progress bar for a
// sampling run. The chain runs in its own goroutine and feeds iterations
// through Updates; q or ctrl+c cancels the run via the Cancel callback.
type ChainProgressModel struct {
	Title      string
	Total      int
	Iteration  int
	Width      int
	Cancel     func()
	Err        error
	Done       bool
	cancelling bool
}

// NewChainProgressModel creates a progress model for a run of total iterations.
func NewChainProgressModel(title string, total int, cancel func()) ChainProgressModel {
	return ChainProgressModel{
		Title:  title,
		Total:  total,
		Width:  40,
		Cancel: cancel,
	}
}

func (m ChainProgressModel) Init() tea.Cmd {
	return nil
}

func (m ChainProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.Cancel != nil && !m.cancelling {
				m.cancelling = true
				m.Cancel()
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width - 20
		if m.Width < 10 {
			m.Width = 10
		}
	case chainProgressMsg:
		m.Iteration = msg.Iteration
	case chainDoneMsg:
		m.Done = true
		m.Err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m ChainProgressModel) View() string {
	if m.Done {
		return ""
	}

	frac := 0.0
	if m.Total > 0 {
		frac = float64(m.Iteration) / float64(m.Total)
	}
	filled := int(frac * float64(m.Width))
	if filled > m.Width {
		filled = m.Width
	}

	bar := barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", m.Width-filled))

	status := fmt.Sprintf("%d/%d", m.Iteration, m.Total)
	if m.cancelling {
		status = StyleWarning.Render("cancelling...")
	}

	return fmt.Sprintf("%s\n%s %s\n%s\n",
		StyleTitle.Render(m.Title),
		bar,
		StyleNumber.Render(status),
		StyleDim.Render("press q to cancel"),
	)
}
