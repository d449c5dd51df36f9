package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type StatusBarModel struct {
	width   int
	message string
	isError bool
	loading bool
	spinner spinner.Model
}

func NewStatusBar() *StatusBarModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &StatusBarModel{spinner: s}
}

func (m *StatusBarModel) SetWidth(width int) {
	m.width = width
}

func (m *StatusBarModel) SetMessage(message string, isError bool) {
	m.message = message
	m.isError = isError
}

func (m *StatusBarModel) ClearMessage() {
	m.message = ""
	m.isError = false
}

func (m *StatusBarModel) Message() (string, bool) {
	return m.message, m.isError
}

// SetLoading starts or stops the spinner. The returned command must be passed
// back to the program when it is not nil.
func (m *StatusBarModel) SetLoading(loading bool) tea.Cmd {
	wasLoading := m.loading
	m.loading = loading
	if loading && !wasLoading {
		return m.spinner.Tick
	}
	return nil
}

func (m *StatusBarModel) IsLoading() bool {
	return m.loading
}

func (m *StatusBarModel) Update(msg tea.Msg) tea.Cmd {
	if !m.loading {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

func (m *StatusBarModel) View() string {
	content := " " + m.message
	if m.loading {
		content = " " + m.spinner.View() + content
	}

	if m.width > 3 && lipgloss.Width(content) > m.width {
		content = truncate(content, m.width-3) + "..."
	} else if lipgloss.Width(content) < m.width {
		content += strings.Repeat(" ", m.width-lipgloss.Width(content))
	}

	bgColor := lipgloss.Color("#374151")
	if m.isError {
		bgColor = lipgloss.Color("#991B1B")
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(bgColor).
		Width(m.width)

	return style.Render(content)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}
