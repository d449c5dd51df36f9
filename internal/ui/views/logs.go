package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/repobrowser/internal/logger"
)

type LogsViewModel struct {
	width  int
	height int
	offset int
	active bool
	follow bool
	logs   []logger.LogEntry
}

func NewLogsView() *LogsViewModel {
	return &LogsViewModel{}
}

func (m *LogsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *LogsViewModel) Activate() {
	m.active = true
	m.follow = true
	m.Reload()
}

// Reload picks up entries written since the view was opened. The view stays
// pinned to the bottom unless the user scrolled up.
func (m *LogsViewModel) Reload() {
	if !m.active {
		return
	}
	m.logs = logger.GetLogs()
	if m.follow {
		m.offset = m.maxOffset()
	}
}

func (m *LogsViewModel) Deactivate() {
	m.active = false
	m.offset = 0
}

func (m *LogsViewModel) IsActive() bool {
	return m.active
}

func (m *LogsViewModel) getVisibleLines() int {
	return max(1, m.height-8)
}

func (m *LogsViewModel) maxOffset() int {
	return max(0, len(m.logs)-m.getVisibleLines())
}

func (m *LogsViewModel) Update(msg tea.Msg) tea.Cmd {
	if !m.active {
		return nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch key.String() {
	case "up", "k":
		if m.offset > 0 {
			m.offset--
		}
	case "down", "j":
		if m.offset < m.maxOffset() {
			m.offset++
		}
	case "pgup":
		m.offset = max(0, m.offset-m.getVisibleLines())
	case "pgdown":
		m.offset = min(m.maxOffset(), m.offset+m.getVisibleLines())
	case "g", "home":
		m.offset = 0
	case "G", "end":
		m.offset = m.maxOffset()
	}
	m.follow = m.offset == m.maxOffset()

	return nil
}

func logColor(message string) lipgloss.Color {
	switch {
	case strings.Contains(message, "[ERROR]"):
		return lipgloss.Color("#EF4444")
	case strings.Contains(message, "[STATE]"):
		return lipgloss.Color("#3B82F6")
	case strings.Contains(message, "[FILE_WRITE]"):
		return lipgloss.Color("#F59E0B")
	case strings.Contains(message, "[FILE_OPEN]"):
		return lipgloss.Color("#10B981")
	default:
		return lipgloss.Color("#E5E7EB")
	}
}

func (m *LogsViewModel) View() string {
	if !m.active {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Padding(1, 0)

	b.WriteString(titleStyle.Render(fmt.Sprintf("Session Logs (%d entries)", len(m.logs))))
	b.WriteString("\n\n")

	if len(m.logs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)
		b.WriteString(emptyStyle.Render("No logs yet"))
	} else {
		start := m.offset
		end := min(start+m.getVisibleLines(), len(m.logs))

		for i := start; i < end; i++ {
			entry := m.logs[i]
			lineStyle := lipgloss.NewStyle().Foreground(logColor(entry.Message))
			b.WriteString(lineStyle.Render(fmt.Sprintf("[%s] %s", entry.Timestamp.Format("15:04:05.000"), entry.Message)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	scrollInfo := ""
	if len(m.logs) > m.getVisibleLines() {
		last := min(m.offset+m.getVisibleLines(), len(m.logs))
		scrollInfo = fmt.Sprintf(" | Showing %d-%d of %d", m.offset+1, last, len(m.logs))
	}

	b.WriteString(helpStyle.Render(fmt.Sprintf("j/k: Scroll | PgUp/PgDn: Page | g/G: Top/Bottom | Esc: Close%s", scrollInfo)))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Padding(1, 2).
		Width(max(10, m.width-4))

	return boxStyle.Render(b.String())
}
