package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TopBarModel struct {
	width       int
	userLogin   string
	userName    string
	scope       string
	loading     bool
	source      string
	repoCount   int
	ownRepos    int
	currentRepo string
	currentView string
	shortcuts   []string
}

var (
	titleStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleOrangeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	valueWhiteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	shortcutBlueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	descGrayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
)

func NewTopBar() *TopBarModel {
	return &TopBarModel{}
}

func (m *TopBarModel) SetWidth(width int) {
	m.width = width
}

// SetUser shows who is logged in. An empty login means logged out.
func (m *TopBarModel) SetUser(login, name, scope string) {
	m.userLogin = login
	m.userName = name
	m.scope = scope
}

func (m *TopBarModel) SetLoading(loading bool) {
	m.loading = loading
}

func (m *TopBarModel) SetStats(source string, repoCount, ownRepos int) {
	m.source = source
	m.repoCount = repoCount
	m.ownRepos = ownRepos
}

func (m *TopBarModel) SetContext(repo string) {
	m.currentRepo = repo
}

func (m *TopBarModel) SetView(view string) {
	m.currentView = view
}

func (m *TopBarModel) SetShortcuts(shortcuts []string) {
	m.shortcuts = shortcuts
}

func (m *TopBarModel) View() string {
	titleLine := titleOrangeStyle.Render("repobrowser")
	if m.loading {
		titleLine += " " + descGrayStyle.Render("loading...")
	}

	contextLines := m.buildContextInfo()
	shortcutCol1, shortcutCol2, col1Width := m.buildShortcutsDisplay(len(contextLines))

	var topSection []string
	topSection = append(topSection, titleLine)
	topSection = append(topSection, "")

	const fixedRows = 4

	const contextColWidth = 45
	const colMargin = 4

	for i := 0; i < fixedRows; i++ {
		var contextCol, sc1, sc2 string

		if i < len(contextLines) {
			contextCol = contextLines[i]
		}
		if i < len(shortcutCol1) {
			sc1 = shortcutCol1[i]
		}
		if i < len(shortcutCol2) {
			sc2 = shortcutCol2[i]
		}

		padding1 := contextColWidth - lipgloss.Width(contextCol)
		if padding1 < 0 {
			padding1 = 1
		}

		line := contextCol + strings.Repeat(" ", padding1) + sc1

		if sc2 != "" {
			padding2 := col1Width - lipgloss.Width(sc1) + colMargin
			if padding2 < colMargin {
				padding2 = colMargin
			}
			line += strings.Repeat(" ", padding2) + sc2
		}

		topSection = append(topSection, line)
	}

	content := strings.Join(topSection, "\n")
	return titleStyle.Width(m.width).Render(content)
}

func (m *TopBarModel) buildContextInfo() []string {
	var lines []string

	user := "not logged in"
	if m.userLogin != "" {
		user = m.userLogin
		if m.userName != "" {
			user = fmt.Sprintf("%s (%s)", m.userLogin, m.userName)
		}
		if len(user) > 35 {
			user = user[:32] + "..."
		}
	}
	userLine := titleOrangeStyle.Render("User: ") + valueWhiteStyle.Render(user)
	if m.scope != "" {
		userLine += descGrayStyle.Render(" [" + m.scope + "]")
	}
	lines = append(lines, userLine)

	if m.currentRepo != "" {
		lines = append(lines, titleOrangeStyle.Render("Repo: ")+valueWhiteStyle.Render(m.currentRepo))
	} else {
		source := m.source
		if source == "" {
			source = "all public"
		}
		lines = append(lines,
			titleOrangeStyle.Render("Listing: ")+
				valueWhiteStyle.Render(fmt.Sprintf("%s (%d)", source, m.repoCount)))
	}

	if m.userLogin != "" {
		lines = append(lines,
			titleOrangeStyle.Render("Yours: ")+
				valueWhiteStyle.Render(fmt.Sprintf("%d", m.ownRepos)))
	}

	viewName := m.currentView
	if viewName == "" {
		viewName = "Repositories"
	}
	lines = append(lines, titleOrangeStyle.Render("View: ")+valueWhiteStyle.Render(viewName))

	return lines
}

// buildShortcutsDisplay formats "<key> description" entries into at most two
// columns.
func (m *TopBarModel) buildShortcutsDisplay(contextHeight int) ([]string, []string, int) {
	var formattedShortcuts []string
	maxWidth := 0

	for _, shortcut := range m.shortcuts {
		parts := strings.SplitN(shortcut, ">", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], "<")
		desc := strings.TrimSpace(parts[1])

		formatted := shortcutBlueStyle.Render("<"+key+">") + " " + descGrayStyle.Render(desc)
		formattedShortcuts = append(formattedShortcuts, formatted)

		if width := lipgloss.Width(formatted); width > maxWidth {
			maxWidth = width
		}
	}

	minRows := 4
	if contextHeight > minRows {
		minRows = contextHeight
	}

	var col1, col2 []string
	if len(formattedShortcuts) <= minRows {
		col1 = formattedShortcuts
	} else {
		col1 = formattedShortcuts[:minRows]
		col2 = formattedShortcuts[minRows:]
	}

	return col1, col2, maxWidth
}
