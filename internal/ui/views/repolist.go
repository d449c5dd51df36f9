package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/repobrowser/internal/domain"
	"github.com/johanforsgren/repobrowser/internal/provider/common"
)

const ownMarker = "★"

type RepoListViewModel struct {
	table table.Model

	// Source data in the order GitHub returned it
	sourceRepos []domain.RepositorySummary

	// Derived view data (filtered)
	visibleRepos []domain.RepositorySummary

	owner string

	width       int
	height      int
	filterInput textinput.Model
	filtering   bool
	filterText  string
}

func NewRepoListView() *RepoListViewModel {
	t := table.New(
		table.WithColumns(repoColumns(40, 60)),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.HiddenBorder()).
		Bold(false).
		Foreground(lipgloss.Color("#6B7280"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#F59E0B")).
		Background(lipgloss.Color("#1F2937")).
		Bold(true)
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = "Filter by name, owner or description..."
	ti.CharLimit = 100

	return &RepoListViewModel{
		table:       t,
		filterInput: ti,
	}
}

func repoColumns(nameWidth, descWidth int) []table.Column {
	return []table.Column{
		{Title: "", Width: 2},
		{Title: "Repository", Width: nameWidth},
		{Title: "Stars", Width: 8},
		{Title: "Description", Width: descWidth},
	}
}

func (m *RepoListViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(1, height-7))
	m.updateColumnWidths()
}

func (m *RepoListViewModel) updateColumnWidths() {
	const (
		markerWidth  = 2
		starsWidth   = 8
		nameWidth    = 40
		minDescWidth = 20
		maxDescWidth = 100
		padding      = 8
	)

	available := max(0, m.width-markerWidth-starsWidth-nameWidth-padding)
	m.table.SetColumns(repoColumns(nameWidth, clamp(available, minDescWidth, maxDescWidth)))
	m.rebuild()
}

// SetOwner marks repositories owned by login. Empty clears the marker.
func (m *RepoListViewModel) SetOwner(login string) {
	if m.owner == login {
		return
	}
	m.owner = login
	m.rebuild()
}

func (m *RepoListViewModel) SetRepositories(repos []domain.RepositorySummary) {
	m.sourceRepos = append([]domain.RepositorySummary(nil), repos...)
	m.rebuild()
}

func (m *RepoListViewModel) Repositories() []domain.RepositorySummary {
	return m.visibleRepos
}

// source → filter → visible → rows
func (m *RepoListViewModel) rebuild() {
	m.visibleRepos = m.filterRepos(m.sourceRepos)
	m.table.SetRows(m.reposToRows(m.visibleRepos))
	// SetRows on an empty table leaves the cursor at -1.
	if m.table.Cursor() < 0 && len(m.visibleRepos) > 0 {
		m.table.SetCursor(0)
	}
	if m.table.Cursor() >= len(m.visibleRepos) {
		m.table.SetCursor(max(0, len(m.visibleRepos)-1))
	}
}

func (m *RepoListViewModel) filterRepos(repos []domain.RepositorySummary) []domain.RepositorySummary {
	if m.filterText == "" {
		return repos
	}

	filter := strings.ToLower(m.filterText)
	var out []domain.RepositorySummary
	for _, repo := range repos {
		if strings.Contains(strings.ToLower(repo.FullName()), filter) ||
			strings.Contains(strings.ToLower(common.GetString(repo.Description)), filter) {
			out = append(out, repo)
		}
	}
	return out
}

func (m *RepoListViewModel) reposToRows(repos []domain.RepositorySummary) []table.Row {
	rows := make([]table.Row, len(repos))
	columns := m.table.Columns()
	nameWidth := columns[1].Width
	descWidth := columns[3].Width

	for i, repo := range repos {
		marker := ""
		if m.owner != "" && strings.EqualFold(repo.OwnerLogin, m.owner) {
			marker = ownMarker
		}
		rows[i] = table.Row{
			marker,
			truncateString(repo.FullName(), nameWidth),
			strconv.Itoa(repo.StarCount),
			truncateString(singleLine(common.GetString(repo.Description)), descWidth),
		}
	}
	return rows
}

func (m *RepoListViewModel) GetSelectedRepo() *domain.RepositorySummary {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visibleRepos) {
		return nil
	}
	return &m.visibleRepos[idx]
}

func (m *RepoListViewModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.filtering {
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.ApplyFilterFromInput()
	} else {
		m.table, cmd = m.table.Update(msg)
	}
	return cmd
}

func (m *RepoListViewModel) ActivateFilter() {
	m.filtering = true
	m.filterInput.SetValue(m.filterText)
	m.filterInput.Focus()
}

func (m *RepoListViewModel) ApplyFilter() {
	m.filterText = m.filterInput.Value()
	m.filtering = false
	m.filterInput.Blur()
	m.rebuild()
}

func (m *RepoListViewModel) ClearFilter() {
	m.filterText = ""
	m.filterInput.SetValue("")
	m.filtering = false
	m.filterInput.Blur()
	m.rebuild()
}

func (m *RepoListViewModel) ApplyFilterFromInput() {
	m.filterText = m.filterInput.Value()
	m.rebuild()
}

func (m *RepoListViewModel) IsFiltering() bool {
	return m.filtering
}

func (m *RepoListViewModel) GetFilterText() string {
	return m.filterText
}

func (m *RepoListViewModel) View() string {
	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true).
		Render("\n" + m.helpText())

	if len(m.sourceRepos) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true).
			Padding(1, 2).
			Render("No repositories loaded")
		return empty + help
	}

	tableView := m.colorizeTableRows(m.table.View())

	if m.filtering {
		filterStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)
		return tableView + "\n" + filterStyle.Render("Filter: ") + m.filterInput.View() + help
	}
	if m.filterText != "" {
		return tableView + "\n" + fmt.Sprintf("Filter: %s (%d/%d)", m.filterText, len(m.visibleRepos), len(m.sourceRepos)) + help
	}
	return tableView + help
}

func (m *RepoListViewModel) colorizeTableRows(tableOutput string) string {
	lines := strings.Split(tableOutput, "\n")
	ownStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#86EFAC"))

	for i, line := range lines {
		if strings.Contains(line, ownMarker) {
			lines[i] = ownStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func (m *RepoListViewModel) helpText() string {
	if m.filtering {
		return "Type to filter | Enter: Apply | Esc: Clear"
	}
	if m.filterText != "" {
		return "Enter: Inspect | /: Filter | Esc: Clear filter | :: Command"
	}
	return "Enter: Inspect | /: Filter | r: Refresh | :: Command"
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
