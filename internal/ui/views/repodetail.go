package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/repobrowser/internal/domain"
	"github.com/johanforsgren/repobrowser/internal/provider/common"
)

var (
	detailTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7C3AED")).
				Bold(true)
	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true)
	detailMutedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6B7280")).
				Italic(true)
	detailErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#EF4444")).
				Bold(true)
)

type RepoDetailViewModel struct {
	repo     *domain.RepositorySummary
	loading  bool
	err      string
	viewport viewport.Model
	width    int
	height   int
}

func NewRepoDetailView() *RepoDetailViewModel {
	return &RepoDetailViewModel{
		viewport: viewport.New(0, 0),
	}
}

func (m *RepoDetailViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(1, height-10)
	m.updateViewport()
}

// SetState shows the latest detail request. A failed reload keeps the
// repository from the previous one on screen.
func (m *RepoDetailViewModel) SetState(repo *domain.RepositorySummary, loading bool, err string) {
	m.repo = repo
	m.loading = loading
	m.err = err
	m.updateViewport()
}

func (m *RepoDetailViewModel) GetRepo() *domain.RepositorySummary {
	return m.repo
}

func (m *RepoDetailViewModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *RepoDetailViewModel) updateViewport() {
	m.viewport.SetContent(m.render())
}

func (m *RepoDetailViewModel) render() string {
	var b strings.Builder

	if m.err != "" {
		b.WriteString(detailErrorStyle.Render(m.err))
		b.WriteString("\n\n")
	}

	if m.repo == nil {
		if m.loading {
			b.WriteString(detailMutedStyle.Render("Loading repository..."))
		} else if m.err == "" {
			b.WriteString(detailMutedStyle.Render("No repository selected"))
		}
		return b.String()
	}

	repo := m.repo
	b.WriteString(detailTitleStyle.Render(repo.FullName()))
	b.WriteString("\n\n")

	b.WriteString(detailLabelStyle.Render("Stars: "))
	b.WriteString(fmt.Sprintf("%d\n", repo.StarCount))
	b.WriteString(detailLabelStyle.Render("Owner: "))
	b.WriteString(repo.OwnerLogin + "\n")
	if repo.HTMLURL != "" {
		b.WriteString(detailLabelStyle.Render("URL:   "))
		b.WriteString(repo.HTMLURL + "\n")
	}
	b.WriteString(detailLabelStyle.Render("ID:    "))
	b.WriteString(fmt.Sprintf("%d\n\n", repo.ID))

	description := common.StringOr(repo.Description, "")
	if description == "" {
		b.WriteString(detailMutedStyle.Render("No description provided"))
	} else {
		wrap := lipgloss.NewStyle().Width(max(20, m.width-8))
		b.WriteString(wrap.Render(description))
	}

	if m.loading {
		b.WriteString("\n\n")
		b.WriteString(detailMutedStyle.Render("Refreshing..."))
	}

	return b.String()
}

func (m *RepoDetailViewModel) View() string {
	help := detailMutedStyle.Render("\nr: Reload | q/Esc: Back")
	return m.viewport.View() + help
}
