package ui

import (
	"fmt"
	"strings"

	"github.com/johanforsgren/repobrowser/internal/domain"
	"github.com/johanforsgren/repobrowser/internal/logger"
	"github.com/johanforsgren/repobrowser/internal/provider/common"
)

// RenderRepositories formats a list for line-oriented commands. Repositories
// owned by owner are highlighted.
func RenderRepositories(repos []domain.RepositorySummary, owner string) string {
	if len(repos) == 0 {
		return SubtitleStyle.Render("No repositories")
	}

	var b strings.Builder
	for _, repo := range repos {
		nameStyle := RepoNameStyle
		if owner != "" && strings.EqualFold(repo.OwnerLogin, owner) {
			nameStyle = OwnRepoStyle
		}
		b.WriteString(nameStyle.Render(repo.FullName()))
		b.WriteString(" ")
		b.WriteString(StarStyle.Render(fmt.Sprintf("★ %d", repo.StarCount)))
		if description := common.StringOr(repo.Description, ""); description != "" {
			b.WriteString("\n    ")
			b.WriteString(SubtitleStyle.Render(strings.Join(strings.Fields(description), " ")))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderRepository(repo *domain.RepositorySummary) string {
	if repo == nil {
		return SubtitleStyle.Render("No repository")
	}

	lines := []string{
		TitleStyle.Render(repo.FullName()),
		LabelStyle.Render("Stars: ") + fmt.Sprintf("%d", repo.StarCount),
		LabelStyle.Render("ID:    ") + fmt.Sprintf("%d", repo.ID),
	}
	if repo.HTMLURL != "" {
		lines = append(lines, LabelStyle.Render("URL:   ")+URLStyle.Render(repo.HTMLURL))
	}
	lines = append(lines, "", common.StringOr(repo.Description, SubtitleStyle.Render("No description provided")))

	return BorderStyle.Render(strings.Join(lines, "\n"))
}

// Identity is what whoami prints. Fields are empty when unknown.
type Identity struct {
	Status      domain.AuthStatus
	Login       string
	DisplayName string
	Scope       string
	Token       string
}

func RenderIdentity(id Identity) string {
	if id.Status != domain.AuthStatusLoggedIn {
		return SubtitleStyle.Render("Not logged in")
	}

	lines := []string{SuccessStyle.Render("Logged in")}
	if id.Login != "" {
		lines = append(lines, LabelStyle.Render("Login: ")+id.Login)
	}
	if id.DisplayName != "" {
		lines = append(lines, LabelStyle.Render("Name:  ")+id.DisplayName)
	}
	if id.Scope != "" {
		lines = append(lines, LabelStyle.Render("Scope: ")+id.Scope)
	}
	lines = append(lines, LabelStyle.Render("Token: ")+logger.Redact(id.Token))
	return strings.Join(lines, "\n")
}

func RenderError(message string) string {
	return ErrorStyle.Render("Error: ") + message
}

func RenderLogs(entries []logger.LogEntry) string {
	var b strings.Builder
	for _, entry := range entries {
		line := fmt.Sprintf("[%s] %s", entry.Timestamp.Format("15:04:05.000"), entry.Message)
		if strings.Contains(entry.Message, "[ERROR]") {
			line = ErrorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
