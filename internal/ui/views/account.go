package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/repobrowser/internal/domain"
)

type AccountMode int

const (
	AccountModeInfo AccountMode = iota
	AccountModeLogin
)

// AccountViewModel shows the session and hosts the login form. The form takes
// either the full callback URL or just the code.
type AccountViewModel struct {
	Mode AccountMode

	status    domain.AuthStatus
	user      *domain.User
	login     string
	name      string
	scope     string
	repoCount int

	authorizeURL  string
	callbackInput textinput.Model

	width  int
	height int
}

func NewAccountView() *AccountViewModel {
	callbackInput := textinput.New()
	callbackInput.Placeholder = "myapp://callback?code=...&state=... or the code"
	callbackInput.CharLimit = 512

	return &AccountViewModel{
		Mode:          AccountModeInfo,
		status:        domain.AuthStatusLoggedOut,
		callbackInput: callbackInput,
	}
}

func (m *AccountViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if width > 10 {
		m.callbackInput.Width = width - 10
	}
}

func (m *AccountViewModel) SetSession(status domain.AuthStatus, user *domain.User, repoCount int) {
	m.status = status
	m.user = user
	m.repoCount = repoCount
}

// SetStoredIdentity fills in what the store remembers when the user has not
// been fetched in this run.
func (m *AccountViewModel) SetStoredIdentity(login, name, scope string) {
	m.login = login
	m.name = name
	m.scope = scope
}

func (m *AccountViewModel) EnterLoginMode(authorizeURL string) {
	m.Mode = AccountModeLogin
	m.authorizeURL = authorizeURL
	m.callbackInput.SetValue("")
	m.callbackInput.Focus()
}

func (m *AccountViewModel) ExitLoginMode() {
	m.Mode = AccountModeInfo
	m.callbackInput.Blur()
}

func (m *AccountViewModel) CallbackValue() string {
	return strings.TrimSpace(m.callbackInput.Value())
}

func (m *AccountViewModel) Update(msg tea.Msg) tea.Cmd {
	if m.Mode != AccountModeLogin {
		return nil
	}
	var cmd tea.Cmd
	m.callbackInput, cmd = m.callbackInput.Update(msg)
	return cmd
}

func (m *AccountViewModel) View() string {
	if m.Mode == AccountModeLogin {
		return m.viewLoginMode()
	}
	return m.viewInfoMode()
}

func (m *AccountViewModel) viewInfoMode() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)
	label := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)
	muted := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	b.WriteString(title.Render("Account"))
	b.WriteString("\n\n")
	b.WriteString(label.Render("Status: "))
	b.WriteString(statusText(m.status) + "\n")

	login, name := m.login, m.name
	if m.user != nil {
		login = m.user.Login
		name = m.user.Name()
	}
	if login != "" {
		b.WriteString(label.Render("Login:  "))
		b.WriteString(login + "\n")
	}
	if name != "" {
		b.WriteString(label.Render("Name:   "))
		b.WriteString(name + "\n")
	}
	if m.scope != "" {
		b.WriteString(label.Render("Scope:  "))
		b.WriteString(m.scope + "\n")
	}
	if m.status == domain.AuthStatusLoggedIn {
		b.WriteString(label.Render("Repos:  "))
		b.WriteString(fmt.Sprintf("%d\n", m.repoCount))
		if m.user == nil {
			b.WriteString("\n" + muted.Render("Profile not loaded yet, press u to fetch it"))
		}
	}

	help := "\n\nl: Log in | q/Esc: Back"
	if m.status == domain.AuthStatusLoggedIn {
		help = "\n\nu: Refresh profile | m: My repositories | x: Log out | q/Esc: Back"
	}
	b.WriteString(muted.Render(help))

	return b.String()
}

func (m *AccountViewModel) viewLoginMode() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Render("Log in with GitHub\n\n")

	b.WriteString(title)
	b.WriteString("1. Open this URL in a browser and authorize the app:\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Width(max(20, m.width-4)).Render(m.authorizeURL))
	b.WriteString("\n\n2. Paste the URL you were redirected to:\n")
	b.WriteString(m.callbackInput.View() + "\n\n")

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true).
		Render("Enter: Log in | Esc: Cancel")
	b.WriteString(help)

	return b.String()
}

func statusText(status domain.AuthStatus) string {
	switch status {
	case domain.AuthStatusLoggedIn:
		return "logged in"
	case domain.AuthStatusAuthenticating:
		return "authenticating..."
	default:
		return "logged out"
	}
}
