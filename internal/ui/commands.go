package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/repobrowser/internal/domain"
	"github.com/johanforsgren/repobrowser/internal/logger"
	"github.com/johanforsgren/repobrowser/internal/provider/common"
)

type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandQuit
	CommandSearch
	CommandAll
	CommandMine
	CommandRefresh
	CommandShow
	CommandLogin
	CommandLogout
	CommandAccount
	CommandLogs
	CommandHelp
)

type Command struct {
	Type CommandType
	Name string
	Args []string
}

func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)

	if !strings.HasPrefix(input, ":") {
		return Command{Type: CommandUnknown}
	}

	parts := strings.Fields(strings.TrimPrefix(input, ":"))
	if len(parts) == 0 {
		return Command{Type: CommandUnknown}
	}

	name := parts[0]
	args := parts[1:]

	var t CommandType
	switch name {
	case "q", "quit":
		t = CommandQuit
	case "s", "search":
		t = CommandSearch
	case "all", "public":
		t = CommandAll
	case "mine", "my":
		t = CommandMine
	case "r", "refresh":
		t = CommandRefresh
	case "show", "open":
		t = CommandShow
	case "login":
		t = CommandLogin
	case "logout":
		t = CommandLogout
	case "account", "me":
		t = CommandAccount
	case "logs":
		t = CommandLogs
	case "h", "help":
		t = CommandHelp
	default:
		t = CommandUnknown
	}
	return Command{Type: t, Name: name, Args: args}
}

type keyHandler func(m Model) (Model, tea.Cmd)

type shortcut struct {
	key  string
	desc string
}

// CommandRegistry maps keys to handlers for each view. Keys registered for
// every view are looked up after the view-specific ones.
type CommandRegistry struct {
	global    map[string]keyHandler
	byView    map[ViewState]map[string]keyHandler
	shortcuts map[ViewState][]shortcut
}

func NewCommandRegistry() *CommandRegistry {
	r := &CommandRegistry{
		global:    make(map[string]keyHandler),
		byView:    make(map[ViewState]map[string]keyHandler),
		shortcuts: make(map[ViewState][]shortcut),
	}

	r.registerGlobal("ctrl+c", func(m Model) (Model, tea.Cmd) { return m, tea.Quit })
	r.registerGlobal(":", handleCommandKey)
	r.registerGlobal("L", handleLogsKey)

	r.register(ViewRepoList, "enter", "Inspect", handleInspectKey)
	r.register(ViewRepoList, "/", "Filter", handleFilterKey)
	r.register(ViewRepoList, "esc", "", handleClearFilterKey)
	r.register(ViewRepoList, "r", "Refresh", handleRefreshKey)
	r.register(ViewRepoList, "m", "My repos", handleMineKey)
	r.register(ViewRepoList, "p", "Public", handleAllKey)
	r.register(ViewRepoList, "a", "Account", handleAccountKey)
	r.register(ViewRepoList, "q", "Quit", handleQuitKey)

	r.register(ViewRepoDetail, "r", "Reload", handleReloadDetailKey)
	r.register(ViewRepoDetail, "q", "Back", handleQuitKey)
	r.register(ViewRepoDetail, "esc", "", handleQuitKey)

	r.register(ViewAccount, "l", "Log in", handleLoginKey)
	r.register(ViewAccount, "u", "Refresh profile", handleRefreshUserKey)
	r.register(ViewAccount, "m", "My repos", handleMineKey)
	r.register(ViewAccount, "x", "Log out", handleLogoutKey)
	r.register(ViewAccount, "q", "Back", handleQuitKey)
	r.register(ViewAccount, "esc", "", handleQuitKey)

	return r
}

func (r *CommandRegistry) registerGlobal(key string, h keyHandler) {
	r.global[key] = h
}

func (r *CommandRegistry) register(view ViewState, key, desc string, h keyHandler) {
	if r.byView[view] == nil {
		r.byView[view] = make(map[string]keyHandler)
	}
	r.byView[view][key] = h
	if desc != "" {
		r.shortcuts[view] = append(r.shortcuts[view], shortcut{key: key, desc: desc})
	}
}

func (r *CommandRegistry) HandleKey(m Model, key string) (Model, tea.Cmd, bool) {
	if h, ok := r.byView[m.state][key]; ok {
		newModel, cmd := h(m)
		return newModel, cmd, true
	}
	if h, ok := r.global[key]; ok {
		newModel, cmd := h(m)
		return newModel, cmd, true
	}
	return m, nil, false
}

// GetContextualShortcuts returns "<key> description" entries for the top bar.
func (r *CommandRegistry) GetContextualShortcuts(view ViewState) []string {
	out := make([]string, 0, len(r.shortcuts[view])+2)
	for _, s := range r.shortcuts[view] {
		out = append(out, fmt.Sprintf("<%s> %s", s.key, s.desc))
	}
	out = append(out, "<:> Command", "<L> Logs")
	return out
}

func (r *CommandRegistry) ExecuteCommand(m Model, cmd Command) (Model, tea.Cmd) {
	switch cmd.Type {
	case CommandQuit:
		return m, tea.Quit
	case CommandSearch:
		return executeSearch(m, cmd.Args)
	case CommandAll:
		return handleAllKey(m)
	case CommandMine:
		return handleMineKey(m)
	case CommandRefresh:
		return handleRefreshKey(m)
	case CommandShow:
		return executeShow(m, cmd.Args)
	case CommandLogin:
		return handleLoginKey(m.withView(ViewAccount))
	case CommandLogout:
		return handleLogoutKey(m)
	case CommandAccount:
		return handleAccountKey(m)
	case CommandLogs:
		return handleLogsKey(m)
	case CommandHelp:
		m.statusBar.SetMessage("Commands: search <language> [stars|updated], all, mine, refresh, show <owner/name>, login, logout, account, logs, quit", false)
		return m, nil
	default:
		m.statusBar.SetMessage(fmt.Sprintf("Unknown command: %s", cmd.Name), true)
		return m, nil
	}
}

func executeSearch(m Model, args []string) (Model, tea.Cmd) {
	if len(args) == 0 {
		m.statusBar.SetMessage("Usage: search <language> [stars|updated]", true)
		return m, nil
	}

	language := args[0]
	sort := domain.SortByStars
	if len(args) > 1 {
		sort = domain.SortKey(args[1])
	}

	m.source = sourceSearch
	m.sourceLabel = fmt.Sprintf("language:%s by %s", language, sort)
	m.lastSearch = searchParams{language: language, sort: sort}
	m = m.withView(ViewRepoList)
	m.refreshRepoList()

	logger.Log("UI: searching %s by %s", language, sort)
	return m, m.run(func(c *Controllers) { c.Browse.Search(m.ctx, language, sort) })
}

func executeShow(m Model, args []string) (Model, tea.Cmd) {
	if len(args) != 1 {
		m.statusBar.SetMessage("Usage: show <owner/name>", true)
		return m, nil
	}
	owner, name, err := common.ParseRepository(args[0])
	if err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return m, nil
	}
	return m.openDetail(owner, name)
}

func handleCommandKey(m Model) (Model, tea.Cmd) {
	m.commandBar.Activate()
	return m, nil
}

func handleLogsKey(m Model) (Model, tea.Cmd) {
	m.logsView.Activate()
	return m, nil
}

func handleInspectKey(m Model) (Model, tea.Cmd) {
	repo := m.repoList.GetSelectedRepo()
	if repo == nil {
		return m, nil
	}
	return m.openDetail(repo.OwnerLogin, repo.Name)
}

func handleFilterKey(m Model) (Model, tea.Cmd) {
	m.repoList.ActivateFilter()
	return m, nil
}

func handleClearFilterKey(m Model) (Model, tea.Cmd) {
	m.repoList.ClearFilter()
	return m, nil
}

func handleRefreshKey(m Model) (Model, tea.Cmd) {
	switch m.source {
	case sourceMine:
		return m, m.run(func(c *Controllers) { c.Session.RefreshRepositories(m.ctx) })
	case sourceSearch:
		params := m.lastSearch
		return m, m.run(func(c *Controllers) { c.Browse.Search(m.ctx, params.language, params.sort) })
	default:
		return m, m.run(func(c *Controllers) { c.Browse.FetchRepositories(m.ctx) })
	}
}

func handleAllKey(m Model) (Model, tea.Cmd) {
	m.source = sourcePublic
	m.sourceLabel = ""
	m = m.withView(ViewRepoList)
	m.refreshRepoList()
	return m, m.run(func(c *Controllers) { c.Browse.FetchRepositories(m.ctx) })
}

func handleMineKey(m Model) (Model, tea.Cmd) {
	if !m.sessionState.LoggedIn() {
		m.statusBar.SetMessage("Log in to list your repositories (a, then l)", true)
		return m, nil
	}
	m.source = sourceMine
	m.sourceLabel = "my repositories"
	m = m.withView(ViewRepoList)
	m.refreshRepoList()
	if m.sessionState.Repositories != nil {
		return m, nil
	}
	return m, m.run(func(c *Controllers) { c.Session.RefreshRepositories(m.ctx) })
}

func handleAccountKey(m Model) (Model, tea.Cmd) {
	return m.withView(ViewAccount), nil
}

func handleReloadDetailKey(m Model) (Model, tea.Cmd) {
	repo := m.repoDetail.GetRepo()
	if repo == nil {
		return m, nil
	}
	return m.openDetail(repo.OwnerLogin, repo.Name)
}

func handleLoginKey(m Model) (Model, tea.Cmd) {
	if m.sessionState.LoggedIn() {
		m.statusBar.SetMessage("Already logged in", false)
		return m, nil
	}
	m.account.EnterLoginMode(m.controllers.Session.BeginLogin())
	return m, nil
}

func handleLogoutKey(m Model) (Model, tea.Cmd) {
	if m.source == sourceMine {
		m.source = sourcePublic
		m.sourceLabel = ""
	}
	m.controllers.Session.Logout()
	m.statusBar.SetMessage("Logged out", false)
	return m, nil
}

func handleRefreshUserKey(m Model) (Model, tea.Cmd) {
	return m, m.run(func(c *Controllers) { c.Session.RefreshUser(m.ctx) })
}

func handleQuitKey(m Model) (Model, tea.Cmd) {
	if m.state == ViewRepoList {
		return m, tea.Quit
	}
	return m.navigateBack()
}
