package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/repobrowser/internal/browse"
	"github.com/johanforsgren/repobrowser/internal/domain"
	"github.com/johanforsgren/repobrowser/internal/logger"
	"github.com/johanforsgren/repobrowser/internal/session"
	"github.com/johanforsgren/repobrowser/internal/ui/components"
	"github.com/johanforsgren/repobrowser/internal/ui/views"
)

type ViewState int

const (
	ViewRepoList ViewState = iota
	ViewRepoDetail
	ViewAccount
)

func (v ViewState) String() string {
	switch v {
	case ViewRepoDetail:
		return "Repository"
	case ViewAccount:
		return "Account"
	default:
		return "Repositories"
	}
}

type repoSource int

const (
	sourcePublic repoSource = iota
	sourceSearch
	sourceMine
)

type searchParams struct {
	language string
	sort     domain.SortKey
}

// Controllers are the state owners the UI renders. The UI never keeps its own
// copy of remote data; it re-reads State() whenever a controller notifies.
type Controllers struct {
	Session *session.Controller
	Browse  *browse.Controller
	Detail  *browse.DetailController
}

type Model struct {
	state           ViewState
	width           int
	height          int
	topBar          *components.TopBarModel
	statusBar       *components.StatusBarModel
	commandBar      *components.CommandBarModel
	repoList        *views.RepoListViewModel
	repoDetail      *views.RepoDetailViewModel
	account         *views.AccountViewModel
	logsView        *views.LogsViewModel
	controllers     *Controllers
	ctx             context.Context
	commandRegistry *CommandRegistry

	source      repoSource
	sourceLabel string
	lastSearch  searchParams

	sessionState session.State
	browseState  browse.RepositoriesState
	detailState  browse.DetailState
	shownErrors  map[string]string
}

type sessionChangedMsg struct{}

type browseChangedMsg struct{}

type detailChangedMsg struct{}

func NewModel(ctx context.Context, controllers *Controllers) Model {
	m := Model{
		state:           ViewRepoList,
		topBar:          components.NewTopBar(),
		statusBar:       components.NewStatusBar(),
		commandBar:      components.NewCommandBar(),
		repoList:        views.NewRepoListView(),
		repoDetail:      views.NewRepoDetailView(),
		account:         views.NewAccountView(),
		logsView:        views.NewLogsView(),
		controllers:     controllers,
		ctx:             ctx,
		commandRegistry: NewCommandRegistry(),
		shownErrors:     make(map[string]string),
	}
	m.applySession()
	m.applyBrowse()
	m.applyDetail()
	m.updateShortcuts()
	return m
}

// Run starts the full-screen browser and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, controllers *Controllers) error {
	p := tea.NewProgram(NewModel(ctx, controllers), tea.WithAltScreen(), tea.WithContext(ctx))

	// Send blocks until the event loop runs, and subscribers are called
	// immediately, so notifications are posted from their own goroutines.
	// Handlers re-read the latest state, so arrival order does not matter.
	unsubscribe := []func(){
		controllers.Session.Subscribe(func(session.State) { go p.Send(sessionChangedMsg{}) }),
		controllers.Browse.Subscribe(func(browse.RepositoriesState) { go p.Send(browseChangedMsg{}) }),
		controllers.Detail.Subscribe(func(browse.DetailState) { go p.Send(detailChangedMsg{}) }),
	}
	defer func() {
		for _, fn := range unsubscribe {
			fn()
		}
	}()

	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.run(func(c *Controllers) { c.Browse.FetchRepositories(m.ctx) }),
	}
	if m.sessionState.LoggedIn() && m.sessionState.User == nil {
		cmds = append(cmds, m.run(func(c *Controllers) { c.Session.RefreshUser(m.ctx) }))
	}
	return tea.Batch(cmds...)
}

func (m Model) isInInputMode() bool {
	if m.commandBar.IsActive() {
		return true
	}
	if m.logsView.IsActive() {
		return true
	}
	if m.state == ViewRepoList && m.repoList.IsFiltering() {
		return true
	}
	if m.state == ViewAccount && m.account.Mode == views.AccountModeLogin {
		return true
	}
	return false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.topBar.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.commandBar.SetWidth(msg.Width)
		m.repoList.SetSize(msg.Width, msg.Height-8)
		m.repoDetail.SetSize(msg.Width, msg.Height-8)
		m.account.SetSize(msg.Width, msg.Height-8)
		m.logsView.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		key := msg.String()

		if m.isInInputMode() {
			return m.handleInputKey(msg)
		}

		newModel, cmd, handled := m.commandRegistry.HandleKey(m, key)
		if handled {
			return newModel, cmd
		}

	case spinner.TickMsg:
		return m, m.statusBar.Update(msg)

	case sessionChangedMsg:
		cmd = m.applySession()
		return m, cmd

	case browseChangedMsg:
		cmd = m.applyBrowse()
		return m, cmd

	case detailChangedMsg:
		cmd = m.applyDetail()
		return m, cmd
	}

	switch m.state {
	case ViewRepoList:
		cmd = m.repoList.Update(msg)
	case ViewRepoDetail:
		cmd = m.repoDetail.Update(msg)
	case ViewAccount:
		cmd = m.account.Update(msg)
	}
	return m, cmd
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.commandBar.IsActive() {
		switch key {
		case "enter":
			return m.handleCommand()
		case "esc":
			m.commandBar.Deactivate()
			return m, nil
		default:
			return m, m.commandBar.Update(msg)
		}
	}

	if m.logsView.IsActive() {
		switch key {
		case "esc", "q":
			m.logsView.Deactivate()
			return m, nil
		default:
			return m, m.logsView.Update(msg)
		}
	}

	if m.repoList.IsFiltering() {
		switch key {
		case "enter":
			m.repoList.ApplyFilter()
		case "esc":
			m.repoList.ClearFilter()
		default:
			return m, m.repoList.Update(msg)
		}
		return m, nil
	}

	if m.account.Mode == views.AccountModeLogin {
		switch key {
		case "enter":
			return m.submitLogin()
		case "esc":
			m.account.ExitLoginMode()
			return m, nil
		default:
			return m, m.account.Update(msg)
		}
	}

	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	if m.logsView.IsActive() {
		content = m.logsView.View()
	} else {
		switch m.state {
		case ViewRepoList:
			content = m.repoList.View()
		case ViewRepoDetail:
			content = m.repoDetail.View()
		case ViewAccount:
			content = m.account.View()
		}
	}

	topBar := m.topBar.View()

	if commandBar := m.commandBar.View(); commandBar != "" {
		return topBar + "\n" + content + "\n" + commandBar
	}
	return topBar + "\n" + content + "\n" + m.statusBar.View()
}

func (m Model) handleCommand() (tea.Model, tea.Cmd) {
	input := m.commandBar.Submit()
	cmd := ParseCommand(input)
	if cmd.Name == "" {
		return m, nil
	}

	logger.Log("UI: Executing command: %s %v", cmd.Name, cmd.Args)
	return m.commandRegistry.ExecuteCommand(m, cmd)
}

// submitLogin accepts the redirect URL or a bare authorization code.
func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	value := m.account.CallbackValue()
	if value == "" {
		return m, nil
	}
	m.account.ExitLoginMode()
	m.statusBar.SetMessage("Logging in...", false)

	if strings.Contains(value, "?") {
		return m, m.run(func(c *Controllers) { c.Session.HandleCallback(m.ctx, value) })
	}
	return m, m.run(func(c *Controllers) { c.Session.CompleteLogin(m.ctx, value) })
}

func (m Model) openDetail(owner, name string) (Model, tea.Cmd) {
	fullName := owner + "/" + name
	logger.Log("UI: Opening %s", fullName)

	m = m.withView(ViewRepoDetail)
	m.topBar.SetContext(fullName)

	return m, m.run(func(c *Controllers) { c.Detail.Fetch(m.ctx, owner, name) })
}

func (m Model) navigateBack() (Model, tea.Cmd) {
	switch m.state {
	case ViewRepoDetail, ViewAccount:
		logger.Log("UI: Navigating back from %s to %s", m.state, ViewRepoList)
		m.topBar.SetContext("")
		return m.withView(ViewRepoList), nil
	}
	return m, nil
}

func (m Model) withView(view ViewState) Model {
	m.state = view
	m.topBar.SetView(view.String())
	m.updateShortcuts()
	return m
}

// run executes a blocking controller operation off the event loop. Results
// arrive through the controller's subscription, not through the returned
// message.
func (m Model) run(op func(c *Controllers)) tea.Cmd {
	controllers := m.controllers
	return func() tea.Msg {
		op(controllers)
		return nil
	}
}

func (m *Model) applySession() tea.Cmd {
	s := m.controllers.Session.State()
	m.sessionState = s

	login := m.controllers.Session.CurrentUserLogin()
	name := m.controllers.Session.CurrentUserDisplayName()
	scope := m.controllers.Session.CurrentTokenScope()
	if !s.LoggedIn() {
		login, name, scope = "", "", ""
	}

	m.topBar.SetUser(login, name, scope)
	m.repoList.SetOwner(login)
	m.account.SetSession(s.Status, s.User, len(s.Repositories))
	m.account.SetStoredIdentity(login, name, scope)

	if s.LoggedIn() && m.account.Mode == views.AccountModeLogin {
		m.account.ExitLoginMode()
	}
	if !s.LoggedIn() && m.source == sourceMine {
		m.source = sourcePublic
		m.sourceLabel = ""
	}

	m.showError("session", s.Error)
	if s.Error == "" && s.LoggedIn() && s.User != nil && !s.IsLoading {
		if msg, isErr := m.statusBar.Message(); !isErr && msg == "Logging in..." {
			m.statusBar.SetMessage(fmt.Sprintf("Logged in as %s", s.User.Login), false)
		}
	}

	m.refreshRepoList()
	return m.updateLoading()
}

func (m *Model) applyBrowse() tea.Cmd {
	s := m.controllers.Browse.State()
	m.browseState = s
	m.showError("browse", s.Error)
	m.refreshRepoList()
	return m.updateLoading()
}

func (m *Model) applyDetail() tea.Cmd {
	s := m.controllers.Detail.State()
	m.detailState = s
	m.repoDetail.SetState(s.Data, s.IsLoading, s.Error)
	m.showError("detail", s.Error)
	return m.updateLoading()
}

// showError puts a controller's error in the status bar once, so later
// notifications for the same failure do not overwrite newer messages.
func (m *Model) showError(source, err string) {
	if err == "" {
		delete(m.shownErrors, source)
		return
	}
	if m.shownErrors[source] == err {
		return
	}
	m.shownErrors[source] = err
	m.statusBar.SetMessage(err, true)
}

func (m *Model) refreshRepoList() {
	var repos = m.browseState.Data
	if m.source == sourceMine {
		repos = m.sessionState.Repositories
	}
	m.repoList.SetRepositories(repos)

	label := m.sourceLabel
	if label == "" {
		label = "all public"
	}
	m.topBar.SetStats(label, len(repos), len(m.sessionState.Repositories))
}

func (m *Model) updateLoading() tea.Cmd {
	loading := m.sessionState.IsLoading || m.browseState.IsLoading || m.detailState.IsLoading
	m.topBar.SetLoading(loading)
	return m.statusBar.SetLoading(loading)
}

func (m *Model) updateShortcuts() {
	m.topBar.SetShortcuts(m.commandRegistry.GetContextualShortcuts(m.state))
}
