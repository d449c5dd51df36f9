package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/johanforsgren/repobrowser/internal/domain"
	"github.com/johanforsgren/repobrowser/internal/logger"
	"github.com/johanforsgren/repobrowser/internal/provider/common"
	"github.com/johanforsgren/repobrowser/internal/state"
	"golang.org/x/oauth2"
)

const (
	DefaultRedirectURI = "myapp://callback"
	DefaultScope       = "repo"
	DefaultPerPage     = 100
	DefaultRepoSort    = "updated"
)

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	Endpoint     oauth2.Endpoint
	PerPage      int
	RepoSort     string
}

func (c Config) withDefaults() Config {
	if c.RedirectURI == "" {
		c.RedirectURI = DefaultRedirectURI
	}
	if len(c.Scopes) == 0 {
		c.Scopes = []string{DefaultScope}
	}
	if c.PerPage <= 0 {
		c.PerPage = DefaultPerPage
	}
	if c.RepoSort == "" {
		c.RepoSort = DefaultRepoSort
	}
	return c
}

type State struct {
	Status       domain.AuthStatus
	User         *domain.User
	Repositories []domain.RepositorySummary
	IsLoading    bool
	Error        string
}

func (s State) LoggedIn() bool {
	return s.Status == domain.AuthStatusLoggedIn
}

// Controller owns the login state and is the only writer of the SecureStore.
//
// Operations block until their remote calls finish and report failures
// through State().Error instead of returning them. They may be called from
// several goroutines at once; there is no cancellation of earlier calls and
// the last one to finish decides Repositories and Error.
type Controller struct {
	store  domain.SecureStore
	github domain.GitHub
	config Config

	state   *state.Observable[State]
	tracker state.Tracker

	pendingMu    sync.Mutex
	pendingState string
}

// New rebuilds the session from the store. A stored token is trusted as-is:
// an expired or revoked one shows up as an error on the next API call.
func New(store domain.SecureStore, github domain.GitHub, config Config) *Controller {
	status := domain.AuthStatusLoggedOut
	if _, ok := store.AccessToken(); ok {
		status = domain.AuthStatusLoggedIn
	}
	logger.Log("Session: starting %s", status)

	return &Controller{
		store:  store,
		github: github,
		config: config.withDefaults(),
		state:  state.NewObservable(State{Status: status}),
	}
}

func (c *Controller) State() State {
	return c.state.Get()
}

func (c *Controller) Subscribe(fn func(State)) func() {
	return c.state.Subscribe(fn)
}

// BeginLogin starts a login attempt and returns the URL the user must open.
// The callback for this attempt has to carry the same state value.
func (c *Controller) BeginLogin() string {
	nonce := uuid.NewString()

	c.pendingMu.Lock()
	c.pendingState = nonce
	c.pendingMu.Unlock()

	cfg := &oauth2.Config{
		ClientID:    c.config.ClientID,
		RedirectURL: c.config.RedirectURI,
		Scopes:      c.config.Scopes,
		Endpoint:    c.config.Endpoint,
	}
	logger.Log("Session: login started for client %s", c.config.ClientID)
	return cfg.AuthCodeURL(nonce)
}

// HandleCallback consumes the redirect URI delivered after authorization.
func (c *Controller) HandleCallback(ctx context.Context, callbackURL string) {
	callback, err := ParseCallback(callbackURL)
	if err != nil {
		logger.LogError("SESSION_CALLBACK", common.RedactURL(callbackURL), err)
		c.setError("Login failed", err)
		return
	}

	c.pendingMu.Lock()
	expected := c.pendingState
	if expected != "" && callback.State != expected {
		c.pendingMu.Unlock()
		logger.LogError("SESSION_CALLBACK", "state", common.ErrStateMismatch)
		c.setError("Login failed", common.ErrStateMismatch)
		return
	}
	c.pendingState = ""
	c.pendingMu.Unlock()

	c.CompleteLogin(ctx, callback.Code)
}

// CompleteLogin exchanges code for a token, persists it and loads the user
// and their repositories. A failed exchange ends the attempt; the code must
// not be retried. Failures after the token is stored leave the session
// logged in with Error set.
func (c *Controller) CompleteLogin(ctx context.Context, code string) {
	var previous domain.AuthStatus
	c.state.Update(func(s *State) {
		c.tracker.Start()
		s.IsLoading = true
		s.Error = ""
		previous = s.Status
		if s.Status == domain.AuthStatusLoggedOut {
			s.Status = domain.AuthStatusAuthenticating
		}
	})
	if previous == domain.AuthStatusLoggedOut {
		logger.LogState("session", previous, domain.AuthStatusAuthenticating)
	}

	token, err := c.github.ExchangeCodeForToken(ctx, c.config.ClientID, c.config.ClientSecret, code)
	if err != nil {
		c.abortLogin(previous, "Login failed", err)
		return
	}

	if err := c.store.SetAccessToken(token.AccessToken); err != nil {
		c.abortLogin(previous, "Failed to save access token", err)
		return
	}
	if err := c.store.SetTokenScope(token.Scope); err != nil {
		logger.LogError("SESSION_SAVE_SCOPE", token.Scope, err)
	}

	c.state.Update(func(s *State) {
		s.Status = domain.AuthStatusLoggedIn
	})
	logger.LogState("session", previous, domain.AuthStatusLoggedIn)

	c.loadUser(ctx, token.AccessToken)
	c.loadRepositories(ctx, token.AccessToken)

	c.finish()
}

// RefreshUser re-fetches the current user with the stored token.
func (c *Controller) RefreshUser(ctx context.Context) {
	token := c.CurrentAccessToken()
	if token == "" {
		logger.Log("Session: skipping user refresh, %v", common.ErrNotLoggedIn)
		return
	}

	c.start()
	c.loadUser(ctx, token)
	c.finish()
}

// RefreshRepositories re-fetches the user's repositories with the stored token.
func (c *Controller) RefreshRepositories(ctx context.Context) {
	token := c.CurrentAccessToken()
	if token == "" {
		logger.Log("Session: skipping repository refresh, %v", common.ErrNotLoggedIn)
		return
	}

	c.start()
	c.loadRepositories(ctx, token)
	c.finish()
}

// Logout forgets the credential and everything cached for it. Calling it
// when already logged out changes nothing.
func (c *Controller) Logout() {
	err := c.store.ClearAll()
	if err != nil {
		logger.LogError("SESSION_LOGOUT", "clear", err)
	}

	c.pendingMu.Lock()
	c.pendingState = ""
	c.pendingMu.Unlock()

	var previous domain.AuthStatus
	c.state.Update(func(s *State) {
		previous = s.Status
		s.Status = domain.AuthStatusLoggedOut
		s.User = nil
		s.Repositories = nil
		s.Error = ""
		if err != nil {
			s.Error = fmt.Sprintf("Failed to clear stored session: %s", common.ExtractErrorMessage(err))
		}
	})
	if previous != domain.AuthStatusLoggedOut {
		logger.LogState("session", previous, domain.AuthStatusLoggedOut)
	}
}

// CurrentAccessToken returns the stored token, or "" when logged out.
func (c *Controller) CurrentAccessToken() string {
	token, _ := c.store.AccessToken()
	return token
}

func (c *Controller) CurrentUserLogin() string {
	if user := c.State().User; user != nil && user.Login != "" {
		return user.Login
	}
	login, _ := c.store.UserLogin()
	return login
}

func (c *Controller) CurrentUserDisplayName() string {
	if user := c.State().User; user != nil && user.DisplayName != nil {
		return *user.DisplayName
	}
	name, _ := c.store.UserName()
	return name
}

func (c *Controller) CurrentTokenScope() string {
	scope, _ := c.store.TokenScope()
	return scope
}

func (c *Controller) loadUser(ctx context.Context, token string) {
	user, err := c.github.FetchCurrentUser(ctx, token)
	if err != nil {
		c.setError("Failed to fetch user info", err)
		return
	}

	if err := c.store.SetUserLogin(user.Login); err != nil {
		logger.LogError("SESSION_SAVE_LOGIN", user.Login, err)
	}
	if err := c.store.SetUserName(user.Name()); err != nil {
		logger.LogError("SESSION_SAVE_NAME", user.Login, err)
	}

	c.state.Update(func(s *State) {
		s.User = user
	})
	logger.Log("Session: user %s loaded", user.Login)
}

func (c *Controller) loadRepositories(ctx context.Context, token string) {
	repos, err := c.github.FetchCurrentUserRepositories(ctx, token, c.config.PerPage, c.config.RepoSort)
	if err != nil {
		c.setError("Failed to fetch repositories", err)
		return
	}

	c.state.Update(func(s *State) {
		s.Repositories = repos
	})
	logger.Log("Session: %d repositories loaded", len(repos))
}

func (c *Controller) start() {
	c.state.Update(func(s *State) {
		c.tracker.Start()
		s.IsLoading = true
		s.Error = ""
	})
}

func (c *Controller) finish() {
	c.state.Update(func(s *State) {
		s.IsLoading = c.tracker.Finish()
	})
}

func (c *Controller) abortLogin(previous domain.AuthStatus, action string, err error) {
	logger.LogError("SESSION_LOGIN", action, err)
	message := fmt.Sprintf("%s: %s", action, common.ExtractErrorMessage(err))

	c.state.Update(func(s *State) {
		if s.Status == domain.AuthStatusAuthenticating {
			s.Status = previous
		}
		s.Error = message
		s.IsLoading = c.tracker.Finish()
	})
}

func (c *Controller) setError(action string, err error) {
	logger.LogError("SESSION", action, err)
	message := fmt.Sprintf("%s: %s", action, common.ExtractErrorMessage(err))

	c.state.Update(func(s *State) {
		s.Error = message
	})
}
