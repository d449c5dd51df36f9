package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/johanforsgren/repobrowser/internal/domain"
	"github.com/johanforsgren/repobrowser/internal/provider/common"
)

var errDiskFull = errors.New("disk full")

type memoryStore struct {
	mu       sync.Mutex
	session  domain.Session
	failSet  bool
	failWipe bool
}

func (m *memoryStore) get(field func(domain.Session) string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := field(m.session)
	return v, v != ""
}

func (m *memoryStore) set(apply func(*domain.Session)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errDiskFull
	}
	apply(&m.session)
	return nil
}

func (m *memoryStore) AccessToken() (string, bool) {
	return m.get(func(s domain.Session) string { return s.AccessToken })
}

func (m *memoryStore) SetAccessToken(token string) error {
	return m.set(func(s *domain.Session) { s.AccessToken = token })
}

func (m *memoryStore) UserLogin() (string, bool) {
	return m.get(func(s domain.Session) string { return s.UserLogin })
}

func (m *memoryStore) SetUserLogin(login string) error {
	return m.set(func(s *domain.Session) { s.UserLogin = login })
}

func (m *memoryStore) UserName() (string, bool) {
	return m.get(func(s domain.Session) string { return s.UserDisplayName })
}

func (m *memoryStore) SetUserName(name string) error {
	return m.set(func(s *domain.Session) { s.UserDisplayName = name })
}

func (m *memoryStore) TokenScope() (string, bool) {
	return m.get(func(s domain.Session) string { return s.TokenScope })
}

func (m *memoryStore) SetTokenScope(scope string) error {
	return m.set(func(s *domain.Session) { s.TokenScope = scope })
}

func (m *memoryStore) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWipe {
		return errDiskFull
	}
	m.session = domain.Session{}
	return nil
}

// fakeGitHub hands out one token per code and rejects reused codes the way
// GitHub does.
type fakeGitHub struct {
	mu        sync.Mutex
	usedCodes map[string]bool
	exchanges int

	user     *domain.User
	userErr  error
	repos    []domain.RepositorySummary
	reposErr error
	lastSort string
	lastPage int
}

func newFakeGitHub() *fakeGitHub {
	name := "The Octocat"
	return &fakeGitHub{
		usedCodes: make(map[string]bool),
		user:      &domain.User{Login: "octocat", ID: 1, DisplayName: &name},
		repos: []domain.RepositorySummary{
			{ID: 1, Name: "hello-world", OwnerLogin: "octocat", StarCount: 42},
			{ID: 2, Name: "spoon-knife", OwnerLogin: "octocat", StarCount: 7},
		},
	}
}

func (f *fakeGitHub) ExchangeCodeForToken(_ context.Context, clientID, clientSecret, code string) (*domain.AccessTokenResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exchanges++
	if f.usedCodes[code] {
		return nil, &common.NetworkError{Status: http.StatusBadRequest, Message: "The code passed is incorrect or expired."}
	}
	f.usedCodes[code] = true
	return &domain.AccessTokenResult{AccessToken: "gho_" + code, TokenType: "bearer", Scope: "repo"}, nil
}

func (f *fakeGitHub) FetchCurrentUser(context.Context, string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func (f *fakeGitHub) FetchCurrentUserRepositories(_ context.Context, _ string, perPage int, sort string) ([]domain.RepositorySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPage = perPage
	f.lastSort = sort
	if f.reposErr != nil {
		return nil, f.reposErr
	}
	return f.repos, nil
}

func (f *fakeGitHub) FetchPublicRepositories(context.Context) ([]domain.RepositorySummary, error) {
	return nil, errors.New("not used by the session")
}

func (f *fakeGitHub) SearchRepositories(context.Context, string, string, string) ([]domain.RepositorySummary, error) {
	return nil, errors.New("not used by the session")
}

func (f *fakeGitHub) FetchRepositoryDetail(context.Context, string, string) (*domain.RepositorySummary, error) {
	return nil, errors.New("not used by the session")
}

func (f *fakeGitHub) failUser(err error) {
	f.mu.Lock()
	f.userErr = err
	f.mu.Unlock()
}

func (f *fakeGitHub) failRepos(err error) {
	f.mu.Lock()
	f.reposErr = err
	f.mu.Unlock()
}
