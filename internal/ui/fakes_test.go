package ui

import (
	"context"
	"fmt"
	"sync"

	"github.com/johanforsgren/repobrowser/internal/browse"
	"github.com/johanforsgren/repobrowser/internal/domain"
	"github.com/johanforsgren/repobrowser/internal/session"
	"golang.org/x/oauth2"
)

type mockStore struct {
	mu sync.Mutex
	s  domain.Session
}

func (m *mockStore) field(f func(domain.Session) string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := f(m.s)
	return v, v != ""
}

func (m *mockStore) update(f func(*domain.Session)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f(&m.s)
	return nil
}

func (m *mockStore) AccessToken() (string, bool) {
	return m.field(func(s domain.Session) string { return s.AccessToken })
}
func (m *mockStore) SetAccessToken(v string) error {
	return m.update(func(s *domain.Session) { s.AccessToken = v })
}
func (m *mockStore) UserLogin() (string, bool) {
	return m.field(func(s domain.Session) string { return s.UserLogin })
}
func (m *mockStore) SetUserLogin(v string) error {
	return m.update(func(s *domain.Session) { s.UserLogin = v })
}
func (m *mockStore) UserName() (string, bool) {
	return m.field(func(s domain.Session) string { return s.UserDisplayName })
}
func (m *mockStore) SetUserName(v string) error {
	return m.update(func(s *domain.Session) { s.UserDisplayName = v })
}
func (m *mockStore) TokenScope() (string, bool) {
	return m.field(func(s domain.Session) string { return s.TokenScope })
}
func (m *mockStore) SetTokenScope(v string) error {
	return m.update(func(s *domain.Session) { s.TokenScope = v })
}
func (m *mockStore) ClearAll() error {
	return m.update(func(s *domain.Session) { *s = domain.Session{} })
}

type mockGitHub struct {
	public    []domain.RepositorySummary
	mine      []domain.RepositorySummary
	searchErr error
	queries   []string
}

func (m *mockGitHub) ExchangeCodeForToken(_ context.Context, _, _, code string) (*domain.AccessTokenResult, error) {
	return &domain.AccessTokenResult{AccessToken: "gho_" + code, Scope: "repo"}, nil
}

func (m *mockGitHub) FetchCurrentUser(context.Context, string) (*domain.User, error) {
	return &domain.User{Login: "octocat", ID: 1}, nil
}

func (m *mockGitHub) FetchCurrentUserRepositories(context.Context, string, int, string) ([]domain.RepositorySummary, error) {
	return m.mine, nil
}

func (m *mockGitHub) FetchPublicRepositories(context.Context) ([]domain.RepositorySummary, error) {
	return m.public, nil
}

func (m *mockGitHub) SearchRepositories(_ context.Context, query, sort, order string) ([]domain.RepositorySummary, error) {
	m.queries = append(m.queries, query+" "+sort+" "+order)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.public, nil
}

func (m *mockGitHub) FetchRepositoryDetail(_ context.Context, owner, name string) (*domain.RepositorySummary, error) {
	for _, r := range append(m.public, m.mine...) {
		if r.OwnerLogin == owner && r.Name == name {
			r := r
			return &r, nil
		}
	}
	return nil, fmt.Errorf("404 Not Found")
}

func newTestControllers(store *mockStore, gh *mockGitHub) *Controllers {
	return &Controllers{
		Session: session.New(store, gh, session.Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Endpoint:     oauth2.Endpoint{AuthURL: "https://github.example/login/oauth/authorize"},
		}),
		Browse: browse.New(gh),
		Detail: browse.NewDetail(gh),
	}
}

func testRepos() []domain.RepositorySummary {
	return []domain.RepositorySummary{
		{ID: 1, Name: "grit", OwnerLogin: "mojombo", StarCount: 1},
		{ID: 2, Name: "hello-world", OwnerLogin: "octocat", StarCount: 42},
	}
}
