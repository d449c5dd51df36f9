package browse

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/johanforsgren/repobrowser/internal/domain"
	"github.com/johanforsgren/repobrowser/internal/provider/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGitHub answers searches per query. A query with a gate blocks until the
// gate is closed, so tests decide the completion order.
type fakeGitHub struct {
	mu       sync.Mutex
	results  map[string][]domain.RepositorySummary
	gates    map[string]chan struct{}
	started  chan string
	errs     map[string]error
	searches []string
	public   []domain.RepositorySummary
	detail   *domain.RepositorySummary
}

func newFakeGitHub() *fakeGitHub {
	return &fakeGitHub{
		results: make(map[string][]domain.RepositorySummary),
		gates:   make(map[string]chan struct{}),
		errs:    make(map[string]error),
		started: make(chan string, 16),
	}
}

func (f *fakeGitHub) ExchangeCodeForToken(context.Context, string, string, string) (*domain.AccessTokenResult, error) {
	return nil, errors.New("not used by browse")
}

func (f *fakeGitHub) FetchCurrentUser(context.Context, string) (*domain.User, error) {
	return nil, errors.New("not used by browse")
}

func (f *fakeGitHub) FetchCurrentUserRepositories(context.Context, string, int, string) ([]domain.RepositorySummary, error) {
	return nil, errors.New("not used by browse")
}

func (f *fakeGitHub) FetchPublicRepositories(context.Context) ([]domain.RepositorySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs["public"]; err != nil {
		return nil, err
	}
	return f.public, nil
}

func (f *fakeGitHub) SearchRepositories(_ context.Context, query, sort, order string) ([]domain.RepositorySummary, error) {
	f.mu.Lock()
	f.searches = append(f.searches, query+" "+sort+" "+order)
	gate := f.gates[query]
	f.mu.Unlock()

	f.started <- query
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}

func (f *fakeGitHub) FetchRepositoryDetail(_ context.Context, owner, name string) (*domain.RepositorySummary, error) {
	key := owner + "/" + name
	f.mu.Lock()
	gate := f.gates[key]
	f.mu.Unlock()

	if gate != nil {
		f.started <- key
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return f.detail, nil
}

func (f *fakeGitHub) fail(key string, err error) {
	f.mu.Lock()
	f.errs[key] = err
	f.mu.Unlock()
}

func repo(owner, name string, stars int) domain.RepositorySummary {
	return domain.RepositorySummary{Name: name, OwnerLogin: owner, StarCount: stars}
}

func TestFetchRepositories(t *testing.T) {
	gh := newFakeGitHub()
	gh.public = []domain.RepositorySummary{repo("mojombo", "grit", 1), repo("wycats", "merb-core", 2)}
	c := New(gh)

	c.FetchRepositories(context.Background())

	s := c.State()
	assert.Equal(t, gh.public, s.Data)
	assert.False(t, s.IsLoading)
	assert.Empty(t, s.Error)
}

func TestSearchBuildsLanguageQuery(t *testing.T) {
	gh := newFakeGitHub()
	gh.results["language:go"] = []domain.RepositorySummary{repo("golang", "go", 120000)}
	c := New(gh)

	c.Search(context.Background(), "go", domain.SortByStars)

	assert.Equal(t, []string{"language:go stars desc"}, gh.searches)
	assert.Equal(t, gh.results["language:go"], c.State().Data)
}

func TestSearchRejectsUnknownSort(t *testing.T) {
	gh := newFakeGitHub()
	c := New(gh)

	c.Search(context.Background(), "go", domain.SortKey("forks"))

	s := c.State()
	assert.Contains(t, s.Error, common.ErrInvalidSortKey.Error())
	assert.False(t, s.IsLoading)
	assert.Empty(t, gh.searches, "no request for an invalid sort")
}

func TestSearchLastCompletionWins(t *testing.T) {
	gh := newFakeGitHub()
	goRepos := []domain.RepositorySummary{repo("golang", "go", 120000)}
	rustRepos := []domain.RepositorySummary{repo("rust-lang", "rust", 95000)}
	gh.results["language:go"] = goRepos
	gh.results["language:rust"] = rustRepos
	slow := make(chan struct{})
	fast := make(chan struct{})
	gh.gates["language:go"] = slow
	gh.gates["language:rust"] = fast

	c := New(gh)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.Search(context.Background(), "go", domain.SortByStars)
	}()
	<-gh.started
	go func() {
		defer wg.Done()
		c.Search(context.Background(), "rust", domain.SortByUpdated)
	}()
	<-gh.started

	assert.True(t, c.State().IsLoading)

	// rust answers after 10ms, go after 100ms
	time.AfterFunc(10*time.Millisecond, func() { close(fast) })
	require.Eventually(t, func() bool {
		return len(c.State().Data) == 1 && c.State().Data[0].Name == "rust"
	}, time.Second, time.Millisecond)
	assert.True(t, c.State().IsLoading, "go search still in flight")

	time.AfterFunc(90*time.Millisecond, func() { close(slow) })
	wg.Wait()

	s := c.State()
	assert.Equal(t, goRepos, s.Data, "the search that completed last wins")
	assert.False(t, s.IsLoading)
	assert.Empty(t, s.Error)
}

func TestSearchErrorPreservesData(t *testing.T) {
	gh := newFakeGitHub()
	gh.results["language:go"] = []domain.RepositorySummary{repo("golang", "go", 120000)}
	c := New(gh)
	c.Search(context.Background(), "go", domain.SortByStars)
	before := c.State().Data
	require.NotEmpty(t, before)

	gh.fail("language:go", &common.NetworkError{Status: http.StatusForbidden, Message: "API rate limit exceeded"})
	c.Search(context.Background(), "go", domain.SortByStars)

	s := c.State()
	assert.Equal(t, before, s.Data)
	assert.Equal(t, "Search failed: 403 Forbidden: API rate limit exceeded", s.Error)
	assert.False(t, s.IsLoading)

	gh.fail("language:go", nil)
	c.Search(context.Background(), "go", domain.SortByStars)
	assert.Empty(t, c.State().Error)
}

func TestFetchRepositoriesErrorPreservesData(t *testing.T) {
	gh := newFakeGitHub()
	gh.public = []domain.RepositorySummary{repo("mojombo", "grit", 1)}
	c := New(gh)
	c.FetchRepositories(context.Background())

	gh.fail("public", &common.NetworkError{Message: "no such host"})
	c.FetchRepositories(context.Background())

	s := c.State()
	assert.Equal(t, gh.public, s.Data)
	assert.Equal(t, "Failed to fetch repositories: network error: no such host", s.Error)
}

func TestSubscribeSeesLoadingTransitions(t *testing.T) {
	gh := newFakeGitHub()
	c := New(gh)

	var loading []bool
	unsubscribe := c.Subscribe(func(s RepositoriesState) { loading = append(loading, s.IsLoading) })
	defer unsubscribe()

	c.FetchRepositories(context.Background())

	assert.Equal(t, []bool{false, true, false}, loading)
}
