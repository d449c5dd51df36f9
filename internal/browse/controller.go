// Package browse drives the public repository screens: the unfiltered
// listing, language search and the single repository view. None of it needs
// a session.
package browse

import (
	"context"
	"fmt"

	"github.com/johanforsgren/repobrowser/internal/domain"
	"github.com/johanforsgren/repobrowser/internal/logger"
	"github.com/johanforsgren/repobrowser/internal/provider/common"
	"github.com/johanforsgren/repobrowser/internal/state"
)

const searchOrder = "desc"

type RepositoriesState = state.RequestState[[]domain.RepositorySummary]

// Controller holds the repository list shown on the browse screen. Overlapping
// requests are not cancelled: whichever finishes last decides Data and Error.
type Controller struct {
	github  domain.GitHub
	state   *state.Observable[RepositoriesState]
	tracker state.Tracker
}

func New(github domain.GitHub) *Controller {
	return &Controller{
		github: github,
		state:  state.NewObservable(RepositoriesState{}),
	}
}

func (c *Controller) State() RepositoriesState {
	return c.state.Get()
}

func (c *Controller) Subscribe(fn func(RepositoriesState)) func() {
	return c.state.Subscribe(fn)
}

// FetchRepositories loads the first page of all public repositories.
func (c *Controller) FetchRepositories(ctx context.Context) {
	c.start()
	repos, err := c.github.FetchPublicRepositories(ctx)
	c.finish(repos, err, "Failed to fetch repositories")
}

// Search lists repositories written in language, most stars or most recently
// updated first.
func (c *Controller) Search(ctx context.Context, language string, sort domain.SortKey) {
	if !sort.Valid() {
		err := fmt.Errorf("%w: %q", common.ErrInvalidSortKey, sort)
		logger.LogError("BROWSE_SEARCH", language, err)
		c.state.Update(func(s *RepositoriesState) {
			s.Error = fmt.Sprintf("Search failed: %s", err)
		})
		return
	}

	c.start()
	repos, err := c.github.SearchRepositories(ctx, common.LanguageQuery(language), string(sort), searchOrder)
	c.finish(repos, err, "Search failed")
}

func (c *Controller) start() {
	c.state.Update(func(s *RepositoriesState) {
		c.tracker.Start()
		s.IsLoading = true
		s.Error = ""
	})
}

func (c *Controller) finish(repos []domain.RepositorySummary, err error, action string) {
	if err != nil {
		logger.LogError("BROWSE", action, err)
	} else {
		logger.Log("Browse: %d repositories loaded", len(repos))
	}

	c.state.Update(func(s *RepositoriesState) {
		if err != nil {
			s.Error = fmt.Sprintf("%s: %s", action, common.ExtractErrorMessage(err))
		} else {
			s.Data = repos
			s.Error = ""
		}
		s.IsLoading = c.tracker.Finish()
	})
}
