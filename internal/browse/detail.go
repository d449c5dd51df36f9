package browse

import (
	"context"
	"fmt"

	"github.com/johanforsgren/repobrowser/internal/domain"
	"github.com/johanforsgren/repobrowser/internal/logger"
	"github.com/johanforsgren/repobrowser/internal/provider/common"
	"github.com/johanforsgren/repobrowser/internal/state"
)

type DetailState = state.RequestState[*domain.RepositorySummary]

type DetailController struct {
	github  domain.GitHub
	state   *state.Observable[DetailState]
	tracker state.Tracker
}

func NewDetail(github domain.GitHub) *DetailController {
	return &DetailController{
		github: github,
		state:  state.NewObservable(DetailState{}),
	}
}

func (c *DetailController) State() DetailState {
	return c.state.Get()
}

func (c *DetailController) Subscribe(fn func(DetailState)) func() {
	return c.state.Subscribe(fn)
}

func (c *DetailController) Fetch(ctx context.Context, owner, name string) {
	c.state.Update(func(s *DetailState) {
		c.tracker.Start()
		s.IsLoading = true
		s.Error = ""
	})

	repo, err := c.github.FetchRepositoryDetail(ctx, owner, name)
	if err != nil {
		logger.LogError("BROWSE_DETAIL", owner+"/"+name, err)
	}

	c.state.Update(func(s *DetailState) {
		if err != nil {
			s.Error = fmt.Sprintf("Failed to load %s/%s: %s", owner, name, common.ExtractErrorMessage(err))
		} else {
			s.Data = repo
			s.Error = ""
		}
		s.IsLoading = c.tracker.Finish()
	})
}
