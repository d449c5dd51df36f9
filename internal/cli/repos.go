package cli

import (
	"context"
	"errors"

	"github.com/johanforsgren/repobrowser/internal/browse"
	"github.com/johanforsgren/repobrowser/internal/domain"
	"github.com/johanforsgren/repobrowser/internal/provider/common"
	"github.com/johanforsgren/repobrowser/internal/ui"
)

// ReposCmd lists the logged in user's repositories, most recently updated first.
type ReposCmd struct{}

func (r *ReposCmd) Run(cli *CLI) error {
	controller := cli.Container.Session
	if !controller.State().LoggedIn() {
		return common.ErrNotLoggedIn
	}

	err := ui.RunProgress(cli.Context(), cli.Out(), ui.Progress{
		Title:     "Fetching your repositories...",
		Subscribe: subscribeSession(controller),
		Status:    func() string { return sessionStatus(controller.State()) },
		Run:       controller.RefreshRepositories,
	})
	if err != nil {
		return err
	}

	st := controller.State()
	if st.Error != "" {
		return errors.New(st.Error)
	}
	cli.println(ui.RenderRepositories(st.Repositories, controller.CurrentUserLogin()))
	return nil
}

type PublicCmd struct{}

func (p *PublicCmd) Run(cli *CLI) error {
	controller := cli.Container.Browse
	err := ui.RunProgress(cli.Context(), cli.Out(), ui.Progress{
		Title:     "Fetching public repositories...",
		Subscribe: subscribeBrowse(controller),
		Status:    func() string { return controller.State().Error },
		Run:       controller.FetchRepositories,
	})
	if err != nil {
		return err
	}
	return cli.printRepositories(controller.State())
}

type SearchCmd struct {
	Language string `arg:"" help:"Language to search for, e.g. go"`
	Sort     string `help:"Sort by stars or updated" default:"stars" enum:"stars,updated"`
}

func (s *SearchCmd) Run(cli *CLI) error {
	controller := cli.Container.Browse
	err := ui.RunProgress(cli.Context(), cli.Out(), ui.Progress{
		Title:     "Searching " + common.LanguageQuery(s.Language) + "...",
		Subscribe: subscribeBrowse(controller),
		Status:    func() string { return controller.State().Error },
		Run: func(ctx context.Context) {
			controller.Search(ctx, s.Language, domain.SortKey(s.Sort))
		},
	})
	if err != nil {
		return err
	}
	return cli.printRepositories(controller.State())
}

type ShowCmd struct {
	Repository string `arg:"" help:"Repository as owner/name"`
}

func (s *ShowCmd) Run(cli *CLI) error {
	owner, name, err := common.ParseRepository(s.Repository)
	if err != nil {
		return err
	}

	controller := cli.Container.Detail
	err = ui.RunProgress(cli.Context(), cli.Out(), ui.Progress{
		Title: "Loading " + owner + "/" + name + "...",
		Subscribe: func(changed func()) func() {
			return controller.Subscribe(func(browse.DetailState) { changed() })
		},
		Status: func() string { return controller.State().Error },
		Run: func(ctx context.Context) {
			controller.Fetch(ctx, owner, name)
		},
	})
	if err != nil {
		return err
	}

	st := controller.State()
	if st.Error != "" {
		return errors.New(st.Error)
	}
	cli.println(ui.RenderRepository(st.Data))
	return nil
}

func (c *CLI) printRepositories(st browse.RepositoriesState) error {
	if st.Error != "" {
		return errors.New(st.Error)
	}
	c.println(ui.RenderRepositories(st.Data, c.Container.Session.CurrentUserLogin()))
	return nil
}

func subscribeBrowse(controller *browse.Controller) func(func()) func() {
	return func(changed func()) func() {
		return controller.Subscribe(func(browse.RepositoriesState) { changed() })
	}
}
