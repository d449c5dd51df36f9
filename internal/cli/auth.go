package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/johanforsgren/repobrowser/internal/session"
	"github.com/johanforsgren/repobrowser/internal/ui"
)

// AuthorizeURLCmd prints the authorization URL. A callback from this URL is
// accepted by a later `login --callback` without state validation, since the
// nonce does not outlive the process.
type AuthorizeURLCmd struct{}

func (a *AuthorizeURLCmd) Run(cli *CLI) error {
	if err := cli.config.ValidateLogin(); err != nil {
		return err
	}
	cli.println(cli.Container.Session.BeginLogin())
	return nil
}

// LoginCmd completes a login. Without flags it prints the authorization URL
// and reads the callback URL (or bare code) from stdin.
type LoginCmd struct {
	Code     string `help:"Authorization code from the callback" xor:"input"`
	Callback string `help:"Full callback URL, e.g. myapp://callback?code=..." xor:"input"`
}

func (l *LoginCmd) Run(cli *CLI) error {
	if err := cli.config.ValidateLogin(); err != nil {
		return err
	}
	controller := cli.Container.Session

	input := l.Callback
	if input == "" {
		input = l.Code
	}
	if input == "" {
		cli.println(ui.HelpStyle.Render("Open this URL in a browser and authorize the app:"))
		cli.println(ui.URLStyle.Render(controller.BeginLogin()))
		cli.printf("Paste the callback URL or code: ")

		line, err := readLine(cli)
		if err != nil {
			return err
		}
		input = line
	}

	previousToken := controller.CurrentAccessToken()
	run := func(ctx context.Context) {
		if strings.Contains(input, "?") {
			controller.HandleCallback(ctx, input)
			return
		}
		controller.CompleteLogin(ctx, input)
	}

	err := ui.RunProgress(cli.Context(), cli.Out(), ui.Progress{
		Title:     "Logging in...",
		Subscribe: subscribeSession(controller),
		Status:    func() string { return sessionStatus(controller.State()) },
		Run:       run,
	})
	if err != nil {
		return err
	}

	st := controller.State()
	if !st.LoggedIn() {
		if st.Error != "" {
			return errors.New(st.Error)
		}
		return errors.New("login did not complete")
	}
	// A failed attempt never demotes an existing session, so an unchanged
	// token with an error means this login did not happen.
	if st.Error != "" && controller.CurrentAccessToken() == previousToken {
		return errors.New(st.Error)
	}

	cli.println(ui.RenderIdentity(identity(controller)))
	if st.Error != "" {
		// Logged in, but the user or repository fetch failed.
		cli.println(ui.RenderError(st.Error))
	}
	return nil
}

type LogoutCmd struct{}

func (l *LogoutCmd) Run(cli *CLI) error {
	controller := cli.Container.Session
	wasLoggedIn := controller.State().LoggedIn()

	controller.Logout()

	if msg := controller.State().Error; msg != "" {
		return errors.New(msg)
	}
	if wasLoggedIn {
		cli.println(ui.SuccessStyle.Render("Logged out"))
	} else {
		cli.println(ui.SubtitleStyle.Render("Already logged out"))
	}
	return nil
}

// WhoamiCmd shows the cached identity, or the live one with --refresh.
type WhoamiCmd struct {
	Refresh bool `help:"Fetch the user from GitHub instead of the cached identity" short:"r"`
}

func (w *WhoamiCmd) Run(cli *CLI) error {
	controller := cli.Container.Session

	if w.Refresh && controller.State().LoggedIn() {
		err := ui.RunProgress(cli.Context(), cli.Out(), ui.Progress{
			Title:     "Fetching user...",
			Subscribe: subscribeSession(controller),
			Status:    func() string { return sessionStatus(controller.State()) },
			Run:       controller.RefreshUser,
		})
		if err != nil {
			return err
		}
		if msg := controller.State().Error; msg != "" {
			return errors.New(msg)
		}
	}

	cli.println(ui.RenderIdentity(identity(controller)))
	return nil
}

func identity(controller *session.Controller) ui.Identity {
	return ui.Identity{
		Status:      controller.State().Status,
		Login:       controller.CurrentUserLogin(),
		DisplayName: controller.CurrentUserDisplayName(),
		Scope:       controller.CurrentTokenScope(),
		Token:       controller.CurrentAccessToken(),
	}
}

func subscribeSession(controller *session.Controller) func(func()) func() {
	return func(changed func()) func() {
		return controller.Subscribe(func(session.State) { changed() })
	}
}

func sessionStatus(st session.State) string {
	if st.Error != "" {
		return st.Error
	}
	return string(st.Status)
}

func readLine(cli *CLI) (string, error) {
	scanner := bufio.NewScanner(cli.In())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", errors.New("no callback URL or code given")
	}
	line := strings.TrimSpace(scanner.Text())
	if line == "" {
		return "", errors.New("no callback URL or code given")
	}
	return line, nil
}
