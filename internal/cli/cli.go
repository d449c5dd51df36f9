// Package cli is the repobrowser command tree. Every command builds the same
// Container and drives the controllers the way a screen would.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/johanforsgren/repobrowser/internal/config"
	"github.com/johanforsgren/repobrowser/internal/logger"
)

// CLI represents the command-line interface structure. Flags left empty fall
// back to REPOBROWSER_* environment variables and then to .env.
type CLI struct {
	Version   kong.VersionFlag `help:"Show version information"`
	EnvFile   string           `help:"Read settings from this env file instead of ./.env" type:"path"`
	Debug     bool             `help:"Log GitHub HTTP traffic (secrets redacted)" short:"d"`
	Store     string           `help:"Credential store: file or sqlite"`
	StorePath string           `help:"Path of the credential store" type:"path"`
	LogPath   string           `help:"Append logs to this file" type:"path"`
	APIURL    string           `name:"api-url" help:"GitHub REST API base URL"`
	WebURL    string           `name:"web-url" help:"GitHub web base URL used for OAuth"`

	Browse       BrowseCmd       `cmd:"" help:"Open the interactive repository browser (default)" default:"1"`
	AuthorizeURL AuthorizeURLCmd `cmd:"authorize-url" help:"Print the URL that starts a GitHub login"`
	Login        LoginCmd        `cmd:"login" help:"Log in with an authorization code or the callback URL"`
	Logout       LogoutCmd       `cmd:"logout" help:"Forget the stored credential"`
	Whoami       WhoamiCmd       `cmd:"whoami" help:"Show the logged in user"`
	Repos        ReposCmd        `cmd:"repos" help:"List your repositories"`
	Search       SearchCmd       `cmd:"search" help:"Search public repositories by language"`
	Show         ShowCmd         `cmd:"show" help:"Show one repository"`
	Public       PublicCmd       `cmd:"public" help:"List public repositories"`
	Logs         LogsCmd         `cmd:"logs" help:"Print the end of the log file"`

	// Internal fields (not flags)
	Container *Container      `kong:"-"`
	config    *config.Config  `kong:"-"`
	ctx       context.Context `kong:"-"`
	out       io.Writer       `kong:"-"`
	in        io.Reader       `kong:"-"`
}

// SetContext sets the context every command runs under.
func (c *CLI) SetContext(ctx context.Context) {
	c.ctx = ctx
}

// SetIO redirects command input and output.
func (c *CLI) SetIO(in io.Reader, out io.Writer) {
	c.in = in
	c.out = out
}

func (c *CLI) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

func (c *CLI) Out() io.Writer {
	if c.out == nil {
		return os.Stdout
	}
	return c.out
}

func (c *CLI) In() io.Reader {
	if c.in == nil {
		return os.Stdin
	}
	return c.in
}

// AfterApply loads configuration, initializes logging and wires the container.
// Precedence: flags > environment > env file > defaults.
func (c *CLI) AfterApply() error {
	var cfg *config.Config
	var err error
	if c.EnvFile != "" {
		cfg, err = config.LoadFile(c.EnvFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	c.applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	logPath := cfg.LogPath
	if logPath == "" {
		logPath = defaultLogPath()
	}
	if err := logger.Init(logPath); err != nil {
		return err
	}
	logger.Log("repobrowser starting (store=%s, debug=%t)", cfg.StoreDriver, cfg.Debug)

	container, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	c.config = cfg
	c.Container = container
	return nil
}

func (c *CLI) applyFlags(cfg *config.Config) {
	if c.Debug {
		cfg.Debug = true
	}
	if c.Store != "" {
		cfg.StoreDriver = c.Store
	}
	if c.StorePath != "" {
		cfg.StorePath = c.StorePath
	}
	if c.LogPath != "" {
		cfg.LogPath = c.LogPath
	}
	if c.APIURL != "" {
		cfg.APIBaseURL = c.APIURL
	}
	if c.WebURL != "" {
		cfg.WebBaseURL = c.WebURL
	}
}

// Close releases the container and the log file.
func (c *CLI) Close() {
	if c.Container != nil {
		if err := c.Container.Close(); err != nil {
			logger.LogError("CLOSE", "store", err)
		}
	}
	logger.Close()
}

func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.Out(), format, args...)
}

func (c *CLI) println(s string) {
	fmt.Fprintln(c.Out(), s)
}
