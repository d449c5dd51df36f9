package cli

import (
	"fmt"
	"path/filepath"

	"github.com/johanforsgren/repobrowser/internal/browse"
	"github.com/johanforsgren/repobrowser/internal/config"
	"github.com/johanforsgren/repobrowser/internal/domain"
	"github.com/johanforsgren/repobrowser/internal/logger"
	"github.com/johanforsgren/repobrowser/internal/provider/github"
	"github.com/johanforsgren/repobrowser/internal/session"
	"github.com/johanforsgren/repobrowser/internal/storage"
	"github.com/johanforsgren/repobrowser/internal/ui"
)

const (
	sqliteFile = "session.db"
	logFile    = "repobrowser.log"
)

// Container holds every dependency a command needs, wired from one Config.
type Container struct {
	Config  *config.Config
	Store   domain.SecureStore
	GitHub  *github.Provider
	Session *session.Controller
	Browse  *browse.Controller
	Detail  *browse.DetailController

	closeStore func() error
}

func NewContainer(cfg *config.Config) (*Container, error) {
	store, closeStore, err := openStore(cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return nil, err
	}

	provider, err := github.NewProvider(github.Options{
		APIBaseURL: cfg.APIBaseURL,
		WebBaseURL: cfg.WebBaseURL,
		Debug:      cfg.Debug,
	})
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	sessionController := session.New(store, provider, session.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURI:  cfg.RedirectURI,
		Scopes:       cfg.Scopes,
		Endpoint:     github.OAuthEndpoint(cfg.WebBaseURL),
	})

	return &Container{
		Config:     cfg,
		Store:      store,
		GitHub:     provider,
		Session:    sessionController,
		Browse:     browse.New(provider),
		Detail:     browse.NewDetail(provider),
		closeStore: closeStore,
	}, nil
}

func (c *Container) Controllers() *ui.Controllers {
	return &ui.Controllers{
		Session: c.Session,
		Browse:  c.Browse,
		Detail:  c.Detail,
	}
}

func (c *Container) Close() error {
	if c.closeStore == nil {
		return nil
	}
	return c.closeStore()
}

func openStore(driver, path string) (domain.SecureStore, func() error, error) {
	switch driver {
	case config.StoreDriverSQLite:
		if path == "" {
			dir, err := defaultDir()
			if err != nil {
				return nil, nil, err
			}
			path = filepath.Join(dir, sqliteFile)
		}
		store, err := storage.NewSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case config.StoreDriverFile, "":
		store, err := storage.NewLocalStore(path)
		if err != nil {
			return nil, nil, err
		}
		logger.Log("Session file at %s", store.Path())
		return store, func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func defaultDir() (string, error) {
	p, err := storage.DefaultPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}

// defaultLogPath is where logs go when no path is configured.
func defaultLogPath() string {
	dir, err := defaultDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, logFile)
}
