package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/johanforsgren/repobrowser/internal/domain"
	"github.com/johanforsgren/repobrowser/internal/logger"
)

const (
	configDir  = ".repobrowser"
	configFile = "session.json"
)

// LocalStore keeps the session in a JSON file readable only by the current user.
type LocalStore struct {
	configPath string
	config     *Config
	mu         sync.RWMutex
}

// DefaultPath returns ~/.repobrowser/session.json.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, configDir, configFile), nil
}

func NewLocalStore(configPath string) (*LocalStore, error) {
	if configPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	store := &LocalStore{
		configPath: configPath,
		config:     &Config{Version: configVersion},
	}

	if err := store.ensureConfigDir(); err != nil {
		return nil, err
	}

	if err := store.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return store, nil
}

func (s *LocalStore) Path() string {
	return s.configPath
}

func (s *LocalStore) ensureConfigDir() error {
	dir := filepath.Dir(s.configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

func (s *LocalStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.LogFileOpen(s.configPath)
	data, err := os.ReadFile(s.configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.LogError("LOAD", s.configPath, err)
		}
		return err
	}

	if err := json.Unmarshal(data, s.config); err != nil {
		logger.LogError("UNMARSHAL", s.configPath, err)
		return fmt.Errorf("failed to parse %s: %w", s.configPath, err)
	}

	logger.Log("Session loaded from %s", s.configPath)
	return nil
}

// save writes next to a temp file and renames it over the config, so readers
// never see a half-written session. The in-memory copy is only replaced on success.
func (s *LocalStore) save(next Config) error {
	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		logger.LogError("MARSHAL", s.configPath, err)
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.configPath), configFile+".*.tmp")
	if err != nil {
		logger.LogError("SAVE", s.configPath, err)
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		logger.LogError("SAVE", tmpPath, err)
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		logger.LogError("SYNC", tmpPath, err)
		return fmt.Errorf("failed to sync session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return fmt.Errorf("failed to set session permissions: %w", err)
	}

	logger.LogFileWrite(s.configPath)
	if err := os.Rename(tmpPath, s.configPath); err != nil {
		logger.LogError("SAVE", s.configPath, err)
		return fmt.Errorf("failed to replace session file: %w", err)
	}

	*s.config = next
	return nil
}

func (s *LocalStore) update(field string, apply func(*domain.Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.config
	next.Version = configVersion
	apply(&next.Session)
	if err := s.save(next); err != nil {
		return err
	}
	logger.Log("Stored %s in %s", field, s.configPath)
	return nil
}

func (s *LocalStore) get(read func(domain.Session) string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := read(s.config.Session)
	return v, v != ""
}

func (s *LocalStore) AccessToken() (string, bool) {
	return s.get(func(sess domain.Session) string { return sess.AccessToken })
}

func (s *LocalStore) SetAccessToken(token string) error {
	return s.update("access token", func(sess *domain.Session) { sess.AccessToken = token })
}

func (s *LocalStore) UserLogin() (string, bool) {
	return s.get(func(sess domain.Session) string { return sess.UserLogin })
}

func (s *LocalStore) SetUserLogin(login string) error {
	return s.update("user login", func(sess *domain.Session) { sess.UserLogin = login })
}

func (s *LocalStore) UserName() (string, bool) {
	return s.get(func(sess domain.Session) string { return sess.UserDisplayName })
}

func (s *LocalStore) SetUserName(name string) error {
	return s.update("user name", func(sess *domain.Session) { sess.UserDisplayName = name })
}

func (s *LocalStore) TokenScope() (string, bool) {
	return s.get(func(sess domain.Session) string { return sess.TokenScope })
}

func (s *LocalStore) SetTokenScope(scope string) error {
	return s.update("token scope", func(sess *domain.Session) { sess.TokenScope = scope })
}

func (s *LocalStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Session.IsEmpty() {
		return nil
	}

	logger.Log("Clearing stored session in %s", s.configPath)
	return s.save(Config{Version: configVersion})
}

// Snapshot returns a copy of every persisted field.
func (s *LocalStore) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Session
}
