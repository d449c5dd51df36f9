package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreDriverFile   = "file"
	StoreDriverSQLite = "sqlite"

	envPrefix = "REPOBROWSER_"
)

// Config holds everything the CLI needs to build the controllers.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string

	APIBaseURL string
	WebBaseURL string

	StoreDriver string
	StorePath   string

	LogPath string
	Debug   bool
}

// Load reads an optional .env file from the working directory, then
// REPOBROWSER_* environment variables. Variables already set in the
// environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return fromEnv(), nil
}

// LoadFile is Load with an explicit env file. A missing file is an error.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return fromEnv(), nil
}

func fromEnv() *Config {
	return &Config{
		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		RedirectURI:  getEnv("REDIRECT_URI", "myapp://callback"),
		Scopes:       getEnvAsList("SCOPES", []string{"repo"}),
		APIBaseURL:   getEnv("API_URL", "https://api.github.com/"),
		WebBaseURL:   getEnv("WEB_URL", "https://github.com/"),
		StoreDriver:  getEnv("STORE", StoreDriverFile),
		StorePath:    getEnv("STORE_PATH", ""),
		LogPath:      getEnv("LOG_PATH", ""),
		Debug:        getEnvAsBool("DEBUG", false),
	}
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverFile, StoreDriverSQLite:
	default:
		return fmt.Errorf("%sSTORE must be %q or %q, got %q", envPrefix, StoreDriverFile, StoreDriverSQLite, c.StoreDriver)
	}
	return nil
}

// ValidateLogin additionally requires the OAuth application credentials.
func (c *Config) ValidateLogin() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ClientID == "" {
		return fmt.Errorf("%sCLIENT_ID is required", envPrefix)
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("%sCLIENT_SECRET is required", envPrefix)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(envPrefix + key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvAsList splits on commas and spaces, the two separators GitHub accepts
// in a scope list.
func getEnvAsList(key string, fallback []string) []string {
	value := os.Getenv(envPrefix + key)
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return fallback
	}
	return fields
}
