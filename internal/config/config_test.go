package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"CLIENT_ID", "CLIENT_SECRET", "REDIRECT_URI", "SCOPES", "STORE", "DEBUG"} {
		t.Setenv(envPrefix+key, "")
	}

	cfg := fromEnv()

	assert.Equal(t, "myapp://callback", cfg.RedirectURI)
	assert.Equal(t, []string{"repo"}, cfg.Scopes)
	assert.Equal(t, StoreDriverFile, cfg.StoreDriver)
	assert.Equal(t, "https://api.github.com/", cfg.APIBaseURL)
	assert.False(t, cfg.Debug)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("REPOBROWSER_CLIENT_ID", "Iv1.abc")
	t.Setenv("REPOBROWSER_SCOPES", "repo, read:user")
	t.Setenv("REPOBROWSER_STORE", "sqlite")
	t.Setenv("REPOBROWSER_DEBUG", "true")

	cfg := fromEnv()

	assert.Equal(t, "Iv1.abc", cfg.ClientID)
	assert.Equal(t, []string{"repo", "read:user"}, cfg.Scopes)
	assert.Equal(t, StoreDriverSQLite, cfg.StoreDriver)
	assert.True(t, cfg.Debug)
}

func TestLoadFile(t *testing.T) {
	keys := []string{"REPOBROWSER_CLIENT_ID", "REPOBROWSER_CLIENT_SECRET"}
	t.Cleanup(func() {
		for _, key := range keys {
			os.Unsetenv(key)
		}
	})
	for _, key := range keys {
		os.Unsetenv(key)
	}

	path := filepath.Join(t.TempDir(), "test.env")
	content := "REPOBROWSER_CLIENT_ID=from-file\nREPOBROWSER_CLIENT_SECRET=s3cret\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.ClientID)
	assert.Equal(t, "s3cret", cfg.ClientSecret)
	assert.NoError(t, cfg.ValidateLogin())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantErr   string
		wantLogin string
	}{
		{
			name:      "no credentials",
			cfg:       Config{StoreDriver: StoreDriverFile},
			wantLogin: "REPOBROWSER_CLIENT_ID is required",
		},
		{
			name:      "missing secret",
			cfg:       Config{StoreDriver: StoreDriverSQLite, ClientID: "id"},
			wantLogin: "REPOBROWSER_CLIENT_SECRET is required",
		},
		{
			name: "complete",
			cfg:  Config{StoreDriver: StoreDriverFile, ClientID: "id", ClientSecret: "secret"},
		},
		{
			name:      "unknown store",
			cfg:       Config{StoreDriver: "redis", ClientID: "id", ClientSecret: "secret"},
			wantErr:   `REPOBROWSER_STORE must be "file" or "sqlite", got "redis"`,
			wantLogin: `REPOBROWSER_STORE must be "file" or "sqlite", got "redis"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}

			err = tt.cfg.ValidateLogin()
			if tt.wantLogin == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantLogin)
			}
		})
	}
}
