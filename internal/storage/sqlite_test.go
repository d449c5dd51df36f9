package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/johanforsgren/repobrowser/internal/logger"
	gormlogger "gorm.io/gorm/logger"
)

func newTestSQLiteStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("Failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestNewSQLiteStoreRequiresPath(t *testing.T) {
	if _, err := NewSQLiteStore(""); err == nil {
		t.Error("Expected an error for an empty database path")
	}
}

func TestSQLiteFieldsRoundTrip(t *testing.T) {
	store, _ := newTestSQLiteStore(t)

	if err := store.SetAccessToken("gho_sqlite"); err != nil {
		t.Fatalf("Failed to set token: %v", err)
	}
	if err := store.SetUserLogin("octocat"); err != nil {
		t.Fatalf("Failed to set login: %v", err)
	}
	if err := store.SetUserName("The Octocat"); err != nil {
		t.Fatalf("Failed to set name: %v", err)
	}

	if got, ok := store.AccessToken(); !ok || got != "gho_sqlite" {
		t.Errorf("Expected token gho_sqlite, got %q (present=%v)", got, ok)
	}
	if got, ok := store.UserLogin(); !ok || got != "octocat" {
		t.Errorf("Expected login octocat, got %q (present=%v)", got, ok)
	}
	if got, ok := store.UserName(); !ok || got != "The Octocat" {
		t.Errorf("Expected name 'The Octocat', got %q (present=%v)", got, ok)
	}
	if _, ok := store.TokenScope(); ok {
		t.Error("Expected scope to be absent")
	}
}

func TestSQLiteSetterKeepsOtherFields(t *testing.T) {
	store, _ := newTestSQLiteStore(t)

	store.SetAccessToken("gho_first")
	store.SetUserLogin("octocat")
	store.SetAccessToken("gho_second")

	if got, _ := store.AccessToken(); got != "gho_second" {
		t.Errorf("Expected token gho_second, got %q", got)
	}
	if got, _ := store.UserLogin(); got != "octocat" {
		t.Errorf("Expected login to survive token update, got %q", got)
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	store, path := newTestSQLiteStore(t)
	store.SetAccessToken("gho_durable")
	store.SetTokenScope("repo")
	store.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("Failed to reopen: %v", err)
	}
	defer reopened.Close()

	if got, _ := reopened.AccessToken(); got != "gho_durable" {
		t.Errorf("Expected token gho_durable after reopen, got %q", got)
	}
	if got, _ := reopened.TokenScope(); got != "repo" {
		t.Errorf("Expected scope repo after reopen, got %q", got)
	}
}

func TestSQLiteClearAll(t *testing.T) {
	store, _ := newTestSQLiteStore(t)

	store.SetAccessToken("gho_token")
	store.SetUserLogin("octocat")
	store.SetUserName("The Octocat")
	store.SetTokenScope("repo")

	if err := store.ClearAll(); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}
	checkAllAbsent(t, store)

	if err := store.ClearAll(); err != nil {
		t.Fatalf("Second clear failed: %v", err)
	}
	checkAllAbsent(t, store)
}

func TestSQLitePragmasApplied(t *testing.T) {
	store, _ := newTestSQLiteStore(t)

	var synchronous int
	if err := store.db.Raw("PRAGMA synchronous").Scan(&synchronous).Error; err != nil {
		t.Fatalf("Failed to read synchronous: %v", err)
	}
	if synchronous != 2 {
		t.Errorf("Expected synchronous=FULL (2), got %d", synchronous)
	}

	var journalMode string
	if err := store.db.Raw("PRAGMA journal_mode").Scan(&journalMode).Error; err != nil {
		t.Fatalf("Failed to read journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("Expected journal_mode=wal, got %q", journalMode)
	}
}

func TestGormLogFormatsErrors(t *testing.T) {
	l := (&gormLog{}).LogMode(gormlogger.Error)

	l.Error(context.Background(), "failed to open %s: %d%% used", "session.db", 100)

	entries := logger.Tail(1)
	if len(entries) != 1 {
		t.Fatalf("Expected one log entry, got %d", len(entries))
	}
	if !strings.Contains(entries[0].Message, "failed to open session.db: 100% used") {
		t.Errorf("Expected formatted message, got %q", entries[0].Message)
	}
}
