package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/johanforsgren/repobrowser/internal/domain"
	"github.com/johanforsgren/repobrowser/internal/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// gormLog forwards gorm messages to the application log.
type gormLog struct {
	level gormlogger.LogLevel
}

func (l *gormLog) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &gormLog{level: level}
}

func (l *gormLog) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		logger.Log("gorm: "+msg, data...)
	}
}

func (l *gormLog) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		logger.Log("gorm warning: "+msg, data...)
	}
}

func (l *gormLog) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		logger.LogError("GORM", "sqlite", fmt.Errorf("%s", fmt.Sprintf(msg, data...)))
	}
}

// Trace only reports failed statements; queries carry credentials.
func (l *gormLog) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) || l.level < gormlogger.Error {
		return
	}
	logger.LogError("GORM_QUERY", fmt.Sprintf("after %v", time.Since(begin)), err)
}

var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=FULL",
	"PRAGMA busy_timeout=5000",
}

// SQLiteStore keeps the session in a single row of a SQLite database.
type SQLiteStore struct {
	db   *gorm.DB
	path string
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite store requires a database path")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	logger.LogFileOpen(dbPath)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: (&gormLog{}).LogMode(gormlogger.Error),
	})
	if err != nil {
		logger.LogError("OPEN", dbPath, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// PRAGMAs are per connection.
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range sqlitePragmas {
		if err := db.Exec(pragma).Error; err != nil {
			logger.LogError("PRAGMA", pragma, err)
			sqlDB.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := db.AutoMigrate(&credential{}); err != nil {
		logger.LogError("MIGRATE", dbPath, err)
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate credentials schema: %w", err)
	}

	if err := os.Chmod(dbPath, 0600); err != nil {
		logger.LogError("CHMOD", dbPath, err)
	}

	logger.Log("Session database ready at %s", dbPath)
	return &SQLiteStore{db: db, path: dbPath}, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLiteStore) row() (credential, error) {
	var row credential
	err := s.db.Where("id = ?", credentialRowID).Limit(1).Find(&row).Error
	return row, err
}

func (s *SQLiteStore) get(field string, read func(credential) string) (string, bool) {
	row, err := s.row()
	if err != nil {
		logger.LogError("READ", field, err)
		return "", false
	}
	v := read(row)
	return v, v != ""
}

func (s *SQLiteStore) set(column, value string) error {
	row := credential{ID: credentialRowID}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{column: value}),
	}).Create(withColumn(row, column, value)).Error
	if err != nil {
		logger.LogError("WRITE", column, err)
		return fmt.Errorf("failed to store %s: %w", column, err)
	}
	logger.Log("Stored %s in %s", column, s.path)
	return nil
}

func withColumn(row credential, column, value string) *credential {
	switch column {
	case "access_token":
		row.AccessToken = value
	case "user_login":
		row.UserLogin = value
	case "user_name":
		row.UserName = value
	case "token_scope":
		row.TokenScope = value
	}
	return &row
}

func (s *SQLiteStore) AccessToken() (string, bool) {
	return s.get("access_token", func(c credential) string { return c.AccessToken })
}

func (s *SQLiteStore) SetAccessToken(token string) error {
	return s.set("access_token", token)
}

func (s *SQLiteStore) UserLogin() (string, bool) {
	return s.get("user_login", func(c credential) string { return c.UserLogin })
}

func (s *SQLiteStore) SetUserLogin(login string) error {
	return s.set("user_login", login)
}

func (s *SQLiteStore) UserName() (string, bool) {
	return s.get("user_name", func(c credential) string { return c.UserName })
}

func (s *SQLiteStore) SetUserName(name string) error {
	return s.set("user_name", name)
}

func (s *SQLiteStore) TokenScope() (string, bool) {
	return s.get("token_scope", func(c credential) string { return c.TokenScope })
}

func (s *SQLiteStore) SetTokenScope(scope string) error {
	return s.set("token_scope", scope)
}

func (s *SQLiteStore) ClearAll() error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Where("1 = 1").Delete(&credential{}).Error
	})
	if err != nil {
		logger.LogError("CLEAR", s.path, err)
		return fmt.Errorf("failed to clear session: %w", err)
	}
	logger.Log("Cleared stored session in %s", s.path)
	return nil
}

var (
	_ domain.SecureStore = (*SQLiteStore)(nil)
	_ domain.SecureStore = (*LocalStore)(nil)
)
