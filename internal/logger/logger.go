package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const maxBufferSize = 1000

var (
	instance *Logger
	initMu   sync.Mutex
)

type LogEntry struct {
	Timestamp time.Time
	Message   string
}

type Logger struct {
	file    *os.File
	logger  *log.Logger
	mu      sync.Mutex
	buffer  []LogEntry
	enabled bool
}

// Init opens logPath for appending. Calling it again replaces the previous file.
// An empty path keeps logging in memory only.
func Init(logPath string) error {
	initMu.Lock()
	defer initMu.Unlock()

	if instance != nil && instance.file != nil {
		instance.file.Close()
	}

	instance = &Logger{
		buffer: make([]LogEntry, 0, maxBufferSize),
	}

	if logPath == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	instance.file = file
	instance.logger = log.New(file, "", log.LstdFlags)
	instance.enabled = true
	return nil
}

func ensureInit() *Logger {
	initMu.Lock()
	defer initMu.Unlock()
	if instance == nil {
		instance = &Logger{
			buffer: make([]LogEntry, 0, maxBufferSize),
		}
	}
	return instance
}

func Close() error {
	initMu.Lock()
	defer initMu.Unlock()
	if instance != nil && instance.file != nil {
		err := instance.file.Close()
		instance.file = nil
		instance.logger = nil
		instance.enabled = false
		return err
	}
	return nil
}

func write(message string) {
	l := ensureInit()
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.buffer) >= maxBufferSize {
		l.buffer = l.buffer[1:]
	}
	l.buffer = append(l.buffer, LogEntry{
		Timestamp: time.Now(),
		Message:   message,
	})

	if l.enabled && l.logger != nil {
		l.logger.Println(message)
	}
}

func GetLogs() []LogEntry {
	l := ensureInit()
	l.mu.Lock()
	defer l.mu.Unlock()

	logs := make([]LogEntry, len(l.buffer))
	copy(logs, l.buffer)
	return logs
}

// Tail returns at most n of the most recent entries.
func Tail(n int) []LogEntry {
	logs := GetLogs()
	if n <= 0 || n >= len(logs) {
		return logs
	}
	return logs[len(logs)-n:]
}

func LogFileOpen(path string) {
	write(fmt.Sprintf("[FILE_OPEN] %s", path))
}

func LogFileWrite(path string) {
	write(fmt.Sprintf("[FILE_WRITE] %s", path))
}

func LogError(operation, subject string, err error) {
	write(fmt.Sprintf("[ERROR] %s: %s - %v", operation, subject, err))
}

func LogState(component string, from, to any) {
	write(fmt.Sprintf("[STATE] %s: %v -> %v", component, from, to))
}

func Log(message string, args ...interface{}) {
	write(fmt.Sprintf("[INFO] "+message, args...))
}

// Redact keeps only enough of a credential to tell two apart in the log.
func Redact(secret string) string {
	if secret == "" {
		return "<empty>"
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****"
}
