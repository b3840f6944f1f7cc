package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/sirupsen/logrus"
)

// Config holds logger configuration
type Config struct {
	Level      logrus.Level
	OutputFile string    // Path to log file (empty = console only)
	MaxSize    int64     // Max size in bytes before rotation (default: 10MB)
	MaxBackups int       // Number of old log files to keep (default: 3)
	JSONFormat bool      // JSON lines instead of text
	Console    io.Writer // Console output (default: stderr)
}

// Logger is a logrus logger that owns its log file.
type Logger struct {
	*logrus.Logger
	config Config
	file   *os.File
	mu     sync.Mutex
}

// New creates a logger with the given configuration
func New(config Config) (*Logger, error) {
	if config.MaxSize == 0 {
		config.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if config.MaxBackups == 0 {
		config.MaxBackups = 3
	}
	if config.Console == nil {
		config.Console = os.Stderr
	}

	logger := &Logger{Logger: logrus.New(), config: config}

	writers := []io.Writer{config.Console}
	if config.OutputFile != "" {
		dir := filepath.Dir(config.OutputFile)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.FileSystemErrorf(err, "failed to create log directory %s", dir)
		}

		if err := logger.rotateIfNeeded(); err != nil {
			return nil, errors.FileSystemErrorf(err, "failed to rotate logs")
		}

		file, err := os.OpenFile(config.OutputFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, errors.FileSystemErrorf(err, "failed to open log file %s", config.OutputFile)
		}
		logger.file = file
		writers = append(writers, file)
	}

	logger.SetOutput(io.MultiWriter(writers...))
	logger.SetLevel(config.Level)
	if config.JSONFormat {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

// rotateIfNeeded shifts file.N to file.N+1 and the current file to file.1
// once it has grown past MaxSize.
func (l *Logger) rotateIfNeeded() error {
	info, err := os.Stat(l.config.OutputFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.FileSystemErrorf(err, "failed to stat log file")
	}
	if info.Size() < l.config.MaxSize {
		return nil
	}

	for i := l.config.MaxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", l.config.OutputFile, i)
		newPath := fmt.Sprintf("%s.%d", l.config.OutputFile, i+1)
		if _, err := os.Stat(oldPath); err == nil {
			os.Rename(oldPath, newPath) // Ignore error, file might not exist
		}
	}

	backupPath := fmt.Sprintf("%s.1", l.config.OutputFile)
	if err := os.Rename(l.config.OutputFile, backupPath); err != nil {
		return errors.FileSystemErrorf(err, "failed to rotate log file")
	}
	return nil
}

// Close closes the log file if one is open
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// FilePath returns the current log file path
func (l *Logger) FilePath() string {
	return l.config.OutputFile
}

// ParseLevel accepts logrus level names; an empty string means info.
func ParseLevel(s string) (logrus.Level, error) {
	if strings.TrimSpace(s) == "" {
		return logrus.InfoLevel, nil
	}
	return logrus.ParseLevel(s)
}
