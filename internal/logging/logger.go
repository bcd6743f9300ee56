// Package logging builds the zerolog logger used across lcx: a console writer on a
// terminal (JSON otherwise) plus a rotating log file.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Giantpizzahead/life-coach-x/internal/config"
)

// FileName is the log file created under <home>/logs.
const FileName = "lcx.log"

var (
	globalMu   sync.Mutex
	fileWriter io.WriteCloser
)

// Options select the level and destinations of a logger.
type Options struct {
	Verbose bool
	Quiet   bool
	Config  config.LogConfig
	// Console overrides the console destination. Nil selects stderr.
	Console io.Writer
}

// SelectLevel resolves the level: --verbose and --quiet win over the configured level.
func SelectLevel(verbose, quiet bool, configured string) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	}
	if lvl, err := zerolog.ParseLevel(strings.ToLower(configured)); err == nil && configured != "" {
		return lvl
	}
	return zerolog.InfoLevel
}

// New creates the logger and installs it as the zerolog global logger. The log file
// is best effort: when it cannot be opened logging continues on the console only.
func New(opts Options) zerolog.Logger {
	console := opts.Console
	if console == nil {
		console = consoleWriter()
	}

	writer := console
	if fw := openFile(opts.Config); fw != nil {
		writer = zerolog.MultiLevelWriter(console, fw)
	}

	logger := zerolog.New(writer).
		Level(SelectLevel(opts.Verbose, opts.Quiet, opts.Config.Level)).
		With().Timestamp().Logger()

	globalMu.Lock()
	log.Logger = logger
	globalMu.Unlock()
	return logger
}

func consoleWriter() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return os.Stderr
}

// FilePath returns the path of the log file for cfg, or "" when disabled.
func FilePath(cfg config.LogConfig) (string, error) {
	switch cfg.File {
	case "-":
		return "", nil
	case "":
		home, err := config.HomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "logs", FileName), nil
	default:
		return cfg.File, nil
	}
}

func openFile(cfg config.LogConfig) io.Writer {
	path, err := FilePath(cfg)
	if err != nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if fileWriter != nil {
		_ = fileWriter.Close()
	}
	fileWriter = lj
	return lj
}

// Close closes the log file if one was opened.
func Close() {
	globalMu.Lock()
	defer globalMu.Unlock()
	if fileWriter != nil {
		_ = fileWriter.Close()
		fileWriter = nil
	}
}
