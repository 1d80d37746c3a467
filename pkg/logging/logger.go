package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex

	output    io.Writer = os.Stderr
	forceJSON bool
	forcedLvl *logrus.Level
)

// NewLogger returns the logger for a component, creating it on first use.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()
	configure(logger)

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

func configure(logger *logrus.Logger) {
	logger.SetOutput(output)

	levelStr := "info"
	if env := os.Getenv("TOUIST_LOG_LEVEL"); env != "" {
		levelStr = env
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	if forcedLvl != nil {
		level = *forcedLvl
	}
	logger.SetLevel(level)

	if forceJSON || strings.EqualFold(os.Getenv("TOUIST_LOG_FORMAT"), "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
		return
	}

	isTerminal := false
	if f, ok := output.(*os.File); ok {
		isTerminal = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:    !isTerminal,
		DisableTimestamp: !isTerminal,
		FullTimestamp:    true,
	})
}

// SetLevel overrides the level of every existing and future logger.
func SetLevel(level logrus.Level) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	forcedLvl = &level
	for _, entry := range loggers {
		entry.Logger.SetLevel(level)
	}
}

// SetJSON switches every existing and future logger to JSON output.
func SetJSON() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	forceJSON = true
	for _, entry := range loggers {
		entry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}
}

// SetOutput redirects every existing and future logger.
func SetOutput(w io.Writer) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	output = w
	for _, entry := range loggers {
		entry.Logger.SetOutput(w)
	}
}
