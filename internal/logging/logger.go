// Package logging holds the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the shared logger. Packages log through it with WithFields.
var Logger = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// SetLogger replaces the shared logger, e.g. to capture output in tests.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		Logger = l
	}
}

// Configure sets the level and format ("text" or "json") of the shared
// logger. Empty values leave the current setting unchanged.
func Configure(level, format string) error {
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		Logger.SetLevel(lvl)
	}

	switch strings.ToLower(format) {
	case "":
	case "text":
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		Logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q: want text or json", format)
	}
	return nil
}

// SetOutput redirects the shared logger.
func SetOutput(w io.Writer) { Logger.SetOutput(w) }
