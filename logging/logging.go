package logging

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	mu     sync.Mutex
)

// InitLogger (re)configures the shared logger with the given level.
func InitLogger(level logrus.Level) *logrus.Logger {
	l := GetLogger()
	l.SetLevel(level)
	return l
}

// GetLogger returns the shared logger, creating it on first use so that
// packages can grab it from init().
func GetLogger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

// SetOutput redirects all log output. The terminal form sends logs to a file
// or io.Discard while it owns the screen.
func SetOutput(w io.Writer) {
	GetLogger().SetOutput(w)
}
