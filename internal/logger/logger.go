package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  = newLogger(os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel)
)

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.SetLevel(level)
	return l
}

// InitLogger resets both loggers. Verbose mode lets Debug entries through on InfoLogger.
func InitLogger(verbose bool) {
	level := logrus.InfoLevel
	if verbose {
		level = logrus.DebugLevel
	}
	InfoLogger = newLogger(os.Stdout, level)
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel)
}

// SetOutput redirects both loggers, mainly for tests.
func SetOutput(w io.Writer) {
	InfoLogger.SetOutput(w)
	ErrorLogger.SetOutput(w)
}
