// Package rtlog wraps github.com/sirupsen/logrus for the CLI/REPL
// driver's own diagnostics: the CLI logs a failed command at error level
// and the REPL logs a failed evaluation at debug level. It is never used
// inside the VM's opcode loop:
// logging there would distort the very recursion-depth and performance
// characteristics spec §5 describes.
package rtlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetDebug raises the logger to debug level when --debug is passed.
func SetDebug(on bool) {
	if on {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

func Debugf(format string, args ...interface{}) { log.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { log.Infof(format, args...) }
func Errorf(format string, args ...interface{}) { log.Errorf(format, args...) }

// WithField returns an entry carrying a correlation field (e.g. a VM's
// session ID), for multi-field structured log lines.
func WithField(key string, value interface{}) *logrus.Entry {
	return log.WithField(key, value)
}
