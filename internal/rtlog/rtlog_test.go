package rtlog_test

import (
	"testing"

	"github.com/kristofer/horse/internal/rtlog"
)

// These are smoke tests: rtlog wraps a package-level logrus.Logger writing
// to stderr, so there is nothing to assert on besides "does not panic."
func TestLoggingDoesNotPanic(t *testing.T) {
	rtlog.SetDebug(true)
	rtlog.Debugf("debug message %d", 1)
	rtlog.Infof("info message %s", "ok")
	rtlog.Errorf("error message")
	rtlog.SetDebug(false)
	rtlog.WithField("session", "abc123").Info("session started")
}
