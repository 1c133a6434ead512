// Package ble holds the small set of types shared across the signaling and
// security manager packages: the logger, connection handles, and identity
// addresses. It has no protocol logic of its own.
package ble

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the logging interface used throughout this module. Call sites
// never depend on logrus directly, only on this interface, so a caller can
// swap in any backend it likes.
type Logger interface {
	Info(...interface{})
	Debug(...interface{})
	Error(...interface{})
	Warn(...interface{})

	Infof(string, ...interface{})
	Debugf(string, ...interface{})
	Errorf(string, ...interface{})
	Warnf(string, ...interface{})

	// ChildLogger returns a Logger that carries ff in addition to any
	// fields already attached, for per-connection tagging.
	ChildLogger(ff map[string]interface{}) Logger
}

var (
	logger   Logger
	loggerMu sync.Mutex
)

// SetLogger installs l as the package-default logger.
func SetLogger(l Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// GetLogger returns the package-default logger, constructing one backed by
// logrus on first use.
func GetLogger() Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if logger == nil {
		logger = buildDefaultLogger()
	}
	return logger
}

type defaultLogger struct {
	*logrus.Entry
}

func buildDefaultLogger() Logger {
	l := &logrus.Logger{
		Formatter: &logrus.TextFormatter{DisableTimestamp: true},
		Level:     logrus.InfoLevel,
		Out:       os.Stderr,
		Hooks:     make(logrus.LevelHooks),
	}

	return &defaultLogger{Entry: l.WithFields(map[string]interface{}{})}
}

func (d *defaultLogger) ChildLogger(ff map[string]interface{}) Logger {
	return &defaultLogger{Entry: d.Entry.WithFields(ff)}
}
