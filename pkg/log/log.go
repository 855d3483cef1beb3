// Package log provides the logging facade used throughout the core. Every
// silently-ignored hardware misuse path logs through a Logger instead of
// fmt.Printf, so a host can swap in a structured sink or silence the core
// entirely.
package log

import "github.com/sirupsen/logrus"

// Logger is the minimal surface every component depends on.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// New returns the default logrus-backed Logger, formatted for a terminal
// without timestamps (the core logs about emulated hardware time, not wall
// clock time).
func New() Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableTimestamp: true,
	}
	return &logrusLogger{l}
}

type logrusLogger struct {
	*logrus.Logger
}

func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.Logger.Debugf(format, args...) }
func (l *logrusLogger) Infof(format string, args ...interface{})  { l.Logger.Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.Logger.Warnf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) { l.Logger.Errorf(format, args...) }
