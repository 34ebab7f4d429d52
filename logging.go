// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package champ

import "github.com/sirupsen/logrus"

// Logger is the diagnostic sink a Map or SharedMap logs defensive events to
// (currently: rejected rollbacks). It is silent by default; inject a real
// implementation via WithLogger.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

// noopLogger discards everything; it is the zero-configuration default.
type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Warnf(string, ...any)  {}

// logrusLogger adapts a *logrus.Entry to Logger, matching the teacher's own
// choice of logrus for structured diagnostic logging.
type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger wraps l (or, if nil, a fresh logrus.New()) as a Logger
// suitable for WithLogger.
func NewLogrusLogger(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.New()
	}
	return logrusLogger{entry: logrus.NewEntry(l).WithField("component", "champ")}
}

func (l logrusLogger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l logrusLogger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
