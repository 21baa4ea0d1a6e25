package slogadapter

import (
	"fmt"
	"log/slog"
)

// SlogLogger implements ratelimit.Logger using log/slog.
type SlogLogger struct {
	logger *slog.Logger
}

// New creates a new SlogLogger. If nil is passed, uses the default logger.
func New(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{
		logger: l,
	}
}

// Debugf logs a debug-level message
func (s *SlogLogger) Debugf(format string, args ...interface{}) {
	s.logger.Debug(fmt.Sprintf(format, args...))
}

// Errorf logs an error-level message
func (s *SlogLogger) Errorf(format string, args ...interface{}) {
	s.logger.Error(fmt.Sprintf(format, args...))
}
