package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

// CharmLogger wraps charmbracelet/log for human-readable development output.
// Production deployments use SlogLogger with a JSON handler instead.
type CharmLogger struct {
	l *log.Logger
}

func NewCharmLogger(l *log.Logger) *CharmLogger {
	return &CharmLogger{l: l}
}

func (c *CharmLogger) Debug(ctx context.Context, msg string, args ...any) {
	c.l.Debug(msg, args...)
}

func (c *CharmLogger) Info(ctx context.Context, msg string, args ...any) {
	c.l.Info(msg, args...)
}

func (c *CharmLogger) Warn(ctx context.Context, msg string, args ...any) {
	c.l.Warn(msg, args...)
}

func (c *CharmLogger) Error(ctx context.Context, msg string, args ...any) {
	c.l.Error(msg, args...)
}

func (c *CharmLogger) With(args ...any) Logger {
	return &CharmLogger{l: c.l.With(args...)}
}
