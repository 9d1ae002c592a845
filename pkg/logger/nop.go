package logger

import (
	"context"

	"github.com/isupersid/stalker-test-client/pkg/constants"
)

// nopLogger discards everything. Used as the global default until the CLI
// bootstraps a real logger, and in tests that do not assert on log output.
type nopLogger struct{}

// NewNop returns a Logger that discards all output.
func NewNop() Logger {
	return &nopLogger{}
}

func (n *nopLogger) Debug(ctx context.Context, message string, fields ...Field)           {}
func (n *nopLogger) Info(ctx context.Context, message string, fields ...Field)            {}
func (n *nopLogger) Warn(ctx context.Context, message string, fields ...Field)            {}
func (n *nopLogger) Error(ctx context.Context, message string, err error, fields ...Field) {}
func (n *nopLogger) Fatal(ctx context.Context, message string, err error, fields ...Field) {}
func (n *nopLogger) WithFields(fields ...Field) Logger                                    { return n }
func (n *nopLogger) WithComponent(component string) Logger                                { return n }
func (n *nopLogger) Level() constants.LogLevel                                            { return constants.LogLevelInfo }
