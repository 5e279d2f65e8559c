// Package logging constructs the process logger.
package logging

import "go.uber.org/zap"

// New returns a production zap logger. The logger is built once in main and
// passed into constructors rather than held as package state.
func New() *zap.Logger {
	return zap.Must(zap.NewProduction())
}
