// Package logging builds the zap logger shared by the CLI commands.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to stderr at the given level.
// debug forces the development config (debug level, caller info).
func New(level string, debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopmentConfig().Build()
	}
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	c := zap.NewDevelopmentConfig()
	c.Development = false
	c.DisableCaller = true
	c.DisableStacktrace = true
	c.Level = zap.NewAtomicLevelAt(lvl)
	return c.Build(zap.Fields())
}
