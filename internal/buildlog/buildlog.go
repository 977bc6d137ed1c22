// Package buildlog sets up the client trace log. The client's own standard
// streams carry only server output and fatal diagnostics, so tracing always
// goes to a file, and only when one is configured.
package buildlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger appending to path, or a no-op logger when path is
// empty or the sink cannot be opened.
func New(path string) *zap.Logger {
	if path == "" {
		return zap.NewNop()
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger.Named("ternc")
}
