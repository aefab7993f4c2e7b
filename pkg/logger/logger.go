// Package logger builds the structured logger every other package in this
// module takes as a constructor dependency. It wraps zap instead of handing
// callers a bare *zap.Logger: call sites log with key/value pairs
// ("Infow", "Errorw", "Warnw") and never touch zap's Field API directly.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-style JSON logger tagged with the given service
// name, returning the Sugared form every subsystem constructor accepts.
//
// A development console encoder is used when KVS_LOG_FORMAT=console is set
// in the environment, which is convenient for reading server/client output
// on a terminal during manual testing; the default remains structured JSON
// suitable for log aggregation.
func New(service string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if os.Getenv("KVS_LOG_FORMAT") == "console" {
		cfg = zap.NewDevelopmentConfig()
	}

	log, err := cfg.Build()
	if err != nil {
		// Logger construction only fails on a malformed config (e.g. an
		// invalid encoder name), never on environment factors, so a fallback
		// that cannot itself fail is the only sane recovery.
		log = zap.NewNop()
	}

	return log.Sugar().With("service", service)
}

// NewNop returns a logger that discards everything it's given, for tests
// and library callers that have no logging sink configured.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
