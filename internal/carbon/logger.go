package carbon

import "github.com/rs/zerolog"

// logger receives diagnostics for degraded lookups and dataset parsing.
// It discards everything until SetLogger is called.
var logger = zerolog.Nop()

// SetLogger sets the package logger. Call it once during startup, before any
// calculation runs.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "carbon").Logger()
}
