package core

import "context"

// Context keys for scan options
type contextKey string

const (
	quietKey  contextKey = "quiet"
	dryRunKey contextKey = "dryRun"
)

// WithQuiet marks the context so progress lines are not written to stderr.
func WithQuiet(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey, true)
}

// isQuiet returns whether progress lines should be suppressed
func isQuiet(ctx context.Context) bool {
	val := ctx.Value(quietKey)
	if val == nil {
		return false // default: log progress
	}
	quiet, ok := val.(bool)
	return ok && quiet
}

// WithDryRun marks the context so a scan leaves the history untouched.
func WithDryRun(ctx context.Context, dryRun bool) context.Context {
	return context.WithValue(ctx, dryRunKey, dryRun)
}

// isDryRun returns whether the scan should skip history writes
func isDryRun(ctx context.Context) bool {
	val := ctx.Value(dryRunKey)
	if val == nil {
		return false
	}
	dryRun, ok := val.(bool)
	return ok && dryRun
}
