package core

import "context"

// Context keys for run options
type contextKey string

const (
	historySourceKey contextKey = "historySource"
)

// Sources recorded with each history entry.
const (
	SourceCLI = "cli"
	SourceWeb = "web"
	SourceMCP = "mcp"
)

// WithHistorySource sets the surface a run is recorded under
func WithHistorySource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, historySourceKey, source)
}

// historySource returns the recorded surface from context
func historySource(ctx context.Context) string {
	val := ctx.Value(historySourceKey)
	if val == nil {
		return SourceCLI // default: command line
	}
	source, ok := val.(string)
	if !ok || source == "" {
		return SourceCLI
	}
	return source
}
