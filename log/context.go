package log

import "context"

// loggerCtxKey is the key used to store the logger in the context.
type loggerCtxKey struct{}

// WithContextLogger adds a logger to the context that can be retrieved later.
func WithContextLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// GetContextLogger retrieves the logger from the context.
// If no logger is stored in the context, nil will be returned.
func GetContextLogger(ctx context.Context) Logger {
	logger, ok := ctx.Value(loggerCtxKey{}).(Logger)
	if !ok {
		return nil
	}

	return logger
}

// FromContext returns the logger stored in the context, or a no-op logger.
func FromContext(ctx context.Context) Logger {
	if logger := GetContextLogger(ctx); logger != nil {
		return logger
	}

	return noopLogger{}
}
