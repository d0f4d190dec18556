package retry

import "context"

type retrierKey struct{}

// ToContext returns a copy of ctx carrying retrier.
func ToContext(ctx context.Context, retrier Retrier) context.Context {
	return context.WithValue(ctx, retrierKey{}, retrier)
}

// FromContext returns the retrier carried by ctx, or nil.
func FromContext(ctx context.Context) Retrier {
	retrier, _ := ctx.Value(retrierKey{}).(Retrier)
	return retrier
}

// FromContextOrNoop is FromContext with a NoopRetrier fallback.
func FromContextOrNoop(ctx context.Context) Retrier {
	if retrier := FromContext(ctx); retrier != nil {
		return retrier
	}
	return &NoopRetrier{}
}
