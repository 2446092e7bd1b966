package logger

import "context"

type ctxKey struct{}

// scope is what a context carries: a logger and the attributes added
// on the way down, such as the command name and request id.
type scope struct {
	log   Logger
	attrs []any
}

func scopeOf(ctx context.Context) scope {
	s, _ := ctx.Value(ctxKey{}).(scope)
	return s
}

// NewContext returns a context whose FromContext logger is l.
// Attributes added earlier are kept.
func NewContext(ctx context.Context, l Logger) context.Context {
	s := scopeOf(ctx)
	s.log = l
	return context.WithValue(ctx, ctxKey{}, s)
}

// WithAttrs returns a context that adds args to every record logged
// through FromContext.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	s := scopeOf(ctx)
	attrs := make([]any, 0, len(s.attrs)+len(args))
	s.attrs = append(append(attrs, s.attrs...), args...)
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the context logger, or Default, with the
// context attributes applied.
func FromContext(ctx context.Context) Logger {
	s := scopeOf(ctx)
	l := s.log
	if l == nil {
		l = Default()
	}
	if len(s.attrs) > 0 {
		l = l.With(s.attrs...)
	}
	return l
}
