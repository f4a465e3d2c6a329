package middleware

import (
	"context"
	"log/slog"
	"time"

	"bookingengine/internal/app/queries"
)

// Logging records every query with its duration. Failures are logged at warn
// level; the error itself is passed through untouched.
func Logging(logger *slog.Logger) QueryMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			attrs := []any{"query", q.Key(), "duration", time.Since(start)}
			if err != nil {
				logger.WarnContext(ctx, "query failed", append(attrs, "error", err)...)
				return nil, err
			}
			logger.DebugContext(ctx, "query handled", attrs...)
			return res, nil
		})
	}
}
