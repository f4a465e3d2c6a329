package middleware

import (
	"context"
	"time"

	"bookingengine/internal/app/queries"
)

// Timeout bounds each query by d. A non-positive d disables the bound.
func Timeout(d time.Duration) QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		if d <= 0 {
			return next
		}
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next.Ask(ctx, q)
		})
	}
}
