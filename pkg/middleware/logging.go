package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vango-dev/viewroute/pkg/router"
)

// Logging creates middleware that logs every navigation.
//
// Successful navigations are logged at Debug, unmatched paths at Info and
// load failures at Error. A nil logger uses slog.Default().
func Logging(logger *slog.Logger) router.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return router.MiddlewareFunc(func(ctx context.Context, nav *router.Navigation, next func(context.Context) error) error {
		start := time.Now()
		err := next(ctx)

		attrs := []any{
			"target", nav.Target,
			"status", Status(err),
			"duration", time.Since(start),
		}
		if m := nav.Match; m != nil {
			attrs = append(attrs, "route", m.Entry.Name)
			if len(m.Params) > 0 {
				attrs = append(attrs, "params", m.Params)
			}
		}

		switch {
		case err == nil:
			logger.DebugContext(ctx, "navigation", attrs...)
		case errors.Is(err, router.ErrNotFound), errors.Is(err, router.ErrInvalidPath):
			logger.InfoContext(ctx, "navigation rejected", attrs...)
		case errors.Is(err, context.Canceled):
			logger.DebugContext(ctx, "navigation superseded", attrs...)
		default:
			logger.ErrorContext(ctx, "navigation failed", append(attrs, "error", err)...)
		}
		return err
	})
}
