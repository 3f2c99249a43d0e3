package middleware

import (
	"context"
	"log/slog"
	"time"

	"vibestays/internal/app/commands"
	"vibestays/internal/app/queries"
)

// Observer receives one call per dispatched message.
type Observer interface {
	ObserveMessage(kind, key string, elapsed time.Duration, err error)
}

// Instrument reports command latency to obs and logs failures.
func Instrument(obs Observer, logger *slog.Logger) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			report(obs, logger, "command", cmd.Key(), time.Since(start), err)
			return res, err
		})
	}
}

func InstrumentQueries(obs Observer, logger *slog.Logger) QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			report(obs, logger, "query", q.Key(), time.Since(start), err)
			return res, err
		})
	}
}

func report(obs Observer, logger *slog.Logger, kind, key string, elapsed time.Duration, err error) {
	if obs != nil {
		obs.ObserveMessage(kind, key, elapsed, err)
	}
	if err != nil && logger != nil {
		logger.Debug(kind+" failed", "key", key, "duration", elapsed, "error", err)
	}
}
