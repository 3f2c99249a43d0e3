package middleware

import (
	"context"

	"vibestays/internal/app/commands"
	"vibestays/internal/app/outbox"
)

// OutboxFlush flushes box after every successful command. It sits outside
// Transaction so only committed events are flushed.
func OutboxFlush(box outbox.Outbox) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
