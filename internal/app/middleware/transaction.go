package middleware

import (
	"context"

	"vibestays/internal/app/commands"
	"vibestays/internal/app/uow"
)

// ReadOnlyCommand lets a command ask for a read-only transaction.
type ReadOnlyCommand interface {
	ReadOnly() bool
}

// Transaction runs every command inside a unit of work and commits it when the
// handler succeeds.
func Transaction(factory uow.UoWFactory) CommandMiddleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if _, ok := uow.FromContext(ctx); ok {
				return next.Dispatch(ctx, cmd)
			}
			opts := uow.TxOptions{}
			if ro, ok := cmd.(ReadOnlyCommand); ok {
				opts.ReadOnly = ro.ReadOnly()
			}
			unit, err := factory.Begin(ctx, opts)
			if err != nil {
				return nil, err
			}
			execCtx := uow.Bind(ctx, unit)
			committed := false
			defer func() {
				if !committed {
					_ = unit.Rollback(execCtx)
				}
			}()

			res, err := next.Dispatch(execCtx, cmd)
			if err != nil {
				return nil, err
			}
			if err := unit.Commit(execCtx); err != nil {
				return nil, err
			}
			committed = true
			return res, nil
		})
	}
}
