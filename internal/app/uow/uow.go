package uow

import (
	"context"

	domainleads "vibestays/internal/domain/leads"
	domainlistings "vibestays/internal/domain/listings"
	domainreviews "vibestays/internal/domain/reviews"
)

// UnitOfWork groups the repositories touched by one command.
type UnitOfWork interface {
	Listings() domainlistings.ListingRepository
	Reviews() domainreviews.Repository
	Inquiries() domainleads.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

type TxOptions struct {
	ReadOnly bool
}

// ContextInjector is implemented by units that carry a driver session the
// repositories pick up from the context.
type ContextInjector interface {
	InjectContext(ctx context.Context) context.Context
}
