package postgres

import (
	"context"
	"database/sql"
	"errors"

	"vibestays/internal/app/uow"
	domainleads "vibestays/internal/domain/leads"
	domainlistings "vibestays/internal/domain/listings"
	domainreviews "vibestays/internal/domain/reviews"
)

var ErrUnitOfWorkNotConfigured = errors.New("postgres: unit of work factory missing database")

// Factory runs each unit in one database/sql transaction.
type Factory struct {
	DB *sql.DB

	ListingsRepo  domainlistings.ListingRepository
	ReviewsRepo   domainreviews.Repository
	InquiriesRepo domainleads.Repository
}

func NewFactory(db *sql.DB) Factory {
	return Factory{
		DB:            db,
		ListingsRepo:  NewListingRepository(db),
		ReviewsRepo:   NewReviewRepository(db),
		InquiriesRepo: NewInquiryRepository(db),
	}
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	tx, err := f.DB.BeginTx(ctx, &sql.TxOptions{ReadOnly: opts.ReadOnly})
	if err != nil {
		return nil, err
	}
	return &Unit{tx: tx, listings: f.ListingsRepo, reviews: f.ReviewsRepo, inquiries: f.InquiriesRepo}, nil
}

type Unit struct {
	tx *sql.Tx

	listings  domainlistings.ListingRepository
	reviews   domainreviews.Repository
	inquiries domainleads.Repository
}

func (u *Unit) Listings() domainlistings.ListingRepository { return u.listings }
func (u *Unit) Reviews() domainreviews.Repository          { return u.reviews }
func (u *Unit) Inquiries() domainleads.Repository          { return u.inquiries }

func (u *Unit) Commit(ctx context.Context) error {
	return u.tx.Commit()
}

func (u *Unit) Rollback(ctx context.Context) error {
	err := u.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, u.tx)
}

var (
	_ uow.UoWFactory      = Factory{}
	_ uow.ContextInjector = (*Unit)(nil)
)
