package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"

	"vibestays/internal/app/uow"
	domainleads "vibestays/internal/domain/leads"
	domainlistings "vibestays/internal/domain/listings"
	domainreviews "vibestays/internal/domain/reviews"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
// Transactions need a replica set deployment.
type Factory struct {
	DB *mongo.Database

	ListingsRepo  domainlistings.ListingRepository
	ReviewsRepo   domainreviews.Repository
	InquiriesRepo domainleads.Repository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// NewFactory builds a factory over the Mongo repositories. Listings may be
// swapped for a cached decorator by the caller.
func NewFactory(db *mongo.Database) Factory {
	return Factory{
		DB:            db,
		ListingsRepo:  NewListingRepository(db),
		ReviewsRepo:   NewReviewRepository(db),
		InquiriesRepo: NewInquiryRepository(db),
	}
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if opts.ReadOnly {
		txnOpts = txnOpts.SetReadConcern(readconcern.Snapshot())
	}
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		session:   session,
		listings:  f.ListingsRepo,
		reviews:   f.ReviewsRepo,
		inquiries: f.InquiriesRepo,
	}, nil
}

type Unit struct {
	session mongo.Session

	listings  domainlistings.ListingRepository
	reviews   domainreviews.Repository
	inquiries domainleads.Repository
}

func (u *Unit) Listings() domainlistings.ListingRepository { return u.listings }
func (u *Unit) Reviews() domainreviews.Repository          { return u.reviews }
func (u *Unit) Inquiries() domainleads.Repository          { return u.inquiries }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext makes the session visible to repositories called with the returned ctx.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var (
	_ uow.UoWFactory      = Factory{}
	_ uow.ContextInjector = (*Unit)(nil)
)
