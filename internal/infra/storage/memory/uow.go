package memory

import (
	"context"
	"errors"

	"vibestays/internal/app/uow"
	domainleads "vibestays/internal/domain/leads"
	domainlistings "vibestays/internal/domain/listings"
	domainreviews "vibestays/internal/domain/reviews"
)

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory hands out units over shared repositories. Units provide no isolation;
// Commit and Rollback are no-ops.
type Factory struct {
	ListingsRepo  domainlistings.ListingRepository
	ReviewsRepo   domainreviews.Repository
	InquiriesRepo domainleads.Repository
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.ListingsRepo == nil || f.ReviewsRepo == nil || f.InquiriesRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{listings: f.ListingsRepo, reviews: f.ReviewsRepo, inquiries: f.InquiriesRepo}, nil
}

type Unit struct {
	listings  domainlistings.ListingRepository
	reviews   domainreviews.Repository
	inquiries domainleads.Repository
}

func (u *Unit) Listings() domainlistings.ListingRepository { return u.listings }
func (u *Unit) Reviews() domainreviews.Repository          { return u.reviews }
func (u *Unit) Inquiries() domainleads.Repository          { return u.inquiries }

func (u *Unit) Commit(ctx context.Context) error   { return nil }
func (u *Unit) Rollback(ctx context.Context) error { return nil }

// NewFactory builds a factory over fresh repositories.
func NewFactory() Factory {
	return Factory{
		ListingsRepo:  NewListingRepository(),
		ReviewsRepo:   NewReviewsRepository(),
		InquiriesRepo: NewInquiryRepository(),
	}
}
