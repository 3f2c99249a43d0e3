package listings

import (
	"context"

	"vibestays/internal/app/dto"
	"vibestays/internal/app/handlers/support"
	"vibestays/internal/app/queries"
	"vibestays/internal/app/uow"
	domainlistings "vibestays/internal/domain/listings"
)

const featuredListingsKey = "listings.featured"

const defaultFeaturedLimit = 6

// FeaturedListingsQuery feeds the landing page with featured listings, newest first.
type FeaturedListingsQuery struct {
	Limit int
}

func (q FeaturedListingsQuery) Key() string { return featuredListingsKey }

type FeaturedListingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *FeaturedListingsHandler) Handle(ctx context.Context, q FeaturedListingsQuery) ([]dto.ListingCard, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	all, err := unit.Listings().All(execCtx)
	if err != nil {
		return nil, err
	}
	featured := make([]*domainlistings.Listing, 0, len(all))
	for _, listing := range all {
		if listing != nil && listing.Featured {
			featured = append(featured, listing)
		}
	}
	featured = domainlistings.Query(featured, domainlistings.FilterSpec{SortBy: domainlistings.SortNewest})

	limit := q.Limit
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}
	page := support.Page(featured, limit, 0)
	cards := make([]dto.ListingCard, 0, len(page))
	for _, listing := range page {
		cards = append(cards, dto.MapListingCard(listing))
	}
	return cards, nil
}

var _ queries.Handler[FeaturedListingsQuery, []dto.ListingCard] = (*FeaturedListingsHandler)(nil)
