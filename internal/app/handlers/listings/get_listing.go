package listings

import (
	"context"
	"strings"

	"vibestays/internal/app/dto"
	"vibestays/internal/app/handlers/support"
	"vibestays/internal/app/queries"
	"vibestays/internal/app/uow"
	domainlistings "vibestays/internal/domain/listings"
)

const getListingKey = "listings.get"

// GetListingQuery loads the public listing page with its approved reviews.
type GetListingQuery struct {
	ID string
}

func (q GetListingQuery) Key() string { return getListingKey }

type GetListingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetListingHandler) Handle(ctx context.Context, q GetListingQuery) (dto.ListingDetail, error) {
	id := strings.TrimSpace(q.ID)
	if id == "" {
		return dto.ListingDetail{}, domainlistings.ErrNotFound
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ListingDetail{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	listing, err := unit.Listings().ByID(execCtx, domainlistings.ListingID(id))
	if err != nil {
		return dto.ListingDetail{}, err
	}
	approved, err := unit.Reviews().ListByListing(execCtx, listing.ID, true)
	if err != nil {
		return dto.ListingDetail{}, err
	}
	return dto.MapListingDetail(listing, dto.MapReviews(approved)), nil
}

var _ queries.Handler[GetListingQuery, dto.ListingDetail] = (*GetListingHandler)(nil)
