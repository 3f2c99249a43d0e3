package reviews

import (
	"context"

	"vibestays/internal/app/dto"
	"vibestays/internal/app/handlers/support"
	"vibestays/internal/app/queries"
	"vibestays/internal/app/uow"
	domainlistings "vibestays/internal/domain/listings"
	domainreviews "vibestays/internal/domain/reviews"
)

const (
	listListingReviewsKey = "reviews.listing.list"
	adminListReviewsKey   = "reviews.admin.list"
)

// ListListingReviewsQuery returns the approved reviews of a listing, newest first.
type ListListingReviewsQuery struct {
	ListingID string
	Limit     int
	Offset    int
}

func (q ListListingReviewsQuery) Key() string { return listListingReviewsKey }

type ListListingReviewsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListListingReviewsHandler) Handle(ctx context.Context, q ListListingReviewsQuery) (dto.ReviewCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	listingID := domainlistings.ListingID(q.ListingID)
	if _, err := unit.Listings().ByID(execCtx, listingID); err != nil {
		return dto.ReviewCollection{}, err
	}
	approved, err := unit.Reviews().ListByListing(execCtx, listingID, true)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	page := support.Page(approved, normalizeLimit(q.Limit), q.Offset)
	return dto.ReviewCollection{Items: dto.MapReviews(page), Total: len(approved)}, nil
}

// AdminListReviewsQuery lists reviews for moderation.
type AdminListReviewsQuery struct {
	ListingID   string
	PendingOnly bool
	Limit       int
	Offset      int
}

func (q AdminListReviewsQuery) Key() string { return adminListReviewsKey }
func (q AdminListReviewsQuery) AdminOnly()  {}

type AdminListReviewsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *AdminListReviewsHandler) Handle(ctx context.Context, q AdminListReviewsQuery) (dto.ReviewCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	items, err := unit.Reviews().List(execCtx, domainreviews.ListFilter{
		ListingID:   domainlistings.ListingID(q.ListingID),
		PendingOnly: q.PendingOnly,
	})
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	page := support.Page(items, q.Limit, q.Offset)
	return dto.ReviewCollection{Items: dto.MapReviews(page), Total: len(items)}, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

var (
	_ queries.Handler[ListListingReviewsQuery, dto.ReviewCollection] = (*ListListingReviewsHandler)(nil)
	_ queries.Handler[AdminListReviewsQuery, dto.ReviewCollection]   = (*AdminListReviewsHandler)(nil)
)
