package reviews

import (
	"context"
	"time"

	"vibestays/internal/app/uow"
	domainlistings "vibestays/internal/domain/listings"
	domainreviews "vibestays/internal/domain/reviews"
)

// recalculateListingRating refreshes the listing's rating and review count from
// its approved reviews.
func recalculateListingRating(ctx context.Context, unit uow.UnitOfWork, listingID domainlistings.ListingID, now time.Time) error {
	approved, err := unit.Reviews().ListByListing(ctx, listingID, true)
	if err != nil {
		return err
	}
	average, count := domainreviews.Summarize(approved)

	listing, err := unit.Listings().ByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.Rating == average && listing.ReviewCount == count {
		return nil
	}
	if err := listing.UpdateRating(average, count, now); err != nil {
		return err
	}
	return unit.Listings().Save(ctx, listing)
}

func nowOr(now time.Time) time.Time {
	if now.IsZero() {
		return time.Now().UTC()
	}
	return now
}
