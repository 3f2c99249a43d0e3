package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"vibestays/internal/app/handlers/support"
	"vibestays/internal/app/outbox"
	"vibestays/internal/app/uow"
	domainlistings "vibestays/internal/domain/listings"
)

const importListingsKey = "listings.admin.import"

// ImportedListing is one catalog record from a fixtures file or an export of
// the old database. Rating and ReviewCount are carried over as-is.
type ImportedListing struct {
	ID          string
	Attributes  domainlistings.Attributes
	Rating      float64
	ReviewCount int
	CreatedAt   time.Time
}

// ImportListingsCommand upserts listings by id. Invalid records are skipped.
type ImportListingsCommand struct {
	Items []ImportedListing
	Now   time.Time
}

func (ImportListingsCommand) Key() string { return importListingsKey }
func (ImportListingsCommand) AdminOnly()  {}

type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped,omitempty"`
}

// Import stores each record in its own unit so one bad record does not block the rest.
func (h *ManageListingsHandler) Import(ctx context.Context, cmd ImportListingsCommand) (ImportResult, error) {
	var res ImportResult
	now := nowOr(cmd.Now)
	for _, item := range cmd.Items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			res.Skipped = append(res.Skipped, item.Attributes.Name)
			continue
		}
		created, err := h.importOne(ctx, id, item, now)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			if h.Logger != nil {
				h.Logger.Warn("listing import skipped", "listing_id", id, "error", err)
			}
			res.Skipped = append(res.Skipped, id)
			continue
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	h.log("listings imported", "created", res.Created, "updated", res.Updated, "skipped", len(res.Skipped))
	return res, nil
}

func (h *ManageListingsHandler) importOne(ctx context.Context, id string, item ImportedListing, now time.Time) (bool, error) {
	created := false
	err := support.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(id))
		switch {
		case errors.Is(err, domainlistings.ErrNotFound):
			createdAt := item.CreatedAt
			if createdAt.IsZero() {
				createdAt = now
			}
			if listing, err = domainlistings.NewListing(domainlistings.ListingID(id), item.Attributes, createdAt); err != nil {
				return err
			}
			created = true
		case err != nil:
			return err
		default:
			if err := listing.Update(item.Attributes, now); err != nil {
				return err
			}
		}
		if err := listing.UpdateRating(item.Rating, item.ReviewCount, listing.UpdatedAt); err != nil {
			return err
		}
		if err := unit.Listings().Save(ctx, listing); err != nil {
			return err
		}
		return outbox.RecordFrom(ctx, h.Outbox, h.Encoder, listing)
	})
	return created, err
}
