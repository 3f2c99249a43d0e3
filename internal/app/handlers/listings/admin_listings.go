package listings

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"vibestays/internal/app/dto"
	"vibestays/internal/app/handlers/support"
	"vibestays/internal/app/outbox"
	"vibestays/internal/app/queries"
	"vibestays/internal/app/uow"
	domainlistings "vibestays/internal/domain/listings"
)

const (
	adminListListingsKey = "listings.admin.list"
	createListingKey     = "listings.admin.create"
	updateListingKey     = "listings.admin.update"
	deleteListingKey     = "listings.admin.delete"
)

// AdminListListingsQuery returns every listing for the admin table, newest first.
type AdminListListingsQuery struct{}

func (AdminListListingsQuery) Key() string { return adminListListingsKey }
func (AdminListListingsQuery) AdminOnly()  {}

type AdminListListingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *AdminListListingsHandler) Handle(ctx context.Context, _ AdminListListingsQuery) (dto.ListingCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ListingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	all, err := unit.Listings().All(execCtx)
	if err != nil {
		return dto.ListingCollection{}, err
	}
	ordered := append([]*domainlistings.Listing(nil), all...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].CreatedAt.After(ordered[j].CreatedAt) })

	items := make([]dto.ListingDetail, 0, len(ordered))
	for _, listing := range ordered {
		items = append(items, dto.MapListingDetail(listing, nil))
	}
	return dto.ListingCollection{Items: items, Total: len(items)}, nil
}

// CreateListingCommand adds a listing. ID is generated when empty.
type CreateListingCommand struct {
	ID         string
	Attributes domainlistings.Attributes
	Now        time.Time
}

func (CreateListingCommand) Key() string { return createListingKey }
func (CreateListingCommand) AdminOnly()  {}

type UpdateListingCommand struct {
	ID         string
	Attributes domainlistings.Attributes
	Now        time.Time
}

func (UpdateListingCommand) Key() string { return updateListingKey }
func (UpdateListingCommand) AdminOnly()  {}

// DeleteListingCommand removes a listing together with its reviews.
type DeleteListingCommand struct {
	ID  string
	Now time.Time
}

func (DeleteListingCommand) Key() string { return deleteListingKey }
func (DeleteListingCommand) AdminOnly()  {}

// ManageListingsHandler serves the admin write side of listings.
type ManageListingsHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *ManageListingsHandler) Create(ctx context.Context, cmd CreateListingCommand) (dto.ListingDetail, error) {
	id := strings.TrimSpace(cmd.ID)
	if id == "" {
		id = uuid.NewString()
	}
	listing, err := domainlistings.NewListing(domainlistings.ListingID(id), cmd.Attributes, nowOr(cmd.Now))
	if err != nil {
		return dto.ListingDetail{}, err
	}
	err = support.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		if err := unit.Listings().Save(ctx, listing); err != nil {
			return err
		}
		return outbox.RecordFrom(ctx, h.Outbox, h.Encoder, listing)
	})
	if err != nil {
		return dto.ListingDetail{}, err
	}
	h.log("listing created", "listing_id", listing.ID, "name", listing.Name)
	return dto.MapListingDetail(listing, nil), nil
}

func (h *ManageListingsHandler) Update(ctx context.Context, cmd UpdateListingCommand) (dto.ListingDetail, error) {
	var updated *domainlistings.Listing
	err := support.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(cmd.ID))
		if err != nil {
			return err
		}
		if err := listing.Update(cmd.Attributes, nowOr(cmd.Now)); err != nil {
			return err
		}
		if err := unit.Listings().Save(ctx, listing); err != nil {
			return err
		}
		updated = listing
		return outbox.RecordFrom(ctx, h.Outbox, h.Encoder, listing)
	})
	if err != nil {
		return dto.ListingDetail{}, err
	}
	h.log("listing updated", "listing_id", updated.ID)
	return dto.MapListingDetail(updated, nil), nil
}

func (h *ManageListingsHandler) Delete(ctx context.Context, cmd DeleteListingCommand) (struct{}, error) {
	err := support.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(cmd.ID))
		if err != nil {
			return err
		}
		reviews, err := unit.Reviews().ListByListing(ctx, listing.ID, false)
		if err != nil {
			return err
		}
		for _, review := range reviews {
			if err := unit.Reviews().Delete(ctx, review.ID); err != nil {
				return err
			}
		}
		if err := unit.Listings().Delete(ctx, listing.ID); err != nil {
			return err
		}
		listing.MarkDeleted(nowOr(cmd.Now))
		return outbox.RecordFrom(ctx, h.Outbox, h.Encoder, listing)
	})
	if err != nil {
		return struct{}{}, err
	}
	h.log("listing deleted", "listing_id", cmd.ID)
	return struct{}{}, nil
}

func (h *ManageListingsHandler) log(msg string, args ...any) {
	if h.Logger != nil {
		h.Logger.Info(msg, args...)
	}
}

func nowOr(now time.Time) time.Time {
	if now.IsZero() {
		return time.Now().UTC()
	}
	return now
}

var _ queries.Handler[AdminListListingsQuery, dto.ListingCollection] = (*AdminListListingsHandler)(nil)
