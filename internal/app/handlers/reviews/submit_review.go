package reviews

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"vibestays/internal/app/commands"
	"vibestays/internal/app/dto"
	"vibestays/internal/app/handlers/support"
	"vibestays/internal/app/outbox"
	"vibestays/internal/app/uow"
	domainlistings "vibestays/internal/domain/listings"
	domainreviews "vibestays/internal/domain/reviews"
)

const submitReviewKey = "reviews.submit"

// SubmitReviewCommand stores a guest review awaiting moderation.
type SubmitReviewCommand struct {
	ListingID string
	GuestName string
	Rating    int
	Comment   string
	// RequestKey is the client's Idempotency-Key, if any.
	RequestKey string
	Now        time.Time
}

func (c SubmitReviewCommand) Key() string            { return submitReviewKey }
func (c SubmitReviewCommand) IdempotencyKey() string { return c.RequestKey }
func (c SubmitReviewCommand) ResultPrototype() any   { return new(dto.Review) }

type SubmitReviewHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (dto.Review, error) {
	review, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID:        domainreviews.ReviewID(uuid.NewString()),
		ListingID: domainlistings.ListingID(cmd.ListingID),
		GuestName: cmd.GuestName,
		Rating:    cmd.Rating,
		Comment:   cmd.Comment,
		CreatedAt: nowOr(cmd.Now),
	})
	if err != nil {
		return dto.Review{}, err
	}
	err = support.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		if _, err := unit.Listings().ByID(ctx, review.ListingID); err != nil {
			return err
		}
		if err := unit.Reviews().Save(ctx, review); err != nil {
			return err
		}
		return outbox.RecordFrom(ctx, h.Outbox, h.Encoder, review)
	})
	if err != nil {
		return dto.Review{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("review submitted", "review_id", review.ID, "listing_id", review.ListingID, "rating", review.Rating)
	}
	return dto.MapReview(review), nil
}

var _ commands.Handler[SubmitReviewCommand, dto.Review] = (*SubmitReviewHandler)(nil)
