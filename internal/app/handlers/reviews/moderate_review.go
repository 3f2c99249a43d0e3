package reviews

import (
	"context"
	"log/slog"
	"time"

	"vibestays/internal/app/dto"
	"vibestays/internal/app/handlers/support"
	"vibestays/internal/app/outbox"
	"vibestays/internal/app/uow"
	domainreviews "vibestays/internal/domain/reviews"
)

const (
	moderateReviewKey = "reviews.admin.moderate"
	deleteReviewKey   = "reviews.admin.delete"
)

// ModerateReviewCommand approves, rejects or verifies a review.
type ModerateReviewCommand struct {
	ReviewID string
	Action   domainreviews.Action
	Now      time.Time
}

func (ModerateReviewCommand) Key() string { return moderateReviewKey }
func (ModerateReviewCommand) AdminOnly()  {}

type DeleteReviewCommand struct {
	ReviewID string
	Now      time.Time
}

func (DeleteReviewCommand) Key() string { return deleteReviewKey }
func (DeleteReviewCommand) AdminOnly()  {}

// ModerationHandler applies admin decisions and keeps the listing rating in sync.
type ModerationHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *ModerationHandler) Moderate(ctx context.Context, cmd ModerateReviewCommand) (dto.Review, error) {
	now := nowOr(cmd.Now)
	var moderated *domainreviews.Review
	err := support.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		review, err := unit.Reviews().ByID(ctx, domainreviews.ReviewID(cmd.ReviewID))
		if err != nil {
			return err
		}
		if err := review.Moderate(cmd.Action, now); err != nil {
			return err
		}
		if err := unit.Reviews().Save(ctx, review); err != nil {
			return err
		}
		if err := recalculateListingRating(ctx, unit, review.ListingID, now); err != nil {
			return err
		}
		moderated = review
		return outbox.RecordFrom(ctx, h.Outbox, h.Encoder, review)
	})
	if err != nil {
		return dto.Review{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("review moderated", "review_id", moderated.ID, "action", cmd.Action)
	}
	return dto.MapReview(moderated), nil
}

func (h *ModerationHandler) Delete(ctx context.Context, cmd DeleteReviewCommand) (struct{}, error) {
	now := nowOr(cmd.Now)
	err := support.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		review, err := unit.Reviews().ByID(ctx, domainreviews.ReviewID(cmd.ReviewID))
		if err != nil {
			return err
		}
		if err := unit.Reviews().Delete(ctx, review.ID); err != nil {
			return err
		}
		if err := recalculateListingRating(ctx, unit, review.ListingID, now); err != nil {
			return err
		}
		review.MarkDeleted(now)
		return outbox.RecordFrom(ctx, h.Outbox, h.Encoder, review)
	})
	if err != nil {
		return struct{}{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("review deleted", "review_id", cmd.ReviewID)
	}
	return struct{}{}, nil
}
