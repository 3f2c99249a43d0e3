package leads

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"vibestays/internal/app/commands"
	"vibestays/internal/app/dto"
	"vibestays/internal/app/handlers/support"
	"vibestays/internal/app/outbox"
	"vibestays/internal/app/uow"
	domainleads "vibestays/internal/domain/leads"
	domainlistings "vibestays/internal/domain/listings"
)

const submitInquiryKey = "leads.submit"

// SubmitInquiryCommand is the public contact form. ListingID is set when the guest
// writes from a listing page.
type SubmitInquiryCommand struct {
	Name         string
	Email        string
	Phone        string
	Message      string
	PropertyName string
	Location     string
	ListingID    string
	RequestKey   string
	Now          time.Time
}

func (SubmitInquiryCommand) Key() string              { return submitInquiryKey }
func (c SubmitInquiryCommand) IdempotencyKey() string { return c.RequestKey }
func (SubmitInquiryCommand) ResultPrototype() any     { return new(dto.InquiryReceipt) }

// InquiryObserver counts accepted inquiries.
type InquiryObserver interface {
	ObserveInquiry(listingScoped bool)
}

type SubmitInquiryHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Observer   InquiryObserver
	Logger     *slog.Logger
}

func (h *SubmitInquiryHandler) Handle(ctx context.Context, cmd SubmitInquiryCommand) (dto.InquiryReceipt, error) {
	params := domainleads.SubmitParams{
		ID:           domainleads.InquiryID(uuid.NewString()),
		Name:         cmd.Name,
		Email:        cmd.Email,
		Phone:        cmd.Phone,
		Message:      cmd.Message,
		PropertyName: cmd.PropertyName,
		Location:     cmd.Location,
		ListingID:    domainlistings.ListingID(strings.TrimSpace(cmd.ListingID)),
		CreatedAt:    nowOr(cmd.Now),
	}

	var inquiry *domainleads.Inquiry
	err := support.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		if params.ListingID != "" {
			listing, err := unit.Listings().ByID(ctx, params.ListingID)
			if err != nil {
				return err
			}
			if strings.TrimSpace(params.PropertyName) == "" {
				params.PropertyName = listing.Name
			}
			if strings.TrimSpace(params.Location) == "" {
				params.Location = listing.Location + ", " + listing.State
			}
		}
		created, err := domainleads.Submit(params)
		if err != nil {
			return err
		}
		if err := unit.Inquiries().Save(ctx, created); err != nil {
			return err
		}
		inquiry = created
		return outbox.RecordFrom(ctx, h.Outbox, h.Encoder, created)
	})
	if err != nil {
		return dto.InquiryReceipt{}, err
	}

	if h.Observer != nil {
		h.Observer.ObserveInquiry(inquiry.ListingID != "")
	}
	if h.Logger != nil {
		h.Logger.Info("inquiry received", "inquiry_id", inquiry.ID, "listing_id", inquiry.ListingID)
	}
	return dto.InquiryReceipt{ID: string(inquiry.ID), Status: string(inquiry.Status), CreatedAt: inquiry.CreatedAt}, nil
}

// IsValidationError reports whether err comes from contact form validation.
func IsValidationError(err error) bool {
	return errors.Is(err, domainleads.ErrNameRequired) ||
		errors.Is(err, domainleads.ErrInvalidEmail) ||
		errors.Is(err, domainleads.ErrMessageRequired)
}

func nowOr(now time.Time) time.Time {
	if now.IsZero() {
		return time.Now().UTC()
	}
	return now
}

var _ commands.Handler[SubmitInquiryCommand, dto.InquiryReceipt] = (*SubmitInquiryHandler)(nil)
