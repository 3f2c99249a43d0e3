package leads

import (
	"context"
	"log/slog"
	"time"

	"vibestays/internal/app/dto"
	"vibestays/internal/app/handlers/support"
	"vibestays/internal/app/outbox"
	"vibestays/internal/app/queries"
	"vibestays/internal/app/uow"
	domainleads "vibestays/internal/domain/leads"
)

const (
	adminListInquiriesKey = "leads.admin.list"
	markHandledKey        = "leads.admin.mark_handled"
)

// AdminListInquiriesQuery pages the inquiry inbox, newest first.
type AdminListInquiriesQuery struct {
	Status domainleads.Status
	Limit  int
	Offset int
}

func (AdminListInquiriesQuery) Key() string { return adminListInquiriesKey }
func (AdminListInquiriesQuery) AdminOnly()  {}

type AdminListInquiriesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *AdminListInquiriesHandler) Handle(ctx context.Context, q AdminListInquiriesQuery) (dto.InquiryCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.InquiryCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	all, err := unit.Inquiries().List(execCtx, domainleads.ListFilter{Status: q.Status})
	if err != nil {
		return dto.InquiryCollection{}, err
	}
	page := support.Page(all, q.Limit, q.Offset)
	items := make([]dto.Inquiry, 0, len(page))
	for _, inquiry := range page {
		items = append(items, dto.MapInquiry(inquiry))
	}
	return dto.InquiryCollection{Items: items, Total: len(all)}, nil
}

type MarkInquiryHandledCommand struct {
	ID  string
	Now time.Time
}

func (MarkInquiryHandledCommand) Key() string { return markHandledKey }
func (MarkInquiryHandledCommand) AdminOnly()  {}

type MarkInquiryHandledHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *MarkInquiryHandledHandler) Handle(ctx context.Context, cmd MarkInquiryHandledCommand) (dto.Inquiry, error) {
	var handled *domainleads.Inquiry
	err := support.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		inquiry, err := unit.Inquiries().ByID(ctx, domainleads.InquiryID(cmd.ID))
		if err != nil {
			return err
		}
		if err := inquiry.MarkHandled(nowOr(cmd.Now)); err != nil {
			return err
		}
		if err := unit.Inquiries().Save(ctx, inquiry); err != nil {
			return err
		}
		handled = inquiry
		return outbox.RecordFrom(ctx, h.Outbox, h.Encoder, inquiry)
	})
	if err != nil {
		return dto.Inquiry{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("inquiry handled", "inquiry_id", handled.ID)
	}
	return dto.MapInquiry(handled), nil
}

var _ queries.Handler[AdminListInquiriesQuery, dto.InquiryCollection] = (*AdminListInquiriesHandler)(nil)
