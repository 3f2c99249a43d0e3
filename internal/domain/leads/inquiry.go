package leads

import (
	"context"
	"errors"
	"strings"
	"time"

	"vibestays/internal/domain/listings"
	"vibestays/internal/domain/shared/events"
)

var (
	ErrNotFound        = errors.New("leads: inquiry not found")
	ErrNameRequired    = errors.New("leads: name is required")
	ErrInvalidEmail    = errors.New("leads: a valid email is required")
	ErrMessageRequired = errors.New("leads: message is required")
	ErrAlreadyHandled  = errors.New("leads: inquiry already handled")
)

type InquiryID string

type Status string

const (
	StatusNew     Status = "new"
	StatusHandled Status = "handled"
)

// Inquiry is a message left through the contact form, either general or about a
// specific listing.
type Inquiry struct {
	ID           InquiryID
	Name         string
	Email        string
	Phone        string
	Message      string
	PropertyName string
	Location     string
	ListingID    listings.ListingID
	Status       Status
	CreatedAt    time.Time
	HandledAt    time.Time
	events.EventRecorder
}

type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}

type Repository interface {
	ByID(ctx context.Context, id InquiryID) (*Inquiry, error)
	// List returns inquiries newest first.
	List(ctx context.Context, filter ListFilter) ([]*Inquiry, error)
	Save(ctx context.Context, inquiry *Inquiry) error
}

type SubmitParams struct {
	ID           InquiryID
	Name         string
	Email        string
	Phone        string
	Message      string
	PropertyName string
	Location     string
	ListingID    listings.ListingID
	CreatedAt    time.Time
}

func Submit(params SubmitParams) (*Inquiry, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if at := strings.Index(email, "@"); at <= 0 || at == len(email)-1 {
		return nil, ErrInvalidEmail
	}
	message := strings.TrimSpace(params.Message)
	if message == "" {
		return nil, ErrMessageRequired
	}
	inquiry := &Inquiry{
		ID:           params.ID,
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(params.Phone),
		Message:      message,
		PropertyName: strings.TrimSpace(params.PropertyName),
		Location:     strings.TrimSpace(params.Location),
		ListingID:    params.ListingID,
		Status:       StatusNew,
		CreatedAt:    params.CreatedAt.UTC(),
	}
	inquiry.Record(InquirySubmitted{
		InquiryID:    inquiry.ID,
		Name:         inquiry.Name,
		Email:        inquiry.Email,
		Phone:        inquiry.Phone,
		Message:      inquiry.Message,
		PropertyName: inquiry.PropertyName,
		Location:     inquiry.Location,
		ListingID:    inquiry.ListingID,
		At:           inquiry.CreatedAt,
	})
	return inquiry, nil
}

func (i *Inquiry) MarkHandled(now time.Time) error {
	if i.Status == StatusHandled {
		return ErrAlreadyHandled
	}
	i.Status = StatusHandled
	i.HandledAt = now.UTC()
	i.Record(InquiryHandled{InquiryID: i.ID, At: i.HandledAt})
	return nil
}
