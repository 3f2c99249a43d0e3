package leads

import (
	"time"

	"vibestays/internal/domain/listings"
)

// InquirySubmitted carries the whole form so downstream mailers need no lookup.
type InquirySubmitted struct {
	InquiryID    InquiryID          `json:"inquiry_id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone,omitempty"`
	Message      string             `json:"message"`
	PropertyName string             `json:"property_name,omitempty"`
	Location     string             `json:"location,omitempty"`
	ListingID    listings.ListingID `json:"listing_id,omitempty"`
	At           time.Time          `json:"at"`
}

func (e InquirySubmitted) EventName() string     { return "inquiry.submitted" }
func (e InquirySubmitted) AggregateID() string   { return string(e.InquiryID) }
func (e InquirySubmitted) OccurredAt() time.Time { return e.At }

type InquiryHandled struct {
	InquiryID InquiryID `json:"inquiry_id"`
	At        time.Time `json:"at"`
}

func (e InquiryHandled) EventName() string     { return "inquiry.handled" }
func (e InquiryHandled) AggregateID() string   { return string(e.InquiryID) }
func (e InquiryHandled) OccurredAt() time.Time { return e.At }
