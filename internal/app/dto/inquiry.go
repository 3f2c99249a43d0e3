package dto

import (
	"time"

	domainleads "vibestays/internal/domain/leads"
)

type Inquiry struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	Message      string     `json:"message"`
	PropertyName string     `json:"property_name,omitempty"`
	Location     string     `json:"location,omitempty"`
	ListingID    string     `json:"listing_id,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	HandledAt    *time.Time `json:"handled_at,omitempty"`
}

type InquiryCollection struct {
	Items []Inquiry `json:"items"`
	Total int       `json:"total"`
}

// InquiryReceipt is what the public contact form gets back.
type InquiryReceipt struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func MapInquiry(inquiry *domainleads.Inquiry) Inquiry {
	if inquiry == nil {
		return Inquiry{}
	}
	out := Inquiry{
		ID:           string(inquiry.ID),
		Name:         inquiry.Name,
		Email:        inquiry.Email,
		Phone:        inquiry.Phone,
		Message:      inquiry.Message,
		PropertyName: inquiry.PropertyName,
		Location:     inquiry.Location,
		ListingID:    string(inquiry.ListingID),
		Status:       string(inquiry.Status),
		CreatedAt:    inquiry.CreatedAt,
	}
	if !inquiry.HandledAt.IsZero() {
		at := inquiry.HandledAt
		out.HandledAt = &at
	}
	return out
}
