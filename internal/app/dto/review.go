package dto

import (
	"time"

	domainreviews "vibestays/internal/domain/reviews"
)

type Review struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	GuestName string    `json:"guest_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Verified  bool      `json:"verified"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewCollection struct {
	Items []Review `json:"items"`
	Total int      `json:"total"`
}

func MapReview(review *domainreviews.Review) Review {
	if review == nil {
		return Review{}
	}
	return Review{
		ID:        string(review.ID),
		ListingID: string(review.ListingID),
		GuestName: review.GuestName,
		Rating:    review.Rating,
		Comment:   review.Comment,
		Verified:  review.Verified,
		Approved:  review.Approved,
		CreatedAt: review.CreatedAt,
	}
}

func MapReviews(items []*domainreviews.Review) []Review {
	out := make([]Review, 0, len(items))
	for _, review := range items {
		out = append(out, MapReview(review))
	}
	return out
}
