package reviews

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"vibestays/internal/domain/listings"
	"vibestays/internal/domain/shared/events"
)

var (
	ErrInvalidRating     = errors.New("reviews: rating must be between 1 and 5")
	ErrNotFound          = errors.New("reviews: not found")
	ErrGuestNameRequired = errors.New("reviews: guest name is required")
	ErrCommentRequired   = errors.New("reviews: comment is required")
	ErrListingRequired   = errors.New("reviews: listing is required")
	ErrUnknownAction     = errors.New("reviews: unknown moderation action")
)

type ReviewID string

// Review is a guest review. It stays hidden from the public site until approved.
type Review struct {
	ID        ReviewID
	ListingID listings.ListingID
	GuestName string
	Rating    int
	Comment   string
	Verified  bool
	Approved  bool
	CreatedAt time.Time
	events.EventRecorder
}

// ListFilter narrows the admin review list.
type ListFilter struct {
	ListingID   listings.ListingID
	PendingOnly bool
}

type Repository interface {
	ByID(ctx context.Context, id ReviewID) (*Review, error)
	// ListByListing returns reviews of one listing, newest first.
	ListByListing(ctx context.Context, listingID listings.ListingID, approvedOnly bool) ([]*Review, error)
	// List returns reviews matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Review, error)
	Save(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id ReviewID) error
}

type SubmitParams struct {
	ID        ReviewID
	ListingID listings.ListingID
	GuestName string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

func Submit(params SubmitParams) (*Review, error) {
	if strings.TrimSpace(string(params.ListingID)) == "" {
		return nil, ErrListingRequired
	}
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	name := strings.TrimSpace(params.GuestName)
	if name == "" {
		return nil, ErrGuestNameRequired
	}
	comment := strings.TrimSpace(params.Comment)
	if comment == "" {
		return nil, ErrCommentRequired
	}
	review := &Review{
		ID:        params.ID,
		ListingID: params.ListingID,
		GuestName: name,
		Rating:    params.Rating,
		Comment:   comment,
		CreatedAt: params.CreatedAt.UTC(),
	}
	review.Record(ReviewSubmitted{ReviewID: review.ID, ListingID: review.ListingID, Rating: review.Rating, At: review.CreatedAt})
	return review, nil
}

// Action is an admin moderation decision.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionVerify  Action = "verify"
)

// Moderate applies an admin decision. Rejecting hides an approved review again.
func (r *Review) Moderate(action Action, now time.Time) error {
	switch action {
	case ActionApprove:
		r.Approved = true
	case ActionReject:
		r.Approved = false
	case ActionVerify:
		r.Verified = true
	default:
		return ErrUnknownAction
	}
	r.Record(ReviewModerated{ReviewID: r.ID, ListingID: r.ListingID, Action: action, At: now.UTC()})
	return nil
}

func (r *Review) MarkDeleted(now time.Time) {
	r.Record(ReviewDeleted{ReviewID: r.ID, ListingID: r.ListingID, At: now.UTC()})
}

// Summarize computes the public rating of a listing: the mean of approved ratings
// rounded to one decimal, and how many approved reviews it is based on.
func Summarize(items []*Review) (float64, int) {
	var sum, count int
	for _, review := range items {
		if review == nil || !review.Approved {
			continue
		}
		sum += review.Rating
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return math.Round(float64(sum)/float64(count)*10) / 10, count
}

// SortNewest orders reviews by creation time, newest first, in place.
func SortNewest(items []*Review) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
}
