package memory

import (
	"context"
	"sync"

	domainlistings "vibestays/internal/domain/listings"
	domainreviews "vibestays/internal/domain/reviews"
	"vibestays/internal/domain/shared/events"
)

type ReviewsRepository struct {
	mu    sync.RWMutex
	items map[domainreviews.ReviewID]*domainreviews.Review
}

func NewReviewsRepository() *ReviewsRepository {
	return &ReviewsRepository{items: make(map[domainreviews.ReviewID]*domainreviews.Review)}
}

func (r *ReviewsRepository) ByID(ctx context.Context, id domainreviews.ReviewID) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	review, ok := r.items[id]
	if !ok {
		return nil, domainreviews.ErrNotFound
	}
	return cloneReview(review), nil
}

func (r *ReviewsRepository) ListByListing(ctx context.Context, listingID domainlistings.ListingID, approvedOnly bool) ([]*domainreviews.Review, error) {
	return r.collect(func(review *domainreviews.Review) bool {
		return review.ListingID == listingID && (!approvedOnly || review.Approved)
	}), nil
}

func (r *ReviewsRepository) List(ctx context.Context, filter domainreviews.ListFilter) ([]*domainreviews.Review, error) {
	return r.collect(func(review *domainreviews.Review) bool {
		if filter.ListingID != "" && review.ListingID != filter.ListingID {
			return false
		}
		return !filter.PendingOnly || !review.Approved
	}), nil
}

func (r *ReviewsRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	if review == nil || review.ID == "" {
		return domainreviews.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[review.ID] = cloneReview(review)
	return nil
}

func (r *ReviewsRepository) Delete(ctx context.Context, id domainreviews.ReviewID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainreviews.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *ReviewsRepository) collect(keep func(*domainreviews.Review) bool) []*domainreviews.Review {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainreviews.Review, 0)
	for _, review := range r.items {
		if keep(review) {
			out = append(out, cloneReview(review))
		}
	}
	domainreviews.SortNewest(out)
	return out
}

func cloneReview(review *domainreviews.Review) *domainreviews.Review {
	cp := *review
	cp.EventRecorder = events.EventRecorder{}
	return &cp
}

var _ domainreviews.Repository = (*ReviewsRepository)(nil)
