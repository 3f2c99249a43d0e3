package memory

import (
	"context"
	"sort"
	"sync"

	domainlistings "vibestays/internal/domain/listings"
	"vibestays/internal/domain/shared/events"
)

// ListingRepository keeps listings in memory. Reads and writes copy the aggregate
// so callers never share state with the store. Listings created at the same
// instant keep their insertion order.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]*domainlistings.Listing
	seq   map[domainlistings.ListingID]int
	next  int
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		items: make(map[domainlistings.ListingID]*domainlistings.Listing),
		seq:   make(map[domainlistings.ListingID]int),
	}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrNotFound
	}
	return cloneListing(listing), nil
}

// All returns a snapshot ordered oldest first.
func (r *ListingRepository) All(ctx context.Context) ([]*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainlistings.Listing, 0, len(r.items))
	for _, listing := range r.items {
		out = append(out, cloneListing(listing))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] < r.seq[out[j].ID]
	})
	return out, nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	if listing == nil || listing.ID == "" {
		return domainlistings.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seq[listing.ID]; !ok {
		r.seq[listing.ID] = r.next
		r.next++
	}
	r.items[listing.ID] = cloneListing(listing)
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainlistings.ErrNotFound
	}
	delete(r.items, id)
	delete(r.seq, id)
	return nil
}

func cloneListing(l *domainlistings.Listing) *domainlistings.Listing {
	if l == nil {
		return nil
	}
	cp := *l
	cp.EventRecorder = events.EventRecorder{}
	cp.Images = cloneStrings(l.Images)
	cp.Videos = cloneStrings(l.Videos)
	cp.SeasonalImages = cloneStrings(l.SeasonalImages)
	cp.Amenities = cloneStrings(l.Amenities)
	cp.NearbyExperiences = cloneStrings(l.NearbyExperiences)
	cp.LocalTips = cloneStrings(l.LocalTips)
	cp.Views = append([]domainlistings.View(nil), l.Views...)
	cp.Themes = append([]domainlistings.Theme(nil), l.Themes...)
	return &cp
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}

var _ domainlistings.ListingRepository = (*ListingRepository)(nil)
