package memory

import (
	"context"
	"sort"
	"sync"

	domainleads "vibestays/internal/domain/leads"
	"vibestays/internal/domain/shared/events"
)

type InquiryRepository struct {
	mu    sync.RWMutex
	items map[domainleads.InquiryID]*domainleads.Inquiry
}

func NewInquiryRepository() *InquiryRepository {
	return &InquiryRepository{items: make(map[domainleads.InquiryID]*domainleads.Inquiry)}
}

func (r *InquiryRepository) ByID(ctx context.Context, id domainleads.InquiryID) (*domainleads.Inquiry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inquiry, ok := r.items[id]
	if !ok {
		return nil, domainleads.ErrNotFound
	}
	return cloneInquiry(inquiry), nil
}

func (r *InquiryRepository) List(ctx context.Context, filter domainleads.ListFilter) ([]*domainleads.Inquiry, error) {
	r.mu.RLock()
	out := make([]*domainleads.Inquiry, 0, len(r.items))
	for _, inquiry := range r.items {
		if filter.Status != "" && inquiry.Status != filter.Status {
			continue
		}
		out = append(out, cloneInquiry(inquiry))
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return out[:0], nil
	}
	out = out[offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *InquiryRepository) Save(ctx context.Context, inquiry *domainleads.Inquiry) error {
	if inquiry == nil || inquiry.ID == "" {
		return domainleads.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[inquiry.ID] = cloneInquiry(inquiry)
	return nil
}

func cloneInquiry(inquiry *domainleads.Inquiry) *domainleads.Inquiry {
	cp := *inquiry
	cp.EventRecorder = events.EventRecorder{}
	return &cp
}

var _ domainleads.Repository = (*InquiryRepository)(nil)
