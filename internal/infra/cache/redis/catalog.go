package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	domainlistings "vibestays/internal/domain/listings"
)

const (
	catalogKey        = "vibestays:catalog:all"
	defaultCatalogTTL = 5 * time.Minute
)

// CachedListingRepository keeps the full catalog snapshot in Redis. The catalog
// query engine filters the snapshot in memory, so one key serves every search.
// Writes go to the inner repository and drop the snapshot. Redis failures fall
// back to the inner repository.
type CachedListingRepository struct {
	inner  domainlistings.ListingRepository
	client KeyValue
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedListingRepository(inner domainlistings.ListingRepository, client KeyValue, ttl time.Duration, logger *slog.Logger) *CachedListingRepository {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &CachedListingRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (r *CachedListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	return r.inner.ByID(ctx, id)
}

func (r *CachedListingRepository) All(ctx context.Context) ([]*domainlistings.Listing, error) {
	raw, err := r.client.Get(ctx, catalogKey).Bytes()
	switch {
	case err == nil:
		var items []*domainlistings.Listing
		jsonErr := json.Unmarshal(raw, &items)
		if jsonErr == nil {
			return items, nil
		}
		r.warn(ctx, "catalog cache entry unreadable", jsonErr)
	case !errors.Is(err, redis.Nil):
		r.warn(ctx, "catalog cache read failed", err)
	}

	items, err := r.inner.All(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(items); err == nil {
		if err := r.client.Set(ctx, catalogKey, payload, r.ttl).Err(); err != nil {
			r.warn(ctx, "catalog cache write failed", err)
		}
	}
	return items, nil
}

func (r *CachedListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	if err := r.inner.Save(ctx, listing); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// Invalidate drops the snapshot. It also runs when listing events arrive from the
// broker, which covers writes whose transaction committed after an earlier read
// re-cached the old snapshot.
func (r *CachedListingRepository) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, catalogKey).Err()
}

func (r *CachedListingRepository) invalidate(ctx context.Context) {
	if err := r.Invalidate(ctx); err != nil {
		r.warn(ctx, "catalog cache invalidation failed", err)
	}
}

func (r *CachedListingRepository) warn(ctx context.Context, msg string, err error) {
	if r.logger != nil {
		r.logger.WarnContext(ctx, msg, "error", err)
	}
}

var _ domainlistings.ListingRepository = (*CachedListingRepository)(nil)
