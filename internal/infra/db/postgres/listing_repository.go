package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	domainlistings "vibestays/internal/domain/listings"
)

const propertiesTable = "properties"

var listingColumns = []any{
	"id", "name", "location", "state", "price", "price_unit", "images", "videos", "seasonal_images",
	"description", "short_description", "max_guests", "bedrooms", "bathrooms", "property_type",
	"views", "themes", "amenities", "nearby_experiences", "local_tips", "host_name", "contact_number",
	"whatsapp_number", "rating", "review_count", "featured", "verified", "created_at", "updated_at",
}

// ListingRepository stores listings in the "properties" table.
type ListingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	query, args, err := dialect.From(propertiesTable).Select(listingColumns...).
		Where(goqu.Ex{"id": string(id)}).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("postgres: build listing query: %w", err)
	}
	listing, err := scanListing(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainlistings.ErrNotFound
	}
	return listing, err
}

func (r *ListingRepository) All(ctx context.Context) ([]*domainlistings.Listing, error) {
	query, args, err := selectAllListings().ToSQL()
	if err != nil {
		return nil, fmt.Errorf("postgres: build listings query: %w", err)
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domainlistings.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, listing)
	}
	return out, rows.Err()
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	if listing == nil || listing.ID == "" {
		return domainlistings.ErrIDRequired
	}
	query, args, err := upsertListing(listing).ToSQL()
	if err != nil {
		return fmt.Errorf("postgres: build listing upsert: %w", err)
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, query, args...)
	return err
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) error {
	query, args, err := dialect.Delete(propertiesTable).Where(goqu.Ex{"id": string(id)}).Prepared(true).ToSQL()
	if err != nil {
		return err
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domainlistings.ErrNotFound
	}
	return nil
}

func selectAllListings() *goqu.SelectDataset {
	return dialect.From(propertiesTable).Select(listingColumns...).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc()).Prepared(true)
}

func upsertListing(l *domainlistings.Listing) *goqu.InsertDataset {
	values := goqu.Record{
		"name":               l.Name,
		"location":           l.Location,
		"state":              l.State,
		"price":              l.Price,
		"price_unit":         string(l.PriceUnit),
		"images":             pq.Array(nonNil(l.Images)),
		"videos":             pq.Array(nonNil(l.Videos)),
		"seasonal_images":    pq.Array(nonNil(l.SeasonalImages)),
		"description":        l.Description,
		"short_description":  l.ShortDescription,
		"max_guests":         l.MaxGuests,
		"bedrooms":           l.Bedrooms,
		"bathrooms":          l.Bathrooms,
		"property_type":      string(l.PropertyType),
		"views":              pq.Array(tagsToStrings(l.Views)),
		"themes":             pq.Array(tagsToStrings(l.Themes)),
		"amenities":          pq.Array(nonNil(l.Amenities)),
		"nearby_experiences": pq.Array(nonNil(l.NearbyExperiences)),
		"local_tips":         pq.Array(nonNil(l.LocalTips)),
		"host_name":          l.HostName,
		"contact_number":     l.ContactNumber,
		"whatsapp_number":    l.WhatsAppNumber,
		"rating":             l.Rating,
		"review_count":       l.ReviewCount,
		"featured":           l.Featured,
		"verified":           l.Verified,
		"updated_at":         l.UpdatedAt.UTC(),
	}
	row := goqu.Record{"id": string(l.ID), "created_at": l.CreatedAt.UTC()}
	for k, v := range values {
		row[k] = v
	}
	return dialect.Insert(propertiesTable).Rows(row).
		OnConflict(goqu.DoUpdate("id", values)).Prepared(true)
}

func scanListing(row scanner) (*domainlistings.Listing, error) {
	var (
		l                                       domainlistings.Listing
		priceUnit, propertyType                 string
		images, videos, seasonal, views, themes []string
		amenities, nearby, tips                 []string
		rating                                  sql.NullFloat64
		reviewCount                             sql.NullInt64
		featured, verified                      sql.NullBool
		id                                      string
	)
	err := row.Scan(
		&id, &l.Name, &l.Location, &l.State, &l.Price, &priceUnit,
		pq.Array(&images), pq.Array(&videos), pq.Array(&seasonal),
		&l.Description, &l.ShortDescription, &l.MaxGuests, &l.Bedrooms, &l.Bathrooms, &propertyType,
		pq.Array(&views), pq.Array(&themes), pq.Array(&amenities), pq.Array(&nearby), pq.Array(&tips),
		&l.HostName, &l.ContactNumber, &l.WhatsAppNumber,
		&rating, &reviewCount, &featured, &verified, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.ID = domainlistings.ListingID(id)
	l.PriceUnit = domainlistings.PriceUnit(priceUnit)
	l.PropertyType = domainlistings.PropertyType(propertyType)
	l.Images, l.Videos, l.SeasonalImages = images, videos, seasonal
	l.Views = stringsToTags[domainlistings.View](views)
	l.Themes = stringsToTags[domainlistings.Theme](themes)
	l.Amenities, l.NearbyExperiences, l.LocalTips = amenities, nearby, tips
	l.Rating = rating.Float64
	l.ReviewCount = int(reviewCount.Int64)
	l.Featured, l.Verified = featured.Bool, verified.Bool
	l.CreatedAt, l.UpdatedAt = l.CreatedAt.UTC(), l.UpdatedAt.UTC()
	return &l, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func tagsToStrings[T ~string](tags []T) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, string(tag))
	}
	return out
}

func stringsToTags[T ~string](values []string) []T {
	if len(values) == 0 {
		return nil
	}
	out := make([]T, 0, len(values))
	for _, v := range values {
		out = append(out, T(v))
	}
	return out
}

var _ domainlistings.ListingRepository = (*ListingRepository)(nil)
