package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "vibestays/internal/domain/listings"
)

const listingsCollection = "listings"

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection(listingsCollection)}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlistings.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) All(ctx context.Context) ([]*domainlistings.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []listingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode listings: %w", err)
	}
	out := make([]*domainlistings.Listing, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toAggregate())
	}
	return out, nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	if listing == nil || listing.ID == "" {
		return domainlistings.ErrIDRequired
	}
	doc := newListingDocument(listing)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainlistings.ErrNotFound
	}
	return nil
}

type listingDocument struct {
	ID                string   `bson:"_id"`
	Name              string   `bson:"name"`
	Location          string   `bson:"location"`
	State             string   `bson:"state"`
	Price             float64  `bson:"price"`
	PriceUnit         string   `bson:"price_unit"`
	Images            []string `bson:"images"`
	Videos            []string `bson:"videos"`
	SeasonalImages    []string `bson:"seasonal_images"`
	Description       string   `bson:"description"`
	ShortDescription  string   `bson:"short_description"`
	MaxGuests         int      `bson:"max_guests"`
	Bedrooms          int      `bson:"bedrooms"`
	Bathrooms         int      `bson:"bathrooms"`
	PropertyType      string   `bson:"property_type"`
	Views             []string `bson:"views"`
	Themes            []string `bson:"themes"`
	Amenities         []string `bson:"amenities"`
	NearbyExperiences []string `bson:"nearby_experiences"`
	LocalTips         []string `bson:"local_tips"`
	HostName          string   `bson:"host_name"`
	ContactNumber     string   `bson:"contact_number"`
	WhatsAppNumber    string   `bson:"whatsapp_number"`
	Rating            float64  `bson:"rating"`
	ReviewCount       int      `bson:"review_count"`
	Featured          bool     `bson:"featured"`
	Verified          bool     `bson:"verified"`
	CreatedAt         int64    `bson:"created_at"`
	UpdatedAt         int64    `bson:"updated_at"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	return listingDocument{
		ID:                string(l.ID),
		Name:              l.Name,
		Location:          l.Location,
		State:             l.State,
		Price:             l.Price,
		PriceUnit:         string(l.PriceUnit),
		Images:            l.Images,
		Videos:            l.Videos,
		SeasonalImages:    l.SeasonalImages,
		Description:       l.Description,
		ShortDescription:  l.ShortDescription,
		MaxGuests:         l.MaxGuests,
		Bedrooms:          l.Bedrooms,
		Bathrooms:         l.Bathrooms,
		PropertyType:      string(l.PropertyType),
		Views:             tagsToStrings(l.Views),
		Themes:            tagsToStrings(l.Themes),
		Amenities:         l.Amenities,
		NearbyExperiences: l.NearbyExperiences,
		LocalTips:         l.LocalTips,
		HostName:          l.HostName,
		ContactNumber:     l.ContactNumber,
		WhatsAppNumber:    l.WhatsAppNumber,
		Rating:            l.Rating,
		ReviewCount:       l.ReviewCount,
		Featured:          l.Featured,
		Verified:          l.Verified,
		CreatedAt:         timeToTimestamp(l.CreatedAt),
		UpdatedAt:         timeToTimestamp(l.UpdatedAt),
	}
}

func (d listingDocument) toAggregate() *domainlistings.Listing {
	return &domainlistings.Listing{
		ID:                domainlistings.ListingID(d.ID),
		Name:              d.Name,
		Location:          d.Location,
		State:             d.State,
		Price:             d.Price,
		PriceUnit:         domainlistings.PriceUnit(d.PriceUnit),
		Images:            d.Images,
		Videos:            d.Videos,
		SeasonalImages:    d.SeasonalImages,
		Description:       d.Description,
		ShortDescription:  d.ShortDescription,
		MaxGuests:         d.MaxGuests,
		Bedrooms:          d.Bedrooms,
		Bathrooms:         d.Bathrooms,
		PropertyType:      domainlistings.PropertyType(d.PropertyType),
		Views:             stringsToTags[domainlistings.View](d.Views),
		Themes:            stringsToTags[domainlistings.Theme](d.Themes),
		Amenities:         d.Amenities,
		NearbyExperiences: d.NearbyExperiences,
		LocalTips:         d.LocalTips,
		HostName:          d.HostName,
		ContactNumber:     d.ContactNumber,
		WhatsAppNumber:    d.WhatsAppNumber,
		Rating:            d.Rating,
		ReviewCount:       d.ReviewCount,
		Featured:          d.Featured,
		Verified:          d.Verified,
		CreatedAt:         timestampToTime(d.CreatedAt),
		UpdatedAt:         timestampToTime(d.UpdatedAt),
	}
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
