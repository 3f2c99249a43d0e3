package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "vibestays/internal/domain/listings"
	domainreviews "vibestays/internal/domain/reviews"
)

const reviewsCollection = "reviews"

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(reviewsCollection)}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreviews.ReviewID) (*domainreviews.Review, error) {
	var doc reviewDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreviews.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReviewRepository) ListByListing(ctx context.Context, listingID domainlistings.ListingID, approvedOnly bool) ([]*domainreviews.Review, error) {
	filter := bson.M{"listing_id": string(listingID)}
	if approvedOnly {
		filter["approved"] = true
	}
	return r.find(ctx, filter)
}

func (r *ReviewRepository) List(ctx context.Context, filter domainreviews.ListFilter) ([]*domainreviews.Review, error) {
	query := bson.M{}
	if filter.ListingID != "" {
		query["listing_id"] = string(filter.ListingID)
	}
	if filter.PendingOnly {
		query["approved"] = false
	}
	return r.find(ctx, query)
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	if review == nil || review.ID == "" {
		return domainreviews.ErrNotFound
	}
	doc := newReviewDocument(review)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *ReviewRepository) Delete(ctx context.Context, id domainreviews.ReviewID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainreviews.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) find(ctx context.Context, filter bson.M) ([]*domainreviews.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []reviewDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domainreviews.Review, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toAggregate())
	}
	return out, nil
}

type reviewDocument struct {
	ID        string `bson:"_id"`
	ListingID string `bson:"listing_id"`
	GuestName string `bson:"guest_name"`
	Rating    int    `bson:"rating"`
	Comment   string `bson:"comment"`
	Verified  bool   `bson:"verified"`
	Approved  bool   `bson:"approved"`
	CreatedAt int64  `bson:"created_at"`
}

func newReviewDocument(r *domainreviews.Review) reviewDocument {
	return reviewDocument{
		ID:        string(r.ID),
		ListingID: string(r.ListingID),
		GuestName: r.GuestName,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Verified:  r.Verified,
		Approved:  r.Approved,
		CreatedAt: timeToTimestamp(r.CreatedAt),
	}
}

func (d reviewDocument) toAggregate() *domainreviews.Review {
	return &domainreviews.Review{
		ID:        domainreviews.ReviewID(d.ID),
		ListingID: domainlistings.ListingID(d.ListingID),
		GuestName: d.GuestName,
		Rating:    d.Rating,
		Comment:   d.Comment,
		Verified:  d.Verified,
		Approved:  d.Approved,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}

var _ domainreviews.Repository = (*ReviewRepository)(nil)
