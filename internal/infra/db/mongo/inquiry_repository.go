package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainleads "vibestays/internal/domain/leads"
	domainlistings "vibestays/internal/domain/listings"
)

const inquiriesCollection = "inquiries"

type InquiryRepository struct {
	col *mongo.Collection
}

func NewInquiryRepository(db *mongo.Database) *InquiryRepository {
	return &InquiryRepository{col: db.Collection(inquiriesCollection)}
}

func (r *InquiryRepository) ByID(ctx context.Context, id domainleads.InquiryID) (*domainleads.Inquiry, error) {
	var doc inquiryDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainleads.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *InquiryRepository) List(ctx context.Context, filter domainleads.ListFilter) ([]*domainleads.Inquiry, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []inquiryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domainleads.Inquiry, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toAggregate())
	}
	return out, nil
}

func (r *InquiryRepository) Save(ctx context.Context, inquiry *domainleads.Inquiry) error {
	if inquiry == nil || inquiry.ID == "" {
		return domainleads.ErrNotFound
	}
	doc := newInquiryDocument(inquiry)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

type inquiryDocument struct {
	ID           string `bson:"_id"`
	Name         string `bson:"name"`
	Email        string `bson:"email"`
	Phone        string `bson:"phone,omitempty"`
	Message      string `bson:"message"`
	PropertyName string `bson:"property_name,omitempty"`
	Location     string `bson:"location,omitempty"`
	ListingID    string `bson:"listing_id,omitempty"`
	Status       string `bson:"status"`
	CreatedAt    int64  `bson:"created_at"`
	HandledAt    int64  `bson:"handled_at,omitempty"`
}

func newInquiryDocument(i *domainleads.Inquiry) inquiryDocument {
	return inquiryDocument{
		ID:           string(i.ID),
		Name:         i.Name,
		Email:        i.Email,
		Phone:        i.Phone,
		Message:      i.Message,
		PropertyName: i.PropertyName,
		Location:     i.Location,
		ListingID:    string(i.ListingID),
		Status:       string(i.Status),
		CreatedAt:    timeToTimestamp(i.CreatedAt),
		HandledAt:    timeToTimestamp(i.HandledAt),
	}
}

func (d inquiryDocument) toAggregate() *domainleads.Inquiry {
	return &domainleads.Inquiry{
		ID:           domainleads.InquiryID(d.ID),
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		Message:      d.Message,
		PropertyName: d.PropertyName,
		Location:     d.Location,
		ListingID:    domainlistings.ListingID(d.ListingID),
		Status:       domainleads.Status(d.Status),
		CreatedAt:    timestampToTime(d.CreatedAt),
		HandledAt:    timestampToTime(d.HandledAt),
	}
}

var _ domainleads.Repository = (*InquiryRepository)(nil)
