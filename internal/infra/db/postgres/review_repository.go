package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	domainlistings "vibestays/internal/domain/listings"
	domainreviews "vibestays/internal/domain/reviews"
)

const reviewsTable = "reviews"

var reviewColumns = []any{"id", "property_id", "guest_name", "rating", "comment", "verified", "approved", "created_at"}

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreviews.ReviewID) (*domainreviews.Review, error) {
	query, args, err := dialect.From(reviewsTable).Select(reviewColumns...).
		Where(goqu.Ex{"id": string(id)}).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("postgres: build review query: %w", err)
	}
	review, err := scanReview(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainreviews.ErrNotFound
	}
	return review, err
}

func (r *ReviewRepository) ListByListing(ctx context.Context, listingID domainlistings.ListingID, approvedOnly bool) ([]*domainreviews.Review, error) {
	where := goqu.Ex{"property_id": string(listingID)}
	if approvedOnly {
		where["approved"] = true
	}
	return r.list(ctx, where)
}

func (r *ReviewRepository) List(ctx context.Context, filter domainreviews.ListFilter) ([]*domainreviews.Review, error) {
	return r.list(ctx, reviewFilter(filter))
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	if review == nil || review.ID == "" {
		return domainreviews.ErrNotFound
	}
	values := goqu.Record{
		"property_id": string(review.ListingID),
		"guest_name":  review.GuestName,
		"rating":      review.Rating,
		"comment":     review.Comment,
		"verified":    review.Verified,
		"approved":    review.Approved,
	}
	row := goqu.Record{"id": string(review.ID), "created_at": review.CreatedAt.UTC()}
	for k, v := range values {
		row[k] = v
	}
	query, args, err := dialect.Insert(reviewsTable).Rows(row).
		OnConflict(goqu.DoUpdate("id", values)).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("postgres: build review upsert: %w", err)
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, query, args...)
	return err
}

func (r *ReviewRepository) Delete(ctx context.Context, id domainreviews.ReviewID) error {
	query, args, err := dialect.Delete(reviewsTable).Where(goqu.Ex{"id": string(id)}).Prepared(true).ToSQL()
	if err != nil {
		return err
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domainreviews.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) list(ctx context.Context, where goqu.Ex) ([]*domainreviews.Review, error) {
	query, args, err := dialect.From(reviewsTable).Select(reviewColumns...).Where(where).
		Order(goqu.C("created_at").Desc()).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("postgres: build reviews query: %w", err)
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domainreviews.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, review)
	}
	return out, rows.Err()
}

func reviewFilter(filter domainreviews.ListFilter) goqu.Ex {
	where := goqu.Ex{}
	if filter.ListingID != "" {
		where["property_id"] = string(filter.ListingID)
	}
	if filter.PendingOnly {
		where["approved"] = goqu.Op{"isNot": true}
	}
	return where
}

func scanReview(row scanner) (*domainreviews.Review, error) {
	var (
		rv                 domainreviews.Review
		id, listingID      string
		verified, approved sql.NullBool
	)
	if err := row.Scan(&id, &listingID, &rv.GuestName, &rv.Rating, &rv.Comment, &verified, &approved, &rv.CreatedAt); err != nil {
		return nil, err
	}
	rv.ID = domainreviews.ReviewID(id)
	rv.ListingID = domainlistings.ListingID(listingID)
	rv.Verified, rv.Approved = verified.Bool, approved.Bool
	rv.CreatedAt = rv.CreatedAt.UTC()
	return &rv, nil
}

var _ domainreviews.Repository = (*ReviewRepository)(nil)
