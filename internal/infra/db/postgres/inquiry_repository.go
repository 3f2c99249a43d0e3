package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	domainleads "vibestays/internal/domain/leads"
	domainlistings "vibestays/internal/domain/listings"
)

const inquiriesTable = "inquiries"

var inquiryColumns = []any{
	"id", "name", "email", "phone", "message", "property_name", "location", "property_id", "status", "created_at", "handled_at",
}

type InquiryRepository struct {
	db *sql.DB
}

func NewInquiryRepository(db *sql.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) ByID(ctx context.Context, id domainleads.InquiryID) (*domainleads.Inquiry, error) {
	query, args, err := dialect.From(inquiriesTable).Select(inquiryColumns...).
		Where(goqu.Ex{"id": string(id)}).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("postgres: build inquiry query: %w", err)
	}
	inquiry, err := scanInquiry(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainleads.ErrNotFound
	}
	return inquiry, err
}

func (r *InquiryRepository) List(ctx context.Context, filter domainleads.ListFilter) ([]*domainleads.Inquiry, error) {
	query, args, err := listInquiries(filter).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("postgres: build inquiries query: %w", err)
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domainleads.Inquiry
	for rows.Next() {
		inquiry, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inquiry)
	}
	return out, rows.Err()
}

func (r *InquiryRepository) Save(ctx context.Context, inquiry *domainleads.Inquiry) error {
	if inquiry == nil || inquiry.ID == "" {
		return domainleads.ErrNotFound
	}
	values := goqu.Record{
		"name":          inquiry.Name,
		"email":         inquiry.Email,
		"phone":         inquiry.Phone,
		"message":       inquiry.Message,
		"property_name": inquiry.PropertyName,
		"location":      inquiry.Location,
		"property_id":   sql.NullString{String: string(inquiry.ListingID), Valid: inquiry.ListingID != ""},
		"status":        string(inquiry.Status),
		"handled_at":    sql.NullTime{Time: inquiry.HandledAt.UTC(), Valid: !inquiry.HandledAt.IsZero()},
	}
	row := goqu.Record{"id": string(inquiry.ID), "created_at": inquiry.CreatedAt.UTC()}
	for k, v := range values {
		row[k] = v
	}
	query, args, err := dialect.Insert(inquiriesTable).Rows(row).
		OnConflict(goqu.DoUpdate("id", values)).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("postgres: build inquiry upsert: %w", err)
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, query, args...)
	return err
}

func listInquiries(filter domainleads.ListFilter) *goqu.SelectDataset {
	ds := dialect.From(inquiriesTable).Select(inquiryColumns...).
		Order(goqu.C("created_at").Desc()).Prepared(true)
	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": string(filter.Status)})
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}
	return ds
}

func scanInquiry(row scanner) (*domainleads.Inquiry, error) {
	var (
		in         domainleads.Inquiry
		id, status string
		listingID  sql.NullString
		handledAt  sql.NullTime
	)
	err := row.Scan(&id, &in.Name, &in.Email, &in.Phone, &in.Message, &in.PropertyName, &in.Location,
		&listingID, &status, &in.CreatedAt, &handledAt)
	if err != nil {
		return nil, err
	}
	in.ID = domainleads.InquiryID(id)
	in.ListingID = domainlistings.ListingID(listingID.String)
	in.Status = domainleads.Status(status)
	in.CreatedAt = in.CreatedAt.UTC()
	if handledAt.Valid {
		in.HandledAt = handledAt.Time.UTC()
	}
	return &in, nil
}

var _ domainleads.Repository = (*InquiryRepository)(nil)
