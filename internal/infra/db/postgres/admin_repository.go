package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	domainadmin "vibestays/internal/domain/admin"
)

const adminUsersTable = "admin_users"

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) ByID(ctx context.Context, id domainadmin.ID) (*domainadmin.User, error) {
	return r.findOne(ctx, goqu.Ex{"id": string(id)})
}

func (r *AdminRepository) ByEmail(ctx context.Context, email string) (*domainadmin.User, error) {
	return r.findOne(ctx, goqu.Ex{"email": domainadmin.NormalizeEmail(email)})
}

func (r *AdminRepository) Save(ctx context.Context, user *domainadmin.User) error {
	if user == nil || user.ID == "" {
		return domainadmin.ErrIDRequired
	}
	email := domainadmin.NormalizeEmail(user.Email)
	if email == "" {
		return domainadmin.ErrEmailRequired
	}
	values := goqu.Record{
		"email":         email,
		"name":          user.Name,
		"password_hash": user.PasswordHash,
		"role":          string(domainadmin.NormalizeRole(user.Role)),
		"updated_at":    user.UpdatedAt.UTC(),
	}
	row := goqu.Record{"id": string(user.ID), "created_at": user.CreatedAt.UTC()}
	for k, v := range values {
		row[k] = v
	}
	query, args, err := dialect.Insert(adminUsersTable).Rows(row).
		OnConflict(goqu.DoUpdate("id", values)).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("postgres: build admin upsert: %w", err)
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, query, args...)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domainadmin.ErrEmailAlreadyUsed
	}
	return err
}

func (r *AdminRepository) findOne(ctx context.Context, where goqu.Ex) (*domainadmin.User, error) {
	query, args, err := dialect.From(adminUsersTable).
		Select("id", "email", "name", "password_hash", "role", "created_at", "updated_at").
		Where(where).Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	var (
		u    domainadmin.User
		id   string
		role sql.NullString
	)
	err = conn(ctx, r.db).QueryRowContext(ctx, query, args...).
		Scan(&id, &u.Email, &u.Name, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainadmin.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.ID = domainadmin.ID(id)
	u.Role = domainadmin.NormalizeRole(domainadmin.Role(role.String))
	return &u, nil
}

var _ domainadmin.Repository = (*AdminRepository)(nil)
