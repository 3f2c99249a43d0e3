package policies

import (
	"context"
	"errors"
)

var (
	ErrUnauthenticated = errors.New("policies: authentication required")
	ErrForbidden       = errors.New("policies: insufficient permissions")
)

// AdminMessage marks commands and queries reserved for the admin panel.
type AdminMessage interface {
	AdminOnly()
}

// AdminPolicy rejects admin messages unless the context carries a principal with
// the admin role. Other messages pass through.
type AdminPolicy struct {
	Role string
}

func (p AdminPolicy) Authorize(ctx context.Context, message any) error {
	if _, ok := message.(AdminMessage); !ok {
		return nil
	}
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	role := p.Role
	if role == "" {
		role = "admin"
	}
	if !principal.HasRole(role) {
		return ErrForbidden
	}
	return nil
}
