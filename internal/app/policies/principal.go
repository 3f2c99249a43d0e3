package policies

import (
	"context"
	"strings"
)

// Principal is the authenticated admin behind a request.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

func (p Principal) HasRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	return role != "" && strings.ToLower(p.Role) == role
}

type principalKey struct{}

func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
