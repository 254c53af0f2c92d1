package auth

import "context"

type contextKey struct{}

// AuthContext is the trusted caller identity for a request. Owners is the
// visible owner-set: the caller plus an accepted partner, if any.
type AuthContext struct {
	UserID    string
	SessionID int64
	PartnerID string
	Owners    []string
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func UserID(ctx context.Context) string {
	ac, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return ac.UserID
}

func PartnerID(ctx context.Context) string {
	ac, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return ac.PartnerID
}

// Owners returns the visible owner-set. Without an AuthContext it is empty and
// matches nothing.
func Owners(ctx context.Context) []string {
	ac, ok := FromContext(ctx)
	if !ok {
		return nil
	}
	return ac.Owners
}
