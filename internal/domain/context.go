package domain

import "context"

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const companyIDKey contextKey = "company_id"

// WithCompanyID returns a context carrying the authenticated company id.
func WithCompanyID(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, companyIDKey, companyID)
}

// CompanyIDFromContext extracts the company id set by the HTTP
// middleware. Returns "" when the context carries none.
func CompanyIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(companyIDKey).(string); ok {
		return v
	}
	return ""
}
