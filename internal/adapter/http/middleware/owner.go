package middleware

import (
	"context"
	"net/http"
	"strconv"
)

// ContextKey is the type for context keys.
type ContextKey string

const (
	// OwnerContextKey is the context key for the resolved owner ID.
	OwnerContextKey ContextKey = "owner"
	// PlanLimitContextKey is the context key for the owner's plan
	// account cap.
	PlanLimitContextKey ContextKey = "planLimit"

	// OwnerIDHeader carries the owner identity resolved by the
	// authenticating gateway in front of this service.
	OwnerIDHeader = "X-Owner-ID"
	// PlanAccountLimitHeader carries the owner's active-account cap,
	// resolved by the billing collaborator. Absent means uncapped.
	PlanAccountLimitHeader = "X-Plan-Account-Limit"
)

// Owner extracts the owner identity from the request headers. Requests
// without an owner are rejected; ownership scoping in the use cases
// depends on it.
func Owner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := r.Header.Get(OwnerIDHeader)
		if ownerID == "" {
			http.Error(w, "missing owner identity", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), OwnerContextKey, ownerID)

		if raw := r.Header.Get(PlanAccountLimitHeader); raw != "" {
			if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
				ctx = context.WithValue(ctx, PlanLimitContextKey, limit)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OwnerFromContext extracts the owner ID from context.
func OwnerFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(OwnerContextKey).(string)
	return ownerID, ok
}

// PlanLimitFromContext extracts the plan account cap from context.
// Zero means uncapped.
func PlanLimitFromContext(ctx context.Context) int {
	limit, ok := ctx.Value(PlanLimitContextKey).(int)
	if !ok {
		return 0
	}
	return limit
}
