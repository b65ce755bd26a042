package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/credits"
	"quickai-backend/internal/shared/server/respond"
	"quickai-backend/internal/users"
)

const entitlementKey = "entitlement"

// Entitlement resolves the caller's tier, loads or initializes their credit
// ledger, and attaches both to the request context. It runs before every
// chargeable operation; any store failure fails the whole request.
func Entitlement(userSvc *users.Service, creditSvc *credits.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserIDFromContext(c)
		if userID == "" {
			respond.Failure(c, http.StatusUnauthorized, "missing identity")
			return
		}

		ctx := c.Request.Context()

		plan, err := userSvc.PlanFor(ctx, userID)
		if err != nil {
			respond.Failure(c, http.StatusInternalServerError, "failed to resolve subscription")
			return
		}
		tier := credits.TierFree
		if plan == users.PlanPremium {
			tier = credits.TierPremium
		}

		ledger, err := creditSvc.Ensure(ctx, userID, tier)
		if err != nil {
			respond.Failure(c, http.StatusInternalServerError, "failed to resolve credits")
			return
		}

		c.Set(entitlementKey, credits.Entitlement{UserID: userID, Tier: tier, Ledger: ledger})
		c.Next()
	}
}

// EntitlementFromContext fetches the value stored by Entitlement.
func EntitlementFromContext(c *gin.Context) (credits.Entitlement, bool) {
	if c == nil {
		return credits.Entitlement{}, false
	}
	val, ok := c.Get(entitlementKey)
	if !ok {
		return credits.Entitlement{}, false
	}
	ent, ok := val.(credits.Entitlement)
	return ent, ok
}
