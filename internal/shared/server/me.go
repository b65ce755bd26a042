package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/credits"
	"quickai-backend/internal/shared/server/middleware"
	"quickai-backend/internal/shared/server/respond"
	"quickai-backend/internal/users"
)

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Failure(c, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	identity := gin.H{"userId": userID}
	if email := middleware.UserEmailFromContext(c); email != "" {
		identity["email"] = email
	}
	if name := middleware.UserNameFromContext(c); name != "" {
		identity["name"] = name
	}
	respond.OK(c, identity)
}

// registerCreditRoutes attaches the /credits endpoint: the caller's tier and
// current ledger.
func registerCreditRoutes(rg *gin.RouterGroup, userSvc *users.Service, creditSvc *credits.Service) {
	rg.GET("/credits", func(c *gin.Context) {
		userID := middleware.UserIDFromContext(c)
		if userID == "" {
			respond.Failure(c, http.StatusUnauthorized, "missing or invalid token")
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
		respond.OK(c, gin.H{"tier": tier, "credits": ledger})
	})
}
