package handler

import (
	"github.com/gin-gonic/gin"

	"supplytrace/internal/middleware"
)

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	User         *UserHandler
	Ingredient   *IngredientHandler
	Product      *ProductHandler
	Approval     *ApprovalHandler
	Traceability *TraceabilityHandler
	Audit        *AuditHandler
	Statistics   *StatisticsHandler

	// LoginGuard, if set, runs in front of POST /login.
	LoginGuard gin.HandlerFunc
}

// Register binds all API routes. Everything except login and logout requires
// a valid access token.
func (hs Handlers) Register(router *gin.Engine, tokens middleware.TokenValidator) {
	public := router.Group("")
	protected := router.Group("", middleware.Authenticate(tokens))

	var guards []gin.HandlerFunc
	if hs.LoginGuard != nil {
		guards = append(guards, hs.LoginGuard)
	}
	hs.User.RegisterRoutes(public, protected, guards...)
	hs.Statistics.RegisterRoutes(protected)
	hs.Ingredient.RegisterRoutes(protected)
	hs.Product.RegisterRoutes(protected)
	hs.Traceability.RegisterRoutes(protected)
	hs.Approval.RegisterRoutes(protected)
	hs.Audit.RegisterRoutes(protected)
}
