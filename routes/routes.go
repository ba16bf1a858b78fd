package routes

import (
	"net/http"
	"time"

	"directory101/handlers"
	"directory101/middleware"
	"directory101/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterListingRoutes registers public discovery and owner endpoints.
func RegisterListingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/listings")
	{
		// Public discovery endpoints. The browse handler backs both the
		// page render and the incremental "load more" path.
		api.GET("", hb.BrowseListingsHandler)
		api.GET("/slug/:slug", hb.GetListingBySlugHandler)
		api.POST("", hb.SubmitListingHandler)
		api.POST("/:id/contact-click", hb.ContactClickHandler)

		// Endpoints that read private state or modify a listing require
		// authentication.
		protected := api.Group("")
		protected.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		protected.GET("/id/:id", hb.GetListingByIDHandler)
		protected.PUT("/:id", hb.UpdateListingHandler)
		protected.POST("/:id/claim", hb.ClaimListingHandler)
		protected.POST("/:id/photo", hb.UploadListingPhotoHandler)
	}
}

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.RegisterUserHandler)
		api.POST("/login", hb.AuthenticateUserHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.GET("/me", hb.GetCurrentUserHandler)
		api.DELETE("/revoke", hb.RevokeTokenHandler)
	}
}

// RegisterBillingRoutes registers checkout and the Stripe webhook. The
// webhook authenticates with its signature, not a session.
func RegisterBillingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/billing")
	{
		api.POST("/webhook", hb.StripeWebhookHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		protected.POST("/checkout", hb.CreateCheckoutHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for moderation.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo), middleware.JWTAuthAdminMiddleware())
		adminGroup.GET("/listings", hb.AdminHandler.SearchListingsHandler)
		adminGroup.PUT("/listings/:id/approve", hb.AdminHandler.ApproveListingHandler)
		adminGroup.PUT("/listings/:id/reject", hb.AdminHandler.RejectListingHandler)
		adminGroup.DELETE("/listings/:id", hb.AdminHandler.DeleteListingHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterListingRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterBillingRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
