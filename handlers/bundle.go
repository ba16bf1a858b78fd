// File: directory101/handlers/bundle.go
package handlers

import (
	userRepoPkg "directory101/database/repository/user"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	UserRepo userRepoPkg.UserRepository

	// Listing endpoints
	BrowseListingsHandler     gin.HandlerFunc
	GetListingBySlugHandler   gin.HandlerFunc
	GetListingByIDHandler     gin.HandlerFunc
	SubmitListingHandler      gin.HandlerFunc
	UpdateListingHandler      gin.HandlerFunc
	ClaimListingHandler       gin.HandlerFunc
	ContactClickHandler       gin.HandlerFunc
	UploadListingPhotoHandler gin.HandlerFunc

	// User endpoints
	RegisterUserHandler     gin.HandlerFunc
	AuthenticateUserHandler gin.HandlerFunc
	GetCurrentUserHandler   gin.HandlerFunc
	RevokeTokenHandler      gin.HandlerFunc

	// Billing endpoints
	CreateCheckoutHandler gin.HandlerFunc
	StripeWebhookHandler  gin.HandlerFunc

	// Admin endpoints
	AdminHandler *AdminHandler
}
