package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"directory101/models"
	listingSvc "directory101/services/listing"
	"directory101/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListingHandler serves public listing discovery and submission endpoints.
type ListingHandler struct {
	Service listingSvc.ListingService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(svc listingSvc.ListingService) *ListingHandler {
	return &ListingHandler{Service: svc}
}

// queryFromRequest builds a ListingQuery from URL parameters. Malformed
// values are clamped, never rejected: a non-numeric page becomes page 1 and
// an unknown sort key falls back to the default ordering.
func queryFromRequest(c *gin.Context) models.ListingQuery {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = 1
	}
	return models.ListingQuery{
		Query:    c.Query("query"),
		Category: c.Query("category"),
		AgeRange: c.Query("age_range"),
		Region:   c.Query("region"),
		Sort:     models.ParseSortKey(c.Query("sort")),
		Page:     page,
	}.Normalized()
}

// browsePayload is one page of listings plus the metadata the directory
// pages render around it.
type browsePayload struct {
	*models.PageResult
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
	Categories []models.Category `json:"categories"`
}

// BrowseListingsHandler serves the public listing search. The same response
// shape backs both full page renders and incremental "load more" requests.
func (h *ListingHandler) BrowseListingsHandler(c *gin.Context) {
	logger := getLogger(c)
	q := queryFromRequest(c)

	result, err := h.Service.Browse(c.Request.Context(), q)
	if err != nil {
		logger.Error("Listing browse failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Listing query failed", "The directory is temporarily unavailable. Please try again.")
		return
	}

	c.JSON(http.StatusOK, browsePayload{
		PageResult: result,
		Page:       q.Page,
		PageSize:   models.PageSize,
		TotalPages: result.TotalPages(),
		Categories: models.Categories,
	})
}

// GetListingBySlugHandler resolves a listing detail page by its URL slug.
// Non-public listings 404 for everyone but their owner and admins.
func (h *ListingHandler) GetListingBySlugHandler(c *gin.Context) {
	logger := getLogger(c)
	slug := c.Param("slug")

	l, err := h.Service.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, listingSvc.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		logger.Error("Listing lookup failed", zap.String("slug", slug), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Listing query failed", "Please try again.")
		return
	}

	if !l.IsPublic() && !isOwnerOrAdmin(c, l) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	c.JSON(http.StatusOK, l)
}

// GetListingByIDHandler retrieves a listing by ID for its owner or an admin.
func (h *ListingHandler) GetListingByIDHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	l, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, listingSvc.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		logger.Error("Listing lookup failed", zap.String("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Listing query failed", "Please try again.")
		return
	}
	if !isOwnerOrAdmin(c, l) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your listing"})
		return
	}
	c.JSON(http.StatusOK, l)
}

// SubmitListingHandler accepts a public listing submission.
func (h *ListingHandler) SubmitListingHandler(c *gin.Context) {
	logger := getLogger(c)
	var l models.Listing
	if err := c.ShouldBindJSON(&l); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	created, err := h.Service.Submit(c.Request.Context(), l)
	if err != nil {
		logger.Error("Listing submission failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateListingHandler lets the owner edit their listing.
func (h *ListingHandler) UpdateListingHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	current, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, listingSvc.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		logger.Error("Listing lookup failed", zap.String("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Listing query failed", "Please try again.")
		return
	}
	if !isOwnerOrAdmin(c, current) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your listing"})
		return
	}

	var l models.Listing
	if err := c.ShouldBindJSON(&l); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	l.ID = id // Ensure the ID is set.

	updated, err := h.Service.Update(c.Request.Context(), l)
	if err != nil {
		logger.Error("Listing update failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ClaimListingHandler lets an authenticated user claim an unowned listing.
func (h *ListingHandler) ClaimListingHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")
	userID := c.GetString("userID")
	email := c.GetString("userEmail")

	err := h.Service.Claim(c.Request.Context(), id, userID, email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Listing claimed"})
	case errors.Is(err, listingSvc.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
	case errors.Is(err, listingSvc.ErrAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": "Listing already claimed"})
	default:
		logger.Error("Listing claim failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim listing"})
	}
}

// ContactClickHandler records a contact-link click.
func (h *ListingHandler) ContactClickHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Service.RecordContactClick(c.Request.Context(), id); err != nil {
		if errors.Is(err, listingSvc.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		getLogger(c).Warn("Contact click not recorded", zap.String("id", id), zap.Error(err))
	}
	// The click itself matters more than the count; always acknowledge.
	c.JSON(http.StatusOK, gin.H{"message": "Recorded"})
}

// isOwnerOrAdmin reports whether the authenticated caller owns the listing
// or has the admin role. Unauthenticated requests have neither.
func isOwnerOrAdmin(c *gin.Context, l *models.Listing) bool {
	if c.GetString("userRole") == models.RoleAdmin {
		return true
	}
	userID := c.GetString("userID")
	return userID != "" && l.OwnerID == userID
}
