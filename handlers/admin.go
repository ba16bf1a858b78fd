package handlers

import (
	"errors"
	"net/http"

	listingSvc "directory101/services/listing"
	"directory101/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates elevated moderation operations.
type AdminHandler struct {
	Listings listingSvc.ListingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc listingSvc.ListingService) *AdminHandler {
	return &AdminHandler{Listings: svc}
}

// SearchListingsHandler runs the administrative query mode, which also sees
// pending and rejected listings.
func (ah *AdminHandler) SearchListingsHandler(c *gin.Context) {
	q := queryFromRequest(c)

	result, err := ah.Listings.AdminSearch(c.Request.Context(), q)
	if err != nil {
		zap.L().Error("Admin listing search failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Listing query failed", "Please try again.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      result.Items,
		"totalCount": result.TotalCount,
		"totalPages": result.TotalPages(),
		"page":       q.Page,
	})
}

// ApproveListingHandler approves a pending listing.
func (ah *AdminHandler) ApproveListingHandler(c *gin.Context) {
	ah.moderate(c, true)
}

// RejectListingHandler rejects a pending listing.
func (ah *AdminHandler) RejectListingHandler(c *gin.Context) {
	ah.moderate(c, false)
}

func (ah *AdminHandler) moderate(c *gin.Context, approve bool) {
	id := c.Param("id")
	err := ah.Listings.Moderate(c.Request.Context(), id, approve)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Listing moderated"})
	case errors.Is(err, listingSvc.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
	default:
		zap.L().Error("Listing moderation failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to moderate listing"})
	}
}

// DeleteListingHandler removes a listing entirely.
func (ah *AdminHandler) DeleteListingHandler(c *gin.Context) {
	id := c.Param("id")
	err := ah.Listings.Delete(c.Request.Context(), id)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Listing deleted"})
	case errors.Is(err, listingSvc.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
	default:
		zap.L().Error("Listing deletion failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete listing"})
	}
}
