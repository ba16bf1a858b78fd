package handlers

import (
	"errors"
	"net/http"

	listingSvc "directory101/services/listing"
	"directory101/services/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const listingPhotoFolder = "directory101/listings"

// StorageHandler serves listing photo uploads.
type StorageHandler struct {
	Storage  storage.StorageService
	Listings listingSvc.ListingService
}

// NewStorageHandler creates a new StorageHandler.
func NewStorageHandler(store storage.StorageService, listings listingSvc.ListingService) *StorageHandler {
	return &StorageHandler{Storage: store, Listings: listings}
}

// UploadListingPhotoHandler stores a profile photo for the caller's listing
// and saves its delivery URL on the record.
func (h *StorageHandler) UploadListingPhotoHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	l, err := h.Listings.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, listingSvc.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		logger.Error("Listing lookup failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listing"})
		return
	}
	if !isOwnerOrAdmin(c, l) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your listing"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing photo file"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable photo file"})
		return
	}
	defer file.Close()

	url, err := h.Storage.UploadImage(c.Request.Context(), file, listingPhotoFolder)
	if err != nil {
		logger.Error("Photo upload failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	l.ImageURL = url
	if _, err := h.Listings.Update(c.Request.Context(), *l); err != nil {
		logger.Error("Failed to save photo URL", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}
