package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"directory101/config"
	"directory101/models"
	billingSvc "directory101/services/billing"
	listingSvc "directory101/services/listing"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// BillingHandler serves plan-upgrade checkout and the Stripe webhook.
type BillingHandler struct {
	Service billingSvc.BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(svc billingSvc.BillingService) *BillingHandler {
	return &BillingHandler{Service: svc}
}

// CreateCheckoutHandler returns a hosted checkout URL for a plan upgrade.
func (h *BillingHandler) CreateCheckoutHandler(c *gin.Context) {
	logger := getLogger(c)
	var req struct {
		ListingID string `json:"listingId" binding:"required"`
		Plan      string `json:"plan" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	url, err := h.Service.CreateCheckoutSession(c.Request.Context(), req.ListingID, models.PlanTier(req.Plan))
	if err != nil {
		if errors.Is(err, listingSvc.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		logger.Error("Checkout session creation failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// StripeWebhookHandler receives Stripe events. Only
// checkout.session.completed changes local state; everything else is
// acknowledged and ignored.
func (h *BillingHandler) StripeWebhookHandler(c *gin.Context) {
	logger := getLogger(c)

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read payload"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), config.AppConfig.StripeWebhookSecret)
	if err != nil {
		logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	if event.Type != "checkout.session.completed" {
		c.JSON(http.StatusOK, gin.H{"message": "Ignored"})
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		logger.Error("Failed to decode checkout session", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
		return
	}

	listingID := session.Metadata["listing_id"]
	plan := models.PlanTier(session.Metadata["plan"])
	if listingID == "" {
		logger.Warn("Checkout session missing listing metadata", zap.String("session", session.ID))
		c.JSON(http.StatusOK, gin.H{"message": "Ignored"})
		return
	}

	if err := h.Service.HandleCheckoutCompleted(c.Request.Context(), listingID, plan); err != nil {
		logger.Error("Failed to apply checkout", zap.String("listing", listingID), zap.Error(err))
		// Non-2xx makes Stripe retry the event.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply plan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Applied"})
}
