package billing

import (
	"context"
	"fmt"

	"directory101/models"
	listingSvc "directory101/services/listing"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"
)

// BillingService creates checkout sessions for plan upgrades and applies
// the resulting plan changes when Stripe confirms payment.
type BillingService interface {
	// CreateCheckoutSession returns a hosted checkout URL for upgrading the
	// listing to the given plan.
	CreateCheckoutSession(ctx context.Context, listingID string, plan models.PlanTier) (string, error)
	// HandleCheckoutCompleted applies the purchased plan to the listing.
	HandleCheckoutCompleted(ctx context.Context, listingID string, plan models.PlanTier) error
}

// DefaultBillingService is the production implementation backed by Stripe
// Checkout.
type DefaultBillingService struct {
	Listings   listingSvc.ListingService
	PriceIDs   map[models.PlanTier]string
	SuccessURL string
	CancelURL  string
}

// CreateCheckoutSession builds a Stripe Checkout session for the upgrade.
// The listing ID and target plan travel in the session metadata so the
// webhook can apply them without any local pending state.
func (s *DefaultBillingService) CreateCheckoutSession(ctx context.Context, listingID string, plan models.PlanTier) (string, error) {
	priceID, ok := s.PriceIDs[plan]
	if !ok || priceID == "" {
		return "", fmt.Errorf("no price configured for plan %q", plan)
	}

	// Checkout must target a real listing.
	if _, err := s.Listings.GetByID(ctx, listingID); err != nil {
		return "", err
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(s.SuccessURL),
		CancelURL:         stripe.String(s.CancelURL),
		ClientReferenceID: stripe.String(listingID),
	}
	params.AddMetadata("listing_id", listingID)
	params.AddMetadata("plan", string(plan))

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	zap.L().Info("Checkout session created",
		zap.String("listing", listingID),
		zap.String("plan", string(plan)),
		zap.String("session", sess.ID))
	return sess.URL, nil
}

// HandleCheckoutCompleted applies the purchased plan to the listing.
func (s *DefaultBillingService) HandleCheckoutCompleted(ctx context.Context, listingID string, plan models.PlanTier) error {
	switch plan {
	case models.PlanBasic, models.PlanPro:
	default:
		return fmt.Errorf("unknown plan %q in checkout metadata", plan)
	}
	if err := s.Listings.SetPlan(ctx, listingID, plan); err != nil {
		return fmt.Errorf("failed to apply plan %s to listing %s: %w", plan, listingID, err)
	}
	zap.L().Info("Plan applied from checkout",
		zap.String("listing", listingID),
		zap.String("plan", string(plan)))
	return nil
}
