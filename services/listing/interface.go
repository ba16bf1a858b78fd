package listing

import (
	"context"

	listingRepo "directory101/database/repository/listing"
	"directory101/models"
	"directory101/services/notification"
)

// ListingService defines the business logic for listing discovery, claims
// and moderation.
type ListingService interface {
	// Browse runs a public search: only approved, active listings are
	// considered no matter what the query asks for.
	Browse(ctx context.Context, q models.ListingQuery) (*models.PageResult, error)
	// AdminSearch runs a moderation search that also sees pending and
	// rejected listings.
	AdminSearch(ctx context.Context, q models.ListingQuery) (*models.PageResult, error)
	// GetBySlug resolves a listing by its public URL slug.
	GetBySlug(ctx context.Context, slug string) (*models.Listing, error)
	// GetByID retrieves a listing by ID regardless of visibility.
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	// Submit accepts a public submission; it enters the queue as pending.
	Submit(ctx context.Context, l models.Listing) (*models.Listing, error)
	// Update replaces an existing listing's editable fields.
	Update(ctx context.Context, l models.Listing) (*models.Listing, error)
	// Delete removes a listing.
	Delete(ctx context.Context, id string) error
	// Moderate approves or rejects a pending listing and notifies the
	// submitter.
	Moderate(ctx context.Context, id string, approve bool) error
	// Claim assigns ownership of an unclaimed listing to the given user.
	Claim(ctx context.Context, id, ownerID, ownerEmail string) error
	// RecordContactClick bumps the listing's contact counter.
	RecordContactClick(ctx context.Context, id string) error
	// SetPlan moves the listing onto a new plan tier (billing webhook path).
	SetPlan(ctx context.Context, id string, plan models.PlanTier) error
}

// DefaultListingService is the production implementation. Cache and Mail
// are optional; a nil cache disables page caching and a nil mailer disables
// notifications.
type DefaultListingService struct {
	Repo  listingRepo.ListingRepository
	Cache ResultCache
	Mail  notification.EmailQueue
}
