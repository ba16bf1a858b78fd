package listingRepo

import (
	"context"

	"directory101/models"
)

// ListingRepository is the seam between the listing service and whichever
// backing store is active. Every implementation honors the same query
// semantics:
//
//   - Filters are conjunctive; an absent filter imposes no constraint.
//     Category and age-range filters are exact membership tests; region and
//     free text match case-insensitively.
//   - Unless the query sets IncludeAll, only publicly visible listings
//     (status approved and active) are considered.
//   - Ordering follows the query's sort key with ties broken on ID
//     ascending, so repeated queries paginate identically.
//   - The page window is (page-1)*PageSize; a page past the end yields an
//     empty item list with the true total count.
//   - Store failures surface as ErrQueryFailed, never as an empty result.
type ListingRepository interface {
	// Search runs one filtered read plus one count over identical criteria.
	Search(ctx context.Context, q models.ListingQuery) (*models.PageResult, error)
	// GetByID retrieves a listing by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	// GetBySlug retrieves a listing by its derived URL slug.
	GetBySlug(ctx context.Context, slug string) (*models.Listing, error)
	// Create inserts a new listing record.
	Create(ctx context.Context, l *models.Listing) error
	// Update replaces an existing listing record.
	Update(ctx context.Context, l *models.Listing) error
	// Delete removes a listing record by its ID.
	Delete(ctx context.Context, id string) error
	// Claim marks the listing as owned by ownerID. The update is conditional
	// on the listing being unclaimed and is applied store-side, so exactly
	// one of two concurrent claims can win. Returns ErrAlreadyClaimed when
	// the listing already has an owner.
	Claim(ctx context.Context, id, ownerID string) error
	// IncrementContactClicks bumps the contact-click counter atomically.
	// Best-effort accuracy under race is acceptable for this counter.
	IncrementContactClicks(ctx context.Context, id string) error
	// SetStatus updates the moderation status.
	SetStatus(ctx context.Context, id string, status models.ListingStatus) error
	// SetPlan updates the paid plan tier.
	SetPlan(ctx context.Context, id string, plan models.PlanTier) error
}
