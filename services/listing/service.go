package listing

import (
	"context"
	"fmt"
	"time"

	"directory101/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Browse runs a public search. The public path never sees non-visible
// listings regardless of what the caller put in the query.
func (s *DefaultListingService) Browse(ctx context.Context, q models.ListingQuery) (*models.PageResult, error) {
	q.IncludeAll = false
	q = q.Normalized()

	if s.Cache != nil {
		if cached := s.Cache.Get(ctx, q); cached != nil {
			return cached, nil
		}
	}

	result, err := s.Repo.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, q, result)
	}
	return result, nil
}

// AdminSearch is the moderation query mode: it sees pending and rejected
// listings and bypasses the page cache.
func (s *DefaultListingService) AdminSearch(ctx context.Context, q models.ListingQuery) (*models.PageResult, error) {
	q.IncludeAll = true
	return s.Repo.Search(ctx, q.Normalized())
}

// GetBySlug resolves a listing by its public URL slug.
func (s *DefaultListingService) GetBySlug(ctx context.Context, slug string) (*models.Listing, error) {
	return s.Repo.GetBySlug(ctx, slug)
}

// GetByID retrieves a listing by ID regardless of visibility.
func (s *DefaultListingService) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	return s.Repo.GetByID(ctx, id)
}

// Submit accepts a public submission. New listings always start pending,
// active and on the free plan; nothing the submitter sends can change that.
func (s *DefaultListingService) Submit(ctx context.Context, l models.Listing) (*models.Listing, error) {
	if l.Name == "" {
		return nil, fmt.Errorf("listing name is required")
	}

	l.ID = uuid.New().String()
	l.Status = models.StatusPending
	l.Active = true
	l.Plan = models.PlanFree
	l.Featured = false
	l.Comped = false
	l.Claimed = false
	l.OwnerID = ""
	l.ContactClicks = 0
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now

	if err := s.Repo.Create(ctx, &l); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return &l, nil
}

// Update replaces the editable fields of an existing listing. Lifecycle
// fields (status, plan, claim state, counters) are carried over from the
// stored record so an owner edit cannot self-approve or change tiers.
func (s *DefaultListingService) Update(ctx context.Context, l models.Listing) (*models.Listing, error) {
	current, err := s.Repo.GetByID(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	l.Status = current.Status
	l.Plan = current.Plan
	l.Featured = current.Featured
	l.Comped = current.Comped
	l.Claimed = current.Claimed
	l.OwnerID = current.OwnerID
	l.ContactClicks = current.ContactClicks
	l.CreatedAt = current.CreatedAt
	l.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, &l); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return &l, nil
}

// Delete removes a listing.
func (s *DefaultListingService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// Moderate approves or rejects a listing and emails the listed contact.
func (s *DefaultListingService) Moderate(ctx context.Context, id string, approve bool) error {
	l, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	status := models.StatusRejected
	if approve {
		status = models.StatusApproved
	}
	if err := s.Repo.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.invalidateCache(ctx)

	if s.Mail != nil && l.Email != "" {
		subject := "Your listing was not approved"
		body := fmt.Sprintf("Hi %s,\n\nYour Child Actor 101 Directory listing was reviewed and not approved at this time.", l.Name)
		if approve {
			subject = "Your listing is live"
			body = fmt.Sprintf("Hi %s,\n\nYour Child Actor 101 Directory listing has been approved and is now live at /listing/%s.", l.Name, l.Slug)
		}
		if err := s.Mail.Enqueue(l.Email, subject, body); err != nil {
			zap.L().Warn("Failed to enqueue moderation email", zap.String("listing", id), zap.Error(err))
		}
	}
	return nil
}

// Claim assigns ownership of an unclaimed listing. The conditional update is
// delegated to the store so concurrent claims cannot both win.
func (s *DefaultListingService) Claim(ctx context.Context, id, ownerID, ownerEmail string) error {
	if err := s.Repo.Claim(ctx, id, ownerID); err != nil {
		return err
	}
	s.invalidateCache(ctx)

	if s.Mail != nil && ownerEmail != "" {
		body := "You now manage this listing on the Child Actor 101 Directory. Keep your details up to date to stay visible."
		if err := s.Mail.Enqueue(ownerEmail, "Listing claimed", body); err != nil {
			zap.L().Warn("Failed to enqueue claim email", zap.String("listing", id), zap.Error(err))
		}
	}
	return nil
}

// RecordContactClick bumps the contact counter. Counter accuracy is
// best-effort, so no cache invalidation happens here.
func (s *DefaultListingService) RecordContactClick(ctx context.Context, id string) error {
	return s.Repo.IncrementContactClicks(ctx, id)
}

// SetPlan moves the listing onto a new plan tier.
func (s *DefaultListingService) SetPlan(ctx context.Context, id string, plan models.PlanTier) error {
	if err := s.Repo.SetPlan(ctx, id, plan); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *DefaultListingService) invalidateCache(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		zap.L().Warn("Failed to invalidate listing page cache", zap.Error(err))
	}
}
