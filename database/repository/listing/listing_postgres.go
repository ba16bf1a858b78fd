package listingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"directory101/models"

	"gorm.io/gorm"
)

// GormListingRepo implements ListingRepository on Postgres via GORM, with
// the filter set translated into WHERE clauses.
type GormListingRepo struct {
	db *gorm.DB
}

// NewGormListingRepo creates a ListingRepository backed by Postgres.
func NewGormListingRepo(db *gorm.DB) *GormListingRepo {
	return &GormListingRepo{db: db}
}

// applyFilters adds the conjunctive filter set to a listings query.
func applyFilters(tx *gorm.DB, q models.ListingQuery) *gorm.DB {
	if !q.IncludeAll {
		tx = tx.Where("status = ? AND active = ?", string(models.StatusApproved), true)
	}
	if q.Category != "" {
		tx = tx.Where("? = ANY(categories)", q.Category)
	}
	if q.AgeRange != "" {
		tx = tx.Where("? = ANY(age_ranges)", q.AgeRange)
	}
	if q.Region != "" {
		tx = tx.Where("LOWER(region) = LOWER(?)", q.Region)
	}
	if q.Query != "" {
		pattern := "%" + q.Query + "%"
		tx = tx.Where("(name ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}
	return tx
}

// orderClause maps the sort enumeration onto SQL ordering with the ID
// tie-break appended.
func orderClause(key models.SortKey) string {
	switch key {
	case models.SortCreatedAsc:
		return "created_at ASC, id ASC"
	case models.SortUpdatedAsc:
		return "updated_at ASC, id ASC"
	case models.SortUpdatedDesc:
		return "updated_at DESC, id ASC"
	default:
		return "created_at DESC, id ASC"
	}
}

// Search runs the count and the paged read with identical WHERE clauses.
func (r *GormListingRepo) Search(ctx context.Context, q models.ListingQuery) (*models.PageResult, error) {
	q = q.Normalized()

	var total int64
	counted := applyFilters(r.db.WithContext(ctx).Model(&models.Listing{}), q)
	if err := counted.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%w: count: %v", ErrQueryFailed, err)
	}

	items := []models.Listing{}
	paged := applyFilters(r.db.WithContext(ctx).Model(&models.Listing{}), q).
		Order(orderClause(q.Sort)).
		Offset(q.Offset()).
		Limit(models.PageSize)
	if err := paged.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("%w: find: %v", ErrQueryFailed, err)
	}

	return &models.PageResult{Items: items, TotalCount: total}, nil
}

// GetByID retrieves a listing by its unique ID.
func (r *GormListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	var l models.Listing
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch listing with id %s: %w", id, err)
	}
	return &l, nil
}

// GetBySlug retrieves a listing by its derived slug.
func (r *GormListingRepo) GetBySlug(ctx context.Context, slug string) (*models.Listing, error) {
	var l models.Listing
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch listing with slug %s: %w", slug, err)
	}
	return &l, nil
}

// Create inserts a new listing record.
func (r *GormListingRepo) Create(ctx context.Context, l *models.Listing) error {
	l.DeriveSlug()
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// Update replaces an existing listing record.
func (r *GormListingRepo) Update(ctx context.Context, l *models.Listing) error {
	l.DeriveSlug()
	res := r.db.WithContext(ctx).Model(&models.Listing{}).Where("id = ?", l.ID).Select("*").Updates(l)
	if res.Error != nil {
		return fmt.Errorf("failed to update listing %s: %w", l.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a listing record by its ID.
func (r *GormListingRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Listing{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete listing %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Claim is a single UPDATE guarded by "claimed = false", checked
// server-side, so two racing claims cannot both take ownership.
func (r *GormListingRepo) Claim(ctx context.Context, id, ownerID string) error {
	res := r.db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ? AND claimed = ?", id, false).
		Updates(map[string]any{
			"claimed":    true,
			"owner_id":   ownerID,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to claim listing %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyClaimed
	}
	return nil
}

// IncrementContactClicks bumps the counter in SQL so the increment is atomic.
func (r *GormListingRepo) IncrementContactClicks(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ?", id).
		UpdateColumn("contact_clicks", gorm.Expr("contact_clicks + 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to increment contact clicks for %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus updates the moderation status.
func (r *GormListingRepo) SetStatus(ctx context.Context, id string, status models.ListingStatus) error {
	return r.patch(ctx, id, map[string]any{"status": string(status)})
}

// SetPlan updates the paid plan tier.
func (r *GormListingRepo) SetPlan(ctx context.Context, id string, plan models.PlanTier) error {
	return r.patch(ctx, id, map[string]any{"plan": string(plan)})
}

func (r *GormListingRepo) patch(ctx context.Context, id string, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&models.Listing{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to patch listing %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
