package listingRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"directory101/models"

	"github.com/go-redis/redis/v8"
)

const listingsKey = "directory:listings"

// claimRetries bounds the optimistic-transaction retry loop for Claim.
const claimRetries = 5

// RedisListingRepo implements ListingRepository on Redis. Records live as
// JSON values in a single hash and the filter formula is evaluated in
// process over the fetched set, the way flat record-store APIs behave.
type RedisListingRepo struct {
	client *redis.Client
}

// NewRedisListingRepo creates a ListingRepository backed by Redis.
func NewRedisListingRepo(client *redis.Client) *RedisListingRepo {
	return &RedisListingRepo{client: client}
}

// loadAll fetches and decodes every stored listing.
func (r *RedisListingRepo) loadAll(ctx context.Context) ([]models.Listing, error) {
	raw, err := r.client.HGetAll(ctx, listingsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: hgetall: %v", ErrQueryFailed, err)
	}
	listings := make([]models.Listing, 0, len(raw))
	for id, data := range raw {
		var l models.Listing
		if err := json.Unmarshal([]byte(data), &l); err != nil {
			return nil, fmt.Errorf("%w: decode record %s: %v", ErrQueryFailed, id, err)
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// Search filters, sorts and windows the record set in process. The total is
// the size of the filtered set, so it always agrees with the window.
func (r *RedisListingRepo) Search(ctx context.Context, q models.ListingQuery) (*models.PageResult, error) {
	q = q.Normalized()

	all, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := []models.Listing{}
	for i := range all {
		l := &all[i]
		if !q.IncludeAll && !l.IsPublic() {
			continue
		}
		if q.MatchesFilters(l) {
			matched = append(matched, *l)
		}
	}
	models.SortListings(matched, q.Sort)

	total := int64(len(matched))
	start := q.Offset()
	if start >= len(matched) {
		return &models.PageResult{Items: []models.Listing{}, TotalCount: total}, nil
	}
	end := start + models.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return &models.PageResult{Items: matched[start:end], TotalCount: total}, nil
}

func (r *RedisListingRepo) get(ctx context.Context, id string) (*models.Listing, error) {
	data, err := r.client.HGet(ctx, listingsKey, id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing %s: %w", id, err)
	}
	var l models.Listing
	if err := json.Unmarshal([]byte(data), &l); err != nil {
		return nil, fmt.Errorf("failed to decode listing %s: %w", id, err)
	}
	return &l, nil
}

func (r *RedisListingRepo) put(ctx context.Context, l *models.Listing) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode listing %s: %w", l.ID, err)
	}
	if err := r.client.HSet(ctx, listingsKey, l.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to store listing %s: %w", l.ID, err)
	}
	return nil
}

// GetByID retrieves a listing by its unique ID.
func (r *RedisListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	return r.get(ctx, id)
}

// GetBySlug scans the record set for a matching derived slug. The store has
// no secondary index, so this is a full-set lookup.
func (r *RedisListingRepo) GetBySlug(ctx context.Context, slug string) (*models.Listing, error) {
	all, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Slug == slug {
			return &all[i], nil
		}
	}
	return nil, ErrNotFound
}

// Create inserts a new listing record.
func (r *RedisListingRepo) Create(ctx context.Context, l *models.Listing) error {
	l.DeriveSlug()
	return r.put(ctx, l)
}

// Update replaces an existing listing record.
func (r *RedisListingRepo) Update(ctx context.Context, l *models.Listing) error {
	if _, err := r.get(ctx, l.ID); err != nil {
		return err
	}
	l.DeriveSlug()
	return r.put(ctx, l)
}

// Delete removes a listing record by its ID.
func (r *RedisListingRepo) Delete(ctx context.Context, id string) error {
	n, err := r.client.HDel(ctx, listingsKey, id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete listing %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Claim uses WATCH so the check-then-set runs as an optimistic transaction:
// if another writer touches the record set between the read and the write,
// the transaction aborts and the claim is re-checked.
func (r *RedisListingRepo) Claim(ctx context.Context, id, ownerID string) error {
	txn := func(tx *redis.Tx) error {
		data, err := tx.HGet(ctx, listingsKey, id).Result()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to fetch listing %s: %w", id, err)
		}
		var l models.Listing
		if err := json.Unmarshal([]byte(data), &l); err != nil {
			return fmt.Errorf("failed to decode listing %s: %w", id, err)
		}
		if l.Claimed {
			return ErrAlreadyClaimed
		}
		l.Claimed = true
		l.OwnerID = ownerID
		l.UpdatedAt = time.Now()
		encoded, err := json.Marshal(&l)
		if err != nil {
			return fmt.Errorf("failed to encode listing %s: %w", id, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, listingsKey, id, encoded)
			return nil
		})
		return err
	}

	for i := 0; i < claimRetries; i++ {
		err := r.client.Watch(ctx, txn, listingsKey)
		if err == redis.TxFailedErr {
			continue
		}
		return err
	}
	return fmt.Errorf("failed to claim listing %s: too many conflicting writes", id)
}

// IncrementContactClicks does a read-modify-write; the counter tolerates
// best-effort accuracy under race.
func (r *RedisListingRepo) IncrementContactClicks(ctx context.Context, id string) error {
	l, err := r.get(ctx, id)
	if err != nil {
		return err
	}
	l.ContactClicks++
	return r.put(ctx, l)
}

// SetStatus updates the moderation status.
func (r *RedisListingRepo) SetStatus(ctx context.Context, id string, status models.ListingStatus) error {
	l, err := r.get(ctx, id)
	if err != nil {
		return err
	}
	l.Status = status
	l.UpdatedAt = time.Now()
	return r.put(ctx, l)
}

// SetPlan updates the paid plan tier.
func (r *RedisListingRepo) SetPlan(ctx context.Context, id string, plan models.PlanTier) error {
	l, err := r.get(ctx, id)
	if err != nil {
		return err
	}
	l.Plan = plan
	l.UpdatedAt = time.Now()
	return r.put(ctx, l)
}
