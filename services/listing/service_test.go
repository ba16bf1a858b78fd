package listing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	listingRepo "directory101/database/repository/listing"
	"directory101/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memListingRepo is an in-memory ListingRepository for service tests. It
// honors the same query contract as the real backends.
type memListingRepo struct {
	mu       sync.Mutex
	items    map[string]models.Listing
	searches int
}

func newMemListingRepo() *memListingRepo {
	return &memListingRepo{items: make(map[string]models.Listing)}
}

func (m *memListingRepo) Search(ctx context.Context, q models.ListingQuery) (*models.PageResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches++

	q = q.Normalized()
	var matched []models.Listing
	for _, l := range m.items {
		l := l
		if !q.IncludeAll && !l.IsPublic() {
			continue
		}
		if !q.MatchesFilters(&l) {
			continue
		}
		matched = append(matched, l)
	}
	models.SortListings(matched, q.Sort)

	total := len(matched)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := start + models.PageSize
	if end > total {
		end = total
	}
	return &models.PageResult{Items: matched[start:end], TotalCount: int64(total)}, nil
}

func (m *memListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.items[id]
	if !ok {
		return nil, listingRepo.ErrNotFound
	}
	return &l, nil
}

func (m *memListingRepo) GetBySlug(ctx context.Context, slug string) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.items {
		if l.Slug == slug {
			l := l
			return &l, nil
		}
	}
	return nil, listingRepo.ErrNotFound
}

func (m *memListingRepo) Create(ctx context.Context, l *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.DeriveSlug()
	m.items[l.ID] = *l
	return nil
}

func (m *memListingRepo) Update(ctx context.Context, l *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[l.ID]; !ok {
		return listingRepo.ErrNotFound
	}
	l.DeriveSlug()
	m.items[l.ID] = *l
	return nil
}

func (m *memListingRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return listingRepo.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memListingRepo) Claim(ctx context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.items[id]
	if !ok {
		return listingRepo.ErrNotFound
	}
	if l.Claimed {
		return listingRepo.ErrAlreadyClaimed
	}
	l.Claimed = true
	l.OwnerID = ownerID
	l.UpdatedAt = time.Now()
	m.items[id] = l
	return nil
}

func (m *memListingRepo) IncrementContactClicks(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.items[id]
	if !ok {
		return listingRepo.ErrNotFound
	}
	l.ContactClicks++
	m.items[id] = l
	return nil
}

func (m *memListingRepo) SetStatus(ctx context.Context, id string, status models.ListingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.items[id]
	if !ok {
		return listingRepo.ErrNotFound
	}
	l.Status = status
	l.UpdatedAt = time.Now()
	m.items[id] = l
	return nil
}

func (m *memListingRepo) SetPlan(ctx context.Context, id string, plan models.PlanTier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.items[id]
	if !ok {
		return listingRepo.ErrNotFound
	}
	l.Plan = plan
	l.UpdatedAt = time.Now()
	m.items[id] = l
	return nil
}

// memPageCache is an in-memory ResultCache for service tests.
type memPageCache struct {
	mu    sync.Mutex
	pages map[string]*models.PageResult
}

func newMemPageCache() *memPageCache {
	return &memPageCache{pages: make(map[string]*models.PageResult)}
}

func (c *memPageCache) Get(ctx context.Context, q models.ListingQuery) *models.PageResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pages[q.CacheKey()]
}

func (c *memPageCache) Set(ctx context.Context, q models.ListingQuery, result *models.PageResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[q.CacheKey()] = result
}

func (c *memPageCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = make(map[string]*models.PageResult)
	return nil
}

// memEmailQueue records enqueued messages instead of sending them.
type memEmailQueue struct {
	mu   sync.Mutex
	sent []string
}

func (q *memEmailQueue) Enqueue(to, subject, body string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, to+": "+subject)
	return nil
}

func newTestService() (*DefaultListingService, *memListingRepo, *memEmailQueue) {
	repo := newMemListingRepo()
	mail := &memEmailQueue{}
	return &DefaultListingService{Repo: repo, Mail: mail}, repo, mail
}

func seedListing(repo *memListingRepo, id, name, category string, created time.Time) {
	l := models.Listing{
		ID:         id,
		Name:       name,
		Categories: []string{category},
		Status:     models.StatusApproved,
		Active:     true,
		Plan:       models.PlanFree,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	l.DeriveSlug()
	repo.items[id] = l
}

func TestBrowsePaginationScenario(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	// 25 matching listings plus some noise that must not count.
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		seedListing(repo, fmt.Sprintf("id-%02d", i), fmt.Sprintf("Coach %02d", i), "Acting Coaches", base.Add(time.Duration(i)*time.Hour))
	}
	seedListing(repo, "other-cat", "Maria Headshots", "Headshot Photographers", base)
	pending := models.Listing{ID: "pending-1", Name: "Pending Coach", Categories: []string{"Acting Coaches"}, Status: models.StatusPending, Active: true}
	repo.items[pending.ID] = pending

	q := models.ListingQuery{Category: "Acting Coaches", Sort: models.SortCreatedAsc}

	q.Page = 1
	page1, err := svc.Browse(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(25), page1.TotalCount)
	assert.Len(t, page1.Items, models.PageSize)
	assert.Equal(t, 3, page1.TotalPages())

	q.Page = 2
	page2, err := svc.Browse(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(25), page2.TotalCount)
	require.Len(t, page2.Items, models.PageSize)
	assert.Equal(t, "id-12", page2.Items[0].ID)
	assert.Equal(t, "id-23", page2.Items[11].ID)

	q.Page = 3
	page3, err := svc.Browse(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(25), page3.TotalCount)
	require.Len(t, page3.Items, 1)
	assert.Equal(t, "id-24", page3.Items[0].ID)

	// Walking every page covers each match exactly once.
	seen := make(map[string]int)
	for page := 1; page <= 3; page++ {
		q.Page = page
		res, err := svc.Browse(ctx, q)
		require.NoError(t, err)
		for _, l := range res.Items {
			seen[l.ID]++
		}
	}
	assert.Len(t, seen, 25)
	for id, n := range seen {
		assert.Equalf(t, 1, n, "listing %s appeared %d times", id, n)
	}
}

func TestBrowseOutOfRangePage(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedListing(repo, fmt.Sprintf("id-%d", i), fmt.Sprintf("Coach %d", i), "Acting Coaches", time.Now())
	}

	res, err := svc.Browse(ctx, models.ListingQuery{Page: 99})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, int64(5), res.TotalCount)
}

func TestBrowseUnknownSortFallsBack(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	seedListing(repo, "old", "Old Coach", "Acting Coaches", base)
	seedListing(repo, "new", "New Coach", "Acting Coaches", base.Add(time.Hour))

	bogus, err := svc.Browse(ctx, models.ListingQuery{Sort: "rating_desc", Page: 1})
	require.NoError(t, err)
	def, err := svc.Browse(ctx, models.ListingQuery{Page: 1})
	require.NoError(t, err)

	require.Len(t, bogus.Items, 2)
	assert.Equal(t, "new", bogus.Items[0].ID)
	assert.Equal(t, def.Items, bogus.Items)
}

func TestBrowseHidesNonPublic(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	seedListing(repo, "live", "Live Coach", "Acting Coaches", time.Now())
	rejected := models.Listing{ID: "rejected", Name: "Rejected Coach", Categories: []string{"Acting Coaches"}, Status: models.StatusRejected, Active: true}
	inactive := models.Listing{ID: "inactive", Name: "Inactive Coach", Categories: []string{"Acting Coaches"}, Status: models.StatusApproved, Active: false}
	repo.items[rejected.ID] = rejected
	repo.items[inactive.ID] = inactive

	res, err := svc.Browse(ctx, models.ListingQuery{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "live", res.Items[0].ID)

	// Asking for everything on the public path changes nothing.
	res, err = svc.Browse(ctx, models.ListingQuery{IncludeAll: true})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	// The moderation path sees all three.
	res, err = svc.AdminSearch(ctx, models.ListingQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.TotalCount)
}

func TestSubmitForcesLifecycleDefaults(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Submit(ctx, models.Listing{
		Name:          "Jenn's Acting Studio!!",
		Status:        models.StatusApproved,
		Plan:          models.PlanPro,
		Claimed:       true,
		OwnerID:       "sneaky",
		ContactClicks: 42,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.True(t, created.Active)
	assert.Equal(t, models.PlanFree, created.Plan)
	assert.False(t, created.Claimed)
	assert.Empty(t, created.OwnerID)
	assert.Zero(t, created.ContactClicks)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jenns-acting-studio", stored.Slug)
}

func TestSubmitRequiresName(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Submit(context.Background(), models.Listing{})
	assert.Error(t, err)
}

func TestUpdatePreservesLifecycleFields(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	seedListing(repo, "l1", "Original Name", "Acting Coaches", time.Now())
	l := repo.items["l1"]
	l.Plan = models.PlanPro
	l.Claimed = true
	l.OwnerID = "owner-1"
	l.ContactClicks = 7
	repo.items["l1"] = l

	updated, err := svc.Update(ctx, models.Listing{
		ID:     "l1",
		Name:   "New Name",
		Status: models.StatusPending,
		Plan:   models.PlanFree,
	})
	require.NoError(t, err)

	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.Equal(t, models.PlanPro, updated.Plan)
	assert.True(t, updated.Claimed)
	assert.Equal(t, "owner-1", updated.OwnerID)
	assert.Equal(t, int64(7), updated.ContactClicks)
	assert.Equal(t, "new-name", updated.Slug)
}

func TestModerate(t *testing.T) {
	svc, repo, mail := newTestService()
	ctx := context.Background()

	pending := models.Listing{ID: "p1", Name: "Pending Coach", Email: "coach@example.com", Status: models.StatusPending, Active: true}
	pending.DeriveSlug()
	repo.items[pending.ID] = pending

	require.NoError(t, svc.Moderate(ctx, "p1", true))
	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "coach@example.com: Your listing is live", mail.sent[0])

	require.NoError(t, svc.Moderate(ctx, "p1", false))
	got, err = repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)

	assert.ErrorIs(t, svc.Moderate(ctx, "missing", true), ErrNotFound)
}

func TestClaim(t *testing.T) {
	svc, repo, mail := newTestService()
	ctx := context.Background()

	seedListing(repo, "l1", "Claimable Coach", "Acting Coaches", time.Now())

	require.NoError(t, svc.Claim(ctx, "l1", "owner-1", "owner@example.com"))
	got, err := repo.GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.True(t, got.Claimed)
	assert.Equal(t, "owner-1", got.OwnerID)
	require.Len(t, mail.sent, 1)

	assert.ErrorIs(t, svc.Claim(ctx, "l1", "owner-2", "other@example.com"), ErrAlreadyClaimed)
	got, err = repo.GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", got.OwnerID)

	assert.ErrorIs(t, svc.Claim(ctx, "missing", "owner-1", ""), ErrNotFound)
}

func TestClaimConcurrentSingleWinner(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	seedListing(repo, "l1", "Contested Coach", "Acting Coaches", time.Now())

	const claimers = 16
	errs := make([]error, claimers)
	var wg sync.WaitGroup
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Claim(ctx, "l1", fmt.Sprintf("owner-%d", i), "")
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyClaimed)
		}
	}
	assert.Equal(t, 1, winners)

	got, err := repo.GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.True(t, got.Claimed)
	assert.NotEmpty(t, got.OwnerID)
}

func TestBrowseCacheHit(t *testing.T) {
	repo := newMemListingRepo()
	cache := newMemPageCache()
	svc := &DefaultListingService{Repo: repo, Cache: cache}
	ctx := context.Background()

	seedListing(repo, "l1", "Cached Coach", "Acting Coaches", time.Now())

	q := models.ListingQuery{Category: "Acting Coaches", Page: 1}
	first, err := svc.Browse(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.searches)

	// The second identical query is served from the cache.
	second, err := svc.Browse(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.searches)
	assert.Equal(t, first, second)

	// A different page is its own cache entry.
	_, err = svc.Browse(ctx, models.ListingQuery{Category: "Acting Coaches", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.searches)
}

func TestBrowseCacheInvalidatedOnMutation(t *testing.T) {
	repo := newMemListingRepo()
	cache := newMemPageCache()
	svc := &DefaultListingService{Repo: repo, Cache: cache}
	ctx := context.Background()

	seedListing(repo, "l1", "First Coach", "Acting Coaches", time.Now())

	q := models.ListingQuery{Category: "Acting Coaches"}
	res, err := svc.Browse(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.TotalCount)

	// Submit drops the cached pages so the next browse re-queries the store.
	_, err = svc.Submit(ctx, models.Listing{Name: "Second Coach", Categories: []string{"Acting Coaches"}})
	require.NoError(t, err)
	assert.Empty(t, cache.pages)

	searchesBefore := repo.searches
	_, err = svc.Browse(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, searchesBefore+1, repo.searches)

	// Moderation invalidates too: an approved listing must become visible.
	pending := models.Listing{ID: "p1", Name: "Pending Coach", Categories: []string{"Acting Coaches"}, Status: models.StatusPending, Active: true}
	pending.DeriveSlug()
	repo.items[pending.ID] = pending
	_, err = svc.Browse(ctx, q)
	require.NoError(t, err)

	require.NoError(t, svc.Moderate(ctx, "p1", true))
	assert.Empty(t, cache.pages)

	res, err = svc.Browse(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.TotalCount)
}

func TestRecordContactClick(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	seedListing(repo, "l1", "Clicked Coach", "Acting Coaches", time.Now())

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.RecordContactClick(ctx, "l1"))
	}
	got, err := repo.GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ContactClicks)

	assert.ErrorIs(t, svc.RecordContactClick(ctx, "missing"), ErrNotFound)
}

func TestSetPlan(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	seedListing(repo, "l1", "Upgraded Coach", "Acting Coaches", time.Now())

	require.NoError(t, svc.SetPlan(ctx, "l1", models.PlanPro))
	got, err := repo.GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, got.Plan)
	assert.True(t, got.IsFeatured())
}
