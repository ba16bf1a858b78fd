package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"directory101/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubListingService answers Browse from a canned function; the remaining
// operations are unused by these tests.
type stubListingService struct {
	browse func(ctx context.Context, q models.ListingQuery) (*models.PageResult, error)
}

func (s *stubListingService) Browse(ctx context.Context, q models.ListingQuery) (*models.PageResult, error) {
	return s.browse(ctx, q)
}

func (s *stubListingService) AdminSearch(ctx context.Context, q models.ListingQuery) (*models.PageResult, error) {
	return nil, nil
}

func (s *stubListingService) GetBySlug(ctx context.Context, slug string) (*models.Listing, error) {
	return nil, nil
}

func (s *stubListingService) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	return nil, nil
}

func (s *stubListingService) Submit(ctx context.Context, l models.Listing) (*models.Listing, error) {
	return nil, nil
}

func (s *stubListingService) Update(ctx context.Context, l models.Listing) (*models.Listing, error) {
	return nil, nil
}

func (s *stubListingService) Delete(ctx context.Context, id string) error { return nil }

func (s *stubListingService) Moderate(ctx context.Context, id string, approve bool) error {
	return nil
}

func (s *stubListingService) Claim(ctx context.Context, id, ownerID, ownerEmail string) error {
	return nil
}

func (s *stubListingService) RecordContactClick(ctx context.Context, id string) error { return nil }

func (s *stubListingService) SetPlan(ctx context.Context, id string, plan models.PlanTier) error {
	return nil
}

func TestBrowseListingsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotQuery models.ListingQuery
	svc := &stubListingService{
		browse: func(ctx context.Context, q models.ListingQuery) (*models.PageResult, error) {
			gotQuery = q
			return &models.PageResult{
				Items:      []models.Listing{{ID: "l1", Name: "Coach"}},
				TotalCount: 25,
			}, nil
		},
	}
	router := gin.New()
	router.GET("/api/listings", NewListingHandler(svc).BrowseListingsHandler)

	// Malformed page and unknown sort are clamped, never rejected.
	req := httptest.NewRequest(http.MethodGet, "/api/listings?page=abc&sort=rating_desc&category=Acting+Coaches", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, gotQuery.Page)
	assert.Equal(t, models.DefaultSort, gotQuery.Sort)
	assert.Equal(t, "Acting Coaches", gotQuery.Category)

	var payload struct {
		Items      []models.Listing  `json:"items"`
		TotalCount int64             `json:"totalCount"`
		Page       int               `json:"page"`
		PageSize   int               `json:"pageSize"`
		TotalPages int               `json:"totalPages"`
		Categories []models.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Len(t, payload.Items, 1)
	assert.Equal(t, int64(25), payload.TotalCount)
	assert.Equal(t, 1, payload.Page)
	assert.Equal(t, models.PageSize, payload.PageSize)
	assert.Equal(t, 3, payload.TotalPages)
	assert.Len(t, payload.Categories, len(models.Categories))
}
