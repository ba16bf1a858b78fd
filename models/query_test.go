package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortCreatedAsc, ParseSortKey("created_asc"))
	assert.Equal(t, SortUpdatedDesc, ParseSortKey(" Updated_Desc "))

	// Unknown keys silently fall back to the default ordering.
	assert.Equal(t, DefaultSort, ParseSortKey("rating_desc"))
	assert.Equal(t, DefaultSort, ParseSortKey(""))
}

func TestNormalized(t *testing.T) {
	q := ListingQuery{Page: 0, Sort: "bogus"}.Normalized()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultSort, q.Sort)

	q = ListingQuery{Page: -3}.Normalized()
	assert.Equal(t, 1, q.Page)

	q = ListingQuery{Page: 4, Sort: SortUpdatedAsc}.Normalized()
	assert.Equal(t, 4, q.Page)
	assert.Equal(t, SortUpdatedAsc, q.Sort)
	assert.Equal(t, 3*PageSize, q.Offset())
}

func TestMatchesFiltersConjunction(t *testing.T) {
	l := Listing{
		Name:        "Sunshine Headshots",
		Description: "On-location headshot sessions for young performers.",
		Categories:  []string{"Headshot Photographers"},
		AgeRanges:   []string{"5-8", "9-12"},
		Region:      "CA",
	}

	// All supplied filters must hold.
	assert.True(t, ListingQuery{Category: "Headshot Photographers", Region: "ca"}.MatchesFilters(&l))
	assert.False(t, ListingQuery{Category: "Headshot Photographers", Region: "NY"}.MatchesFilters(&l))
	assert.False(t, ListingQuery{Category: "Acting Coaches"}.MatchesFilters(&l))

	// Category and age-range membership is exact, matching what the indexed
	// stores enforce.
	assert.False(t, ListingQuery{Category: "headshot photographers"}.MatchesFilters(&l))
	assert.True(t, ListingQuery{AgeRange: "9-12"}.MatchesFilters(&l))
	assert.False(t, ListingQuery{AgeRange: "13-17"}.MatchesFilters(&l))
	assert.False(t, ListingQuery{AgeRange: "9-12 "}.MatchesFilters(&l))

	// Free text matches name or description, case-insensitively.
	assert.True(t, ListingQuery{Query: "sunshine"}.MatchesFilters(&l))
	assert.True(t, ListingQuery{Query: "young performers"}.MatchesFilters(&l))
	assert.False(t, ListingQuery{Query: "voiceover"}.MatchesFilters(&l))

	// No filters means no constraint.
	assert.True(t, ListingQuery{}.MatchesFilters(&l))
}

func TestSortListingsTieBreak(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	items := []Listing{
		{ID: "c", CreatedAt: at},
		{ID: "a", CreatedAt: at},
		{ID: "b", CreatedAt: at.Add(time.Hour)},
	}

	SortListings(items, SortCreatedDesc)
	assert.Equal(t, []string{"b", "a", "c"}, ids(items))

	SortListings(items, SortCreatedAsc)
	assert.Equal(t, []string{"a", "c", "b"}, ids(items))
}

func TestSortListingsUpdated(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	items := []Listing{
		{ID: "a", UpdatedAt: base.Add(2 * time.Hour)},
		{ID: "b", UpdatedAt: base},
		{ID: "c", UpdatedAt: base.Add(time.Hour)},
	}

	SortListings(items, SortUpdatedAsc)
	assert.Equal(t, []string{"b", "c", "a"}, ids(items))

	SortListings(items, SortUpdatedDesc)
	assert.Equal(t, []string{"a", "c", "b"}, ids(items))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, (&PageResult{TotalCount: 0}).TotalPages())
	assert.Equal(t, 1, (&PageResult{TotalCount: 1}).TotalPages())
	assert.Equal(t, 1, (&PageResult{TotalCount: PageSize}).TotalPages())
	assert.Equal(t, 2, (&PageResult{TotalCount: PageSize + 1}).TotalPages())
	assert.Equal(t, 3, (&PageResult{TotalCount: 25}).TotalPages())
}

func ids(items []Listing) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID
	}
	return out
}
