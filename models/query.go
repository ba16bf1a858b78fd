package models

import (
	"fmt"
	"sort"
	"strings"
)

// PageSize is the fixed number of listings per results page. Callers derive
// the page count as ceil(TotalCount / PageSize).
const PageSize = 12

// SortKey selects one of the supported (field, direction) orderings.
type SortKey string

const (
	SortCreatedAsc  SortKey = "created_asc"
	SortCreatedDesc SortKey = "created_desc"
	SortUpdatedAsc  SortKey = "updated_asc"
	SortUpdatedDesc SortKey = "updated_desc"

	DefaultSort = SortCreatedDesc
)

// ParseSortKey maps a caller-supplied sort value onto the enumeration. Any
// unrecognized value falls back to the default sort rather than erroring.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortCreatedAsc:
		return SortCreatedAsc
	case SortCreatedDesc:
		return SortCreatedDesc
	case SortUpdatedAsc:
		return SortUpdatedAsc
	case SortUpdatedDesc:
		return SortUpdatedDesc
	default:
		return DefaultSort
	}
}

// ListingQuery carries the filter/sort/pagination parameters of one listing
// search. All filters are optional; absent filters impose no constraint.
type ListingQuery struct {
	Query    string  `json:"query" form:"query"`
	Category string  `json:"category" form:"category"`
	AgeRange string  `json:"ageRange" form:"age_range"`
	Region   string  `json:"region" form:"region"`
	Sort     SortKey `json:"sort" form:"sort"`
	Page     int     `json:"page" form:"page"`

	// IncludeAll bypasses the public-visibility restriction so moderators
	// can see pending and rejected listings. Never set from public input.
	IncludeAll bool `json:"-" form:"-"`
}

// Normalized returns a copy with the page clamped to >= 1 and the sort key
// forced into the enumeration.
func (q ListingQuery) Normalized() ListingQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	q.Sort = ParseSortKey(string(q.Sort))
	return q
}

// Offset is the number of records to skip for the requested page.
func (q ListingQuery) Offset() int {
	return (q.Page - 1) * PageSize
}

// CacheKey builds a stable cache key for the normalized query.
func (q ListingQuery) CacheKey() string {
	n := q.Normalized()
	return fmt.Sprintf("q=%s|c=%s|a=%s|r=%s|s=%s|p=%d|all=%t",
		strings.ToLower(n.Query), n.Category, n.AgeRange, n.Region, n.Sort, n.Page, n.IncludeAll)
}

// MatchesFilters reports whether a listing satisfies every supplied filter
// (conjunctive). Category and age-range filters are exact membership tests
// so every backing store applies the same rule; region and free text match
// case-insensitively. Visibility is a separate concern handled by the
// adapters.
func (q ListingQuery) MatchesFilters(l *Listing) bool {
	if q.Category != "" && !contains(l.Categories, q.Category) {
		return false
	}
	if q.AgeRange != "" && !contains(l.AgeRanges, q.AgeRange) {
		return false
	}
	if q.Region != "" && !strings.EqualFold(l.Region, q.Region) {
		return false
	}
	if q.Query != "" {
		needle := strings.ToLower(q.Query)
		if !strings.Contains(strings.ToLower(l.Name), needle) &&
			!strings.Contains(strings.ToLower(l.Description), needle) {
			return false
		}
	}
	return true
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// SortListings orders listings by the given sort key in place. Ties on the
// sort field break deterministically on ID ascending so identical queries
// always paginate identically.
func SortListings(items []Listing, key SortKey) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := &items[i], &items[j]
		switch key {
		case SortCreatedAsc:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		case SortUpdatedAsc:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.Before(b.UpdatedAt)
			}
		case SortUpdatedDesc:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.After(b.UpdatedAt)
			}
		default: // SortCreatedDesc
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ID < b.ID
	})
}

// PageResult is one page of listings plus the total number of matches
// independent of the pagination window.
type PageResult struct {
	Items      []Listing `json:"items"`
	TotalCount int64     `json:"totalCount"`
}

// TotalPages derives the page count from the total match count.
func (r *PageResult) TotalPages() int {
	return int((r.TotalCount + PageSize - 1) / PageSize)
}
