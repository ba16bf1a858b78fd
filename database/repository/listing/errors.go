package listingRepo

import "errors"

var (
	// ErrNotFound means no listing matched the requested ID or slug.
	ErrNotFound = errors.New("listing not found")
	// ErrAlreadyClaimed means a claim lost to an earlier owner.
	ErrAlreadyClaimed = errors.New("listing already claimed")
	// ErrQueryFailed wraps backing-store failures so callers can tell a
	// failed query apart from a successful empty result.
	ErrQueryFailed = errors.New("listing query failed")
)
