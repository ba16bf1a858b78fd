package listing

import (
	listingRepo "directory101/database/repository/listing"
)

// Re-exported so handlers only need to import the service package.
var (
	ErrNotFound       = listingRepo.ErrNotFound
	ErrAlreadyClaimed = listingRepo.ErrAlreadyClaimed
	ErrQueryFailed    = listingRepo.ErrQueryFailed
)
