package storage

import (
	"context"
	"mime/multipart"
)

// StorageService stores listing photos and returns their public URL.
type StorageService interface {
	// UploadImage stores an uploaded image under the given folder and
	// returns its public delivery URL.
	UploadImage(ctx context.Context, file multipart.File, destFolder string) (string, error)
	// DeleteImage removes a previously uploaded image by its public ID.
	DeleteImage(ctx context.Context, publicID string) error
}
