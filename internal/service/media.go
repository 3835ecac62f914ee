package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/devfolio/devfolio-go/internal/model"
)

// ObjectStore is the slice of object storage the media service needs.
// storage.S3Store implements it; tests use a fake.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

const (
	defaultFolder = "general"
	keyPrefix     = "portfolio"
)

// allowedFolders is the upload destination allow-list. Anything else falls
// back to the default folder rather than erroring.
var allowedFolders = map[string]bool{
	"blogs":    true,
	"projects": true,
	"general":  true,
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaService proxies image uploads to the external object store.
type MediaService struct {
	store ObjectStore
}

// NewMediaService creates a new MediaService.
func NewMediaService(store ObjectStore) *MediaService {
	return &MediaService{store: store}
}

// Upload validates and stores an image, returning its public URL, storage
// key and pixel dimensions. The content type is sniffed from the bytes,
// not trusted from the request.
func (s *MediaService) Upload(ctx context.Context, content []byte, folder string) (model.UploadResult, error) {
	if len(content) == 0 {
		return model.UploadResult{}, validationErr("No file uploaded")
	}

	if !allowedFolders[folder] {
		folder = defaultFolder
	}

	contentType := http.DetectContentType(content)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return model.UploadResult{}, validationErr("Uploaded file must be a JPEG, PNG, GIF, or WebP image")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return model.UploadResult{}, validationErr("Uploaded file is not a valid image")
	}

	key := fmt.Sprintf("%s/%s/%s%s", keyPrefix, folder, uuid.NewString(), ext)

	url, err := s.store.Put(ctx, key, content, contentType)
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("uploading image: %w", err)
	}

	slog.Info("image uploaded", "publicId", key, "folder", folder, "bytes", len(content))

	return model.UploadResult{
		URL:      url,
		PublicID: key,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// Delete removes a previously uploaded image. The store is not asked
// whether the asset existed.
func (s *MediaService) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return validationErr("Public ID is required")
	}

	if err := s.store.Delete(ctx, publicID); err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}

	slog.Info("image deleted", "publicId", publicID)
	return nil
}
