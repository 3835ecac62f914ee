package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
)

type fakeObjectStore struct {
	putKey         string
	putContentType string
	putErr         error
	deletedKey     string
	deleteErr      error
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.putKey = key
	f.putContentType = contentType
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedKey = key
	return nil
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("png.Encode() unexpected error: %v", err)
	}
	return buf.Bytes()
}

func TestUploadEmptyFile(t *testing.T) {
	svc := NewMediaService(&fakeObjectStore{})

	_, err := svc.Upload(context.Background(), nil, "blogs")

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Upload() error = %v, want ValidationError", err)
	}
	if ve.Error() != "No file uploaded" {
		t.Errorf("Upload() message = %q", ve.Error())
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	svc := NewMediaService(&fakeObjectStore{})

	_, err := svc.Upload(context.Background(), []byte("%PDF-1.4 definitely not an image"), "blogs")

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Upload() error = %v, want ValidationError", err)
	}
}

func TestUploadValidPNG(t *testing.T) {
	store := &fakeObjectStore{}
	svc := NewMediaService(store)

	result, err := svc.Upload(context.Background(), pngBytes(t, 3, 2), "blogs")
	if err != nil {
		t.Fatalf("Upload() unexpected error: %v", err)
	}

	if result.Width != 3 || result.Height != 2 {
		t.Errorf("Upload() dimensions = %dx%d, want 3x2", result.Width, result.Height)
	}
	if !strings.HasPrefix(result.PublicID, "portfolio/blogs/") {
		t.Errorf("Upload() publicId = %q, want portfolio/blogs/ prefix", result.PublicID)
	}
	if !strings.HasSuffix(result.PublicID, ".png") {
		t.Errorf("Upload() publicId = %q, want .png suffix", result.PublicID)
	}
	if result.URL != "https://cdn.example.com/"+result.PublicID {
		t.Errorf("Upload() url = %q", result.URL)
	}
	if store.putContentType != "image/png" {
		t.Errorf("Upload() content type = %q, want image/png", store.putContentType)
	}
}

func TestUploadUnknownFolderFallsBack(t *testing.T) {
	store := &fakeObjectStore{}
	svc := NewMediaService(store)

	result, err := svc.Upload(context.Background(), pngBytes(t, 1, 1), "../../etc")
	if err != nil {
		t.Fatalf("Upload() unexpected error: %v", err)
	}

	if !strings.HasPrefix(result.PublicID, "portfolio/general/") {
		t.Errorf("Upload() publicId = %q, want portfolio/general/ prefix", result.PublicID)
	}
}

func TestUploadStoreError(t *testing.T) {
	svc := NewMediaService(&fakeObjectStore{putErr: errors.New("bucket unavailable")})

	_, err := svc.Upload(context.Background(), pngBytes(t, 1, 1), "blogs")
	if err == nil {
		t.Fatal("Upload() expected error when store fails")
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		t.Error("Upload() store failure should not be a ValidationError")
	}
}

func TestDeleteRequiresPublicID(t *testing.T) {
	svc := NewMediaService(&fakeObjectStore{})

	err := svc.Delete(context.Background(), "")

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Delete() error = %v, want ValidationError", err)
	}
	if ve.Error() != "Public ID is required" {
		t.Errorf("Delete() message = %q", ve.Error())
	}
}

func TestDelete(t *testing.T) {
	store := &fakeObjectStore{}
	svc := NewMediaService(store)

	if err := svc.Delete(context.Background(), "portfolio/blogs/abc.png"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if store.deletedKey != "portfolio/blogs/abc.png" {
		t.Errorf("Delete() key = %q", store.deletedKey)
	}
}
