package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "userhub/internal/errors"
)

// MaxImageSize is the upload size cap in bytes.
const MaxImageSize = 5 << 20

// URLPrefix is prepended to stored filenames to form the public reference.
const URLPrefix = "/uploads/"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore saves and removes profile images on local disk. References
// handed out are URL paths under /uploads, not filesystem paths.
type ImageStore struct {
	dir string
}

// NewImageStore creates the uploads directory if needed.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the directory images are stored in.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save writes an uploaded image to disk and returns its public reference.
// Non-image content types and files over MaxImageSize are rejected.
func (s *ImageStore) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxImageSize {
		return "", fmt.Errorf("%w: file exceeds 5MB", apperrors.ErrInvalidImage)
	}

	contentType := fh.Header.Get("Content-Type")
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("%w: unsupported type %q", apperrors.ErrInvalidImage, contentType)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := "image-" + uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}

	return URLPrefix + name, nil
}

// Delete removes the file behind a reference. A missing file is not an
// error, so delete is safe to call on every failure path.
func (s *ImageStore) Delete(ref string) error {
	if ref == "" {
		return nil
	}
	name := path.Base(ref)
	if name == "." || name == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}
