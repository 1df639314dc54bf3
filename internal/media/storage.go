package media

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/config"
	"github.com/iyhunko/product-catalog/internal/model"
)

// photoDir is the sub-directory of the media root product photos are written to.
const photoDir = "products"

// Upload is a file received with a request.
type Upload struct {
	Filename string
	Content  []byte
}

// LocalStorage keeps uploads on the local filesystem under Root and serves them under URLPrefix.
type LocalStorage struct {
	Root      string
	URLPrefix string
}

// NewLocalStorage creates a LocalStorage from the media configuration.
func NewLocalStorage(conf config.Media) *LocalStorage {
	prefix := conf.URL
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &LocalStorage{Root: conf.Root, URLPrefix: prefix}
}

// SaveImage stores an image upload and returns its storage reference, e.g. "products/<uuid>.png".
// Content that is not an image is rejected with a photo validation error.
func (s *LocalStorage) SaveImage(upload Upload) (string, error) {
	if len(upload.Content) == 0 {
		return "", model.NewValidationError(model.FieldPhoto, model.MsgEmptyUpload)
	}

	mtype := mimetype.Detect(upload.Content)
	if !isImage(mtype) {
		return "", model.NewValidationError(model.FieldPhoto, model.MsgInvalidImage)
	}

	ext := mtype.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(upload.Filename))
	}
	ref := path.Join(photoDir, uuid.NewString()+ext)

	dir := filepath.Join(s.Root, photoDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Root, filepath.FromSlash(ref)), upload.Content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	return ref, nil
}

// URL returns the path a stored file is served under, or "" for an empty reference.
func (s *LocalStorage) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return s.URLPrefix + ref
}

func isImage(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}
