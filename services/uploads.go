// services/uploads.go - Local filesystem storage for uploaded media
package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"scoutlink/validation"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// VideoExtensions are the accepted video container formats.
var VideoExtensions = []string{".mp4", ".mov", ".webm", ".mkv", ".avi"}

// UploadStorage writes files under a root directory that is served at URLPrefix.
type UploadStorage struct {
	root      string
	urlPrefix string
	maxBytes  int64
}

func NewUploadStorage(root, urlPrefix string, maxBytes int64) *UploadStorage {
	return &UploadStorage{
		root:      root,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		maxBytes:  maxBytes,
	}
}

// Save stores the upload in subdir under a random name and returns its public URL.
// field names the form field in validation errors.
func (u *UploadStorage) Save(fh *multipart.FileHeader, subdir, field string, allowed []string) (string, error) {
	if fh == nil {
		return "", validation.NewFieldError(field, field+" is required")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !contains(allowed, ext) {
		return "", validation.NewFieldError(field, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, " ")))
	}
	if u.maxBytes > 0 && fh.Size > u.maxBytes {
		return "", validation.NewFieldError(field, fmt.Sprintf("%s must be at most %d MB", field, u.maxBytes/(1024*1024)))
	}

	dir := filepath.Join(u.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(dir, name)
	if err := fasthttp.SaveMultipartFile(fh, dst); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write upload: %w", err)
	}

	return path.Join(u.urlPrefix, subdir, name), nil
}

// Remove deletes a file previously returned by Save. Unknown URLs are ignored.
func (u *UploadStorage) Remove(url string) {
	rel := strings.TrimPrefix(url, u.urlPrefix+"/")
	if rel == url || strings.Contains(rel, "..") {
		return
	}
	_ = os.Remove(filepath.Join(u.root, filepath.FromSlash(rel)))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
