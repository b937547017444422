package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
	"toasty/internal/models"
	"toasty/internal/store"

	"github.com/google/uuid"
)

// MaxUploadSize is the admission ceiling for a single image.
const MaxUploadSize = 10 << 20 // 10 MiB

// CooldownWindow is how long a client has to wait between uploads.
const CooldownWindow = time.Hour

var (
	ErrInvalidFileType = errors.New("file type not allowed, use png, webp, jpg or jpeg")
	ErrFileTooLarge    = errors.New("file exceeds the 10 MiB limit")
	ErrCooldownActive  = errors.New("only one upload per hour is allowed")
)

var allowedExts = map[string]bool{
	".png":  true,
	".webp": true,
	".jpg":  true,
	".jpeg": true,
}

// Uploader is the upload admission pipeline: validate type and size, pick a
// collision-resistant storage name, persist the bytes, create the record.
type Uploader struct {
	store       store.Store
	absBasePath string
}

// NewUploader creates the uploads directory if needed and verifies it is
// writable before the first request arrives.
func NewUploader(s store.Store, basePath string) (*Uploader, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory '%s': %w", basePath, err)
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory '%s': %w", absPath, err)
	}

	testFile := filepath.Join(absPath, ".write_test_"+uuid.NewString())
	f, err := os.Create(testFile)
	if err != nil {
		return nil, fmt.Errorf("upload directory '%s' is not writable: %w", absPath, err)
	}
	_ = f.Close()
	_ = os.Remove(testFile)

	return &Uploader{
		store:       s,
		absBasePath: absPath + string(os.PathSeparator),
	}, nil
}

// Dir returns the absolute uploads directory, for mounting as a static route.
func (u *Uploader) Dir() string {
	return u.absBasePath
}

// Admit runs the full admission pipeline and returns the created record.
// Validation happens before any byte is written; a failed or oversized write
// never leaves a partial file behind. The client-supplied filename only
// contributes its extension, never the storage path.
func (u *Uploader) Admit(file multipart.File, header *multipart.FileHeader) (*models.Toaster, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExts[ext] {
		return nil, ErrInvalidFileType
	}
	if header.Size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	name := uuid.NewString() + ext
	dstPath := filepath.Join(u.absBasePath, name)
	if !strings.HasPrefix(dstPath, u.absBasePath) {
		return nil, fmt.Errorf("invalid storage path: %s", name)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}

	// Copy with a hard cap; the declared Size header is client-controlled,
	// so an oversized body is caught here and the partial write removed.
	written, err := io.Copy(dst, io.LimitReader(file, MaxUploadSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if written > MaxUploadSize {
		_ = os.Remove(dstPath)
		return nil, ErrFileTooLarge
	}

	toaster := &models.Toaster{Image: name}
	if err := u.store.CreateToaster(toaster); err != nil {
		// Record creation failed after the file was stored: remove the file
		// rather than leaving an orphan (see DESIGN.md).
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to create toaster record: %w", err)
	}

	return toaster, nil
}

// Remove unlinks a stored image by its assigned name.
func (u *Uploader) Remove(name string) error {
	fullPath := filepath.Join(u.absBasePath, filepath.Base(name))
	if !strings.HasPrefix(fullPath, u.absBasePath) {
		return fmt.Errorf("invalid storage path: %s", name)
	}
	return os.Remove(fullPath)
}
