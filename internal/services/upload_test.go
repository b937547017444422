package services

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"toasty/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore records created toasters and can be told to fail.
type fakeStore struct {
	toasters  []*models.Toaster
	createErr error
}

func (f *fakeStore) CreateToaster(t *models.Toaster) error {
	if f.createErr != nil {
		return f.createErr
	}
	t.ID = uint(len(f.toasters) + 1)
	f.toasters = append(f.toasters, t)
	return nil
}

func (f *fakeStore) ToasterByID(uint) (*models.Toaster, error)        { return nil, nil }
func (f *fakeStore) ListToasters() ([]models.Toaster, error)          { return nil, nil }
func (f *fakeStore) TopRated(int) ([]models.Toaster, error)           { return nil, nil }
func (f *fakeStore) ApplyVote(uint, int) (*models.Toaster, error)     { return nil, nil }
func (f *fakeStore) CreateComment(*models.Comment) error              { return nil }
func (f *fakeStore) CommentsByToaster(uint) ([]models.Comment, error) { return nil, nil }
func (f *fakeStore) DeleteToaster(uint) error                         { return nil }

// makeUpload builds a parsed multipart file as handlers would receive it.
func makeUpload(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	reader := multipart.NewReader(&body, w.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	headers := form.File["image"]
	require.Len(t, headers, 1)
	file, err := headers[0].Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	return file, headers[0]
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestAdmitRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeStore{}
	u, err := NewUploader(fake, dir)
	require.NoError(t, err)

	file, header := makeUpload(t, "x.gif", []byte("gif bytes"))
	_, err = u.Admit(file, header)
	assert.ErrorIs(t, err, ErrInvalidFileType)
	assert.Empty(t, fake.toasters)
	assert.Empty(t, dirEntries(t, dir))
}

func TestAdmitAcceptsMixedCaseExtension(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeStore{}
	u, err := NewUploader(fake, dir)
	require.NoError(t, err)

	file, header := makeUpload(t, "x.PNG", []byte("png bytes"))
	toaster, err := u.Admit(file, header)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(toaster.Image, ".png"), "got %s", toaster.Image)

	// Stored under the assigned name, never the client's.
	names := dirEntries(t, dir)
	require.Len(t, names, 1)
	assert.Equal(t, toaster.Image, names[0])
	assert.NotContains(t, names[0], "x.PNG")
}

func TestAdmitSizeCeiling(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeStore{}
	u, err := NewUploader(fake, dir)
	require.NoError(t, err)

	// Exactly at the ceiling passes.
	file, header := makeUpload(t, "exact.jpg", bytes.Repeat([]byte{0xAB}, MaxUploadSize))
	_, err = u.Admit(file, header)
	require.NoError(t, err)
	require.Len(t, fake.toasters, 1)

	// One byte over fails, creates no record and leaves no file behind.
	file, header = makeUpload(t, "over.jpg", bytes.Repeat([]byte{0xAB}, MaxUploadSize+1))
	_, err = u.Admit(file, header)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Len(t, fake.toasters, 1)
	assert.Len(t, dirEntries(t, dir), 1)
}

func TestAdmitOversizedBodyWithLyingHeader(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeStore{}
	u, err := NewUploader(fake, dir)
	require.NoError(t, err)

	file, header := makeUpload(t, "liar.jpg", bytes.Repeat([]byte{0xCD}, MaxUploadSize+1))
	header.Size = 1024 // client-declared size is not trusted

	_, err = u.Admit(file, header)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Empty(t, fake.toasters)
	assert.Empty(t, dirEntries(t, dir), "partial write must be removed")
}

func TestAdmitRemovesFileWhenRecordFails(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeStore{createErr: errors.New("database is down")}
	u, err := NewUploader(fake, dir)
	require.NoError(t, err)

	file, header := makeUpload(t, "orphan.webp", []byte("webp bytes"))
	_, err = u.Admit(file, header)
	require.Error(t, err)
	assert.Empty(t, dirEntries(t, dir), "stored file must not be orphaned")
}

func TestAdmitAssignsUniqueNames(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeStore{}
	u, err := NewUploader(fake, dir)
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		file, header := makeUpload(t, "same-name.jpeg", []byte(fmt.Sprintf("upload %d", i)))
		toaster, err := u.Admit(file, header)
		require.NoError(t, err)
		assert.False(t, seen[toaster.Image], "duplicate storage name %s", toaster.Image)
		seen[toaster.Image] = true
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeStore{}
	u, err := NewUploader(fake, dir)
	require.NoError(t, err)

	file, header := makeUpload(t, "gone.png", []byte("png bytes"))
	toaster, err := u.Admit(file, header)
	require.NoError(t, err)

	require.NoError(t, u.Remove(toaster.Image))
	assert.Empty(t, dirEntries(t, dir))

	// Removing again surfaces a not-exist error the caller can inspect.
	err = u.Remove(toaster.Image)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRemoveIgnoresPathTraversal(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(filepath.Dir(dir), "victim.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0644))

	fake := &fakeStore{}
	u, err := NewUploader(fake, dir)
	require.NoError(t, err)

	_ = u.Remove("../victim.txt")
	_, err = os.Stat(outside)
	assert.NoError(t, err, "file outside the upload dir must survive")
}
