package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBannerPickEmptyDir(t *testing.T) {
	b := NewBannerProvider(t.TempDir(), "/static/banners")
	assert.Equal(t, "", b.Pick())
}

func TestBannerPickMissingDir(t *testing.T) {
	b := NewBannerProvider("/does/not/exist", "/static/banners")
	assert.Equal(t, "", b.Pick())
}

func TestBannerPickReturnsExistingAsset(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "toast.png"), []byte("png"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0644))

	b := NewBannerProvider(dir, "/static/banners")
	for i := 0; i < 10; i++ {
		assert.Equal(t, "/static/banners/toast.png", b.Pick())
	}
}
