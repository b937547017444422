package services

import (
	"math/rand"
	"os"
	"path"
	"strings"
)

// BannerProvider picks a random decorative banner from a directory of static
// assets. Pure decoration: the only guarantee is that a returned path points
// at an asset that existed at scan time.
type BannerProvider struct {
	dir     string
	urlBase string
}

func NewBannerProvider(dir, urlBase string) *BannerProvider {
	return &BannerProvider{dir: dir, urlBase: urlBase}
}

// Pick returns the URL of a random banner, or "" when the directory is empty
// or unreadable.
func (b *BannerProvider) Pick() string {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return ""
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(path.Ext(e.Name())) {
		case ".png", ".webp", ".jpg", ".jpeg", ".gif", ".svg":
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}
	return path.Join(b.urlBase, names[rand.Intn(len(names))])
}
