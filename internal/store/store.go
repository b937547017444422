package store

import (
	"errors"
	"toasty/internal/models"
)

// Sentinel errors callers branch on with errors.Is.
var (
	ErrNotFound      = errors.New("toaster not found")
	ErrInvalidRating = errors.New("rating must be an integer between 1 and 10")
	ErrEmptyComment  = errors.New("comment must not be empty")
)

// Store is the persistence boundary for toasters and their comments.
// Handlers receive it injected rather than reaching for a package-level
// database handle, so tests can run against their own instance.
type Store interface {
	CreateToaster(t *models.Toaster) error
	ToasterByID(id uint) (*models.Toaster, error)
	// ListToasters returns all toasters, newest first.
	ListToasters() ([]models.Toaster, error)
	// TopRated returns up to n toasters ordered by rating descending.
	TopRated(n int) ([]models.Toaster, error)
	// ApplyVote folds one vote in [1,10] into the running mean and count of
	// the given toaster and returns the updated row. The read-modify-write is
	// serialized per item; concurrent votes never lose an update.
	ApplyVote(id uint, value int) (*models.Toaster, error)
	CreateComment(c *models.Comment) error
	// CommentsByToaster returns the toaster's comments, newest first.
	// ErrNotFound when the toaster itself is absent.
	CommentsByToaster(id uint) ([]models.Comment, error)
	// DeleteToaster removes the record and all its comments.
	DeleteToaster(id uint) error
}
