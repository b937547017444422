package models

import (
	"time"
)

type Toaster struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Image     string    `gorm:"uniqueIndex;not null" json:"image"` // stored filename, immutable once set
	Rating    float64   `gorm:"default:0" json:"rating"`           // mean of all votes, 0 until the first vote
	Votes     int       `gorm:"default:0" json:"votes"`
	CreatedAt time.Time `json:"created_at"`

	// Not a database column, filled in by list queries.
	CommentCount int `gorm:"-" json:"comment_count"`
}
