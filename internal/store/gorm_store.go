package store

import (
	"errors"
	"strings"
	"toasty/internal/models"

	"gorm.io/gorm"
)

// GormStore implements Store on top of a gorm connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateToaster(t *models.Toaster) error {
	return s.db.Create(t).Error
}

func (s *GormStore) ToasterByID(id uint) (*models.Toaster, error) {
	var t models.Toaster
	if err := s.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) ListToasters() ([]models.Toaster, error) {
	var toasters []models.Toaster
	if err := s.db.Order("created_at DESC, id DESC").Find(&toasters).Error; err != nil {
		return nil, err
	}
	s.fillCommentCounts(toasters)
	return toasters, nil
}

func (s *GormStore) TopRated(n int) ([]models.Toaster, error) {
	var toasters []models.Toaster
	if err := s.db.Order("rating DESC, votes DESC").Limit(n).Find(&toasters).Error; err != nil {
		return nil, err
	}
	s.fillCommentCounts(toasters)
	return toasters, nil
}

// fillCommentCounts batch-fills CommentCount for a list of toasters.
func (s *GormStore) fillCommentCounts(toasters []models.Toaster) {
	if len(toasters) == 0 {
		return
	}

	ids := make([]uint, len(toasters))
	for i, t := range toasters {
		ids[i] = t.ID
	}

	type countResult struct {
		ToasterID uint
		Count     int
	}
	var results []countResult
	s.db.Model(&models.Comment{}).
		Select("toaster_id, COUNT(*) as count").
		Where("toaster_id IN ?", ids).
		Group("toaster_id").
		Scan(&results)

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.ToasterID] = r.Count
	}
	for i := range toasters {
		toasters[i].CommentCount = countMap[toasters[i].ID]
	}
}

// ApplyVote updates rating and votes in a single UPDATE so both expressions
// read the pre-update row. There is no vote log; the new mean is derived from
// the stored aggregate: (rating*votes + value) / (votes + 1).
func (s *GormStore) ApplyVote(id uint, value int) (*models.Toaster, error) {
	if value < 1 || value > 10 {
		return nil, ErrInvalidRating
	}

	var t models.Toaster
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Toaster{}).Where("id = ?", id).Updates(map[string]interface{}{
			"rating": gorm.Expr("(rating * votes + ?) / (votes + 1.0)", value),
			"votes":  gorm.Expr("votes + 1"),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(&t, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) CreateComment(c *models.Comment) error {
	c.Content = strings.TrimSpace(c.Content)
	if c.Content == "" {
		return ErrEmptyComment
	}

	var count int64
	if err := s.db.Model(&models.Toaster{}).Where("id = ?", c.ToasterID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return s.db.Create(c).Error
}

func (s *GormStore) CommentsByToaster(id uint) ([]models.Comment, error) {
	if _, err := s.ToasterByID(id); err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := s.db.Where("toaster_id = ?", id).Order("created_at DESC, id DESC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteToaster removes the row and its comments in one transaction. The
// schema also carries an ON DELETE CASCADE constraint, but the explicit
// delete keeps the cascade true on databases with foreign keys switched off.
func (s *GormStore) DeleteToaster(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("toaster_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Toaster{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
