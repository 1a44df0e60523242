package repository

import (
	"context"

	"askme/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository defines persistence operations for tags.
type TagRepository interface {
	// GetOrCreate returns one tag per title, creating missing ones, in input order.
	GetOrCreate(ctx context.Context, titles []string) ([]models.Tag, error)
	// Popular returns the titles of the tags used by the most questions.
	Popular(ctx context.Context, limit int) ([]string, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetOrCreate(ctx context.Context, titles []string) ([]models.Tag, error) {
	if len(titles) == 0 {
		return nil, nil
	}

	candidates := make([]models.Tag, 0, len(titles))
	for _, title := range titles {
		candidates = append(candidates, models.Tag{Title: title})
	}

	var tags []models.Tag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "title"}},
			DoNothing: true,
		}).Create(&candidates).Error; err != nil {
			return err
		}
		return tx.Where("title IN ?", titles).Find(&tags).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	byTitle := make(map[string]models.Tag, len(tags))
	for _, t := range tags {
		byTitle[t.Title] = t
	}
	ordered := make([]models.Tag, 0, len(titles))
	for _, title := range titles {
		if t, ok := byTitle[title]; ok {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}

func (r *tagRepository) Popular(ctx context.Context, limit int) ([]string, error) {
	var titles []string
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Tag{}).
		Joins("LEFT JOIN question_tags ON question_tags.tag_id = tags.id").
		Group("tags.id, tags.title").
		Order("COUNT(question_tags.question_id) DESC, tags.title ASC").
		Limit(limit).
		Pluck("tags.title", &titles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return titles, nil
}
