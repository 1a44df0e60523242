package repository

import (
	"context"

	"askme/internal/models"
	"askme/internal/observability"

	"gorm.io/gorm"
)

// Ranking views over questions.
const (
	ViewNew  = "new"
	ViewHot  = "hot"
	ViewBest = "best"
)

// QuestionRepository defines persistence and ranking operations for questions.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	// NewIDs returns the newest questions first.
	NewIDs(ctx context.Context, limit int) ([]uint, error)
	// HotIDs orders by answer count, most answered first.
	HotIDs(ctx context.Context, limit int) ([]uint, error)
	// BestIDs orders by net vote score, highest first.
	BestIDs(ctx context.Context, limit int) ([]uint, error)
	// IDsByTag returns every question carrying the tag, newest first.
	IDsByTag(ctx context.Context, tag string) ([]uint, error)
	// AllIDs returns every question, newest first.
	AllIDs(ctx context.Context) ([]uint, error)
	// Cards materializes display records in the order of ids.
	Cards(ctx context.Context, ids []uint) ([]models.QuestionCard, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(question).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, lookupError(err, "Question", id)
	}
	return &question, nil
}

// applyQuestionDetails adds the answer_count and score subqueries as SELECT aliases.
func applyQuestionDetails(db *gorm.DB) *gorm.DB {
	return db.Select("questions.*, " +
		"(SELECT COUNT(*) FROM answers WHERE answers.question_id = questions.id) AS answer_count, " +
		"(SELECT COALESCE(SUM(question_votes.type), 0) FROM question_votes WHERE question_votes.question_id = questions.id) AS score")
}

// applySort appends the ORDER BY for a ranking view. answer_count and score are
// aliases from applyQuestionDetails. Ties fall back to newest first.
func applySort(db *gorm.DB, view string) *gorm.DB {
	switch view {
	case ViewHot:
		return db.Order("answer_count DESC, questions.created_at DESC, questions.id DESC")
	case ViewBest:
		return db.Order("score DESC, questions.created_at DESC, questions.id DESC")
	default:
		return db.Order("questions.created_at DESC, questions.id DESC")
	}
}

func (r *questionRepository) rankedIDs(ctx context.Context, view string, limit int, scope func(*gorm.DB) *gorm.DB) ([]uint, error) {
	defer observability.TrackRanking(view)()

	q := applyQuestionDetails(readDB(r.db).WithContext(ctx).Model(&models.Question{}))
	if scope != nil {
		q = scope(q)
	}
	q = applySort(q, view)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []models.Question
	if err := q.Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	ids := make([]uint, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	return ids, nil
}

func (r *questionRepository) NewIDs(ctx context.Context, limit int) ([]uint, error) {
	return r.rankedIDs(ctx, ViewNew, limit, nil)
}

func (r *questionRepository) HotIDs(ctx context.Context, limit int) ([]uint, error) {
	return r.rankedIDs(ctx, ViewHot, limit, nil)
}

func (r *questionRepository) BestIDs(ctx context.Context, limit int) ([]uint, error) {
	return r.rankedIDs(ctx, ViewBest, limit, nil)
}

func (r *questionRepository) IDsByTag(ctx context.Context, tag string) ([]uint, error) {
	return r.rankedIDs(ctx, "tag", 0, func(db *gorm.DB) *gorm.DB {
		tagged := r.db.Table("question_tags").
			Select("question_tags.question_id").
			Joins("JOIN tags ON tags.id = question_tags.tag_id").
			Where("tags.title = ?", tag)
		return db.Where("questions.id IN (?)", tagged)
	})
}

func (r *questionRepository) AllIDs(ctx context.Context) ([]uint, error) {
	return r.rankedIDs(ctx, "all", 0, nil)
}

func (r *questionRepository) Cards(ctx context.Context, ids []uint) ([]models.QuestionCard, error) {
	if len(ids) == 0 {
		return []models.QuestionCard{}, nil
	}

	var questions []models.Question
	err := applyQuestionDetails(readDB(r.db).WithContext(ctx).Model(&models.Question{})).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.title ASC")
		}).
		Preload("Author").
		Where("questions.id IN ?", ids).
		Find(&questions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	ordered := orderByIDs(ids, questions, func(q *models.Question) uint { return q.ID })
	cards := make([]models.QuestionCard, 0, len(ordered))
	for i := range ordered {
		cards = append(cards, ordered[i].Card())
	}
	return cards, nil
}
