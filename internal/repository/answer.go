package repository

import (
	"context"

	"askme/internal/models"
	"askme/internal/observability"

	"gorm.io/gorm"
)

// AnswerRepository defines persistence and ranking operations for answers.
type AnswerRepository interface {
	Create(ctx context.Context, answer *models.Answer) error
	// GetByID loads the answer together with its parent question.
	GetByID(ctx context.Context, id uint) (*models.Answer, error)
	// IDsByQuestion orders a question's answers by net score, highest first.
	IDsByQuestion(ctx context.Context, questionID uint) ([]uint, error)
	Cards(ctx context.Context, ids []uint) ([]models.AnswerCard, error)
	SetCorrect(ctx context.Context, id uint, correct bool) error
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(ctx context.Context, answer *models.Answer) error {
	if err := r.db.WithContext(ctx).Omit("Question", "Author").Create(answer).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *answerRepository) GetByID(ctx context.Context, id uint) (*models.Answer, error) {
	var answer models.Answer
	if err := r.db.WithContext(ctx).Preload("Question").First(&answer, id).Error; err != nil {
		return nil, lookupError(err, "Answer", id)
	}
	return &answer, nil
}

func applyAnswerDetails(db *gorm.DB) *gorm.DB {
	return db.Select("answers.*, " +
		"(SELECT COALESCE(SUM(answer_votes.type), 0) FROM answer_votes WHERE answer_votes.answer_id = answers.id) AS score")
}

func (r *answerRepository) IDsByQuestion(ctx context.Context, questionID uint) ([]uint, error) {
	defer observability.TrackRanking("answers")()

	var rows []models.Answer
	err := applyAnswerDetails(readDB(r.db).WithContext(ctx).Model(&models.Answer{})).
		Where("answers.question_id = ?", questionID).
		Order("score DESC, answers.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	ids := make([]uint, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	return ids, nil
}

func (r *answerRepository) Cards(ctx context.Context, ids []uint) ([]models.AnswerCard, error) {
	if len(ids) == 0 {
		return []models.AnswerCard{}, nil
	}

	var answers []models.Answer
	err := applyAnswerDetails(readDB(r.db).WithContext(ctx).Model(&models.Answer{})).
		Preload("Author").
		Where("answers.id IN ?", ids).
		Find(&answers).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	ordered := orderByIDs(ids, answers, func(a *models.Answer) uint { return a.ID })
	cards := make([]models.AnswerCard, 0, len(ordered))
	for i := range ordered {
		cards = append(cards, ordered[i].Card())
	}
	return cards, nil
}

func (r *answerRepository) SetCorrect(ctx context.Context, id uint, correct bool) error {
	res := r.db.WithContext(ctx).Model(&models.Answer{}).Where("id = ?", id).Update("is_correct", correct)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Answer", id)
	}
	return nil
}
