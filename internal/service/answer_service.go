package service

import (
	"context"

	"askme/internal/cache"
	"askme/internal/models"
	"askme/internal/repository"
	"askme/internal/validation"
)

type AnswerService struct {
	answerRepo   repository.AnswerRepository
	questionRepo repository.QuestionRepository
	profileRepo  repository.ProfileRepository
}

type CreateAnswerInput struct {
	UserID     uint
	QuestionID uint
	Text       string
}

// AnswerCreated carries the new answer and the page of answers, in score
// order, that holds it.
type AnswerCreated struct {
	Answer  *models.Answer `json:"answer"`
	Answers AnswerPage     `json:"answers"`
}

type MarkCorrectInput struct {
	UserID   uint
	AnswerID uint
	Correct  bool
}

func NewAnswerService(
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
	profileRepo repository.ProfileRepository,
) *AnswerService {
	return &AnswerService{
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		profileRepo:  profileRepo,
	}
}

func (s *AnswerService) Create(ctx context.Context, in CreateAnswerInput) (*AnswerCreated, error) {
	profile, err := authorProfile(ctx, s.profileRepo, in.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.questionRepo.GetByID(ctx, in.QuestionID); err != nil {
		return nil, err
	}

	text, err := cleanField(in.Text, validation.ValidateText)
	if err != nil {
		return nil, err
	}

	answer := &models.Answer{
		QuestionID:  in.QuestionID,
		AuthorID:    profile.ID,
		Description: text,
	}
	if err := s.answerRepo.Create(ctx, answer); err != nil {
		return nil, err
	}
	cache.InvalidateSidebar(ctx)

	ids, err := s.answerRepo.IDsByQuestion(ctx, in.QuestionID)
	if err != nil {
		return nil, err
	}
	pageIDs, page, last := Paginate(ids, pageOf(ids, answer.ID, AnswersPerPage), AnswersPerPage)
	cards, err := s.answerRepo.Cards(ctx, pageIDs)
	if err != nil {
		return nil, err
	}
	return &AnswerCreated{
		Answer:  answer,
		Answers: AnswerPage{Items: cards, Page: page, LastPage: last},
	}, nil
}

// MarkCorrect sets the correct flag on an answer. Only the author of the
// parent question may do so; several answers may be correct at once.
func (s *AnswerService) MarkCorrect(ctx context.Context, in MarkCorrectInput) error {
	if in.UserID == 0 {
		return models.NewForbiddenError("Login required")
	}

	answer, err := s.answerRepo.GetByID(ctx, in.AnswerID)
	if err != nil {
		return err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return models.NewForbiddenError("User has no profile")
		}
		return err
	}
	if answer.Question == nil || answer.Question.AuthorID != profile.ID {
		return models.NewForbiddenError("Only the question author can mark answers")
	}

	return s.answerRepo.SetCorrect(ctx, answer.ID, in.Correct)
}
