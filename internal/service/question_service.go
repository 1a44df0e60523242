package service

import (
	"context"

	"askme/internal/cache"
	"askme/internal/models"
	"askme/internal/repository"
	"askme/internal/validation"
)

type QuestionService struct {
	questionRepo repository.QuestionRepository
	tagRepo      repository.TagRepository
	profileRepo  repository.ProfileRepository
}

type AskInput struct {
	UserID uint
	Title  string
	Text   string
	// Tags is a comma-separated list.
	Tags string
}

func NewQuestionService(
	questionRepo repository.QuestionRepository,
	tagRepo repository.TagRepository,
	profileRepo repository.ProfileRepository,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		tagRepo:      tagRepo,
		profileRepo:  profileRepo,
	}
}

// Ask creates a question owned by the caller's profile.
func (s *QuestionService) Ask(ctx context.Context, in AskInput) (*models.Question, error) {
	profile, err := authorProfile(ctx, s.profileRepo, in.UserID)
	if err != nil {
		return nil, err
	}

	title, err := cleanField(in.Title, validation.ValidateTitle)
	if err != nil {
		return nil, err
	}
	text, err := cleanField(in.Text, validation.ValidateText)
	if err != nil {
		return nil, err
	}
	titles, err := validation.ParseTags(in.Tags)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	tags, err := s.tagRepo.GetOrCreate(ctx, titles)
	if err != nil {
		return nil, err
	}

	question := &models.Question{
		Title:       title,
		Description: text,
		AuthorID:    profile.ID,
		Tags:        tags,
	}
	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, err
	}

	cache.InvalidateSidebar(ctx)
	return question, nil
}

// authorProfile resolves the profile that will own new content.
func authorProfile(ctx context.Context, profileRepo repository.ProfileRepository, userID uint) (*models.Profile, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Login required")
	}
	profile, err := profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return nil, models.NewForbiddenError("User has no profile")
		}
		return nil, err
	}
	return profile, nil
}
