package service

import (
	"context"

	"askme/internal/cache"
	"askme/internal/featureflags"
	"askme/internal/models"
	"askme/internal/repository"
)

// Listing views accepted by Questions.
const (
	ViewAll  = "all"
	ViewNew  = repository.ViewNew
	ViewHot  = repository.ViewHot
	ViewBest = repository.ViewBest
)

// Sidebar is rendered next to every listing.
type Sidebar struct {
	PopularTags []string `json:"popular_tags"`
	BestMembers []string `json:"best_members"`
}

type QuestionPage struct {
	Items    []models.QuestionCard `json:"items"`
	Page     int                   `json:"page"`
	LastPage int                   `json:"last_page"`
}

type AnswerPage struct {
	Items    []models.AnswerCard `json:"items"`
	Page     int                 `json:"page"`
	LastPage int                 `json:"last_page"`
}

// QuestionDetail is a question with one page of its answers, best first.
type QuestionDetail struct {
	Question models.QuestionCard `json:"question"`
	Answers  AnswerPage          `json:"answers"`
}

type RankingService struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	tagRepo      repository.TagRepository
	profileRepo  repository.ProfileRepository
	flags        *featureflags.Manager
}

func NewRankingService(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	tagRepo repository.TagRepository,
	profileRepo repository.ProfileRepository,
	flags *featureflags.Manager,
) *RankingService {
	return &RankingService{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		tagRepo:      tagRepo,
		profileRepo:  profileRepo,
		flags:        flags,
	}
}

// Questions returns one page of the given view.
func (s *RankingService) Questions(ctx context.Context, view string, page int) (*QuestionPage, error) {
	var (
		ids []uint
		err error
	)
	switch view {
	case ViewAll:
		ids, err = s.questionRepo.AllIDs(ctx)
	case ViewNew:
		ids, err = s.questionRepo.NewIDs(ctx, NewLimit)
	case ViewHot:
		ids, err = s.questionRepo.HotIDs(ctx, HotLimit)
	case ViewBest:
		ids, err = s.questionRepo.BestIDs(ctx, BestLimit)
	default:
		return nil, models.NewValidationError("unknown listing " + view)
	}
	if err != nil {
		return nil, err
	}
	return s.questionPage(ctx, ids, page)
}

// QuestionsByTag lists every question carrying tag, newest first.
func (s *RankingService) QuestionsByTag(ctx context.Context, tag string, page int) (*QuestionPage, error) {
	ids, err := s.questionRepo.IDsByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	return s.questionPage(ctx, ids, page)
}

func (s *RankingService) questionPage(ctx context.Context, ids []uint, page int) (*QuestionPage, error) {
	pageIDs, page, last := Paginate(ids, page, QuestionsPerPage)
	cards, err := s.questionRepo.Cards(ctx, pageIDs)
	if err != nil {
		return nil, err
	}
	return &QuestionPage{Items: cards, Page: page, LastPage: last}, nil
}

// Question loads one question and the requested page of its answers.
func (s *RankingService) Question(ctx context.Context, id uint, answerPage int) (*QuestionDetail, error) {
	cards, err := s.questionRepo.Cards(ctx, []uint{id})
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, models.NewNotFoundError("Question", id)
	}

	ids, err := s.answerRepo.IDsByQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	pageIDs, page, last := Paginate(ids, answerPage, AnswersPerPage)
	answers, err := s.answerRepo.Cards(ctx, pageIDs)
	if err != nil {
		return nil, err
	}

	return &QuestionDetail{
		Question: cards[0],
		Answers:  AnswerPage{Items: answers, Page: page, LastPage: last},
	}, nil
}

// Sidebar returns popular tags and the most active members.
func (s *RankingService) Sidebar(ctx context.Context) (*Sidebar, error) {
	var sb Sidebar
	fetch := func() error {
		tags, err := s.tagRepo.Popular(ctx, PopularTagsLimit)
		if err != nil {
			return err
		}
		members, err := s.profileRepo.TopByAnswers(ctx, BestMembersLimit)
		if err != nil {
			return err
		}
		sb = Sidebar{PopularTags: tags, BestMembers: members}
		return nil
	}

	if !s.flags.Enabled(featureflags.SidebarCache, 0) {
		if err := fetch(); err != nil {
			return nil, err
		}
		return &sb, nil
	}
	if err := cache.Aside(ctx, cache.SidebarKey, &sb, cache.SidebarTTL, fetch); err != nil {
		return nil, err
	}
	return &sb, nil
}
