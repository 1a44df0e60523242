package service

import (
	"context"
	"errors"
	"testing"

	"askme/internal/models"
	"askme/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}

type profileRepoStub struct {
	getByUserIDFn  func(context.Context, uint) (*models.Profile, error)
	updateFn       func(context.Context, *models.Profile, string) error
	topByAnswersFn func(context.Context, int) ([]string, error)
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}

func (s *profileRepoStub) Update(ctx context.Context, p *models.Profile, passwordHash string) error {
	return s.updateFn(ctx, p, passwordHash)
}

func (s *profileRepoStub) TopByAnswers(ctx context.Context, limit int) ([]string, error) {
	return s.topByAnswersFn(ctx, limit)
}

// profilesByUser maps user IDs to profile IDs; unknown users have no profile.
func profilesByUser(m map[uint]uint) *profileRepoStub {
	return &profileRepoStub{
		getByUserIDFn: func(_ context.Context, userID uint) (*models.Profile, error) {
			if id, ok := m[userID]; ok {
				return &models.Profile{ID: id, UserID: userID}, nil
			}
			return nil, models.NewNotFoundError("Profile for user", userID)
		},
		updateFn:       func(context.Context, *models.Profile, string) error { return nil },
		topByAnswersFn: func(context.Context, int) ([]string, error) { return nil, nil },
	}
}

type voteRepoStub struct {
	applyFn  func(context.Context, models.VoteTarget, uint, uint, models.VoteChoice) (*repository.VoteResult, error)
	existsFn func(context.Context, models.VoteTarget, uint) (bool, error)
}

func (s *voteRepoStub) Apply(ctx context.Context, target models.VoteTarget, targetID, profileID uint, choice models.VoteChoice) (*repository.VoteResult, error) {
	return s.applyFn(ctx, target, targetID, profileID, choice)
}

func (s *voteRepoStub) NetScore(context.Context, models.VoteTarget, uint) (int, error) {
	return 0, nil
}

func (s *voteRepoStub) TargetExists(ctx context.Context, target models.VoteTarget, targetID uint) (bool, error) {
	return s.existsFn(ctx, target, targetID)
}

type questionRepoStub struct {
	createFn  func(context.Context, *models.Question) error
	getByIDFn func(context.Context, uint) (*models.Question, error)
	idsFn     func(view string, limit int) ([]uint, error)
	byTagFn   func(context.Context, string) ([]uint, error)
	cardsFn   func(context.Context, []uint) ([]models.QuestionCard, error)
}

func (s *questionRepoStub) Create(ctx context.Context, q *models.Question) error {
	return s.createFn(ctx, q)
}

func (s *questionRepoStub) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	return s.getByIDFn(ctx, id)
}

func (s *questionRepoStub) NewIDs(_ context.Context, limit int) ([]uint, error) {
	return s.idsFn(repository.ViewNew, limit)
}

func (s *questionRepoStub) HotIDs(_ context.Context, limit int) ([]uint, error) {
	return s.idsFn(repository.ViewHot, limit)
}

func (s *questionRepoStub) BestIDs(_ context.Context, limit int) ([]uint, error) {
	return s.idsFn(repository.ViewBest, limit)
}

func (s *questionRepoStub) IDsByTag(ctx context.Context, tag string) ([]uint, error) {
	return s.byTagFn(ctx, tag)
}

func (s *questionRepoStub) AllIDs(context.Context) ([]uint, error) {
	return s.idsFn(ViewAll, 0)
}

func (s *questionRepoStub) Cards(ctx context.Context, ids []uint) ([]models.QuestionCard, error) {
	return s.cardsFn(ctx, ids)
}

// cardsEcho returns one card per requested ID.
func cardsEcho(_ context.Context, ids []uint) ([]models.QuestionCard, error) {
	out := make([]models.QuestionCard, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.QuestionCard{ID: id})
	}
	return out, nil
}

func noopQuestionRepo() *questionRepoStub {
	return &questionRepoStub{
		createFn: func(_ context.Context, q *models.Question) error {
			q.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Question, error) {
			return &models.Question{ID: id}, nil
		},
		idsFn:   func(string, int) ([]uint, error) { return nil, nil },
		byTagFn: func(context.Context, string) ([]uint, error) { return nil, nil },
		cardsFn: cardsEcho,
	}
}

type answerRepoStub struct {
	createFn        func(context.Context, *models.Answer) error
	getByIDFn       func(context.Context, uint) (*models.Answer, error)
	idsByQuestionFn func(context.Context, uint) ([]uint, error)
	cardsFn         func(context.Context, []uint) ([]models.AnswerCard, error)
	setCorrectFn    func(context.Context, uint, bool) error
}

func (s *answerRepoStub) Create(ctx context.Context, a *models.Answer) error {
	return s.createFn(ctx, a)
}

func (s *answerRepoStub) GetByID(ctx context.Context, id uint) (*models.Answer, error) {
	return s.getByIDFn(ctx, id)
}

func (s *answerRepoStub) IDsByQuestion(ctx context.Context, questionID uint) ([]uint, error) {
	return s.idsByQuestionFn(ctx, questionID)
}

func (s *answerRepoStub) Cards(ctx context.Context, ids []uint) ([]models.AnswerCard, error) {
	return s.cardsFn(ctx, ids)
}

func (s *answerRepoStub) SetCorrect(ctx context.Context, id uint, correct bool) error {
	return s.setCorrectFn(ctx, id, correct)
}

func noopAnswerRepo() *answerRepoStub {
	return &answerRepoStub{
		createFn:        func(context.Context, *models.Answer) error { return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.Answer, error) { return &models.Answer{ID: id}, nil },
		idsByQuestionFn: func(context.Context, uint) ([]uint, error) { return nil, nil },
		cardsFn: func(_ context.Context, ids []uint) ([]models.AnswerCard, error) {
			out := make([]models.AnswerCard, 0, len(ids))
			for _, id := range ids {
				out = append(out, models.AnswerCard{ID: id})
			}
			return out, nil
		},
		setCorrectFn: func(context.Context, uint, bool) error { return nil },
	}
}

type tagRepoStub struct {
	getOrCreateFn func(context.Context, []string) ([]models.Tag, error)
	popularFn     func(context.Context, int) ([]string, error)
}

func (s *tagRepoStub) GetOrCreate(ctx context.Context, titles []string) ([]models.Tag, error) {
	return s.getOrCreateFn(ctx, titles)
}

func (s *tagRepoStub) Popular(ctx context.Context, limit int) ([]string, error) {
	return s.popularFn(ctx, limit)
}

func noopTagRepo() *tagRepoStub {
	return &tagRepoStub{
		getOrCreateFn: func(_ context.Context, titles []string) ([]models.Tag, error) {
			out := make([]models.Tag, 0, len(titles))
			for i, title := range titles {
				out = append(out, models.Tag{ID: uint(i + 1), Title: title})
			}
			return out, nil
		},
		popularFn: func(context.Context, int) ([]string, error) { return nil, nil },
	}
}

type userRepoStub struct {
	createFn        func(context.Context, *models.User, *models.Profile) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	existsFn        func(context.Context, string, string) (bool, error)
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User, p *models.Profile) error {
	return s.createFn(ctx, u, p)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}

func (s *userRepoStub) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	return s.existsFn(ctx, username, email)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User, p *models.Profile) error {
			u.ID = 1
			p.UserID = 1
			u.Profile = p
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", username)
		},
		existsFn: func(context.Context, string, string) (bool, error) { return false, nil },
	}
}

type publisherStub struct {
	calls []publishedVote
	err   error
}

type publishedVote struct {
	target string
	id     uint
	likes  int
}

func (p *publisherStub) PublishVote(_ context.Context, target string, id uint, likes int) error {
	p.calls = append(p.calls, publishedVote{target, id, likes})
	return p.err
}
