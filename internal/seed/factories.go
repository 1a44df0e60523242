// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"askme/internal/middleware"
	"askme/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db     *gorm.DB
	opts   Options
	faker  *gofakeit.Faker
	rng    *rand.Rand
	hashed string
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
// db may be nil in DryRun mode.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		db:     db,
		opts:   opts,
		faker:  gofakeit.New(seed),
		rng:    rand.New(rand.NewSource(seed)), // #nosec G404: acceptable for seeding
		nextID: 1000,
	}
}

func (f *Factory) syntheticID() uint {
	f.nextID++
	return f.nextID
}

func (f *Factory) passwordHash() (string, error) {
	if f.opts.SkipBcrypt {
		return DefaultPassword, nil
	}
	if f.hashed == "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("hash seed password: %w", err)
		}
		f.hashed = string(hashed)
	}
	return f.hashed, nil
}

// createdAt returns a timestamp spread over the last MaxDays days.
func (f *Factory) createdAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// CreateTags persists n tags with distinct titles.
func (f *Factory) CreateTags(n int) ([]models.Tag, error) {
	seen := make(map[string]struct{}, n)
	tags := make([]models.Tag, 0, n)
	for i := 0; len(tags) < n; i++ {
		title := truncate(strings.ToLower(f.faker.Word()), models.MaxTagLength)
		if _, dup := seen[title]; dup || title == "" {
			title = truncate(fmt.Sprintf("%s%d", title, i), models.MaxTagLength)
			if _, dup := seen[title]; dup {
				continue
			}
		}
		seen[title] = struct{}{}
		tags = append(tags, models.Tag{Title: title})
	}

	if f.opts.DryRun {
		for i := range tags {
			tags[i].ID = f.syntheticID()
		}
		middleware.Logger.Debug("[dry-run] CreateTags", "count", len(tags))
		return tags, nil
	}
	if err := f.db.CreateInBatches(&tags, f.opts.batchSize()).Error; err != nil {
		return nil, fmt.Errorf("create tags: %w", err)
	}
	return tags, nil
}

// CreateUser persists an account and its profile.
func (f *Factory) CreateUser(n int) (*models.Profile, error) {
	hashed, err := f.passwordHash()
	if err != nil {
		return nil, err
	}

	username := truncate(fmt.Sprintf("%s%d", strings.ToLower(f.faker.Username()), n), 150)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hashed,
	}
	profile := &models.Profile{
		Nickname: f.faker.Name(),
		Avatar:   models.DefaultAvatar,
	}
	if f.rng.Intn(2) == 0 {
		birthday := f.faker.DateRange(time.Now().AddDate(-60, 0, 0), time.Now().AddDate(-16, 0, 0))
		profile.Birthday = &birthday
	}

	if f.opts.DryRun {
		user.ID = f.syntheticID()
		profile.ID = f.syntheticID()
		profile.UserID = user.ID
		profile.User = user
		return profile, nil
	}

	err = f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", username, err)
	}
	profile.User = user
	return profile, nil
}

// CreateQuestion persists a question by author tagged with tags.
func (f *Factory) CreateQuestion(author *models.Profile, tags []models.Tag) (*models.Question, error) {
	question := &models.Question{
		Title:       truncate(strings.TrimSuffix(f.faker.Question(), "?")+"?", models.MaxTitleLength),
		Description: truncate(f.faker.Paragraph(1, 3, 12, " "), models.MaxDescriptionLength),
		AuthorID:    author.ID,
		Tags:        tags,
		CreatedAt:   f.createdAt(),
	}

	if f.opts.DryRun {
		question.ID = f.syntheticID()
		return question, nil
	}
	if err := f.db.Create(question).Error; err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return question, nil
}

// CreateAnswer persists an answer to question by author.
func (f *Factory) CreateAnswer(question *models.Question, author *models.Profile) (*models.Answer, error) {
	answer := &models.Answer{
		QuestionID:  question.ID,
		AuthorID:    author.ID,
		Description: truncate(f.faker.Paragraph(1, 2, 10, " "), models.MaxDescriptionLength),
		IsCorrect:   f.rng.Intn(10) == 0,
		CreatedAt:   question.CreatedAt.Add(time.Duration(f.rng.Intn(72)+1) * time.Hour),
	}

	if f.opts.DryRun {
		answer.ID = f.syntheticID()
		return answer, nil
	}
	if err := f.db.Create(answer).Error; err != nil {
		return nil, fmt.Errorf("create answer: %w", err)
	}
	return answer, nil
}

// CreateQuestionVotes persists one random like or dislike per voter.
func (f *Factory) CreateQuestionVotes(question *models.Question, voters []*models.Profile) (int, error) {
	votes := make([]models.QuestionVote, 0, len(voters))
	for _, voter := range voters {
		votes = append(votes, models.QuestionVote{QuestionID: question.ID, ProfileID: voter.ID, Type: f.voteValue()})
	}
	if f.opts.DryRun || len(votes) == 0 {
		return len(votes), nil
	}
	if err := f.db.CreateInBatches(&votes, f.opts.batchSize()).Error; err != nil {
		return 0, fmt.Errorf("create question votes: %w", err)
	}
	return len(votes), nil
}

// CreateAnswerVotes persists one random like or dislike per voter.
func (f *Factory) CreateAnswerVotes(answer *models.Answer, voters []*models.Profile) (int, error) {
	votes := make([]models.AnswerVote, 0, len(voters))
	for _, voter := range voters {
		votes = append(votes, models.AnswerVote{AnswerID: answer.ID, ProfileID: voter.ID, Type: f.voteValue()})
	}
	if f.opts.DryRun || len(votes) == 0 {
		return len(votes), nil
	}
	if err := f.db.CreateInBatches(&votes, f.opts.batchSize()).Error; err != nil {
		return 0, fmt.Errorf("create answer votes: %w", err)
	}
	return len(votes), nil
}

func (f *Factory) voteValue() int {
	if f.rng.Intn(2) == 0 {
		return models.VoteDislike.Value()
	}
	return models.VoteLike.Value()
}
