package seed

import (
	"context"
	"fmt"
	"log/slog"

	"askme/internal/middleware"
	"askme/internal/models"

	"gorm.io/gorm"
)

const (
	questionsPerUser = 10
	maxTagsPerItem   = 3
	maxAnswers       = 9
	maxVotes         = 9
)

// Options configuration for the seeder
type Options struct {
	DryRun     bool
	SkipBcrypt bool
	BatchSize  int
	MaxDays    int
	// RandSeed makes a run reproducible when non-zero.
	RandSeed int64
}

func (o Options) batchSize() int {
	if o.BatchSize <= 0 {
		return 100
	}
	return o.BatchSize
}

// Stats counts what a Fill created.
type Stats struct {
	Tags          int `json:"tags"`
	Users         int `json:"users"`
	Questions     int `json:"questions"`
	Answers       int `json:"answers"`
	QuestionVotes int `json:"question_votes"`
	AnswerVotes   int `json:"answer_votes"`
}

// Seeder fills the forum tables with generated content.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

// NewSeeder returns a Seeder. db may be nil when opts.DryRun is set.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, opts: opts, factory: NewFactory(db, opts)}
}

// Fill creates ratio tags, ratio users, and ratio*10 questions. Each question
// gets 1-3 tags, up to 9 answers, and up to 9 votes from distinct profiles;
// each answer gets up to 9 votes the same way.
func (s *Seeder) Fill(ctx context.Context, ratio int) (*Stats, error) {
	if ratio <= 0 {
		return nil, fmt.Errorf("ratio must be positive, got %d", ratio)
	}
	f := s.factory
	if s.db != nil {
		f.db = s.db.WithContext(ctx)
	}
	stats := &Stats{}

	tags, err := f.CreateTags(ratio)
	if err != nil {
		return nil, err
	}
	stats.Tags = len(tags)

	profiles := make([]*models.Profile, 0, ratio)
	for i := 0; i < ratio; i++ {
		profile, err := f.CreateUser(i)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	stats.Users = len(profiles)
	middleware.Logger.Info("seeded accounts", slog.Int("tags", stats.Tags), slog.Int("users", stats.Users))

	for i := 0; i < ratio*questionsPerUser; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := s.fillQuestion(tags, profiles, stats); err != nil {
			return stats, err
		}
	}

	middleware.Logger.Info("seeding completed",
		slog.Bool("dry_run", s.opts.DryRun),
		slog.Int("questions", stats.Questions),
		slog.Int("answers", stats.Answers),
		slog.Int("question_votes", stats.QuestionVotes),
		slog.Int("answer_votes", stats.AnswerVotes),
	)
	return stats, nil
}

func (s *Seeder) fillQuestion(tags []models.Tag, profiles []*models.Profile, stats *Stats) error {
	f := s.factory

	picked := make([]models.Tag, 0, maxTagsPerItem)
	for _, i := range f.rng.Perm(len(tags))[:min(1+f.rng.Intn(maxTagsPerItem), len(tags))] {
		picked = append(picked, tags[i])
	}

	question, err := f.CreateQuestion(profiles[f.rng.Intn(len(profiles))], picked)
	if err != nil {
		return err
	}
	stats.Questions++

	n, err := f.CreateQuestionVotes(question, s.voters(profiles))
	if err != nil {
		return err
	}
	stats.QuestionVotes += n

	for i := f.rng.Intn(maxAnswers + 1); i > 0; i-- {
		answer, err := f.CreateAnswer(question, profiles[f.rng.Intn(len(profiles))])
		if err != nil {
			return err
		}
		stats.Answers++

		n, err := f.CreateAnswerVotes(answer, s.voters(profiles))
		if err != nil {
			return err
		}
		stats.AnswerVotes += n
	}
	return nil
}

// voters picks up to maxVotes distinct profiles.
func (s *Seeder) voters(profiles []*models.Profile) []*models.Profile {
	n := min(s.factory.rng.Intn(maxVotes+1), len(profiles))
	out := make([]*models.Profile, 0, n)
	for _, i := range s.factory.rng.Perm(len(profiles))[:n] {
		out = append(out, profiles[i])
	}
	return out
}

// ClearAll deletes every forum row, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	if s.opts.DryRun {
		middleware.Logger.Info("[dry-run] ClearAll skipped")
		return nil
	}
	tables := []string{"answer_votes", "question_votes", "answers", "question_tags", "questions", "tags", "profiles", "users"}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
