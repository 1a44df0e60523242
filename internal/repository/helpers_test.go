package repository

import (
	"testing"
	"time"

	"askme/internal/database"
	"askme/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

// fixture builds rows directly so ranking tests control timestamps.
type fixture struct {
	t    *testing.T
	db   *gorm.DB
	base time.Time
	seq  int
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, db: setupTestDB(t), base: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fixture) tick() time.Time {
	f.seq++
	return f.base.Add(time.Duration(f.seq) * time.Minute)
}

func (f *fixture) profile(username string) *models.Profile {
	f.t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(f.t, f.db.Create(user).Error)
	profile := &models.Profile{UserID: user.ID, Nickname: username, Avatar: models.DefaultAvatar}
	require.NoError(f.t, f.db.Create(profile).Error)
	return profile
}

func (f *fixture) question(author *models.Profile, title string, tags ...string) *models.Question {
	f.t.Helper()
	q := &models.Question{Title: title, Description: title + " body", AuthorID: author.ID, CreatedAt: f.tick()}
	for _, name := range tags {
		var tag models.Tag
		require.NoError(f.t, f.db.Where(models.Tag{Title: name}).FirstOrCreate(&tag).Error)
		q.Tags = append(q.Tags, tag)
	}
	require.NoError(f.t, f.db.Create(q).Error)
	return q
}

func (f *fixture) answer(author *models.Profile, q *models.Question) *models.Answer {
	f.t.Helper()
	a := &models.Answer{QuestionID: q.ID, AuthorID: author.ID, Description: "answer", CreatedAt: f.tick()}
	require.NoError(f.t, f.db.Create(a).Error)
	return a
}

func (f *fixture) questionVote(q *models.Question, voter *models.Profile, value int) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(&models.QuestionVote{QuestionID: q.ID, ProfileID: voter.ID, Type: value}).Error)
}

func (f *fixture) answerVote(a *models.Answer, voter *models.Profile, value int) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(&models.AnswerVote{AnswerID: a.ID, ProfileID: voter.ID, Type: value}).Error)
}

// voters creates n distinct profiles.
func (f *fixture) voters(prefix string, n int) []*models.Profile {
	out := make([]*models.Profile, n)
	for i := range out {
		out[i] = f.profile(prefix + string(rune('a'+i)))
	}
	return out
}
