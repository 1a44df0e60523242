package repository

import (
	"context"
	"testing"

	"askme/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteRepository_StateMachine(t *testing.T) {
	tests := []struct {
		name    string
		choices []models.VoteChoice
		want    []int
	}{
		{name: "like from neutral", choices: []models.VoteChoice{models.VoteLike}, want: []int{1}},
		{name: "dislike from neutral", choices: []models.VoteChoice{models.VoteDislike}, want: []int{-1}},
		{name: "repeat like toggles off", choices: []models.VoteChoice{models.VoteLike, models.VoteLike}, want: []int{1, 0}},
		{name: "flip like to dislike", choices: []models.VoteChoice{models.VoteLike, models.VoteDislike}, want: []int{1, -1}},
		{name: "flip dislike to like", choices: []models.VoteChoice{models.VoteDislike, models.VoteLike}, want: []int{-1, 1}},
		{name: "toggle off then vote again", choices: []models.VoteChoice{models.VoteDislike, models.VoteDislike, models.VoteDislike}, want: []int{-1, 0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			repo := NewVoteRepository(f.db)
			author := f.profile("author")
			voter := f.profile("voter")
			q := f.question(author, "q")

			for i, choice := range tt.choices {
				res, err := repo.Apply(context.Background(), models.TargetQuestion, q.ID, voter.ID, choice)
				require.NoError(t, err)
				assert.Equal(t, tt.want[i], res.Value, "step %d", i)
				assert.Equal(t, tt.want[i], res.Score, "step %d", i)
			}

			var rows int64
			f.db.Model(&models.QuestionVote{}).Count(&rows)
			assert.Equal(t, int64(1), rows, "one ledger row per voter")
		})
	}
}

func TestVoteRepository_FlipMovesScoreByTwo(t *testing.T) {
	f := newFixture(t)
	repo := NewVoteRepository(f.db)
	ctx := context.Background()
	author := f.profile("author")
	voters := f.voters("v", 3)
	q := f.question(author, "q")
	a := f.answer(author, q)

	for _, v := range voters {
		_, err := repo.Apply(ctx, models.TargetAnswer, a.ID, v.ID, models.VoteLike)
		require.NoError(t, err)
	}
	before, err := repo.NetScore(ctx, models.TargetAnswer, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, before)

	res, err := repo.Apply(ctx, models.TargetAnswer, a.ID, voters[0].ID, models.VoteDislike)
	require.NoError(t, err)
	assert.Equal(t, -1, res.Value)
	assert.Equal(t, before-2, res.Score)

	questionScore, err := repo.NetScore(ctx, models.TargetQuestion, q.ID)
	require.NoError(t, err)
	assert.Zero(t, questionScore, "answer votes do not leak into the question score")
}

func TestVoteRepository_TwoVotersAlternating(t *testing.T) {
	f := newFixture(t)
	repo := NewVoteRepository(f.db)
	ctx := context.Background()
	author := f.profile("author")
	a := f.profile("a")
	b := f.profile("b")
	q := f.question(author, "q")

	steps := []struct {
		voter  *models.Profile
		choice models.VoteChoice
		score  int
	}{
		{a, models.VoteLike, 1},
		{b, models.VoteDislike, 0},
		{a, models.VoteLike, -1},
	}
	for i, s := range steps {
		res, err := repo.Apply(ctx, models.TargetQuestion, q.ID, s.voter.ID, s.choice)
		require.NoError(t, err)
		assert.Equal(t, s.score, res.Score, "step %d", i)
	}
}

func TestVoteRepository_TargetExists(t *testing.T) {
	f := newFixture(t)
	repo := NewVoteRepository(f.db)
	ctx := context.Background()
	author := f.profile("author")
	q := f.question(author, "q")

	ok, err := repo.TargetExists(ctx, models.TargetQuestion, q.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TargetExists(ctx, models.TargetAnswer, q.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVoteRepository_UpsertIsSingleStatement(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVoteRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO answer_votes \(answer_id, profile_id, type, created_at, updated_at\) VALUES .+ ON CONFLICT \(answer_id, profile_id\) DO UPDATE SET\s+type = CASE WHEN answer_votes.type = excluded.type THEN 0 ELSE excluded.type END.+RETURNING type`).
		WithArgs(5, 9, -1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"type"}).AddRow(-1))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(type\), 0\) FROM answer_votes WHERE answer_id = \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(-4))
	mock.ExpectCommit()

	res, err := repo.Apply(context.Background(), models.TargetAnswer, 5, 9, models.VoteDislike)
	require.NoError(t, err)
	assert.Equal(t, &VoteResult{Value: -1, Score: -4}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}
