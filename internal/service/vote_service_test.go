package service

import (
	"context"
	"errors"
	"testing"

	"askme/internal/featureflags"
	"askme/internal/models"
	"askme/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func existingTargets(ids ...uint) func(context.Context, models.VoteTarget, uint) (bool, error) {
	return func(_ context.Context, _ models.VoteTarget, id uint) (bool, error) {
		for _, v := range ids {
			if v == id {
				return true, nil
			}
		}
		return false, nil
	}
}

func TestVoteService_ApplyVote_Errors(t *testing.T) {
	t.Parallel()

	votes := &voteRepoStub{
		existsFn: existingTargets(1),
		applyFn: func(context.Context, models.VoteTarget, uint, uint, models.VoteChoice) (*repository.VoteResult, error) {
			t.Fatal("apply must not run")
			return nil, nil
		},
	}
	svc := NewVoteService(votes, profilesByUser(map[uint]uint{10: 100}), featureflags.NewManager(""), nil)

	tests := []struct {
		name string
		in   ApplyVoteInput
		code string
	}{
		{"unknown choice", ApplyVoteInput{UserID: 10, Target: "question", TargetID: 1, Choice: "meh"}, models.CodeValidation},
		{"unknown target kind", ApplyVoteInput{UserID: 10, Target: "comment", TargetID: 1, Choice: "like"}, models.CodeValidation},
		{"anonymous", ApplyVoteInput{Target: "question", TargetID: 1, Choice: "like"}, models.CodeForbidden},
		{"no profile", ApplyVoteInput{UserID: 11, Target: "question", TargetID: 1, Choice: "like"}, models.CodeForbidden},
		{"missing target", ApplyVoteInput{UserID: 10, Target: "answer", TargetID: 2, Choice: "like"}, models.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ApplyVote(context.Background(), tt.in)
			assertCode(t, err, tt.code)
		})
	}
}

func TestVoteService_ApplyVote_UsesProfileAndPublishes(t *testing.T) {
	t.Parallel()

	var gotProfile uint
	var gotChoice models.VoteChoice
	votes := &voteRepoStub{
		existsFn: existingTargets(5),
		applyFn: func(_ context.Context, target models.VoteTarget, id, profileID uint, choice models.VoteChoice) (*repository.VoteResult, error) {
			assert.Equal(t, models.TargetAnswer, target)
			assert.Equal(t, uint(5), id)
			gotProfile, gotChoice = profileID, choice
			return &repository.VoteResult{Value: -1, Score: 3}, nil
		},
	}
	pub := &publisherStub{}
	svc := NewVoteService(votes, profilesByUser(map[uint]uint{7: 70}), featureflags.NewManager(""), pub)

	res, err := svc.ApplyVote(context.Background(), ApplyVoteInput{UserID: 7, Target: "answer", TargetID: 5, Choice: "dislike"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Score)
	assert.Equal(t, uint(70), gotProfile)
	assert.Equal(t, models.VoteDislike, gotChoice)
	assert.Equal(t, []publishedVote{{"answer", 5, 3}}, pub.calls)
}

func TestVoteService_ApplyVote_PublishFlagAndFailures(t *testing.T) {
	t.Parallel()

	votes := &voteRepoStub{
		existsFn: existingTargets(1),
		applyFn: func(context.Context, models.VoteTarget, uint, uint, models.VoteChoice) (*repository.VoteResult, error) {
			return &repository.VoteResult{Value: 1, Score: 1}, nil
		},
	}

	t.Run("flag off skips publishing", func(t *testing.T) {
		t.Parallel()
		pub := &publisherStub{}
		svc := NewVoteService(votes, profilesByUser(map[uint]uint{1: 1}), featureflags.NewManager("realtime_votes=off"), pub)
		_, err := svc.ApplyVote(context.Background(), ApplyVoteInput{UserID: 1, Target: "question", TargetID: 1, Choice: "like"})
		require.NoError(t, err)
		assert.Empty(t, pub.calls)
	})

	t.Run("publish failure does not fail the vote", func(t *testing.T) {
		t.Parallel()
		pub := &publisherStub{err: errors.New("redis down")}
		svc := NewVoteService(votes, profilesByUser(map[uint]uint{1: 1}), featureflags.NewManager(""), pub)
		res, err := svc.ApplyVote(context.Background(), ApplyVoteInput{UserID: 1, Target: "question", TargetID: 1, Choice: "like"})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Value)
		assert.Len(t, pub.calls, 1)
	})
}

func TestVoteService_ApplyVote_RepoErrorPropagates(t *testing.T) {
	t.Parallel()

	repoErr := models.NewInternalError(errors.New("db gone"))
	votes := &voteRepoStub{
		existsFn: func(context.Context, models.VoteTarget, uint) (bool, error) { return false, repoErr },
	}
	svc := NewVoteService(votes, profilesByUser(map[uint]uint{1: 1}), nil, nil)

	_, err := svc.ApplyVote(context.Background(), ApplyVoteInput{UserID: 1, Target: "question", TargetID: 1, Choice: "like"})
	assert.ErrorIs(t, err, repoErr)
}
