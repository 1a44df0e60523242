package service

import (
	"context"
	"log/slog"

	"askme/internal/featureflags"
	"askme/internal/middleware"
	"askme/internal/models"
	"askme/internal/observability"
	"askme/internal/repository"
)

// VotePublisher fans score changes out to realtime subscribers.
type VotePublisher interface {
	PublishVote(ctx context.Context, target string, id uint, likes int) error
}

type VoteService struct {
	voteRepo    repository.VoteRepository
	profileRepo repository.ProfileRepository
	flags       *featureflags.Manager
	publisher   VotePublisher
}

type ApplyVoteInput struct {
	UserID   uint
	Target   string
	TargetID uint
	Choice   string
}

func NewVoteService(
	voteRepo repository.VoteRepository,
	profileRepo repository.ProfileRepository,
	flags *featureflags.Manager,
	publisher VotePublisher,
) *VoteService {
	return &VoteService{
		voteRepo:    voteRepo,
		profileRepo: profileRepo,
		flags:       flags,
		publisher:   publisher,
	}
}

// ApplyVote runs the like/dislike toggle for the caller's profile and returns
// the stored value and the target's new net score.
func (s *VoteService) ApplyVote(ctx context.Context, in ApplyVoteInput) (*repository.VoteResult, error) {
	target, err := models.ParseVoteTarget(in.Target)
	if err != nil {
		return nil, err
	}
	choice, err := models.ParseVoteChoice(in.Choice)
	if err != nil {
		return nil, err
	}
	if in.UserID == 0 {
		return nil, models.NewForbiddenError("Login required to vote")
	}

	profile, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return nil, models.NewForbiddenError("User has no profile")
		}
		return nil, err
	}

	exists, err := s.voteRepo.TargetExists(ctx, target, in.TargetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError(string(target), in.TargetID)
	}

	result, err := s.voteRepo.Apply(ctx, target, in.TargetID, profile.ID, choice)
	if err != nil {
		return nil, err
	}
	observability.VotesTotal.WithLabelValues(string(target), observability.VoteState(result.Value)).Inc()

	if s.publisher != nil && s.flags.Enabled(featureflags.RealtimeVotes, in.UserID) {
		if err := s.publisher.PublishVote(ctx, string(target), in.TargetID, result.Score); err != nil {
			middleware.Logger.WarnContext(ctx, "vote publish failed",
				slog.String("target", string(target)),
				slog.Uint64("target_id", uint64(in.TargetID)),
				slog.String("error", err.Error()),
			)
		}
	}

	return result, nil
}
