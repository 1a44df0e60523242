package repository

import (
	"context"
	"fmt"
	"time"

	"askme/internal/models"

	"gorm.io/gorm"
)

// VoteResult is the voter's stored value after a vote together with the
// target's resulting net score.
type VoteResult struct {
	Value int `json:"value"`
	Score int `json:"score"`
}

// VoteRepository is the vote ledger. Each (target, profile) pair holds at most
// one row; its value is -1, 0 or +1.
type VoteRepository interface {
	// Apply records choice for the profile on the target. Repeating the stored
	// choice resets it to 0; anything else overwrites it.
	Apply(ctx context.Context, target models.VoteTarget, targetID, profileID uint, choice models.VoteChoice) (*VoteResult, error)
	NetScore(ctx context.Context, target models.VoteTarget, targetID uint) (int, error)
	TargetExists(ctx context.Context, target models.VoteTarget, targetID uint) (bool, error)
}

type voteRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db, now: time.Now}
}

// upsertVoteSQL resolves the toggle against the stored row inside one
// statement so concurrent requests from the same profile cannot both insert.
func upsertVoteSQL(target models.VoteTarget) string {
	table := target.VoteTable()
	col := target.TargetColumn()
	return fmt.Sprintf(`INSERT INTO %[1]s (%[2]s, profile_id, type, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
ON CONFLICT (%[2]s, profile_id) DO UPDATE SET
type = CASE WHEN %[1]s.type = excluded.type THEN 0 ELSE excluded.type END,
updated_at = excluded.updated_at
RETURNING type`, table, col)
}

func netScoreSQL(target models.VoteTarget) string {
	return fmt.Sprintf("SELECT COALESCE(SUM(type), 0) FROM %s WHERE %s = ?", target.VoteTable(), target.TargetColumn())
}

func (r *voteRepository) Apply(ctx context.Context, target models.VoteTarget, targetID, profileID uint, choice models.VoteChoice) (*VoteResult, error) {
	var result VoteResult
	now := r.now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored []int
		if err := tx.Raw(upsertVoteSQL(target), targetID, profileID, choice.Value(), now, now).Scan(&stored).Error; err != nil {
			return err
		}
		if len(stored) != 1 {
			return fmt.Errorf("vote upsert returned %d rows", len(stored))
		}
		result.Value = stored[0]
		return tx.Raw(netScoreSQL(target), targetID).Scan(&result.Score).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &result, nil
}

func (r *voteRepository) NetScore(ctx context.Context, target models.VoteTarget, targetID uint) (int, error) {
	var score int
	if err := readDB(r.db).WithContext(ctx).Raw(netScoreSQL(target), targetID).Scan(&score).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return score, nil
}

func (r *voteRepository) TargetExists(ctx context.Context, target models.VoteTarget, targetID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table(target.TargetTable()).Where("id = ?", targetID).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
