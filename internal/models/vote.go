package models

import (
	"fmt"
	"time"
)

// VoteChoice is what a voter asks for. Its signed value is what gets stored.
type VoteChoice string

const (
	VoteLike    VoteChoice = "like"
	VoteDislike VoteChoice = "dislike"
)

// ParseVoteChoice validates a raw choice string.
func ParseVoteChoice(raw string) (VoteChoice, error) {
	switch VoteChoice(raw) {
	case VoteLike, VoteDislike:
		return VoteChoice(raw), nil
	}
	return "", NewValidationError(fmt.Sprintf("unknown vote %q", raw))
}

// Value is +1 for like and -1 for dislike.
func (c VoteChoice) Value() int {
	if c == VoteLike {
		return 1
	}
	return -1
}

// VoteTarget selects which kind of item a vote applies to.
type VoteTarget string

const (
	TargetQuestion VoteTarget = "question"
	TargetAnswer   VoteTarget = "answer"
)

// ParseVoteTarget validates a raw target kind.
func ParseVoteTarget(raw string) (VoteTarget, error) {
	switch VoteTarget(raw) {
	case TargetQuestion, TargetAnswer:
		return VoteTarget(raw), nil
	}
	return "", NewValidationError(fmt.Sprintf("unknown vote target %q", raw))
}

// VoteTable is the table holding votes for the target kind.
func (t VoteTarget) VoteTable() string {
	if t == TargetAnswer {
		return "answer_votes"
	}
	return "question_votes"
}

// TargetTable is the table holding the voted items.
func (t VoteTarget) TargetTable() string {
	if t == TargetAnswer {
		return "answers"
	}
	return "questions"
}

// TargetColumn is the foreign key column in VoteTable.
func (t VoteTarget) TargetColumn() string {
	if t == TargetAnswer {
		return "answer_id"
	}
	return "question_id"
}

// QuestionVote is one profile's vote on a question.
// Type is +1, -1, or 0 after a toggle-off.
type QuestionVote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_question_vote_profile" json:"question_id"`
	Question   *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	ProfileID  uint      `gorm:"not null;uniqueIndex:idx_question_vote_profile" json:"profile_id"`
	Profile    *Profile  `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"-"`
	Type       int       `gorm:"type:smallint;not null;default:0" json:"type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AnswerVote is one profile's vote on an answer.
type AnswerVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AnswerID  uint      `gorm:"not null;uniqueIndex:idx_answer_vote_profile" json:"answer_id"`
	Answer    *Answer   `gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE" json:"-"`
	ProfileID uint      `gorm:"not null;uniqueIndex:idx_answer_vote_profile" json:"profile_id"`
	Profile   *Profile  `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"-"`
	Type      int       `gorm:"type:smallint;not null;default:0" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
