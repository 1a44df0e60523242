package models

import "time"

// Field limits shared by forms and the schema.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000
	MaxTagLength         = 20
)

// Question is a forum question. Its default listing order is newest first.
type Question struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"size:1000;not null" json:"description"`
	IsEditing   bool      `gorm:"not null;default:false" json:"is_editing"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      *Profile  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Tags        []Tag     `gorm:"many2many:question_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	// AnswerCount and Score are computed at query time.
	AnswerCount int `gorm:"->;-:migration" json:"answer_count"`
	Score       int `gorm:"->;-:migration" json:"score"`
}

// Answer belongs to one question and one author profile.
type Answer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	QuestionID  uint      `gorm:"not null;index" json:"question_id"`
	Question    *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      *Profile  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Description string    `gorm:"size:1000;not null" json:"description"`
	IsEditing   bool      `gorm:"not null;default:false" json:"is_editing"`
	IsCorrect   bool      `gorm:"not null;default:false" json:"is_correct"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	// Score is computed at query time.
	Score int `gorm:"->;-:migration" json:"score"`
}

// Tag is a short topic label. Titles are unique.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `gorm:"size:20;uniqueIndex;not null" json:"title"`
}
