// Package models contains data structures for the application's domain models.
package models

import "time"

// DefaultAvatar is the avatar reference assigned to new profiles.
const DefaultAvatar = "img/base.jpg"

// User is the account identity used for authentication.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Profile   *Profile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile is the forum-facing record of a user. Questions, answers and
// votes are owned by profiles, not users.
type Profile struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Nickname  string     `gorm:"size:255" json:"nickname"`
	Avatar    string     `gorm:"default:img/base.jpg" json:"avatar"`
	Birthday  *time.Time `gorm:"type:date" json:"birthday,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AvatarOrDefault returns the stored avatar or DefaultAvatar when unset.
func (p *Profile) AvatarOrDefault() string {
	if p == nil || p.Avatar == "" {
		return DefaultAvatar
	}
	return p.Avatar
}
