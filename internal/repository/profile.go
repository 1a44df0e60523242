package repository

import (
	"context"

	"askme/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for forum profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	// Update saves the editable profile fields. A non-empty passwordHash
	// replaces the owner's password in the same transaction.
	Update(ctx context.Context, profile *models.Profile, passwordHash string) error
	// TopByAnswers returns usernames of the profiles with the most answers.
	TopByAnswers(ctx context.Context, limit int) ([]string, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, lookupError(err, "Profile for user", userID)
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile, passwordHash string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(profile).Select("Nickname", "Avatar", "Birthday").Updates(profile).Error; err != nil {
			return models.NewInternalError(err)
		}
		if passwordHash == "" {
			return nil
		}
		res := tx.Model(&models.User{}).Where("id = ?", profile.UserID).Update("password", passwordHash)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User", profile.UserID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if passwordHash != "" && profile.User != nil {
		profile.User.Password = passwordHash
	}
	return nil
}

func (r *profileRepository) TopByAnswers(ctx context.Context, limit int) ([]string, error) {
	var usernames []string
	err := readDB(r.db).WithContext(ctx).
		Table("profiles").
		Joins("JOIN users ON users.id = profiles.user_id").
		Joins("LEFT JOIN answers ON answers.author_id = profiles.id").
		Group("profiles.id, users.username").
		Order("COUNT(answers.id) DESC, users.username ASC").
		Limit(limit).
		Pluck("users.username", &usernames).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return usernames, nil
}
