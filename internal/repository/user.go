package repository

import (
	"context"

	"askme/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	// Create inserts the user and its profile in one transaction.
	Create(ctx context.Context, user *models.User, profile *models.Profile) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User, profile *models.Profile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		if profile.Avatar == "" {
			profile.Avatar = models.DefaultAvatar
		}
		return tx.Omit("User").Create(profile).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("User already exists")
		}
		return models.NewInternalError(err)
	}
	user.Profile = profile
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		return nil, lookupError(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, lookupError(err, "User", username)
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
