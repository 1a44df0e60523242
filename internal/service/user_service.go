package service

import (
	"context"
	"errors"
	"strings"

	"askme/internal/models"
	"askme/internal/repository"
	"askme/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

type SignupInput struct {
	Username      string
	Email         string
	Password      string
	PasswordCheck string
	Nickname      string
}

// UpdateSettingsInput changes only the non-empty fields. A password change
// needs OldPassword, NewPassword and a matching PasswordCheck.
type UpdateSettingsInput struct {
	UserID        uint
	Nickname      string
	Avatar        string
	Birthday      string
	OldPassword   string
	NewPassword   string
	PasswordCheck string
}

func NewUserService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository) *UserService {
	return &UserService{userRepo: userRepo, profileRepo: profileRepo}
}

// Signup creates the account and its profile.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Username, email, and password are required")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Password != in.PasswordCheck {
		return nil, models.NewValidationError("Passwords don't match")
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	nickname := sanitizeText(in.Nickname)
	if nickname == "" {
		nickname = in.Username
	}
	if err := validation.ValidateNickname(nickname); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewValidationError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Username: in.Username, Email: in.Email, Password: string(hash)}
	profile := &models.Profile{Nickname: nickname, Avatar: models.DefaultAvatar}
	if err := s.userRepo.Create(ctx, user, profile); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks username and password.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

// Settings returns the caller's profile with its user.
func (s *UserService) Settings(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *UserService) UpdateSettings(ctx context.Context, in UpdateSettingsInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if nickname := sanitizeText(in.Nickname); nickname != "" {
		if err := validation.ValidateNickname(nickname); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		profile.Nickname = nickname
	}
	if avatar := strings.TrimSpace(in.Avatar); avatar != "" {
		profile.Avatar = avatar
	}
	if in.Birthday != "" {
		birthday, err := validation.ParseBirthday(in.Birthday)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		profile.Birthday = birthday
	}

	var passwordHash string
	if in.NewPassword != "" || in.OldPassword != "" {
		if passwordHash, err = s.newPasswordHash(profile, in); err != nil {
			return nil, err
		}
	}

	if err := s.profileRepo.Update(ctx, profile, passwordHash); err != nil {
		return nil, err
	}
	return profile, nil
}

// newPasswordHash checks a password change request and returns the hash to store.
func (s *UserService) newPasswordHash(profile *models.Profile, in UpdateSettingsInput) (string, error) {
	if profile.User == nil {
		return "", models.NewInternalError(errors.New("profile loaded without user"))
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.User.Password), []byte(in.OldPassword)) != nil {
		return "", models.NewValidationError("Wrong old password")
	}
	if in.NewPassword != in.PasswordCheck {
		return "", models.NewValidationError("Passwords don't match")
	}
	if in.NewPassword == in.OldPassword {
		return "", models.NewValidationError("Password doesn't change")
	}
	if err := validation.ValidatePassword(in.NewPassword); err != nil {
		return "", models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(hash), nil
}
