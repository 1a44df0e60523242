package service

import (
	"context"
	"errors"
	"testing"

	"askme/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestUserService_Signup(t *testing.T) {
	t.Parallel()

	var savedUser *models.User
	var savedProfile *models.Profile
	users := noopUserRepo()
	users.createFn = func(_ context.Context, u *models.User, p *models.Profile) error {
		savedUser, savedProfile = u, p
		u.ID = 9
		return nil
	}
	svc := NewUserService(users, profilesByUser(nil))

	user, err := svc.Signup(context.Background(), SignupInput{
		Username:      "alice",
		Email:         " Alice@Example.com ",
		Password:      "password123",
		PasswordCheck: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(9), user.ID)
	assert.Equal(t, "alice@example.com", savedUser.Email)
	assert.NotEqual(t, "password123", savedUser.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(savedUser.Password), []byte("password123")))
	assert.Equal(t, "alice", savedProfile.Nickname, "nickname defaults to username")
	assert.Equal(t, models.DefaultAvatar, savedProfile.Avatar)
}

func TestUserService_Signup_Validation(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	users.existsFn = func(_ context.Context, username, _ string) (bool, error) {
		return username == "taken", nil
	}
	svc := NewUserService(users, profilesByUser(nil))

	tests := []struct {
		name    string
		in      SignupInput
		message string
	}{
		{"missing fields", SignupInput{Username: "bob"}, "required"},
		{"bad email", SignupInput{Username: "bob", Email: "nope", Password: "password123", PasswordCheck: "password123"}, "email"},
		{"mismatch", SignupInput{Username: "bob", Email: "b@x.io", Password: "password123", PasswordCheck: "password124"}, "Passwords don't match"},
		{"weak", SignupInput{Username: "bob", Email: "b@x.io", Password: "short", PasswordCheck: "short"}, "password"},
		{"duplicate", SignupInput{Username: "taken", Email: "t@x.io", Password: "password123", PasswordCheck: "password123"}, "User already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.in)
			assertValidationError(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	hash := hashed(t, "password123")
	users.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		if username == "carol" {
			return &models.User{ID: 3, Username: "carol", Password: hash}, nil
		}
		return nil, models.NewNotFoundError("User", username)
	}
	svc := NewUserService(users, profilesByUser(nil))
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "carol", "password123")
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)

	_, err = svc.Authenticate(ctx, "carol", "wrong-password1")
	assertCode(t, err, models.CodeUnauthorized)

	_, err = svc.Authenticate(ctx, "nobody", "password123")
	assertCode(t, err, models.CodeUnauthorized)

	_, err = svc.Authenticate(ctx, "", "")
	assertValidationError(t, err)
}

func TestUserService_UpdateSettings(t *testing.T) {
	t.Parallel()

	type savedSettings struct {
		profile *models.Profile
		hash    string
	}

	newProfiles := func(t *testing.T, saved *savedSettings) *profileRepoStub {
		profiles := profilesByUser(nil)
		hash := hashed(t, "password123")
		profiles.getByUserIDFn = func(_ context.Context, userID uint) (*models.Profile, error) {
			return &models.Profile{ID: 5, UserID: userID, Nickname: "old", Avatar: models.DefaultAvatar,
				User: &models.User{ID: userID, Password: hash}}, nil
		}
		profiles.updateFn = func(_ context.Context, p *models.Profile, passwordHash string) error {
			saved.profile = p
			saved.hash = passwordHash
			return nil
		}
		return profiles
	}

	t.Run("profile fields", func(t *testing.T) {
		t.Parallel()
		var saved savedSettings
		svc := NewUserService(noopUserRepo(), newProfiles(t, &saved))
		p, err := svc.UpdateSettings(context.Background(), UpdateSettingsInput{
			UserID: 1, Nickname: "New Name", Birthday: "1991-02-03",
		})
		require.NoError(t, err)
		assert.Equal(t, "New Name", p.Nickname)
		assert.Equal(t, models.DefaultAvatar, p.Avatar, "empty avatar keeps the current one")
		require.NotNil(t, saved.profile.Birthday)
		assert.Equal(t, "1991-02-03", saved.profile.Birthday.Format("2006-01-02"))
		assert.Empty(t, saved.hash, "no password change requested")
	})

	t.Run("password change is saved with the profile", func(t *testing.T) {
		t.Parallel()
		var saved savedSettings
		svc := NewUserService(noopUserRepo(), newProfiles(t, &saved))

		_, err := svc.UpdateSettings(context.Background(), UpdateSettingsInput{
			UserID: 1, Nickname: "Renamed",
			OldPassword: "password123", NewPassword: "password456", PasswordCheck: "password456",
		})
		require.NoError(t, err)
		require.NotNil(t, saved.profile)
		assert.Equal(t, "Renamed", saved.profile.Nickname)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.hash), []byte("password456")))
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		t.Parallel()
		var saved savedSettings
		profiles := newProfiles(t, &saved)
		profiles.updateFn = func(context.Context, *models.Profile, string) error {
			return models.NewInternalError(errors.New("db down"))
		}
		svc := NewUserService(noopUserRepo(), profiles)

		_, err := svc.UpdateSettings(context.Background(), UpdateSettingsInput{
			UserID: 1, OldPassword: "password123", NewPassword: "password456", PasswordCheck: "password456",
		})
		assertCode(t, err, models.CodeInternal)
	})

	t.Run("rejections", func(t *testing.T) {
		t.Parallel()
		var saved savedSettings
		svc := NewUserService(noopUserRepo(), newProfiles(t, &saved))
		ctx := context.Background()

		_, err := svc.UpdateSettings(ctx, UpdateSettingsInput{UserID: 1, Birthday: "02/03/1991"})
		assertValidationError(t, err)

		_, err = svc.UpdateSettings(ctx, UpdateSettingsInput{UserID: 1, OldPassword: "nope", NewPassword: "password456", PasswordCheck: "password456"})
		assertValidationError(t, err)
		assert.Contains(t, err.Error(), "Wrong old password")

		_, err = svc.UpdateSettings(ctx, UpdateSettingsInput{UserID: 1, OldPassword: "password123", NewPassword: "password456", PasswordCheck: "password789"})
		assertValidationError(t, err)
		assert.Contains(t, err.Error(), "Passwords don't match")

		_, err = svc.UpdateSettings(ctx, UpdateSettingsInput{UserID: 1, OldPassword: "password123", NewPassword: "password123", PasswordCheck: "password123"})
		assertValidationError(t, err)
		assert.Contains(t, err.Error(), "Password doesn't change")

		assert.Nil(t, saved.profile)
	})
}
