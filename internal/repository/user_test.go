package repository

import (
	"context"
	"regexp"
	"testing"

	"askme/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateWithProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
	profile := &models.Profile{Nickname: "Alice"}
	require.NoError(t, repo.Create(ctx, user, profile))

	assert.NotZero(t, user.ID)
	assert.Equal(t, user.ID, profile.UserID)
	assert.Equal(t, models.DefaultAvatar, profile.Avatar)

	loaded, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, loaded.Profile)
	assert.Equal(t, "Alice", loaded.Profile.Nickname)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "bob", Email: "bob@example.com", Password: "h"}, &models.Profile{}))

	err := repo.Create(ctx, &models.User{Username: "bob", Email: "other@example.com", Password: "h"}, &models.Profile{})
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	assert.Contains(t, err.Error(), "User already exists")

	var count int64
	db.Model(&models.Profile{}).Count(&count)
	assert.Equal(t, int64(1), count, "failed signup must not leave a profile behind")
}

func TestUserRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "carol", Email: "carol@example.com", Password: "h"}
	require.NoError(t, repo.Create(ctx, user, &models.Profile{}))

	tests := []struct {
		name     string
		id       uint
		wantCode string
	}{
		{name: "Success", id: user.ID},
		{name: "Not Found", id: 999, wantCode: models.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantCode != "" {
				assert.Nil(t, got)
				assert.Equal(t, tt.wantCode, models.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "carol", got.Username)
			assert.NotNil(t, got.Profile)
		})
	}
}

func TestUserRepository_ExistsByUsernameOrEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE username = $1 OR email = $2`)).
		WithArgs("dave", "dave@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByUsernameOrEmail(context.Background(), "dave", "dave@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
