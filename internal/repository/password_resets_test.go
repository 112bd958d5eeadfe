package repository_test

import (
	"context"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamboard/api/internal/model"
	"github.com/teamboard/api/internal/repository"
)

func TestPasswordResetsConsume(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	users := repository.NewUsersRepository(db)
	resets := repository.NewPasswordResetsRepository(db)

	user, err := users.Register(ctx, newUser("reset@example.com"))
	require.NoError(t, err)

	record, err := resets.Create(ctx, &model.PasswordReset{
		UserID: &user.ID,
		Email:  user.Email,
		Status: model.ResetRequestedStatus,
	})
	require.NoError(t, err)
	require.NotEmpty(t, record.ID)

	t.Run("Fresh record is redeemable", func(t *testing.T) {
		got, err := resets.GetByID(ctx, record.ID.String())
		require.NoError(t, err)
		assert.False(t, got.Consumed())
		assert.False(t, got.Expired(time.Hour, time.Now()))
	})

	t.Run("Consume flips the status once", func(t *testing.T) {
		require.NoError(t, resets.Consume(ctx, record.ID))

		got, err := resets.GetByID(ctx, record.ID.String())
		require.NoError(t, err)
		assert.Equal(t, model.ResetChangedStatus, got.Status)
		assert.NotNil(t, got.ResetedAt)
		assert.True(t, got.Consumed())

		// second consume finds no requested row
		err = resets.Consume(ctx, record.ID)
		assert.True(t, goerrors.IsNotFound(err))
	})

	t.Run("Unknown token is not found", func(t *testing.T) {
		err := resets.Consume(ctx, uuid.New())
		assert.True(t, goerrors.IsNotFound(err))
	})
}

func TestPasswordResetExpiry(t *testing.T) {
	created := time.Now().Add(-5 * time.Hour)
	record := &model.PasswordReset{
		Status:    model.ResetRequestedStatus,
		CreatedAt: &created,
	}

	assert.True(t, record.Expired(4*time.Hour, time.Now()))
	assert.False(t, record.Expired(6*time.Hour, time.Now()))

	t.Run("Missing creation date counts as expired", func(t *testing.T) {
		assert.True(t, (&model.PasswordReset{}).Expired(time.Hour, time.Now()))
	})
}
