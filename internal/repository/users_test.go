package repository_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamboard/api/internal/model"
	"github.com/teamboard/api/internal/repository"
)

func newUser(email string) *model.User {
	return &model.User{
		Email:        email,
		Name:         "Test User",
		Role:         model.RoleEmployee,
		Department:   model.DepartmentEngineering,
		IsActive:     true,
		PasswordHash: "$2a$14$fakedhashforrepositorytestsonly1234567890",
	}
}

func TestUsersRegister(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := repository.NewUsersRepository(db)

	t.Run("Defaults are applied", func(t *testing.T) {
		record := &model.User{
			Email:        "  Casing@Example.COM ",
			Name:         "Cased User",
			PasswordHash: "hash",
		}

		created, err := users.Register(ctx, record)
		require.NoError(t, err)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "casing@example.com", created.Email)
		assert.Equal(t, model.RoleEmployee, created.Role)
	})

	t.Run("Duplicate email is a conflict", func(t *testing.T) {
		_, err := users.Register(ctx, newUser("dup@example.com"))
		require.NoError(t, err)

		_, err = users.Register(ctx, newUser("dup@example.com"))
		require.Error(t, err)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, goerrors.CodeConflict, richErr.Code)
		assert.Equal(t, "DUPLICATE_EMAIL", richErr.TextCode)
	})

	t.Run("Duplicate check is case-insensitive", func(t *testing.T) {
		_, err := users.Register(ctx, newUser("mixed@example.com"))
		require.NoError(t, err)

		_, err = users.Register(ctx, newUser("MIXED@example.com"))
		require.Error(t, err)
	})
}

func TestUsersGetByIdentifier(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := repository.NewUsersRepository(db)

	created, err := users.Register(ctx, newUser("ident@example.com"))
	require.NoError(t, err)

	t.Run("Resolves by id", func(t *testing.T) {
		record, err := users.GetByIdentifier(ctx, created.ID.String())
		require.NoError(t, err)
		assert.Equal(t, created.ID, record.ID)
		assert.Equal(t, "ident@example.com", record.Email)
	})

	t.Run("Resolves by email", func(t *testing.T) {
		record, err := users.GetByIdentifier(ctx, "Ident@Example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, record.ID)
	})

	t.Run("Unknown identifier is not found", func(t *testing.T) {
		_, err := users.GetByIdentifier(ctx, uuid.New().String())
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))

		_, err = users.GetByIdentifier(ctx, "nobody@example.com")
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))
	})

	t.Run("Soft-deleted rows need the explicit criteria", func(t *testing.T) {
		gone, err := users.Register(ctx, newUser("gone-ident@example.com"))
		require.NoError(t, err)
		require.NoError(t, users.SoftDelete(ctx, gone.ID))

		_, err = users.GetByIdentifier(ctx, gone.ID.String())
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))

		criteria := []repository.SelectCriteria{repository.IncludeDeleted()}
		record, err := users.GetByIdentifier(ctx, gone.ID.String(), criteria...)
		require.NoError(t, err)
		assert.NotNil(t, record.DeletedAt)
	})
}

func TestUsersGetByEmail(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := repository.NewUsersRepository(db)

	created, err := users.Register(ctx, newUser("lookup@example.com"))
	require.NoError(t, err)

	t.Run("Found", func(t *testing.T) {
		got, err := users.GetByEmail(ctx, "LOOKUP@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := users.GetByEmail(ctx, "nobody@example.com")
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))
	})
}

func TestUsersList(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := repository.NewUsersRepository(db)

	admin := newUser("admin@corp.test")
	admin.Role = model.RoleAdmin
	admin.Department = model.DepartmentOperations
	admin.Name = "Ada Admin"

	inactive := newUser("inactive@corp.test")
	inactive.IsActive = false

	for _, u := range []*model.User{admin, inactive, newUser("dev@corp.test")} {
		_, err := users.Register(ctx, u)
		require.NoError(t, err)
	}

	t.Run("No filters returns everyone", func(t *testing.T) {
		records, err := users.ListUsers(ctx, repository.UserFilters{})
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("Role filter", func(t *testing.T) {
		records, err := users.ListUsers(ctx, repository.UserFilters{Role: model.RoleAdmin})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "admin@corp.test", records[0].Email)
	})

	t.Run("IsActive filter", func(t *testing.T) {
		active := true
		records, err := users.ListUsers(ctx, repository.UserFilters{IsActive: &active})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("Search matches name and email", func(t *testing.T) {
		records, err := users.ListUsers(ctx, repository.UserFilters{Search: "ada"})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "admin@corp.test", records[0].Email)
	})
}

func TestUsersSoftDelete(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := repository.NewUsersRepository(db)

	created, err := users.Register(ctx, newUser("gone@example.com"))
	require.NoError(t, err)

	require.NoError(t, users.SoftDelete(ctx, created.ID))

	t.Run("Hidden from lookups", func(t *testing.T) {
		_, err := users.GetByEmail(ctx, "gone@example.com")
		assert.True(t, goerrors.IsNotFound(err))

		records, err := users.ListUsers(ctx, repository.UserFilters{})
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Row survives and is reachable with the explicit flag", func(t *testing.T) {
		records, err := users.ListUsers(ctx, repository.UserFilters{}, repository.IncludeDeleted())
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.NotNil(t, records[0].DeletedAt)
	})

	t.Run("Deleting twice is not found", func(t *testing.T) {
		err := users.SoftDelete(ctx, created.ID)
		assert.True(t, goerrors.IsNotFound(err))
	})
}

func TestUsersResetPassword(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := repository.NewUsersRepository(db)

	created, err := users.Register(ctx, newUser("rotate@example.com"))
	require.NoError(t, err)

	require.NoError(t, users.ResetPassword(ctx, created.ID, "new-hash"))

	got, err := users.GetByEmail(ctx, "rotate@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.Zero(t, got.LoginAttempts)

	t.Run("Unknown id is not found", func(t *testing.T) {
		err := users.ResetPassword(ctx, uuid.New(), "hash")
		assert.True(t, goerrors.IsNotFound(err))
	})
}

func TestUsersLoginTracking(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := repository.NewUsersRepository(db)

	created, err := users.Register(ctx, newUser("attempts@example.com"))
	require.NoError(t, err)

	require.NoError(t, users.TrackAttemptedLogin(ctx, created))

	got, err := users.GetByEmail(ctx, "attempts@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, got.LoginAttempts)
	assert.NotNil(t, got.LoginAttemptAt)

	require.NoError(t, users.TrackSuccessfulLogin(ctx, got))

	got, err = users.GetByEmail(ctx, "attempts@example.com")
	require.NoError(t, err)
	assert.Zero(t, got.LoginAttempts)
	assert.Nil(t, got.LoginAttemptAt)
	assert.NotNil(t, got.LoggedInAt)
}
