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

func TestProjectsCRUD(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	users := repository.NewUsersRepository(db)
	projects := repository.NewProjectsRepository(db)

	owner, err := users.Register(ctx, newUser("owner@example.com"))
	require.NoError(t, err)

	created, err := projects.Create(ctx, &model.Project{
		Name:    "Migration",
		Status:  model.ProjectActive,
		OwnerID: &owner.ID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	t.Run("GetByID loads the owner relation", func(t *testing.T) {
		got, err := projects.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Owner)
		assert.Equal(t, owner.Email, got.Owner.Email)
	})

	t.Run("List filters by status", func(t *testing.T) {
		_, err := projects.Create(ctx, &model.Project{Name: "Archive", Status: model.ProjectArchived})
		require.NoError(t, err)

		records, err := projects.List(ctx, repository.ProjectFilters{Status: model.ProjectActive})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Migration", records[0].Name)
	})

	t.Run("Update persists changes", func(t *testing.T) {
		created.Name = "Migration v2"
		created.Status = model.ProjectOnHold

		updated, err := projects.Update(ctx, created)
		require.NoError(t, err)
		assert.Equal(t, "Migration v2", updated.Name)
		assert.Equal(t, model.ProjectOnHold, updated.Status)
	})

	t.Run("SoftDelete hides the record", func(t *testing.T) {
		require.NoError(t, projects.SoftDelete(ctx, created.ID))

		_, err := projects.GetByID(ctx, created.ID)
		assert.True(t, goerrors.IsNotFound(err))
	})

	t.Run("Unknown id is not found", func(t *testing.T) {
		_, err := projects.GetByID(ctx, uuid.New())
		assert.True(t, goerrors.IsNotFound(err))

		err = projects.SoftDelete(ctx, uuid.New())
		assert.True(t, goerrors.IsNotFound(err))
	})
}

func TestTasksCRUD(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	users := repository.NewUsersRepository(db)
	projects := repository.NewProjectsRepository(db)
	tasks := repository.NewTasksRepository(db)

	assignee, err := users.Register(ctx, newUser("worker@example.com"))
	require.NoError(t, err)

	project, err := projects.Create(ctx, &model.Project{Name: "Board", Status: model.ProjectActive})
	require.NoError(t, err)

	created, err := tasks.Create(ctx, &model.Task{
		ProjectID:  project.ID,
		AssigneeID: &assignee.ID,
		Title:      "Wire the board",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TaskTodo, created.Status)

	t.Run("List filters by assignee", func(t *testing.T) {
		_, err := tasks.Create(ctx, &model.Task{
			ProjectID: project.ID,
			Title:     "Unassigned chore",
		})
		require.NoError(t, err)

		records, err := tasks.List(ctx, repository.TaskFilters{AssigneeID: assignee.ID.String()})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Wire the board", records[0].Title)
	})

	t.Run("List filters by project and status", func(t *testing.T) {
		records, err := tasks.List(ctx, repository.TaskFilters{
			ProjectID: project.ID.String(),
			Status:    model.TaskTodo,
		})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("UpdateStatus moves the workflow", func(t *testing.T) {
		updated, err := tasks.UpdateStatus(ctx, created.ID, model.TaskInProgress)
		require.NoError(t, err)
		assert.Equal(t, model.TaskInProgress, updated.Status)
	})

	t.Run("UpdateStatus on missing task is not found", func(t *testing.T) {
		_, err := tasks.UpdateStatus(ctx, uuid.New(), model.TaskDone)
		assert.True(t, goerrors.IsNotFound(err))
	})

	t.Run("SoftDelete hides the task", func(t *testing.T) {
		require.NoError(t, tasks.SoftDelete(ctx, created.ID))

		_, err := tasks.GetByID(ctx, created.ID)
		assert.True(t, goerrors.IsNotFound(err))
	})
}
