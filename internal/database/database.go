package database

import (
	"context"
	"database/sql"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/teamboard/api/internal/auth"
	"github.com/teamboard/api/internal/model"
)

// Connect opens the database behind the DSN and wraps it with bun.
func Connect(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open database")
	}

	sqldb.SetMaxOpenConns(1)
	sqldb.SetConnMaxIdleTime(time.Minute)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	return db, nil
}

// Migrate creates the schema when it does not exist yet.
func Migrate(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*model.User)(nil),
		(*model.PasswordReset)(nil),
		(*model.Project)(nil),
		(*model.Task)(nil),
	}

	for _, m := range models {
		if _, err := db.NewCreateTable().
			Model(m).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create table")
		}
	}

	if _, err := db.NewCreateIndex().
		Model((*model.User)(nil)).
		Index("users_email_uq").
		Unique().
		Column("email").
		IfNotExists().
		Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create email index")
	}

	return nil
}

// SeedAdminEmail is the account Seed guarantees to exist.
const SeedAdminEmail = "admin@demo.com"

const seedAdminPassword = "admin123"

// Seed provisions the demo dataset: a known admin plus a couple of
// employees, a project, and a task. Existing rows are left alone so
// the seed is safe to run on every boot.
func Seed(ctx context.Context, db *bun.DB) error {
	exists, err := db.NewSelect().
		Model((*model.User)(nil)).
		Where("?TableAlias.email = ?", SeedAdminEmail).
		Exists(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check seed state")
	}

	if exists {
		return nil
	}

	adminHash, err := auth.HashPassword(seedAdminPassword)
	if err != nil {
		return err
	}

	users := []*model.User{
		seedUser(SeedAdminEmail, "Demo Admin", model.RoleAdmin, model.DepartmentOperations, adminHash),
		seedUser("maya@demo.com", "Maya Flores", model.RoleEmployee, model.DepartmentEngineering, ""),
		seedUser("jonas@demo.com", "Jonas Berg", model.RoleEmployee, model.DepartmentDesign, ""),
	}

	if _, err := db.NewInsert().Model(&users).Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to seed users")
	}

	project := &model.Project{
		ID:      mustSeedID("project:onboarding"),
		Name:    "Onboarding Revamp",
		Status:  model.ProjectActive,
		OwnerID: &users[0].ID,
	}

	if _, err := db.NewInsert().Model(project).Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to seed project")
	}

	task := &model.Task{
		ID:         mustSeedID("task:welcome-flow"),
		ProjectID:  project.ID,
		AssigneeID: &users[1].ID,
		Title:      "Sketch the welcome flow",
		Status:     model.TaskTodo,
	}

	if _, err := db.NewInsert().Model(task).Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to seed task")
	}

	return nil
}

func seedUser(email, name string, role model.UserRole, department, passwordHash string) *model.User {
	return &model.User{
		ID:           mustSeedID(email),
		Email:        email,
		Name:         name,
		Role:         role,
		Department:   department,
		IsActive:     true,
		PasswordHash: passwordHash,
	}
}

// mustSeedID derives a stable uuid from the seed key so reseeding a
// wiped database keeps the same identifiers.
func mustSeedID(key string) uuid.UUID {
	id, err := hashid.NewUUID(key)
	if err != nil {
		panic(err)
	}
	return id
}
