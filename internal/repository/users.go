package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/teamboard/api/internal/model"
)

// UserFilters narrows List results. Zero values are ignored.
type UserFilters struct {
	Role       string
	Department string
	IsActive   *bool
	Search     string
}

// SelectCriteria composes query options onto repository reads.
type SelectCriteria = repository.SelectCriteria

// Users exposes user persistence. Reads exclude soft-deleted rows unless
// the IncludeDeleted criteria is passed explicitly.
type Users interface {
	repository.Repository[*model.User]

	GetByEmail(ctx context.Context, email string, criteria ...SelectCriteria) (*model.User, error)
	ListUsers(ctx context.Context, filters UserFilters, criteria ...SelectCriteria) ([]*model.User, error)

	Register(ctx context.Context, user *model.User) (*model.User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *model.User) (*model.User, error)

	TrackAttemptedLogin(ctx context.Context, user *model.User) error
	TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *model.User) error
	TrackSuccessfulLogin(ctx context.Context, user *model.User) error
	TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *model.User) error

	UpdateProfile(ctx context.Context, record *model.User) (*model.User, error)

	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error

	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// IncludeDeleted widens a query to soft-deleted rows.
func IncludeDeleted() SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.WhereAllWithDeleted()
	}
}

type users struct {
	repository.Repository[*model.User]
	db *bun.DB
}

var _ Users = (*users)(nil)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*model.User](db, repository.ModelHandlers[*model.User]{
		NewRecord: func() *model.User { return &model.User{} },
		GetID: func(u *model.User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *model.User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByEmail(ctx context.Context, email string, criteria ...SelectCriteria) (*model.User, error) {
	record := &model.User{}
	q := a.db.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.email = ?", model.NormalizeEmail(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if IsNoRows(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"email": model.NormalizeEmail(email)})
		}
		return nil, err
	}

	return record, nil
}

// GetByIdentifier resolves a user by id or email. Identifiers that parse
// as a UUID are tried against the id column first, then the email fallback.
func (a *users) GetByIdentifier(ctx context.Context, identifier string, criteria ...SelectCriteria) (*model.User, error) {
	trimmed := strings.TrimSpace(identifier)

	if _, err := uuid.Parse(trimmed); err == nil {
		record := &model.User{}
		q := a.db.NewSelect().Model(record)

		for _, c := range criteria {
			q.Apply(c)
		}

		err := q.
			Where("?TableAlias.id = ?", trimmed).
			Limit(1).
			Scan(ctx)

		if err == nil {
			return record, nil
		}
		if !IsNoRows(err) {
			return nil, err
		}
	}

	return a.GetByEmail(ctx, trimmed, criteria...)
}

func (a *users) ListUsers(ctx context.Context, filters UserFilters, criteria ...SelectCriteria) ([]*model.User, error) {
	var records []*model.User
	q := a.db.NewSelect().Model(&records)

	for _, c := range criteria {
		q.Apply(c)
	}

	if filters.Role != "" {
		q = q.Where("?TableAlias.user_role = ?", filters.Role)
	}

	if filters.Department != "" {
		q = q.Where("?TableAlias.department = ?", filters.Department)
	}

	if filters.IsActive != nil {
		q = q.Where("?TableAlias.is_active = ?", *filters.IsActive)
	}

	if s := strings.TrimSpace(filters.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("lower(?TableAlias.name) LIKE ?", pattern).
				WhereOr("?TableAlias.email LIKE ?", pattern).
				WhereOr("lower(?TableAlias.employee_id) LIKE ?", pattern)
		})
	}

	if err := q.Order("usr.created_at DESC").Scan(ctx); err != nil {
		return nil, err
	}

	return records, nil
}

func (a *users) Register(ctx context.Context, user *model.User) (*model.User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *model.User) (*model.User, error) {
	prepareUserDefaults(user)
	record, err := a.Repository.CreateTx(ctx, tx, user)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, errors.Wrap(err, errors.CategoryConflict, "email already registered").
				WithTextCode("DUPLICATE_EMAIL").
				WithCode(errors.CodeConflict)
		}
		return nil, err
	}
	return record, nil
}

// UpdateProfile writes the mutable profile columns. Email, role, and
// password are managed by their own flows and stay untouched here.
func (a *users) UpdateProfile(ctx context.Context, record *model.User) (*model.User, error) {
	now := time.Now()
	record.UpdatedAt = &now

	res, err := a.db.NewUpdate().
		Model(record).
		Column("name", "department", "contact_number", "is_active", "updated_at").
		Where("?TableAlias.id = ?", record.ID).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": record.ID.String()})
	}

	return a.Repository.GetByID(ctx, record.ID.String())
}

func (a *users) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return a.ResetPasswordTx(ctx, a.db, id, passwordHash)
}

func (a *users) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	now := time.Now()
	res, err := tx.NewUpdate().
		Model((*model.User)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("login_attempts = 0").
		Set("login_attempt_at = NULL").
		Set("updated_at = ?", now).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}

func (a *users) TrackSuccessfulLogin(ctx context.Context, user *model.User) error {
	return a.TrackSuccessfulLoginTx(ctx, a.db, user)
}

func (a *users) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *model.User) error {
	loggedInAt := time.Now()
	_, err := tx.NewRaw(`
		UPDATE "users" AS "usr"
		SET
			"loggedin_at" = ?,
			"login_attempt_at" = NULL,
			"login_attempts" = 0
		WHERE
			("usr".id = ?)
			AND "usr"."deleted_at" IS NULL;
	`, loggedInAt, user.ID).Exec(ctx)

	return err
}

func (a *users) TrackAttemptedLogin(ctx context.Context, user *model.User) error {
	return a.TrackAttemptedLoginTx(ctx, a.db, user)
}

func (a *users) TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *model.User) error {
	now := time.Now()
	_, err := tx.NewUpdate().
		Model((*model.User)(nil)).
		Set("login_attempts = ?", user.LoginAttempts+1).
		Set("login_attempt_at = ?", now).
		Where("?TableAlias.id = ?", user.ID).
		Where("?TableAlias.deleted_at IS NULL").
		Exec(ctx)

	return err
}

// SoftDelete stamps deleted_at; the row is never physically removed.
func (a *users) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := a.db.NewDelete().
		Model((*model.User)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}

func prepareUserDefaults(record *model.User) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = model.RoleEmployee
	}

	record.Email = model.NormalizeEmail(record.Email)

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

// IsNoRows reports a driver-level empty result.
func IsNoRows(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, sql.ErrNoRows) || errors.IsNotFound(err)
}

// IsUniqueViolation detects a unique-index conflict across the dialects we
// run against. The unique index on email is authoritative for duplicates;
// advisory pre-checks can race with concurrent inserts.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
