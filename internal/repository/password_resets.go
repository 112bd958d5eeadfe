package repository

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/teamboard/api/internal/model"
)

// PasswordResets persists single-use reset records
type PasswordResets interface {
	repository.Repository[*model.PasswordReset]

	Consume(ctx context.Context, id uuid.UUID) error
	ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type passwordResets struct {
	repository.Repository[*model.PasswordReset]
	db *bun.DB
}

var _ PasswordResets = (*passwordResets)(nil)

func NewPasswordResetsRepository(db *bun.DB) PasswordResets {
	handlers := repository.ModelHandlers[*model.PasswordReset]{
		NewRecord: func() *model.PasswordReset {
			return &model.PasswordReset{}
		},
		GetID: func(record *model.PasswordReset) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *model.PasswordReset, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "email"
		},
	}

	return &passwordResets{
		Repository: repository.NewRepository(db, handlers),
		db:         db,
	}
}

func (r *passwordResets) Consume(ctx context.Context, id uuid.UUID) error {
	return r.ConsumeTx(ctx, r.db, id)
}

// ConsumeTx flips a requested record to changed. Affecting zero rows means
// the token was unknown or already used.
func (r *passwordResets) ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	now := time.Now()
	res, err := tx.NewUpdate().
		Model((*model.PasswordReset)(nil)).
		Set("status = ?", model.ResetChangedStatus).
		Set("reseted_at = ?", now).
		Set("updated_at = ?", now).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.status = ?", model.ResetRequestedStatus).
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
