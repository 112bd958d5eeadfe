package repository

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/teamboard/api/internal/model"
)

// TaskFilters narrows task listings
type TaskFilters struct {
	ProjectID  string
	AssigneeID string
	Status     string
}

// Tasks persists task records
type Tasks interface {
	List(ctx context.Context, filters TaskFilters) ([]*model.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	Create(ctx context.Context, record *model.Task) (*model.Task, error)
	Update(ctx context.Context, record *model.Task) (*model.Task, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.TaskStatus) (*model.Task, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type tasks struct {
	db *bun.DB
}

var _ Tasks = (*tasks)(nil)

func NewTasksRepository(db *bun.DB) Tasks {
	return &tasks{db: db}
}

func (r *tasks) List(ctx context.Context, filters TaskFilters) ([]*model.Task, error) {
	var records []*model.Task
	q := r.db.NewSelect().Model(&records).Relation("Assignee")

	if filters.ProjectID != "" {
		q = q.Where("?TableAlias.project_id = ?", filters.ProjectID)
	}

	if filters.AssigneeID != "" {
		q = q.Where("?TableAlias.assignee_id = ?", filters.AssigneeID)
	}

	if filters.Status != "" {
		q = q.Where("?TableAlias.status = ?", filters.Status)
	}

	if err := q.Order("tsk.created_at DESC").Scan(ctx); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *tasks) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	record := &model.Task{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Assignee").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if IsNoRows(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

func (r *tasks) Create(ctx context.Context, record *model.Task) (*model.Task, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Status == "" {
		record.Status = model.TaskTodo
	}

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *tasks) Update(ctx context.Context, record *model.Task) (*model.Task, error) {
	now := time.Now()
	record.UpdatedAt = &now

	res, err := r.db.NewUpdate().
		Model(record).
		Column("title", "description", "status", "assignee_id", "due_at", "updated_at").
		Where("?TableAlias.id = ?", record.ID).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": record.ID.String()})
	}

	return r.GetByID(ctx, record.ID)
}

func (r *tasks) UpdateStatus(ctx context.Context, id uuid.UUID, status model.TaskStatus) (*model.Task, error) {
	now := time.Now()
	res, err := r.db.NewUpdate().
		Model((*model.Task)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", now).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return r.GetByID(ctx, id)
}

func (r *tasks) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*model.Task)(nil)).
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
