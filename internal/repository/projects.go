package repository

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/teamboard/api/internal/model"
)

// ProjectFilters narrows project listings
type ProjectFilters struct {
	Status  string
	OwnerID string
}

// Projects persists project records
type Projects interface {
	List(ctx context.Context, filters ProjectFilters) ([]*model.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	Create(ctx context.Context, record *model.Project) (*model.Project, error)
	Update(ctx context.Context, record *model.Project) (*model.Project, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type projects struct {
	db *bun.DB
}

var _ Projects = (*projects)(nil)

func NewProjectsRepository(db *bun.DB) Projects {
	return &projects{db: db}
}

func (r *projects) List(ctx context.Context, filters ProjectFilters) ([]*model.Project, error) {
	var records []*model.Project
	q := r.db.NewSelect().Model(&records).Relation("Owner")

	if filters.Status != "" {
		q = q.Where("?TableAlias.status = ?", filters.Status)
	}

	if filters.OwnerID != "" {
		q = q.Where("?TableAlias.owner_id = ?", filters.OwnerID)
	}

	if err := q.Order("prj.created_at DESC").Scan(ctx); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *projects) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	record := &model.Project{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Owner").
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

func (r *projects) Create(ctx context.Context, record *model.Project) (*model.Project, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Status == "" {
		record.Status = model.ProjectActive
	}

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *projects) Update(ctx context.Context, record *model.Project) (*model.Project, error) {
	now := time.Now()
	record.UpdatedAt = &now

	res, err := r.db.NewUpdate().
		Model(record).
		Column("name", "description", "status", "owner_id", "updated_at").
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

func (r *projects) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*model.Project)(nil)).
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
