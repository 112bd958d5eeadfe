package api

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"

	"github.com/teamboard/api/internal/auth"
	"github.com/teamboard/api/internal/model"
	"github.com/teamboard/api/internal/repository"
)

// ProjectsController serves the project CRUD surface.
type ProjectsController struct {
	Logger auth.Logger
	Repo   repository.Manager
}

func NewProjectsController(repo repository.Manager, logger auth.Logger) *ProjectsController {
	if repo == nil {
		panic("Missing repository manager in projects controller...")
	}

	if logger == nil {
		logger = auth.DefaultLogger()
	}

	return &ProjectsController{Logger: logger, Repo: repo}
}

func (p *ProjectsController) List(ctx router.Context) error {
	filters := repository.ProjectFilters{
		Status:  ctx.Query("status", ""),
		OwnerID: ctx.Query("ownerId", ""),
	}

	records, err := p.Repo.Projects().List(ctx.Context(), filters)
	if err != nil {
		return RespondError(ctx, p.Logger, err)
	}

	return ctx.JSON(router.StatusOK, records)
}

func (p *ProjectsController) Show(ctx router.Context) error {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, p.Logger, err)
	}

	record, err := p.Repo.Projects().GetByID(ctx.Context(), id)
	if err != nil {
		if repository.IsNoRows(err) {
			return RespondError(ctx, p.Logger, NotFoundError("project"))
		}
		return RespondError(ctx, p.Logger, err)
	}

	return ctx.JSON(router.StatusOK, record)
}

// ProjectRequest payload
type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	OwnerID     string `json:"owner_id"`
}

// Validate will run validation rules
func (r ProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Status, validation.By(optionalProjectStatus)),
	)
}

func optionalProjectStatus(value any) error {
	s, _ := value.(string)
	if s == "" || model.ValidProjectStatus(s) {
		return nil
	}
	return validation.NewError("validation_status", "must be a known project status")
}

func (p *ProjectsController) Create(ctx router.Context) error {
	payload := new(ProjectRequest)

	if err := ctx.Bind(payload); err != nil {
		return RespondError(ctx, p.Logger, BadRequestError("malformed request body"))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, p.Logger, err)
	}

	record := &model.Project{
		Name:        strings.TrimSpace(payload.Name),
		Description: payload.Description,
		Status:      payload.Status,
	}

	if payload.OwnerID != "" {
		ownerID, err := uuid.Parse(payload.OwnerID)
		if err != nil {
			return RespondError(ctx, p.Logger, BadRequestError("invalid owner identifier"))
		}
		record.OwnerID = &ownerID
	}

	created, err := p.Repo.Projects().Create(ctx.Context(), record)
	if err != nil {
		return RespondError(ctx, p.Logger, err)
	}

	return ctx.JSON(router.StatusCreated, created)
}

func (p *ProjectsController) Update(ctx router.Context) error {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, p.Logger, err)
	}

	payload := new(ProjectRequest)
	if err := ctx.Bind(payload); err != nil {
		return RespondError(ctx, p.Logger, BadRequestError("malformed request body"))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, p.Logger, err)
	}

	record, err := p.Repo.Projects().GetByID(ctx.Context(), id)
	if err != nil {
		if repository.IsNoRows(err) {
			return RespondError(ctx, p.Logger, NotFoundError("project"))
		}
		return RespondError(ctx, p.Logger, err)
	}

	record.Name = strings.TrimSpace(payload.Name)
	record.Description = payload.Description
	if payload.Status != "" {
		record.Status = payload.Status
	}

	if payload.OwnerID != "" {
		ownerID, err := uuid.Parse(payload.OwnerID)
		if err != nil {
			return RespondError(ctx, p.Logger, BadRequestError("invalid owner identifier"))
		}
		record.OwnerID = &ownerID
	}

	updated, err := p.Repo.Projects().Update(ctx.Context(), record)
	if err != nil {
		if repository.IsNoRows(err) {
			return RespondError(ctx, p.Logger, NotFoundError("project"))
		}
		return RespondError(ctx, p.Logger, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

func (p *ProjectsController) Delete(ctx router.Context) error {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, p.Logger, err)
	}

	if err := p.Repo.Projects().SoftDelete(ctx.Context(), id); err != nil {
		if repository.IsNoRows(err) {
			return RespondError(ctx, p.Logger, NotFoundError("project"))
		}
		return RespondError(ctx, p.Logger, err)
	}

	return ctx.Status(router.StatusNoContent).SendString("")
}
