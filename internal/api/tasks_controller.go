package api

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"

	"github.com/teamboard/api/internal/auth"
	"github.com/teamboard/api/internal/model"
	"github.com/teamboard/api/internal/repository"
)

// TasksController serves the task CRUD surface plus the status flow
// open to assignees.
type TasksController struct {
	Logger     auth.Logger
	Repo       repository.Manager
	ContextKey string
}

func NewTasksController(repo repository.Manager, contextKey string, logger auth.Logger) *TasksController {
	if repo == nil {
		panic("Missing repository manager in tasks controller...")
	}

	if logger == nil {
		logger = auth.DefaultLogger()
	}

	if contextKey == "" {
		contextKey = "user"
	}

	return &TasksController{
		Logger:     logger,
		Repo:       repo,
		ContextKey: contextKey,
	}
}

// List returns tasks visible to the caller. Non-admin callers only see
// tasks assigned to them, whatever filters they send.
func (t *TasksController) List(ctx router.Context) error {
	claims, err := ClaimsFromContext(ctx, t.ContextKey)
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	filters := repository.TaskFilters{
		ProjectID:  ctx.Query("projectId", ""),
		AssigneeID: ctx.Query("assigneeId", ""),
		Status:     ctx.Query("status", ""),
	}

	if !claims.HasRole(string(model.RoleAdmin)) {
		filters.AssigneeID = claims.UserID()
	}

	records, err := t.Repo.Tasks().List(ctx.Context(), filters)
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	return ctx.JSON(router.StatusOK, records)
}

func (t *TasksController) Show(ctx router.Context) error {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	record, err := t.Repo.Tasks().GetByID(ctx.Context(), id)
	if err != nil {
		if repository.IsNoRows(err) {
			return RespondError(ctx, t.Logger, NotFoundError("task"))
		}
		return RespondError(ctx, t.Logger, err)
	}

	return ctx.JSON(router.StatusOK, record)
}

// TaskRequest payload
type TaskRequest struct {
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	AssigneeID  string     `json:"assignee_id"`
	DueAt       *time.Time `json:"due_at"`
}

// Validate will run validation rules
func (r TaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.ProjectID, validation.Required),
		validation.Field(&r.Status, validation.By(optionalTaskStatus)),
	)
}

func optionalTaskStatus(value any) error {
	s, _ := value.(string)
	if s == "" || model.ValidTaskStatus(s) {
		return nil
	}
	return validation.NewError("validation_status", "must be a known task status")
}

func (t *TasksController) Create(ctx router.Context) error {
	payload := new(TaskRequest)

	if err := ctx.Bind(payload); err != nil {
		return RespondError(ctx, t.Logger, BadRequestError("malformed request body"))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	projectID, err := uuid.Parse(payload.ProjectID)
	if err != nil {
		return RespondError(ctx, t.Logger, BadRequestError("invalid project identifier"))
	}

	if _, err := t.Repo.Projects().GetByID(ctx.Context(), projectID); err != nil {
		if repository.IsNoRows(err) {
			return RespondError(ctx, t.Logger, NotFoundError("project"))
		}
		return RespondError(ctx, t.Logger, err)
	}

	record := &model.Task{
		ProjectID:   projectID,
		Title:       strings.TrimSpace(payload.Title),
		Description: payload.Description,
		Status:      payload.Status,
		DueAt:       payload.DueAt,
	}

	if payload.AssigneeID != "" {
		assigneeID, err := uuid.Parse(payload.AssigneeID)
		if err != nil {
			return RespondError(ctx, t.Logger, BadRequestError("invalid assignee identifier"))
		}
		record.AssigneeID = &assigneeID
	}

	created, err := t.Repo.Tasks().Create(ctx.Context(), record)
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	return ctx.JSON(router.StatusCreated, created)
}

func (t *TasksController) Update(ctx router.Context) error {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	payload := new(TaskRequest)
	if err := ctx.Bind(payload); err != nil {
		return RespondError(ctx, t.Logger, BadRequestError("malformed request body"))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	record, err := t.Repo.Tasks().GetByID(ctx.Context(), id)
	if err != nil {
		if repository.IsNoRows(err) {
			return RespondError(ctx, t.Logger, NotFoundError("task"))
		}
		return RespondError(ctx, t.Logger, err)
	}

	record.Title = strings.TrimSpace(payload.Title)
	record.Description = payload.Description
	record.DueAt = payload.DueAt
	if payload.Status != "" {
		record.Status = payload.Status
	}

	if payload.AssigneeID != "" {
		assigneeID, err := uuid.Parse(payload.AssigneeID)
		if err != nil {
			return RespondError(ctx, t.Logger, BadRequestError("invalid assignee identifier"))
		}
		record.AssigneeID = &assigneeID
	} else {
		record.AssigneeID = nil
	}

	updated, err := t.Repo.Tasks().Update(ctx.Context(), record)
	if err != nil {
		if repository.IsNoRows(err) {
			return RespondError(ctx, t.Logger, NotFoundError("task"))
		}
		return RespondError(ctx, t.Logger, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

// TaskStatusRequest payload
type TaskStatusRequest struct {
	Status string `json:"status"`
}

func (r TaskStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.By(optionalTaskStatus)),
	)
}

// UpdateStatus moves a task through its workflow. Admins can move any
// task; everyone else only tasks assigned to them.
func (t *TasksController) UpdateStatus(ctx router.Context) error {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	claims, err := ClaimsFromContext(ctx, t.ContextKey)
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	payload := new(TaskStatusRequest)
	if err := ctx.Bind(payload); err != nil {
		return RespondError(ctx, t.Logger, BadRequestError("malformed request body"))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	record, err := t.Repo.Tasks().GetByID(ctx.Context(), id)
	if err != nil {
		if repository.IsNoRows(err) {
			return RespondError(ctx, t.Logger, NotFoundError("task"))
		}
		return RespondError(ctx, t.Logger, err)
	}

	if !claims.HasRole(string(model.RoleAdmin)) {
		if record.AssigneeID == nil || record.AssigneeID.String() != claims.UserID() {
			return RespondError(ctx, t.Logger, goerrors.New("insufficient permissions", goerrors.CategoryAuthz).
				WithTextCode("FORBIDDEN").
				WithCode(goerrors.CodeForbidden))
		}
	}

	updated, err := t.Repo.Tasks().UpdateStatus(ctx.Context(), id, payload.Status)
	if err != nil {
		if repository.IsNoRows(err) {
			return RespondError(ctx, t.Logger, NotFoundError("task"))
		}
		return RespondError(ctx, t.Logger, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

func (t *TasksController) Delete(ctx router.Context) error {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, t.Logger, err)
	}

	if err := t.Repo.Tasks().SoftDelete(ctx.Context(), id); err != nil {
		if repository.IsNoRows(err) {
			return RespondError(ctx, t.Logger, NotFoundError("task"))
		}
		return RespondError(ctx, t.Logger, err)
	}

	return ctx.Status(router.StatusNoContent).SendString("")
}
