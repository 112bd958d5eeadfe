package api

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"

	"github.com/teamboard/api/internal/auth"
	"github.com/teamboard/api/internal/model"
	"github.com/teamboard/api/internal/repository"
)

// DefaultPhoneRegion anchors parsing of national-format contact numbers.
const DefaultPhoneRegion = "US"

// UsersController serves the administrative user management surface.
type UsersController struct {
	Logger     auth.Logger
	Repo       repository.Manager
	ContextKey string
}

func NewUsersController(repo repository.Manager, contextKey string, logger auth.Logger) *UsersController {
	if repo == nil {
		panic("Missing repository manager in users controller...")
	}

	if logger == nil {
		logger = auth.DefaultLogger()
	}

	if contextKey == "" {
		contextKey = "user"
	}

	return &UsersController{
		Logger:     logger,
		Repo:       repo,
		ContextKey: contextKey,
	}
}

func (u *UsersController) List(ctx router.Context) error {
	filters := repository.UserFilters{
		Role:       ctx.Query("role", ""),
		Department: ctx.Query("department", ""),
		Search:     ctx.Query("search", ""),
	}

	if raw := ctx.Query("isActive", ""); raw != "" {
		active := raw == "true" || raw == "1"
		filters.IsActive = &active
	}

	var criteria []repository.SelectCriteria
	if ctx.Query("includeDeleted", "") == "true" {
		criteria = append(criteria, repository.IncludeDeleted())
	}

	records, err := u.Repo.Users().ListUsers(ctx.Context(), filters, criteria...)
	if err != nil {
		return RespondError(ctx, u.Logger, err)
	}

	out := make([]model.PublicProfile, 0, len(records))
	for _, record := range records {
		out = append(out, record.Public())
	}

	return ctx.JSON(router.StatusOK, out)
}

// CreateUserRequest payload
type CreateUserRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Department    string `json:"department"`
	EmployeeID    string `json:"employeeId"`
	ContactNumber string `json:"contactNumber"`
	Role          string `json:"role"`
}

// Validate will run validation rules
func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Department, validation.By(optionalDepartment)),
		validation.Field(&r.Role, validation.By(optionalRole)),
	)
}

func optionalRole(value any) error {
	s, _ := value.(string)
	if s == "" || model.ValidRole(model.UserRole(s)) {
		return nil
	}
	return validation.NewError("validation_role", "must be a known role")
}

func optionalDepartment(value any) error {
	s, _ := value.(string)
	if s == "" || model.ValidDepartment(s) {
		return nil
	}
	return validation.NewError("validation_department", "must be a known department")
}

type createUserResponse struct {
	User              model.PublicProfile `json:"user"`
	GeneratedPassword string               `json:"generatedPassword"`
}

// Create registers a user with a generated one-time password. The
// plaintext is returned in this response and nowhere else.
func (u *UsersController) Create(ctx router.Context) error {
	payload := new(CreateUserRequest)

	if err := ctx.Bind(payload); err != nil {
		return RespondError(ctx, u.Logger, BadRequestError("malformed request body"))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, u.Logger, err)
	}

	password, err := auth.GeneratePassword(auth.GeneratedPasswordLength)
	if err != nil {
		return RespondError(ctx, u.Logger, err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return RespondError(ctx, u.Logger, err)
	}

	record := &model.User{
		Name:          strings.TrimSpace(payload.Name),
		Email:         payload.Email,
		Department:    payload.Department,
		EmployeeID:    strings.TrimSpace(payload.EmployeeID),
		ContactNumber: NormalizePhone(payload.ContactNumber),
		Role:          model.UserRole(payload.Role),
		IsActive:      true,
		PasswordHash:  hash,
	}

	created, err := u.Repo.Users().Register(ctx.Context(), record)
	if err != nil {
		return RespondError(ctx, u.Logger, err)
	}

	return ctx.JSON(router.StatusCreated, createUserResponse{
		User:              created.Public(),
		GeneratedPassword: password,
	})
}

// UpdateUserRequest payload
type UpdateUserRequest struct {
	Name          *string `json:"name"`
	Department    *string `json:"department"`
	ContactNumber *string `json:"contactNumber"`
	IsActive      *bool   `json:"is_active"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.By(func(value any) error {
			s, ok := value.(*string)
			if !ok || s == nil {
				return nil
			}
			if strings.TrimSpace(*s) == "" {
				return validation.NewError("validation_name", "cannot be blank")
			}
			return nil
		})),
		validation.Field(&r.Department, validation.By(func(value any) error {
			s, ok := value.(*string)
			if !ok || s == nil {
				return nil
			}
			return optionalDepartment(*s)
		})),
	)
}

func (u *UsersController) Update(ctx router.Context) error {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, u.Logger, err)
	}

	payload := new(UpdateUserRequest)
	if err := ctx.Bind(payload); err != nil {
		return RespondError(ctx, u.Logger, BadRequestError("malformed request body"))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, u.Logger, err)
	}

	record, err := u.Repo.Users().GetByID(ctx.Context(), id.String())
	if err != nil {
		if repository.IsNoRows(err) {
			return RespondError(ctx, u.Logger, NotFoundError("user"))
		}
		return RespondError(ctx, u.Logger, err)
	}

	if payload.Name != nil {
		record.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Department != nil {
		record.Department = *payload.Department
	}
	if payload.ContactNumber != nil {
		record.ContactNumber = NormalizePhone(*payload.ContactNumber)
	}
	if payload.IsActive != nil {
		record.IsActive = *payload.IsActive
	}

	updated, err := u.Repo.Users().UpdateProfile(ctx.Context(), record)
	if err != nil {
		if repository.IsNoRows(err) {
			return RespondError(ctx, u.Logger, NotFoundError("user"))
		}
		return RespondError(ctx, u.Logger, err)
	}

	return ctx.JSON(router.StatusOK, updated.Public())
}

type resetPasswordResponse struct {
	GeneratedPassword string `json:"generatedPassword"`
}

// ResetPassword replaces the target's credential with a fresh generated
// password, invalidating the previous one immediately.
func (u *UsersController) ResetPassword(ctx router.Context) error {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, u.Logger, err)
	}

	password, err := auth.GeneratePassword(auth.GeneratedPasswordLength)
	if err != nil {
		return RespondError(ctx, u.Logger, err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return RespondError(ctx, u.Logger, err)
	}

	if err := u.Repo.Users().ResetPassword(ctx.Context(), id, hash); err != nil {
		if repository.IsNoRows(err) {
			return RespondError(ctx, u.Logger, NotFoundError("user"))
		}
		return RespondError(ctx, u.Logger, err)
	}

	return ctx.JSON(router.StatusOK, resetPasswordResponse{GeneratedPassword: password})
}

// Delete soft-deletes the target user. Actors cannot delete their own
// account, which keeps at least the acting admin alive.
func (u *UsersController) Delete(ctx router.Context) error {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, u.Logger, err)
	}

	claims, err := ClaimsFromContext(ctx, u.ContextKey)
	if err != nil {
		return RespondError(ctx, u.Logger, err)
	}

	if claims.UserID() == id.String() {
		return RespondError(ctx, u.Logger, goerrors.New("cannot delete your own account", goerrors.CategoryConflict).
			WithTextCode("SELF_DELETE").
			WithCode(goerrors.CodeConflict))
	}

	if err := u.Repo.Users().SoftDelete(ctx.Context(), id); err != nil {
		if repository.IsNoRows(err) {
			return RespondError(ctx, u.Logger, NotFoundError("user"))
		}
		return RespondError(ctx, u.Logger, err)
	}

	return ctx.Status(router.StatusNoContent).SendString("")
}

// NormalizePhone formats parseable contact numbers as E.164 and leaves
// everything else as entered.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	num, err := phonenumbers.Parse(raw, DefaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}

	return phonenumbers.Format(num, phonenumbers.E164)
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, BadRequestError("invalid identifier")
	}
	return id, nil
}
