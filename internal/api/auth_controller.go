package api

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"

	"github.com/teamboard/api/internal/auth"
	"github.com/teamboard/api/internal/model"
	"github.com/teamboard/api/internal/repository"
)

// AuthController serves login, session introspection, and the
// forgot/reset password flow.
type AuthController struct {
	Logger   auth.Logger
	Repo     repository.Manager
	Auther   auth.Authenticator
	ResetTTL time.Duration
}

type AuthControllerOption func(*AuthController) *AuthController

func WithAuthLogger(logger auth.Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithResetTTL(ttl time.Duration) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if ttl > 0 {
			c.ResetTTL = ttl
		}
		return c
	}
}

func NewAuthController(repo repository.Manager, auther auth.Authenticator, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Repo:     repo,
		Auther:   auther,
		ResetTTL: 4 * time.Hour,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing repository manager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing authenticator in auth controller...")
	}

	if c.Logger == nil {
		c.Logger = auth.DefaultLogger()
	}

	return c
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

type loginResponse struct {
	Token string               `json:"token"`
	User  model.PublicProfile `json:"user"`
}

func (a *AuthController) Login(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return RespondError(ctx, a.Logger, BadRequestError("malformed request body"))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	token, _, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	user, err := a.Repo.Users().GetByEmail(ctx.Context(), model.NormalizeEmail(payload.Email))
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	return ctx.JSON(router.StatusOK, loginResponse{
		Token: token,
		User:  user.Public(),
	})
}

// Me returns the profile behind the presented token. The record is
// re-read so deactivation and deletion take effect immediately.
func (a *AuthController) Me(ctx router.Context, contextKey string) error {
	claims, err := ClaimsFromContext(ctx, contextKey)
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	user, err := a.Repo.Users().GetByID(ctx.Context(), claims.UserID())
	if err != nil {
		if repository.IsNoRows(err) {
			return RespondError(ctx, a.Logger, auth.ErrIdentityNotFound)
		}
		return RespondError(ctx, a.Logger, err)
	}

	if !user.IsActive {
		return RespondError(ctx, a.Logger, auth.ErrAccountInactive)
	}

	return ctx.JSON(router.StatusOK, user.Public())
}

// ForgotPasswordRequest payload
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

type okResponse struct {
	OK bool `json:"ok"`
}

// ForgotPassword issues a reset record when the account exists. The
// response is identical either way so callers cannot probe for emails.
func (a *AuthController) ForgotPassword(ctx router.Context) error {
	payload := new(ForgotPasswordRequest)

	if err := ctx.Bind(payload); err != nil {
		return RespondError(ctx, a.Logger, BadRequestError("malformed request body"))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	email := model.NormalizeEmail(payload.Email)

	err := a.Repo.RunInTx(ctx.Context(), nil, func(c context.Context, tx bun.Tx) error {
		user, err := a.Repo.Users().GetByEmail(c, email)
		if err != nil {
			if repository.IsNoRows(err) {
				return nil
			}
			return err
		}

		reset := &model.PasswordReset{
			UserID: &user.ID,
			Email:  email,
			Status: model.ResetRequestedStatus,
		}

		_, err = a.Repo.PasswordResets().CreateTx(c, tx, reset)
		return err
	})
	if err != nil {
		a.Logger.Error("forgot password flow failed", "error", err)
	}

	return ctx.JSON(router.StatusOK, okResponse{OK: true})
}

// ResetPasswordRequest payload
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 128)),
	)
}

// ResetPassword redeems a reset token. Failures collapse to {ok:false}
// without detail.
func (a *AuthController) ResetPassword(ctx router.Context) error {
	payload := new(ResetPasswordRequest)

	if err := ctx.Bind(payload); err != nil {
		return RespondError(ctx, a.Logger, BadRequestError("malformed request body"))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	err := a.Repo.RunInTx(ctx.Context(), nil, func(c context.Context, tx bun.Tx) error {
		reset, err := a.Repo.PasswordResets().GetByID(c, payload.Token)
		if err != nil {
			return err
		}

		if reset.Consumed() {
			return goerrors.New("password reset token has already been used", goerrors.CategoryConflict).
				WithTextCode("TOKEN_ALREADY_USED")
		}

		if reset.Expired(a.ResetTTL, time.Now()) {
			return goerrors.New("password reset token has expired", goerrors.CategoryValidation).
				WithTextCode("TOKEN_EXPIRED")
		}

		if reset.UserID == nil {
			return goerrors.New("password reset record is not associated with a user", goerrors.CategoryInternal)
		}

		passwordHash, err := auth.HashPassword(payload.NewPassword)
		if err != nil {
			return err
		}

		if err := a.Repo.Users().ResetPasswordTx(c, tx, *reset.UserID, passwordHash); err != nil {
			return err
		}

		return a.Repo.PasswordResets().ConsumeTx(c, tx, reset.ID)
	})
	if err != nil {
		a.Logger.Info("password reset rejected", "error", err)
		return ctx.JSON(router.StatusOK, okResponse{OK: false})
	}

	return ctx.JSON(router.StatusOK, okResponse{OK: true})
}
