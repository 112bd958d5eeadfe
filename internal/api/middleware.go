package api

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"

	"github.com/teamboard/api/internal/auth"
	"github.com/teamboard/api/internal/model"
)

var errMissingToken = goerrors.New("missing or malformed authorization header", goerrors.CategoryAuth).
	WithTextCode("AUTH_TOKEN_MISSING").
	WithCode(goerrors.CodeUnauthorized)

// TokenValidator validates raw bearer tokens into structured claims.
type TokenValidator interface {
	Validate(tokenString string) (auth.AuthClaims, error)
}

// MiddlewareConfig drives the Protected middleware.
type MiddlewareConfig struct {
	Validator    TokenValidator
	ContextKey   string
	AuthScheme   string
	Logger       auth.Logger
	ErrorHandler func(router.Context, error) error
}

func (cfg MiddlewareConfig) withDefaults() MiddlewareConfig {
	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}
	if cfg.ErrorHandler == nil {
		logger := cfg.Logger
		cfg.ErrorHandler = func(c router.Context, err error) error {
			return RespondError(c, logger, err)
		}
	}
	return cfg
}

// Protected authenticates the request with a bearer token and stores the
// resulting claims under the configured context key.
func Protected(config MiddlewareConfig) router.MiddlewareFunc {
	cfg := config.withDefaults()

	if cfg.Validator == nil {
		panic("API: auth middleware configuration: Validator is required.")
	}

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			raw, err := tokenFromHeader(ctx, cfg.AuthScheme)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			claims, err := cfg.Validator.Validate(raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, claims)

			return hf(ctx)
		}
	}
}

// RequireRoles rejects authenticated requests whose claims carry none of
// the given roles. It must run after Protected.
func RequireRoles(contextKey string, roles ...model.UserRole) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			claims, err := ClaimsFromContext(ctx, contextKey)
			if err != nil {
				return RespondError(ctx, nil, err)
			}

			for _, role := range roles {
				if claims.HasRole(string(role)) {
					return hf(ctx)
				}
			}

			return RespondError(ctx, nil, goerrors.New("insufficient permissions", goerrors.CategoryAuthz).
				WithTextCode("FORBIDDEN").
				WithCode(goerrors.CodeForbidden))
		}
	}
}

// ClaimsFromContext recovers the claims Protected stored for this request.
func ClaimsFromContext(ctx router.Context, contextKey string) (auth.AuthClaims, error) {
	local := ctx.Locals(contextKey)
	if local == nil {
		return nil, errMissingToken
	}

	claims, ok := local.(auth.AuthClaims)
	if !ok {
		return nil, errMissingToken
	}

	return claims, nil
}

func tokenFromHeader(c router.Context, authScheme string) (string, error) {
	a := c.GetString(router.HeaderAuthorization, "")
	authScheme = strings.TrimSpace(authScheme)
	l := len(authScheme)
	if l == 0 {
		return "", errMissingToken
	}
	if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
		return strings.TrimSpace(a[l:]), nil
	}
	return "", errMissingToken
}
