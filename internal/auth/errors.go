package auth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Authentication failures are intentionally uniform: callers get the same
// message whether the account is missing, has no hash on file, or the
// password comparison failed.
var ErrInvalidCredentials = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(goerrors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities.
// Same surface as ErrInvalidCredentials to resist user enumeration.
var ErrIdentityNotFound = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode("IDENTITY_NOT_FOUND").
	WithCode(goerrors.CodeUnauthorized)

// ErrMismatchedHashAndPassword signals a failed bcrypt comparison
var ErrMismatchedHashAndPassword = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH").
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountInactive is distinct from invalid credentials: identity was
// established but the account is deactivated.
var ErrAccountInactive = goerrors.New("account is inactive", goerrors.CategoryAuthz).
	WithTextCode("ACCOUNT_INACTIVE").
	WithCode(goerrors.CodeForbidden)

// ErrTooManyLoginAttempts enforces the login cooldown window
var ErrTooManyLoginAttempts = goerrors.New("too many login attempts", goerrors.CategoryRateLimit).
	WithTextCode("TOO_MANY_LOGIN_ATTEMPTS").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned for tokens past their exp claim
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed covers bad signatures, garbled payloads, and missing claims
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(goerrors.CodeUnauthorized)

// ErrSigningKeyMissing means the service was started without a signing secret
var ErrSigningKeyMissing = goerrors.New("signing key is not configured", goerrors.CategoryInternal).
	WithTextCode("SIGNING_KEY_MISSING").
	WithCode(goerrors.CodeInternal)

// ErrNoEmptyString rejects empty password input to the hasher
var ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryBadInput).
	WithTextCode("EMPTY_VALUE").
	WithCode(goerrors.CodeBadRequest)

// ErrUnableToMapClaims unable to get claims from token
var ErrUnableToMapClaims = goerrors.New("unable to map claims", goerrors.CategoryAuth).
	WithTextCode("UNMAPPABLE_CLAIMS").
	WithCode(goerrors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
