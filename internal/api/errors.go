package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"

	"github.com/teamboard/api/internal/auth"
)

// TextCodeValidation marks payloads rejected by input validation.
const TextCodeValidation = "VALIDATION_ERROR"

type errorPayload struct {
	Message    string            `json:"message"`
	TextCode   string            `json:"text_code,omitempty"`
	Validation validation.Errors `json:"validation,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// RespondError translates domain errors into the wire error envelope.
// Unknown errors collapse to a generic 500 so internals never leak.
func RespondError(c router.Context, logger auth.Logger, err error) error {
	if verrs, ok := err.(validation.Errors); ok {
		return c.JSON(router.StatusBadRequest, errorResponse{
			Error: errorPayload{
				Message:    "validation failed",
				TextCode:   TextCodeValidation,
				Validation: verrs,
			},
		})
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	status := richErr.Code
	if status < 400 || status > 599 {
		status = router.StatusInternalServerError
	}

	if logger != nil && status >= 500 {
		logger.Error(
			"request failed",
			"error", richErr.Message,
			"category", richErr.Category,
			"text_code", richErr.TextCode,
			"path", c.OriginalURL(),
		)
	}

	message := richErr.Message
	if status >= 500 {
		message = "An unexpected server error occurred"
	}

	return c.JSON(status, errorResponse{
		Error: errorPayload{
			Message:  message,
			TextCode: richErr.TextCode,
		},
	})
}

// NotFoundError builds the uniform 404 used by lookup handlers.
func NotFoundError(resource string) *goerrors.Error {
	return goerrors.New(resource+" not found", goerrors.CategoryNotFound).
		WithTextCode("NOT_FOUND").
		WithCode(goerrors.CodeNotFound)
}

// BadRequestError builds a 400 for malformed payloads.
func BadRequestError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithTextCode("BAD_REQUEST").
		WithCode(goerrors.CodeBadRequest)
}
