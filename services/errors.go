package services

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind groups API errors by how the caller recovers: fix the request,
// complete an earlier step, look up the id, or resolve the conflict.
type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION"
	KindPrecondition ErrorKind = "PRECONDITION"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindConflict     ErrorKind = "CONFLICT"
)

// AppError is the one error shape every operation returns. Code names the
// specific failure (ALREADY_LOCKED, MATRIX_INCOMPLETE, ...); Detail carries
// whatever the caller needs to self-correct (offending ids, missing cells).
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Detail  fiber.Map
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindPrecondition, KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func validationErr(code, message string) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Message: message}
}

func preconditionErr(code, message string) *AppError {
	return &AppError{Kind: KindPrecondition, Code: code, Message: message}
}

func notFoundErr(code, message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: message}
}

func conflictErr(code, message string) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: message}
}

func (e *AppError) withDetail(detail fiber.Map) *AppError {
	e.Detail = detail
	return e
}

// respondErr writes an AppError as the JSON error response.
func respondErr(c *fiber.Ctx, e *AppError) error {
	body := fiber.Map{
		"error": e.Message,
		"code":  e.Code,
		"kind":  e.Kind,
	}
	for k, v := range e.Detail {
		body[k] = v
	}
	return c.Status(e.Status()).JSON(body)
}
