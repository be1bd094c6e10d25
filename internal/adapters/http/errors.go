package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/routesathi/routesathi/internal/core/domain"
)

// APIError is the structured error body: {error, detail?}.
type APIError struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code, detail string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Error:     code,
		Detail:    detail,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, detail string) error {
	return newError(c, 400, "invalid_request", detail)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, detail string) error {
	return newError(c, 404, "not_found", detail)
}

// errUnprocessable returns a 422 error.
func errUnprocessable(c *fiber.Ctx, detail string) error {
	return newError(c, 422, "geocode_insufficient", detail)
}

// errBadGateway returns a 502 error.
func errBadGateway(c *fiber.Ctx, detail string) error {
	return newError(c, 502, "routing_unavailable", detail)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, detail string) error {
	return newError(c, 500, "internal_error", detail)
}

// mapDomainError translates resolver pipeline errors onto the wire
// taxonomy. Unexpected failures are always caught as 500, never an
// unhandled crash.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, domain.ErrGeocodeInsufficient):
		return errUnprocessable(c, err.Error())
	case errors.Is(err, domain.ErrRoutingUnavailable):
		return errBadGateway(c, err.Error())
	default:
		return errInternal(c, err.Error())
	}
}
