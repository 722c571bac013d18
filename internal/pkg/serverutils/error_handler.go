package serverutils

import (
	"errors"

	"community-resources-be/pkg/chat/session"
	"community-resources-be/pkg/resource"

	"github.com/gofiber/fiber/v2"
)

// unavailableBody is the 503 payload. The host shows the trusted links in
// place of results.
type unavailableBody struct {
	Category     resource.Category      `json:"category"`
	TrustedLinks []resource.TrustedLink `json:"trusted_links"`
}

// ErrorHandlerMiddleware renders errors returned by handlers as the
// standard envelope. Internal error text never reaches the client.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, err)
	}
}

func WriteError(ctx *fiber.Ctx, err error) error {
	res := ErrorFor(err)
	return ctx.Status(res.Code).JSON(res)
}

// ErrorFor maps an error to the envelope sent to clients. The websocket
// surface uses it directly.
func ErrorFor(err error) Response[any] {
	var (
		verr  *ValidationError
		ferr  *fiber.Error
		unav  *resource.DataUnavailableError
		inval *resource.InvalidFilterError
	)

	switch {
	case errors.As(err, &verr):
		res := ErrorResponse(fiber.StatusBadRequest, "Invalid request")
		res.Errors = verr.Fields
		return res

	case errors.As(err, &inval):
		res := ErrorResponse(fiber.StatusBadRequest, inval.Error())
		res.Errors = []FieldError{{Field: inval.Field, Message: inval.Reason}}
		return res

	case errors.Is(err, resource.ErrUnknownCategory):
		return ErrorResponse(fiber.StatusBadRequest, err.Error())

	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, resource.ErrRecordNotFound):
		return ErrorResponse(fiber.StatusNotFound, err.Error())

	case errors.As(err, &unav):
		return ErrorResponseWithData(
			fiber.StatusServiceUnavailable,
			"Resource list for "+unav.Category.DisplayName()+" is temporarily unavailable",
			unavailableBody{Category: unav.Category, TrustedLinks: resource.TrustedLinks(unav.Category)},
		)

	case errors.As(err, &ferr):
		return ErrorResponse(ferr.Code, ferr.Message)

	default:
		return ErrorResponse(fiber.StatusInternalServerError, "Something went wrong, please try again")
	}
}
