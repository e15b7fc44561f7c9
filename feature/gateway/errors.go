package gateway

import (
	"errors"

	"storage-sample/core/storage"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// StatusFor maps an error to the gateway's HTTP status.
func StatusFor(err error) int {
	if errors.Is(err, storage.ErrInvalidRange) {
		return fiber.StatusRequestedRangeNotSatisfiable
	}
	var se *storage.Error
	if !errors.As(err, &se) {
		return fiber.StatusInternalServerError
	}
	switch se.Kind {
	case storage.KindInvalidName:
		return fiber.StatusBadRequest
	case storage.KindNameConflict, storage.KindBucketNotEmpty:
		return fiber.StatusConflict
	case storage.KindNotFound:
		return fiber.StatusNotFound
	case storage.KindPreconditionFailed:
		return fiber.StatusPreconditionFailed
	case storage.KindLengthRequired:
		return fiber.StatusLengthRequired
	case storage.KindService:
		if se.StatusCode >= 400 {
			return se.StatusCode
		}
	}
	return fiber.StatusBadGateway
}

func writeError(c *fiber.Ctx, err error) error {
	body := ErrorResponse{Error: err.Error()}
	var se *storage.Error
	if errors.As(err, &se) {
		body.Kind = string(se.Kind)
		body.Code = se.Code
		body.RequestID = se.RequestID
	}
	return c.Status(StatusFor(err)).JSON(body)
}
