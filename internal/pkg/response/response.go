// Package response writes the JSON envelope shared by the non-listing
// endpoints: {"status":"success","message",...,"data"} on success and
// {"status":"error","error":{"message","statusCode","details"}} on failure.
package response

import (
	"github.com/gofiber/fiber/v2"
)

type SuccessBody struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	// Metadata carries paging or counts when a handler has any.
	Metadata interface{} `json:"metadata,omitempty"`
}

type ErrorBody struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Details    interface{} `json:"details,omitempty"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Success sends 200 with data.
func Success(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return c.Status(fiber.StatusOK).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// Error sends statusCode with the error envelope. details is omitted when nil.
func Error(c *fiber.Ctx, message string, statusCode int, details interface{}) error {
	return c.Status(statusCode).JSON(ErrorBody{
		Status: statusError,
		Error: ErrorDetail{
			Message:    message,
			StatusCode: statusCode,
			Details:    details,
		},
	})
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized, nil)
}
