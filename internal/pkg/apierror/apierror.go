// Package apierror maps application errors onto client-facing status codes
// and messages.
package apierror

import (
	"errors"

	"vibejobs-backend/internal/application/listings"
	"vibejobs-backend/internal/infrastructure/database"

	"github.com/gofiber/fiber/v2"
)

const (
	MsgConfig     = "Database configuration error"
	MsgConnection = "Database connection error"
	MsgInternal   = "Internal server error"
)

// Classified is the client view of an error.
type Classified struct {
	Status  int
	Message string
	// Details is only populated when the caller asked for it (development).
	Details string
}

// Classify maps err to a status and a stable message. Configuration errors
// and unreachable stores are told apart from other failures.
func Classify(err error, withDetails bool) Classified {
	c := Classified{Status: fiber.StatusInternalServerError, Message: MsgInternal}

	var fe *fiber.Error
	switch {
	case errors.Is(err, database.ErrConfig):
		c.Message = MsgConfig
	case errors.Is(err, listings.ErrStoreUnavailable) || database.IsUnavailable(err):
		c.Status = fiber.StatusServiceUnavailable
		c.Message = MsgConnection
	case errors.As(err, &fe):
		c.Status = fe.Code
		c.Message = fe.Message
	}

	if withDetails && err != nil {
		c.Details = err.Error()
	}
	return c
}
