// Package middleware holds the Fiber middleware shared by every route: error
// rendering, request logging and Prometheus metrics.
package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/smartkrishi/smart-krishi-api/apperror"
)

const internalMessage = "Internal server error"

// StatusFor maps err to the HTTP status and client message it is rendered
// with. Unknown errors become a generic 500 so their detail stays in the log.
func StatusFor(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return ae.Kind.Status(), ae.Message
	}
	return fiber.StatusInternalServerError, internalMessage
}

// ErrorHandler renders every handler error as {"error": message}.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, msg := StatusFor(err)
		if code >= fiber.StatusInternalServerError {
			log.WithFields(logrus.Fields{
				"method":    c.Method(),
				"path":      c.Path(),
				"status":    code,
				"requestId": requestID(c),
			}).WithError(err).Error("request failed")
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
}
