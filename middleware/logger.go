package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes one log line per request. Handler errors are rendered
// here through the app's error handler so the logged status is the one the
// client sees.
func RequestLogger(log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				log.WithError(herr).Error("render error response")
				if serr := c.SendStatus(fiber.StatusInternalServerError); serr != nil {
					return serr
				}
			}
		}

		status := c.Response().StatusCode()
		entry := log.WithFields(logrus.Fields{
			"method":    c.Method(),
			"path":      c.Path(),
			"status":    status,
			"duration":  time.Since(start).String(),
			"requestId": requestID(c),
			"ip":        c.IP(),
		})
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Warn("request")
		case status >= fiber.StatusBadRequest:
			entry.Info("request")
		default:
			entry.Debug("request")
		}
		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
