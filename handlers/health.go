package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/smartkrishi/smart-krishi-api/apperror"
)

const (
	statusRunning      = "✅ Running"
	statusWorking      = "✅ Connected & Working"
	statusUnavailable  = "❌ Not Available"
	statusSet          = "✅ Set"
	statusNotSet       = "❌ Not Set"
	statusErrorPrefix  = "⚠️ Error: "
	connected          = "Connected"
	notConnected       = "Not Connected"
	diagnosticErrLimit = 80
	diagnosticTimeout  = 5 * time.Second
)

func (h *Handler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"name": "Smart Krishi", "status": "ok"})
}

// Diagnostic reports whether the backend can reach its database. It always
// answers 200; a failing store is described in the "database" field.
func (h *Handler) Diagnostic(c *fiber.Ctx) error {
	report := fiber.Map{
		"backend":           statusRunning,
		"database":          statusUnavailable,
		"database_url":      setOrNot(h.databaseURLSet),
		"database_name":     setOrNot(h.databaseNameSet),
		"connection_status": notConnected,
		"collections":       []string{},
	}
	if h.store == nil {
		return c.JSON(report)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), diagnosticTimeout)
	defer cancel()

	names, err := h.store.CollectionNames(ctx)
	if err != nil {
		h.log.WithError(err).Warn("diagnostic: list collections failed")
		report["database"] = statusErrorPrefix + apperror.Truncate(err.Error(), diagnosticErrLimit)
		return c.JSON(report)
	}
	if names == nil {
		names = []string{}
	}
	report["database"] = statusWorking
	report["connection_status"] = connected
	report["collections"] = names
	return c.JSON(report)
}

func setOrNot(set bool) string {
	if set {
		return statusSet
	}
	return statusNotSet
}
