package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/smartkrishi/smart-krishi-api/apperror"
	"github.com/smartkrishi/smart-krishi-api/database"
	"github.com/smartkrishi/smart-krishi-api/metrics"
	"github.com/smartkrishi/smart-krishi-api/models"
)

// Register creates a farmer profile. Phone numbers are not deduplicated; a
// second registration with the same phone creates a second record.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	if req.Phone == "" {
		return apperror.MissingField("phone")
	}

	user := req.NewUser(h.now())
	if err := models.Validate(user); err != nil {
		return err
	}
	if err := h.requireStore(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), writeTimeout)
	defer cancel()

	id, err := h.store.CreateStamped(ctx, models.UserCollection, user)
	if err != nil {
		return apperror.Internal("Cannot insert user", err)
	}
	metrics.RecordCreated(models.UserCollection)

	saved, found, err := h.store.FindByID(ctx, models.UserCollection, id)
	if err != nil {
		return apperror.Internal("Cannot read user", err)
	}
	if !found {
		return apperror.Internal("Cannot read user", nil)
	}

	h.log.WithFields(logrus.Fields{"userId": id}).Info("user registered")
	return c.JSON(database.Normalize(saved))
}

func (h *Handler) GetUser(c *fiber.Ctx) error {
	if err := h.requireStore(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), writeTimeout)
	defer cancel()

	doc, found, err := h.store.FindByID(ctx, models.UserCollection, c.Params("id"))
	if err != nil {
		if apperror.Is(err, apperror.KindInvalidIdentifier) {
			return err
		}
		return apperror.Internal("Cannot fetch user", err)
	}
	if !found {
		return apperror.NotFound("User")
	}
	return c.JSON(database.Normalize(doc))
}
