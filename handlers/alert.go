package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/smartkrishi/smart-krishi-api/apperror"
	"github.com/smartkrishi/smart-krishi-api/metrics"
	"github.com/smartkrishi/smart-krishi-api/models"
)

// SendAlert logs a notification for a user and hands it to the dispatcher.
// The type is stored as sent; it is not checked against the known types.
func (h *Handler) SendAlert(c *fiber.Ctx) error {
	var req models.AlertRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	if err := models.Validate(&req); err != nil {
		return err
	}
	if err := h.requireStore(); err != nil {
		return err
	}

	note := req.NewNotification(h.now())

	ctx, cancel := context.WithTimeout(c.UserContext(), writeTimeout)
	defer cancel()

	id, err := h.store.Create(ctx, models.NotificationCollection, note)
	if err != nil {
		return apperror.Internal("Cannot insert notification", err)
	}
	metrics.RecordCreated(models.NotificationCollection)

	entry := h.log.WithFields(logrus.Fields{"notificationId": id, "userId": note.UserID, "type": note.Type})
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		note.ID = oid
	}
	res, err := h.dispatcher.Send(ctx, note)
	if err != nil {
		entry.WithError(err).Warn("notification dispatch failed")
	} else {
		entry.WithFields(logrus.Fields{"channel": res.Channel, "delivered": res.Delivered}).Debug("notification dispatched")
	}

	return c.JSON(fiber.Map{"sent": true, "id": id})
}
