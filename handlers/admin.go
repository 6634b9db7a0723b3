package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/smartkrishi/smart-krishi-api/apperror"
	"github.com/smartkrishi/smart-krishi-api/database"
	"github.com/smartkrishi/smart-krishi-api/metrics"
	"github.com/smartkrishi/smart-krishi-api/models"
)

// UpdateMandi appends a price observation. Earlier observations for the same
// district and crop are kept.
func (h *Handler) UpdateMandi(c *fiber.Ctx) error {
	var req models.UpdateMandiRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	if err := models.Validate(&req); err != nil {
		return err
	}
	if err := h.requireStore(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), writeTimeout)
	defer cancel()

	price := req.NewMandiPrice(h.now())
	id, err := h.store.CreateStamped(ctx, models.MandiPriceCollection, price)
	if err != nil {
		return apperror.Internal("Cannot insert mandi price", err)
	}
	metrics.RecordCreated(models.MandiPriceCollection)

	h.log.WithFields(logrus.Fields{"mandiId": id, "district": price.District, "crop": price.Crop}).Info("mandi price updated")
	return c.JSON(fiber.Map{"ok": true, "id": id})
}

func (h *Handler) AdminUsers(c *fiber.Ctx) error {
	return h.listAll(c, models.UserCollection, "createdAt")
}

func (h *Handler) AdminDiagnosis(c *fiber.Ctx) error {
	return h.listAll(c, models.CropDiagnosisCollection, "date")
}

func (h *Handler) listAll(c *fiber.Ctx, collection, newestField string) error {
	if err := h.requireStore(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), readTimeout)
	defer cancel()

	docs, err := h.store.Find(ctx, collection, bson.M{}, database.Newest(newestField))
	if err != nil {
		return apperror.Internal("Cannot fetch "+collection, err)
	}
	return c.JSON(database.NormalizeAll(docs))
}
