package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/smartkrishi/smart-krishi-api/advisory"
	"github.com/smartkrishi/smart-krishi-api/apperror"
	"github.com/smartkrishi/smart-krishi-api/database"
	"github.com/smartkrishi/smart-krishi-api/models"
)

func (h *Handler) Weather(c *fiber.Ctx) error {
	report, err := h.weather.Lookup(c.UserContext(), c.Params("location"))
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// MandiPrices returns stored prices for a district, newest first, or the
// fallback quotes when the district has none.
func (h *Handler) MandiPrices(c *fiber.Ctx) error {
	district := c.Params("district")
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), readTimeout)
		defer cancel()

		docs, err := h.store.Find(ctx, models.MandiPriceCollection, bson.M{"district": district}, database.Newest("updatedAt"))
		if err != nil {
			return apperror.Internal("Cannot fetch mandi prices", err)
		}
		if len(docs) > 0 {
			return c.JSON(database.NormalizeAll(docs))
		}
	}
	return c.JSON(advisory.FallbackMandiPrices(district, database.FormatTime(h.now())))
}

func (h *Handler) Fertilizer(c *fiber.Ctx) error {
	var req models.FertilizerRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	if err := models.Validate(&req); err != nil {
		return err
	}
	return c.JSON(advisory.Recommend(req.Crop, req.Soil))
}
