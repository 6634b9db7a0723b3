package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/smartkrishi/smart-krishi-api/apperror"
	"github.com/smartkrishi/smart-krishi-api/database"
	"github.com/smartkrishi/smart-krishi-api/metrics"
	"github.com/smartkrishi/smart-krishi-api/models"
	"github.com/smartkrishi/smart-krishi-api/providers"
)

// ImageBaseURL prefixes the placeholder URLs given to uploaded images. Images
// are not stored anywhere yet.
const ImageBaseURL = "https://files.smartkrishi.example"

// DetectDisease accepts a leaf photo as multipart form data and records the
// classifier's verdict.
func (h *Handler) DetectDisease(c *fiber.Ctx) error {
	userID := c.FormValue("userId")
	if userID == "" {
		return apperror.MissingField("userId")
	}
	crop := c.FormValue("crop")
	if crop == "" {
		return apperror.MissingField("crop")
	}
	file, err := c.FormFile("image")
	if err != nil {
		return apperror.MissingField("image")
	}
	content, err := readUpload(file)
	if err != nil {
		return apperror.BadRequest("Cannot read image", err)
	}
	if len(content) == 0 {
		return apperror.EmptyPayload("Empty image")
	}
	if err := h.requireStore(); err != nil {
		return err
	}

	now := h.now()
	imageURL := imageURLFor(now, file.Filename)

	ctx, cancel := context.WithTimeout(c.UserContext(), writeTimeout)
	defer cancel()

	verdict, err := h.classifier.Classify(ctx, providers.ImageInput{URL: imageURL, Crop: crop, Content: content})
	if err != nil {
		return apperror.Upstream("Classifier error", err)
	}

	record := &models.CropDiagnosis{
		UserID:         userID,
		Crop:           crop,
		ImageURL:       imageURL,
		DiseaseName:    verdict.DiseaseName,
		Probability:    verdict.Probability,
		Recommendation: verdict.Recommendation,
		Date:           now,
	}
	if verdict.Pesticide != "" {
		record.Pesticide = &verdict.Pesticide
	}
	if err := models.Validate(record); err != nil {
		return err
	}

	id, err := h.store.CreateStamped(ctx, models.CropDiagnosisCollection, record)
	if err != nil {
		return apperror.Internal("Cannot insert diagnosis", err)
	}
	metrics.RecordCreated(models.CropDiagnosisCollection)

	saved, found, err := h.store.FindByID(ctx, models.CropDiagnosisCollection, id)
	if err != nil || !found {
		return apperror.Internal("Cannot read diagnosis", err)
	}

	h.log.WithFields(logrus.Fields{"diagnosisId": id, "userId": userID, "crop": crop}).Info("diagnosis recorded")
	return c.JSON(database.Normalize(saved))
}

// DiagnosisHistory lists a user's diagnoses, newest first. Unknown users get
// an empty list.
func (h *Handler) DiagnosisHistory(c *fiber.Ctx) error {
	if err := h.requireStore(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), readTimeout)
	defer cancel()

	docs, err := h.store.Find(ctx, models.CropDiagnosisCollection, bson.M{"userId": c.Params("userId")}, database.Newest("date"))
	if err != nil {
		return apperror.Internal("Cannot fetch diagnoses", err)
	}
	return c.JSON(database.NormalizeAll(docs))
}

func imageURLFor(now time.Time, filename string) string {
	ts := strconv.FormatFloat(float64(now.UnixMicro())/1e6, 'f', -1, 64)
	return fmt.Sprintf("%s/%s_%s", ImageBaseURL, ts, filename)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
