// Package routes assembles the Fiber application: middleware stack and the
// route table.
package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smartkrishi/smart-krishi-api/handlers"
	"github.com/smartkrishi/smart-krishi-api/middleware"
)

const (
	appName = "Smart Krishi"
	// BodyLimit caps request bodies, leaf photos included.
	BodyLimit = 10 * 1024 * 1024
)

func NewApp(h *handlers.Handler, log *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		ErrorHandler:          middleware.ErrorHandler(log),
		BodyLimit:             BodyLimit,
		UnescapePath:          true,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(middleware.Metrics())
	app.Use(middleware.RequestLogger(log))

	Register(app, h)
	return app
}

// Register mounts every endpoint on router.
func Register(router fiber.Router, h *handlers.Handler) {
	router.Get("/", h.Root)
	router.Get("/test", h.Diagnostic)
	router.Get("/metrics", middleware.MetricsHandler())

	api := router.Group("/api")
	api.Post("/register", h.Register)
	api.Get("/user/:id", h.GetUser)

	api.Post("/detect-disease", h.DetectDisease)
	api.Get("/diagnosis/:userId", h.DiagnosisHistory)

	api.Get("/weather/:location", h.Weather)
	api.Get("/mandi/:district", h.MandiPrices)
	api.Post("/fertilizer", h.Fertilizer)
	api.Post("/send-alert", h.SendAlert)

	admin := api.Group("/admin")
	admin.Post("/update-mandi", h.UpdateMandi)
	admin.Get("/users", h.AdminUsers)
	admin.Get("/diagnosis", h.AdminDiagnosis)
}
