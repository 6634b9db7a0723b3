package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartkrishi/smart-krishi-api/metrics"
)

// Metrics records request counts and latency labelled by route pattern, so
// /api/user/:id is one series however many ids are requested. It must run
// outside RequestLogger to observe the final status. A panicking request is
// counted as a 500 before the panic continues to the recover middleware.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		start := time.Now()
		metrics.IncInFlight()
		defer metrics.DecInFlight()

		defer func() {
			if r := recover(); r != nil {
				metrics.RecordHTTPRequest(c.Method(), c.Route().Path, fiber.StatusInternalServerError, time.Since(start))
				panic(r)
			}
			status := c.Response().StatusCode()
			if err != nil {
				status, _ = StatusFor(err)
			}
			metrics.RecordHTTPRequest(c.Method(), c.Route().Path, status, time.Since(start))
		}()

		return c.Next()
	}
}

// MetricsHandler serves the service registry in the Prometheus text format.
func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
}
