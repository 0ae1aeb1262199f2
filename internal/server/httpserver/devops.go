package httpserver

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// CreateDevOps builds the app served on DevOpsAddress: prometheus metrics
// and pprof, kept off the public listener.
func CreateDevOps() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	metrics := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metrics(c.Context())
		return nil
	})
	app.Use(pprof.New())

	return app
}
