package httpserver

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/helmet/v2"
	"github.com/rs/zerolog/log"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"

	"tolet.dev/backend/internal/app/appconfig"
	"tolet.dev/backend/internal/constant"
	"tolet.dev/backend/internal/pkg/bininfo"
	"tolet.dev/backend/internal/pkg/middlewares"
	"tolet.dev/backend/internal/pkg/session"
)

var (
	registerPromOnce sync.Once
	fiberprom        *fiberprometheus.FiberPrometheus
)

// Create builds the service app. tp is nil when tracing is disabled.
func Create(conf *appconfig.Config, tp *tracesdk.TracerProvider, sessions *session.Manager) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:        "ToLet Backend",
		ServerHeader:   fmt.Sprintf("ToLet/%s", bininfo.Version),
		ReadTimeout:    time.Second * 20,
		WriteTimeout:   time.Second * 20,
		ReadBufferSize: 8192,
		// allow possibility for graceful shutdown, otherwise app#Shutdown() will block forever
		IdleTimeout:             conf.HTTPServerShutdownTimeout,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          conf.TrustedProxies,
		ErrorHandler:            ErrorHandler,
		Immutable:               true,
		JSONEncoder:             json.Marshal,
		JSONDecoder:             json.Unmarshal,
	})

	app.Use(favicon.New())
	app.Use(fibersentry.New(fibersentry.Config{
		Repanic: true,
		Timeout: time.Second * 5,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     conf.CORSAllowOrigins,
		AllowMethods:     "GET, POST, PATCH, DELETE, OPTIONS",
		AllowHeaders:     strings.Join([]string{"Content-Type", "Authorization", "X-Requested-With", "sentry-trace", constant.IdempotencyKeyHeader}, ", "),
		ExposeHeaders:    strings.Join([]string{"Content-Type", "X-Tolet-Request-ID", constant.IdempotencyHeader}, ", "),
		AllowCredentials: true,
	}))
	middlewares.Logger(app)
	// the logger chain injects the request id into the user context,
	// and we need an extra middleware to repopulate it into ctx.Locals
	app.Use(middlewares.RequestID())

	app.Use(helmet.New(helmet.Config{
		HSTSMaxAge:         31356000,
		HSTSPreloadEnabled: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		PermissionPolicy:   "interest-cohort=()",
	}))
	app.Use(middlewares.InjectI18n())
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			log.Error().Str("evt.name", "http.panic").Msgf("panic: %v\n%s\n", e, buf)
		},
	}))

	registerPromOnce.Do(func() {
		fiberprom = fiberprometheus.New(constant.ServiceName)
	})
	if conf.DevOpsAddress == "" {
		fiberprom.RegisterAt(app, "/metrics")
	}
	app.Use(fiberprom.Middleware)

	if tp != nil {
		app.Use(otelfiber.Middleware(
			otelfiber.WithTracerProvider(tp),
			otelfiber.WithNext(func(c *fiber.Ctx) bool {
				return c.Path() == "/metrics"
			}),
		))
	}

	if conf.DevMode {
		log.Info().Str("evt.name", "http.devmode").Msg("Running in DEV mode")
		if conf.DevOpsAddress == "" {
			app.Use(pprof.New())
		}
	}

	app.Use(middlewares.InjectRequester(sessions, conf.SessionCookieName))
	if !conf.DevMode {
		app.Use(middlewares.EnrichSentry())
	}

	return app
}
