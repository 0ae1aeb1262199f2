package server

import (
	"context"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"tolet.dev/backend/internal/app"
	"tolet.dev/backend/internal/app/appconfig"
	"tolet.dev/backend/internal/app/appcontext"
	"tolet.dev/backend/internal/server/httpserver"
)

func Run() {
	app.New(appcontext.Declare(appcontext.EnvServer), fx.Invoke(run)).Run()
}

func run(serviceApp *fiber.App, conf *appconfig.Config, lc fx.Lifecycle) {
	var devOpsApp *fiber.App
	if conf.DevOpsAddress != "" {
		devOpsApp = httpserver.CreateDevOps()
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := listen(serviceApp, conf.ServiceAddress, "service"); err != nil {
				return err
			}
			if devOpsApp != nil {
				return listen(devOpsApp, conf.DevOpsAddress, "devops")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if devOpsApp != nil {
				_ = devOpsApp.ShutdownWithContext(ctx)
			}
			if conf.DevMode {
				return nil
			}
			return serviceApp.ShutdownWithContext(ctx)
		},
	})
}

func listen(svr *fiber.App, address, name string) error {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}

	go func() {
		if err := svr.Listener(ln); err != nil {
			log.Error().
				Err(err).
				Str("evt.name", "server.terminated").
				Str("server", name).
				Msg("server terminated unexpectedly")
		}
	}()

	log.Info().
		Str("evt.name", "server.started").
		Str("server", name).
		Str("address", address).
		Msg("server started")
	return nil
}
