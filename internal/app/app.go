package app

import (
	"time"

	"go.uber.org/fx"

	"tolet.dev/backend/internal/app/appconfig"
	"tolet.dev/backend/internal/app/appcontext"
	"tolet.dev/backend/internal/controller"
	"tolet.dev/backend/internal/infra"
	"tolet.dev/backend/internal/model/cache"
	"tolet.dev/backend/internal/pkg/crypto"
	"tolet.dev/backend/internal/pkg/logger"
	"tolet.dev/backend/internal/pkg/session"
	"tolet.dev/backend/internal/repo"
	"tolet.dev/backend/internal/server"
	"tolet.dev/backend/internal/service"
	"tolet.dev/backend/internal/workers/invalidatewkr"
)

func Options(ctx appcontext.Ctx, additionalOpts ...fx.Option) []fx.Option {
	conf, err := appconfig.Parse(ctx)
	if err != nil {
		panic(err)
	}

	// logger and configuration are the only two things that are not in the fx graph
	// because some other packages need them to be initialized before fx starts
	logger.Configure(conf)

	baseOpts := []fx.Option{
		// fx meta
		fx.WithLogger(logger.Fx),

		// Misc
		fx.Supply(conf),
		fx.Provide(crypto.NewHasher),
		fx.Provide(session.NewManager),

		// Infrastructures
		infra.Module(),

		// Servers
		server.Module(),

		// Repositories
		repo.Module(),

		// Services
		service.Module(),

		// Global Singleton Inits: Keep those before controllers to ensure they are initialized
		// before controllers are registered as controllers are also fx#Invoke functions which
		// are called in the order of their registration.
		fx.Invoke(cache.Initialize),

		// Controllers
		controller.Module(),

		// fx Extra Options
		fx.StartTimeout(1 * time.Second),
		// StopTimeout is not typically needed, since we're using fiber's Shutdown(),
		// in which fiber has its own IdleTimeout for controlling the shutdown timeout.
		// It acts as a countermeasure in case the fiber app is not properly shutting down.
		fx.StopTimeout(5 * time.Minute),
	}

	if ctx.Env == appcontext.EnvServer {
		// Workers
		baseOpts = append(baseOpts, fx.Invoke(invalidatewkr.Start))
	}

	return append(baseOpts, additionalOpts...)
}

func New(ctx appcontext.Ctx, additionalOpts ...fx.Option) *fx.App {
	return fx.New(Options(ctx, additionalOpts...)...)
}
