package server

import (
	"go.uber.org/fx"

	"tolet.dev/backend/internal/server/httpserver"
	"tolet.dev/backend/internal/server/svr"
)

func Module() fx.Option {
	return fx.Module("server",
		fx.Provide(httpserver.Create),
		fx.Provide(svr.CreateEndpointGroups))
}
