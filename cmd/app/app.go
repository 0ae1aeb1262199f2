package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"tolet.dev/backend/cmd/app/cli/runscript"
	"tolet.dev/backend/cmd/app/server"
	"tolet.dev/backend/internal/constant"
	"tolet.dev/backend/internal/pkg/bininfo"
)

func Run() {
	app := &cli.App{
		Name:        constant.ServiceName,
		Description: "The ToLet rental marketplace backend. Built with Go, fiber, bun and go.uber.org/fx. Uses NATS to keep listing snapshots in step across instances and Redis for shared state.",
		Version:     bininfo.Version,
		Commands: []*cli.Command{
			server.Command(),
			runscript.Command(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}
