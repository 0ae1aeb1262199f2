package script_migrate

import (
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
)

type CommandDeps struct {
	fx.In

	DB *bun.DB
}

func Command(depsFn func() CommandDeps) *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Description: "create the users, properties, favorites and messages tables and their indexes when missing",
		Action: func(ctx *cli.Context) error {
			return run(ctx.Context, depsFn())
		},
	}
}
