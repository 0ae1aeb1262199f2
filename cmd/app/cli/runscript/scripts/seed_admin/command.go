package script_seed_admin

import (
	"github.com/go-redsync/redsync/v4"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"tolet.dev/backend/internal/service"
)

type CommandDeps struct {
	fx.In

	AuthService *service.Auth
	RedSync     *redsync.Redsync
}

func Command(depsFn func() CommandDeps) *cli.Command {
	return &cli.Command{
		Name:        "seed_admin",
		Description: "create an admin account, or promote an existing account to admin and reset its password",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Usage:    "email of the admin account",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "display name used when the account does not exist yet",
				Value: "Administrator",
			},
			&cli.StringFlag{
				Name:    "password",
				Usage:   "password of the admin account; a random one is generated and printed when omitted",
				EnvVars: []string{"TOLET_SEED_ADMIN_PASSWORD"},
			},
		},
		Action: func(ctx *cli.Context) error {
			return run(ctx.Context, depsFn(), options{
				Email:    ctx.String("email"),
				Name:     ctx.String("name"),
				Password: ctx.String("password"),
			})
		},
	}
}
