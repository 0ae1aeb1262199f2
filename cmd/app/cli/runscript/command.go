package runscript

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "tolet.dev/backend/cmd/app/cli"
	script_migrate "tolet.dev/backend/cmd/app/cli/runscript/scripts/migrate"
	script_seed_admin "tolet.dev/backend/cmd/app/cli/runscript/scripts/seed_admin"
)

func depsFn[T any]() func() T {
	return func() T {
		var deps T
		cliapp.Start(fx.Populate(&deps))
		return deps
	}
}

func Command() *cli.Command {
	return &cli.Command{
		Name:        "run-script",
		Description: "run maintenance go scripts",
		Subcommands: []*cli.Command{
			script_migrate.Command(depsFn[script_migrate.CommandDeps]()),
			script_seed_admin.Command(depsFn[script_seed_admin.CommandDeps]()),
		},
	}
}
