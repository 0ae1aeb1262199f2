package cli

import (
	"context"

	"go.uber.org/fx"

	"tolet.dev/backend/internal/app"
	"tolet.dev/backend/internal/app/appcontext"
)

func Start(module fx.Option) {
	if err := app.New(appcontext.Declare(appcontext.EnvCLI), module).Start(context.Background()); err != nil {
		panic(err)
	}
}
