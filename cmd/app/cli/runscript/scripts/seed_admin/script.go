package script_seed_admin

import (
	"context"
	"fmt"
	"time"

	"github.com/dchest/uniuri"
	"github.com/go-redsync/redsync/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const generatedPasswordLength = 24

type options struct {
	Email    string
	Name     string
	Password string
}

func run(ctx context.Context, deps CommandDeps, opts options) error {
	// two operators seeding the same account at once would race on the
	// create-or-promote decision
	mutex := deps.RedSync.NewMutex("mutex:script:seed_admin", redsync.WithExpiry(time.Minute), redsync.WithTries(1))
	if err := mutex.LockContext(ctx); err != nil {
		return errors.Wrap(err, "another seed_admin run is in progress")
	}
	defer func() {
		if _, err := mutex.UnlockContext(ctx); err != nil {
			log.Warn().Err(err).Str("evt.name", "script.seed_admin.unlock.failed").Msg("failed to release lock")
		}
	}()

	generated := opts.Password == ""
	if generated {
		opts.Password = uniuri.NewLen(generatedPasswordLength)
	}

	user, err := deps.AuthService.EnsureAdmin(ctx, opts.Name, opts.Email, opts.Password)
	if err != nil {
		return errors.Wrap(err, "failed to seed admin")
	}

	log.Info().
		Str("evt.name", "script.seed_admin.finished").
		Str("user_id", user.UserID).
		Str("email", user.Email).
		Msg("admin account ready")

	if generated {
		fmt.Printf("generated password for %s: %s\n", user.Email, opts.Password)
	}
	return nil
}
