package script_migrate

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	"tolet.dev/backend/internal/model"
)

type table struct {
	name        string
	model       any
	foreignKeys []string
	indexes     []index
}

type index struct {
	name    string
	columns []string
}

// tables are created in order so that foreign keys always reference an
// existing table.
var tables = []table{
	{
		name:  "users",
		model: (*model.User)(nil),
		indexes: []index{
			{name: "users_role_idx", columns: []string{"role"}},
		},
	},
	{
		name:  "properties",
		model: (*model.Property)(nil),
		foreignKeys: []string{
			`("owner_id") REFERENCES "users" ("user_id") ON DELETE CASCADE`,
		},
		indexes: []index{
			{name: "properties_owner_id_idx", columns: []string{"owner_id"}},
			{name: "properties_approved_idx", columns: []string{"approved"}},
			{name: "properties_created_at_idx", columns: []string{"created_at"}},
		},
	},
	{
		name:  "favorites",
		model: (*model.Favorite)(nil),
		foreignKeys: []string{
			`("user_id") REFERENCES "users" ("user_id") ON DELETE CASCADE`,
			`("property_id") REFERENCES "properties" ("property_id") ON DELETE CASCADE`,
		},
		indexes: []index{
			{name: "favorites_property_id_idx", columns: []string{"property_id"}},
		},
	},
	{
		name:  "messages",
		model: (*model.Message)(nil),
		foreignKeys: []string{
			`("property_id") REFERENCES "properties" ("property_id") ON DELETE CASCADE`,
			`("sender_id") REFERENCES "users" ("user_id") ON DELETE CASCADE`,
			`("receiver_id") REFERENCES "users" ("user_id") ON DELETE CASCADE`,
		},
		indexes: []index{
			{name: "messages_sender_id_idx", columns: []string{"sender_id"}},
			{name: "messages_receiver_id_read_idx", columns: []string{"receiver_id", "read"}},
			{name: "messages_property_id_idx", columns: []string{"property_id"}},
		},
	},
}

func run(ctx context.Context, deps CommandDeps) error {
	log.Info().Str("evt.name", "script.migrate.started").Msg("running script")

	err := deps.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, t := range tables {
			q := tx.NewCreateTable().Model(t.model).IfNotExists()
			for _, fk := range t.foreignKeys {
				q = q.ForeignKey(fk)
			}
			if _, err := q.Exec(ctx); err != nil {
				return errors.Wrapf(err, "failed to create table %s", t.name)
			}

			for _, idx := range t.indexes {
				_, err := tx.NewCreateIndex().
					Model(t.model).
					Index(idx.name).
					Column(idx.columns...).
					IfNotExists().
					Exec(ctx)
				if err != nil {
					return errors.Wrapf(err, "failed to create index %s", idx.name)
				}
			}

			log.Info().
				Str("evt.name", "script.migrate.table").
				Str("table", t.name).
				Msg("table ready")
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Str("evt.name", "script.migrate.finished").Msg("script finished")
	return nil
}
