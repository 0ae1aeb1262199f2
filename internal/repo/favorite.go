package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"tolet.dev/backend/internal/model"
	"tolet.dev/backend/internal/repo/selector"
)

type Favorite struct {
	db  *bun.DB
	sel selector.S[model.Favorite]
}

func NewFavorite(db *bun.DB) *Favorite {
	return &Favorite{db: db, sel: selector.New[model.Favorite](db)}
}

// AddFavorite is idempotent: favoriting twice keeps a single row.
func (r *Favorite) AddFavorite(ctx context.Context, favorite *model.Favorite) error {
	_, err := r.db.NewInsert().
		Model(favorite).
		On("CONFLICT (user_id, property_id) DO NOTHING").
		Exec(ctx)
	return errors.Wrap(err, "repo: add favorite")
}

// RemoveFavorite reports whether a row was deleted.
func (r *Favorite) RemoveFavorite(ctx context.Context, userID, propertyID string) (bool, error) {
	res, err := r.db.NewDelete().
		Model((*model.Favorite)(nil)).
		Where("user_id = ?", userID).
		Where("property_id = ?", propertyID).
		Exec(ctx)
	if err != nil {
		return false, errors.Wrap(err, "repo: remove favorite")
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// GetFavoritePropertyIDs returns the favorited property ids of a user, most
// recently favorited first.
func (r *Favorite) GetFavoritePropertyIDs(ctx context.Context, userID string) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.NewSelect().
		Model((*model.Favorite)(nil)).
		Column("property_id").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, errors.Wrap(err, "repo: get favorite property ids")
	}
	return ids, nil
}

func (r *Favorite) CountByUser(ctx context.Context, userID string) (int, error) {
	return r.sel.Count(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("user_id = ?", userID)
	})
}

// CountForOwner counts favorites placed on any property of ownerID.
func (r *Favorite) CountForOwner(ctx context.Context, ownerID string) (int, error) {
	return r.sel.Count(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Join("JOIN properties AS p ON p.property_id = f.property_id").
			Where("p.owner_id = ?", ownerID)
	})
}
