package repo

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"tolet.dev/backend/internal/model"
	"tolet.dev/backend/internal/pkg/apperr"
	"tolet.dev/backend/internal/pkg/pgqry"
	"tolet.dev/backend/internal/repo/selector"
)

type Property struct {
	db  *bun.DB
	sel selector.S[model.Property]
}

func NewProperty(db *bun.DB) *Property {
	return &Property{db: db, sel: selector.New[model.Property](db)}
}

// GetProperties returns every property, newest first.
func (r *Property) GetProperties(ctx context.Context) ([]*model.Property, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return pgqry.New(q).OrderNewest().Q
	})
}

func (r *Property) GetPropertyByID(ctx context.Context, propertyID string) (*model.Property, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return pgqry.New(q).UseOwner().Q.Where("p.property_id = ?", propertyID)
	})
}

func (r *Property) GetPropertiesByOwner(ctx context.Context, ownerID string) ([]*model.Property, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return pgqry.New(q).WhereOwner(ownerID).OrderNewest().Q
	})
}

func (r *Property) GetPendingProperties(ctx context.Context) ([]*model.Property, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return pgqry.New(q).UseOwner().WhereApproved(false).OrderNewest().Q
	})
}

func (r *Property) GetPropertiesByIDs(ctx context.Context, ids []string) ([]*model.Property, error) {
	if len(ids) == 0 {
		return []*model.Property{}, nil
	}
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return pgqry.New(q).WhereIDIn(ids).OrderNewest().Q
	})
}

func (r *Property) CreateProperty(ctx context.Context, property *model.Property) error {
	if err := property.EncodeImages(); err != nil {
		return errors.Wrap(err, "repo: encode images")
	}
	_, err := r.db.NewInsert().
		Model(property).
		Returning("created_at, updated_at").
		Exec(ctx)
	return errors.Wrap(err, "repo: create property")
}

// UpdateProperty writes the given columns of property. updated_at is always
// refreshed.
func (r *Property) UpdateProperty(ctx context.Context, property *model.Property, columns ...string) error {
	if err := property.EncodeImages(); err != nil {
		return errors.Wrap(err, "repo: encode images")
	}
	res, err := r.db.NewUpdate().
		Model(property).
		Column(columns...).
		Set("updated_at = current_timestamp").
		WherePK().
		Returning("updated_at").
		Exec(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrNotFound
	} else if err != nil {
		return errors.Wrap(err, "repo: update property")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteProperty removes a property; favorites and messages referencing it
// go with it through their foreign keys.
func (r *Property) DeleteProperty(ctx context.Context, propertyID string) error {
	res, err := r.db.NewDelete().
		Model((*model.Property)(nil)).
		Where("property_id = ?", propertyID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "repo: delete property")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

type OwnerListingCounts struct {
	Total     int `bun:"total"`
	Approved  int `bun:"approved"`
	Available int `bun:"available"`
}

func (r *Property) CountByOwner(ctx context.Context, ownerID string) (*OwnerListingCounts, error) {
	var counts OwnerListingCounts
	err := r.db.NewSelect().
		Model((*model.Property)(nil)).
		ColumnExpr("COUNT(*) AS total").
		ColumnExpr("COUNT(*) FILTER (WHERE p.approved) AS approved").
		ColumnExpr("COUNT(*) FILTER (WHERE p.available) AS available").
		Where("p.owner_id = ?", ownerID).
		Scan(ctx, &counts)
	if err != nil {
		return nil, errors.Wrap(err, "repo: count properties by owner")
	}
	return &counts, nil
}

func (r *Property) CountProperties(ctx context.Context) (int, error) {
	return r.sel.Count(ctx, func(q *bun.SelectQuery) *bun.SelectQuery { return q })
}

func (r *Property) CountPending(ctx context.Context) (int, error) {
	return r.sel.Count(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return pgqry.New(q).WhereApproved(false).Q
	})
}
