package pgqry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"tolet.dev/backend/internal/model"
)

func TestComposition(t *testing.T) {
	db := bun.NewDB(nil, pgdialect.New())

	q := db.NewSelect().Model((*model.Property)(nil))
	New(q).WhereOwner("U1").WhereApproved(false).OrderNewest()

	sql := q.String()
	assert.Contains(t, sql, `p.owner_id = 'U1'`)
	assert.Contains(t, sql, `p.approved = FALSE`)
	assert.Contains(t, sql, `ORDER BY p.created_at DESC, p.property_id DESC`)
}
