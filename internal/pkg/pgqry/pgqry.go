// Package pgqry composes the recurring fragments of property queries on top
// of a bun select.
package pgqry

import (
	"github.com/uptrace/bun"
)

type pq struct {
	Q *bun.SelectQuery
}

func New(bunQuery *bun.SelectQuery) *pq {
	return &pq{Q: bunQuery}
}

// UseOwner joins the owning user of a property selected as "p".
func (pq *pq) UseOwner() *pq {
	pq.Q = pq.Q.Relation("Owner", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.ExcludeColumn("password_hash")
	})
	return pq
}

func (pq *pq) WhereOwner(ownerID string) *pq {
	pq.Q = pq.Q.Where("p.owner_id = ?", ownerID)
	return pq
}

func (pq *pq) WhereApproved(approved bool) *pq {
	pq.Q = pq.Q.Where("p.approved = ?", approved)
	return pq
}

func (pq *pq) WhereIDIn(ids []string) *pq {
	pq.Q = pq.Q.Where("p.property_id IN (?)", bun.In(ids))
	return pq
}

// OrderNewest orders by creation time descending, ties broken by id so the
// order is total.
func (pq *pq) OrderNewest() *pq {
	pq.Q = pq.Q.OrderExpr("p.created_at DESC, p.property_id DESC")
	return pq
}
