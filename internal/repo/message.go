package repo

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"tolet.dev/backend/internal/model"
	"tolet.dev/backend/internal/pkg/apperr"
	"tolet.dev/backend/internal/repo/selector"
)

type Message struct {
	db  *bun.DB
	sel selector.S[model.Message]
}

func NewMessage(db *bun.DB) *Message {
	return &Message{db: db, sel: selector.New[model.Message](db)}
}

func (r *Message) CreateMessage(ctx context.Context, message *model.Message) error {
	_, err := r.db.NewInsert().
		Model(message).
		Returning("created_at").
		Exec(ctx)
	return errors.Wrap(err, "repo: create message")
}

func (r *Message) GetMessageByID(ctx context.Context, messageID string) (*model.Message, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("m.message_id = ?", messageID)
	})
}

// GetMessagesForUser lists messages sent or received by userID, newest
// first, optionally limited to one property.
func (r *Message) GetMessagesForUser(ctx context.Context, userID string, propertyID *string) ([]*model.Message, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.
			Relation("Sender", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Column("user_id", "name", "role")
			}).
			Relation("Property", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Column("property_id", "title", "owner_id")
			}).
			WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Where("m.sender_id = ?", userID).WhereOr("m.receiver_id = ?", userID)
			})
		if propertyID != nil {
			q = q.Where("m.property_id = ?", *propertyID)
		}
		return q.OrderExpr("m.created_at DESC, m.message_id DESC")
	})
}

// MarkRead marks a message read on behalf of its receiver.
func (r *Message) MarkRead(ctx context.Context, messageID, receiverID string) error {
	res, err := r.db.NewUpdate().
		Model((*model.Message)(nil)).
		Set("read = TRUE").
		Where("message_id = ?", messageID).
		Where("receiver_id = ?", receiverID).
		Exec(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrNotFound
	} else if err != nil {
		return errors.Wrap(err, "repo: mark message read")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// HasMessageFrom reports whether senderID ever wrote about propertyID.
func (r *Message) HasMessageFrom(ctx context.Context, senderID, propertyID string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*model.Message)(nil)).
		Where("sender_id = ?", senderID).
		Where("property_id = ?", propertyID).
		Exists(ctx)
	return exists, errors.Wrap(err, "repo: check message sender")
}

func (r *Message) CountSent(ctx context.Context, senderID string) (int, error) {
	return r.sel.Count(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("sender_id = ?", senderID)
	})
}

func (r *Message) CountReceived(ctx context.Context, receiverID string) (int, error) {
	return r.sel.Count(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("receiver_id = ?", receiverID)
	})
}

func (r *Message) CountUnread(ctx context.Context, receiverID string) (int, error) {
	return r.sel.Count(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("receiver_id = ?", receiverID).Where("read = FALSE")
	})
}

func (r *Message) CountMessages(ctx context.Context) (int, error) {
	return r.sel.Count(ctx, func(q *bun.SelectQuery) *bun.SelectQuery { return q })
}
