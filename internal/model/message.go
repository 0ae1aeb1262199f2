package model

import (
	"time"

	"github.com/uptrace/bun"
)

type Message struct {
	bun.BaseModel `bun:"messages,alias:m"`

	MessageID  string    `bun:",pk" json:"id"`
	PropertyID string    `bun:",notnull" json:"propertyId"`
	SenderID   string    `bun:",notnull" json:"senderId"`
	ReceiverID string    `bun:",notnull" json:"receiverId"`
	Content    string    `bun:",notnull" json:"content"`
	Read       bool      `bun:",notnull,default:false" json:"read"`
	CreatedAt  time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`

	Property *Property `bun:"rel:belongs-to,join:property_id=property_id" json:"property,omitempty"`
	Sender   *User     `bun:"rel:belongs-to,join:sender_id=user_id" json:"sender,omitempty"`
}
