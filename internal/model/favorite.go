package model

import (
	"time"

	"github.com/uptrace/bun"
)

type Favorite struct {
	bun.BaseModel `bun:"favorites,alias:f"`

	FavoriteID string    `bun:",pk" json:"id"`
	UserID     string    `bun:",notnull,unique:favorites_user_property" json:"userId"`
	PropertyID string    `bun:",notnull,unique:favorites_user_property" json:"propertyId"`
	CreatedAt  time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`
}
