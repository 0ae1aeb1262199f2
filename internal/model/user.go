package model

import (
	"time"

	"github.com/uptrace/bun"
)

type Role string

const (
	RoleAnonymous Role = "ANONYMOUS"
	RoleRenter    Role = "RENTER"
	RoleOwner     Role = "OWNER"
	RoleAdmin     Role = "ADMIN"
)

// AccountRoles are the roles a stored user can hold.
var AccountRoles = []Role{RoleRenter, RoleOwner, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleRenter, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	bun.BaseModel `bun:"users,alias:u"`

	UserID       string    `bun:",pk" json:"id"`
	Name         string    `bun:",notnull" json:"name"`
	Email        string    `bun:",notnull,unique" json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `bun:",notnull" json:"-"`
	Role         Role      `bun:",notnull" json:"role"`
	CreatedAt    time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`
}
