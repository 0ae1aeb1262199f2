package types

import (
	"gopkg.in/guregu/null.v3"
)

type PurgeCacheRequest struct {
	Pairs []PurgeCachePair `json:"pairs" validate:"required,dive"`
}

type PurgeCachePair struct {
	Name string      `json:"name" validate:"required"`
	Key  null.String `json:"key"`
}

type UserListQuery struct {
	Role string `query:"role" validate:"omitempty,role"`
}
