package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"tolet.dev/backend/internal/model"
	"tolet.dev/backend/internal/pkg/apperr"
	"tolet.dev/backend/internal/repo/selector"
)

type User struct {
	db  *bun.DB
	sel selector.S[model.User]
}

func NewUser(db *bun.DB) *User {
	return &User{
		db:  db,
		sel: selector.New[model.User](db),
	}
}

func (r *User) CreateUser(ctx context.Context, user *model.User) error {
	_, err := r.db.NewInsert().
		Model(user).
		Exec(ctx)
	if isUniqueViolation(err) {
		return apperr.ErrConflict.Msg("an account with this email already exists")
	}
	return errors.Wrap(err, "repo: create user")
}

func (r *User) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("user_id = ?", userID)
	})
}

func (r *User) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("email = ?", email)
	})
}

// GetUsers lists users, newest first. A nil role lists every role.
func (r *User) GetUsers(ctx context.Context, role *model.Role) ([]*model.User, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		if role != nil {
			q = q.Where("role = ?", *role)
		}
		return q.Order("created_at DESC")
	})
}

func (r *User) UpdateRoleAndPassword(ctx context.Context, user *model.User) error {
	_, err := r.db.NewUpdate().
		Model(user).
		Column("role", "password_hash").
		WherePK().
		Exec(ctx)
	return errors.Wrap(err, "repo: update user role")
}

type roleCount struct {
	Role  model.Role `bun:"role"`
	Count int        `bun:"count"`
}

func (r *User) CountUsersByRole(ctx context.Context) (map[model.Role]int, error) {
	var rows []roleCount
	err := r.db.NewSelect().
		Model((*model.User)(nil)).
		Column("role").
		ColumnExpr("COUNT(*) AS count").
		Group("role").
		Scan(ctx, &rows)
	if err != nil {
		return nil, errors.Wrap(err, "repo: count users by role")
	}

	counts := make(map[model.Role]int, len(model.AccountRoles))
	for _, role := range model.AccountRoles {
		counts[role] = 0
	}
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}
