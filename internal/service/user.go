package service

import (
	"context"
	"time"

	"tolet.dev/backend/internal/model"
	modelcache "tolet.dev/backend/internal/model/cache"
	"tolet.dev/backend/internal/repo"
)

type User struct {
	UserRepo *repo.User
}

func NewUser(userRepo *repo.User) *User {
	return &User{
		UserRepo: userRepo,
	}
}

// Cache: user#userId:{userId}, 1 hr
func (s *User) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := modelcache.UserByID.MutexGetSet(ctx, userID, &user, func() (model.User, error) {
		u, err := s.UserRepo.GetUserByID(ctx, userID)
		if err != nil {
			return model.User{}, err
		}
		return *u, nil
	}, time.Hour)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *User) GetUsers(ctx context.Context, role *model.Role) ([]*model.User, error) {
	return s.UserRepo.GetUsers(ctx, role)
}
