package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tolet.dev/backend/internal/model"
	modelcache "tolet.dev/backend/internal/model/cache"
	"tolet.dev/backend/internal/model/types"
	"tolet.dev/backend/internal/pkg/apperr"
	"tolet.dev/backend/internal/pkg/crypto"
	"tolet.dev/backend/internal/pkg/ident"
	"tolet.dev/backend/internal/pkg/session"
	"tolet.dev/backend/internal/util"
)

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

type Auth struct {
	UserService *User
	Sessions    *session.Manager
	Hasher      *crypto.Hasher
}

func NewAuth(userService *User, sessions *session.Manager, hasher *crypto.Hasher) *Auth {
	return &Auth{
		UserService: userService,
		Sessions:    sessions,
		Hasher:      hasher,
	}
}

func (s *Auth) Register(ctx context.Context, req *types.RegisterRequest) (*Session, error) {
	role := model.Role(req.Role)
	if role != model.RoleOwner && role != model.RoleRenter {
		return nil, apperr.ErrInvalidReq.Msg("role must be OWNER or RENTER")
	}

	hash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return nil, apperr.ErrInvalidReq.Msg("invalid password: %s", err)
	}

	user := &model.User{
		UserID:       ident.New(),
		Name:         req.Name,
		Email:        util.NormalizeEmail(req.Email),
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.UserService.UserRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("evt.name", "auth.register").
		Str("user_id", user.UserID).
		Str("role", string(user.Role)).
		Msg("user registered")

	return s.issue(user)
}

// Login never tells apart an unknown email from a wrong password.
func (s *Auth) Login(ctx context.Context, req *types.LoginRequest) (*Session, error) {
	user, err := s.UserService.UserRepo.GetUserByEmail(ctx, util.NormalizeEmail(req.Email))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrUnauthorized.Msg("invalid email or password")
	} else if err != nil {
		return nil, err
	}

	if !s.Hasher.Verify(user.PasswordHash, req.Password) {
		log.Ctx(ctx).Info().
			Str("evt.name", "auth.login.rejected").
			Str("user_id", user.UserID).
			Msg("wrong password")
		return nil, apperr.ErrUnauthorized.Msg("invalid email or password")
	}

	return s.issue(user)
}

func (s *Auth) issue(user *model.User) (*Session, error) {
	token, expiresAt, err := s.Sessions.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// EnsureAdmin creates an admin account for email, or promotes the existing
// account and resets its password.
func (s *Auth) EnsureAdmin(ctx context.Context, name, email, password string) (*model.User, error) {
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	email = util.NormalizeEmail(email)
	user, err := s.UserService.UserRepo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		user.Role = model.RoleAdmin
		user.PasswordHash = hash
		if err := s.UserService.UserRepo.UpdateRoleAndPassword(ctx, user); err != nil {
			return nil, err
		}
		_ = modelcache.UserByID.Delete(ctx, user.UserID)
		return user, nil
	case errors.Is(err, apperr.ErrNotFound):
		user = &model.User{
			UserID:       ident.New(),
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         model.RoleAdmin,
		}
		return user, s.UserService.UserRepo.CreateUser(ctx, user)
	default:
		return nil, err
	}
}
