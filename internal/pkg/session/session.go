// Package session issues and verifies the signed tokens that carry a user's
// identity between requests.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"tolet.dev/backend/internal/app/appconfig"
	"tolet.dev/backend/internal/constant"
	"tolet.dev/backend/internal/model"
)

var ErrInvalidToken = errors.New("session: invalid token")

type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewManager(conf *appconfig.Config) *Manager {
	return New([]byte(conf.SessionSecret), conf.SessionLifetime)
}

func New(secret []byte, lifetime time.Duration) *Manager {
	return &Manager{
		secret:   secret,
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Issue signs a token for user. The returned time is the token's expiry.
func (m *Manager) Issue(user *model.User) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.lifetime)
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    constant.SessionIssuer,
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "session: failed to sign token")
	}
	return token, expiresAt, nil
}

// Verify parses token and returns its claims when the signature, issuer and
// expiry all check out.
func (m *Manager) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(constant.SessionIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
