package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/bookshelf/internal/domain"
)

// DefaultTTL is the validity window of an issued token.
const DefaultTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type AccessClaims struct {
	UserID uint        `json:"userId"`
	Roles  domain.Role `json:"roles"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256 access tokens with a single shared secret.
// It keeps no per-token state.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Manager)

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, for both issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(secret []byte, opts ...Option) (*Manager, error) {
	if len(secret) == 0 {
		return nil, errors.New("tokens: empty signing secret")
	}
	m := &Manager{
		secret: append([]byte(nil), secret...),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue mints a token asserting userID and role, valid for the manager's TTL.
func (m *Manager) Issue(userID uint, role domain.Role) (string, time.Time, error) {
	if userID == 0 {
		return "", time.Time{}, errors.New("tokens: zero user id")
	}
	if !role.Valid() {
		return "", time.Time{}, fmt.Errorf("tokens: %w", domain.ErrUnknownRole)
	}

	now := m.now()
	exp := now.Add(m.ttl)
	claims := AccessClaims{
		UserID: userID,
		Roles:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("tokens: sign: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm and expiry and returns the embedded identity.
// Every failure is reported as ErrInvalidToken.
func (m *Manager) Verify(tokenStr string) (domain.Identity, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return m.secret, nil
	},
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return domain.Identity{}, ErrInvalidToken
	}
	if claims.UserID == 0 || !claims.Roles.Valid() {
		return domain.Identity{}, fmt.Errorf("%w: missing identity claims", ErrInvalidToken)
	}
	if claims.Subject != strconv.FormatUint(uint64(claims.UserID), 10) {
		return domain.Identity{}, fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
	}

	return domain.Identity{UserID: claims.UserID, Role: claims.Roles}, nil
}
