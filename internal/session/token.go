package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"sneakercloset/internal/cache"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// Issuer and Audience are stamped on every token and checked on parse.
	Issuer   = "sneakercloset-api"
	Audience = "sneakercloset-web"
)

var (
	// ErrInvalidToken covers malformed, expired and wrongly signed tokens.
	ErrInvalidToken = errors.New("invalid or expired session token")
	// ErrRevoked is returned for tokens invalidated by logout.
	ErrRevoked = errors.New("session token has been revoked")
)

// Claims are the verified contents of a session token.
type Claims struct {
	UserID    uint
	ID        string
	ExpiresAt time.Time
}

// Manager signs and verifies HS256 session tokens. A nil redis client
// disables revocation checks.
type Manager struct {
	secret []byte
	ttl    time.Duration
	redis  *redis.Client
	now    func() time.Time
}

// NewManager creates a token manager.
func NewManager(secret string, ttl time.Duration, rdb *redis.Client) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		redis:  rdb,
		now:    time.Now,
	}
}

// TTL is the lifetime of tokens issued by m.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for userID.
func (m *Manager) Issue(userID uint) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("session secret not configured")
	}
	if userID == 0 {
		return "", fmt.Errorf("cannot issue a session for user 0")
	}

	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    Issuer,
		Audience:  jwt.ClaimStrings{Audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies the signature, time bounds, issuer and audience of raw and
// rejects revoked tokens.
func (m *Manager) Parse(ctx context.Context, raw string) (*Claims, error) {
	var rc jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &rc, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithTimeFunc(m.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(rc.Subject, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	claims := &Claims{UserID: uint(userID), ID: rc.ID}
	if rc.ExpiresAt != nil {
		claims.ExpiresAt = rc.ExpiresAt.Time
	}

	if claims.ID != "" && m.redis != nil {
		n, err := m.redis.Exists(ctx, cache.RevokedKey(claims.ID)).Result()
		if err == nil && n > 0 {
			return nil, ErrRevoked
		}
	}
	return claims, nil
}

// Revoke blacklists the token until it would have expired anyway.
func (m *Manager) Revoke(ctx context.Context, claims *Claims) error {
	if m.redis == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	return m.redis.Set(ctx, cache.RevokedKey(claims.ID), "1", ttl).Err()
}
