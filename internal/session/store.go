package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/stablemate/stablemate/internal/cache"
	svcErr "github.com/stablemate/stablemate/internal/errors"
)

// Identity is the snapshot of an authenticated user carried by a
// session. It never contains credential material.
type Identity struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Store keeps session records in Redis and hands out signed bearer
// tokens referencing them. The Redis record is authoritative: deleting
// it revokes the token no matter how long the JWT claims remain valid.
type Store struct {
	cache  *cache.RedisCache
	secret []byte
	ttl    time.Duration
}

func NewStore(rdb *cache.RedisCache, secret string, ttl time.Duration) *Store {
	return &Store{
		cache:  rdb,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Create persists a new session for identity and returns the signed
// bearer token along with the session id.
func (s *Store) Create(ctx context.Context, identity Identity) (token, sessionID string, err error) {
	sessionID = uuid.New().String()

	payload, err := json.Marshal(identity)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal session identity: %w", err)
	}

	key := s.cache.KeyForSession(sessionID)
	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
		return "", "", fmt.Errorf("failed to store session: %w", err)
	}

	claims := jwt.MapClaims{
		"sid": sessionID,
		"uid": identity.UserID,
		"exp": time.Now().Add(s.ttl).Unix(),
		"iss": "stablemate",
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return token, sessionID, nil
}

// Resolve verifies a bearer token and loads the referenced session.
// The record's TTL is refreshed on every hit, so active sessions stay
// alive and idle ones expire.
func (s *Store) Resolve(ctx context.Context, token string) (Identity, string, error) {
	var identity Identity

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return identity, "", svcErr.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return identity, "", svcErr.ErrUnauthorized
	}
	sessionID, _ := claims["sid"].(string)
	if sessionID == "" {
		return identity, "", svcErr.ErrUnauthorized
	}

	key := s.cache.KeyForSession(sessionID)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return identity, "", fmt.Errorf("failed to load session: %w", err)
	}
	if raw == "" {
		// revoked or expired
		return identity, "", svcErr.ErrUnauthorized
	}

	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return identity, "", fmt.Errorf("failed to decode session: %w", err)
	}

	_ = s.cache.Expire(ctx, key, s.ttl)

	return identity, sessionID, nil
}

// Refresh overwrites the stored identity snapshot for an existing
// session, e.g. after a profile edit.
func (s *Store) Refresh(ctx context.Context, sessionID string, identity Identity) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to marshal session identity: %w", err)
	}
	return s.cache.Set(ctx, s.cache.KeyForSession(sessionID), string(payload), s.ttl)
}

// Revoke deletes the session record. Tokens referencing it stop
// resolving immediately.
func (s *Store) Revoke(ctx context.Context, sessionID string) error {
	return s.cache.Del(ctx, s.cache.KeyForSession(sessionID))
}
