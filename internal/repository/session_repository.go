package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrSessionNotFound is returned when no session is cached for a username.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository caches the latest login token per username in Redis.
type SessionRepository struct {
	rdb *redis.Client
}

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

func sessionKey(username string) string {
	return fmt.Sprintf("session:%s", username)
}

// SaveSession stores token for username, replacing any previous session.
func (r *SessionRepository) SaveSession(ctx context.Context, username, token string, ttl time.Duration) error {
	return r.rdb.Set(ctx, sessionKey(username), token, ttl).Err()
}

// GetSession returns the cached token for username.
func (r *SessionRepository) GetSession(ctx context.Context, username string) (string, error) {
	token, err := r.rdb.Get(ctx, sessionKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", err
	}
	return token, nil
}
