package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "session:Rafa", sessionKey("Rafa"))
}

func newTestSessionRepository(t *testing.T) (*SessionRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessionRepository(rdb), mr
}

func TestSessionRepository_GetSession(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T, repo *SessionRepository, mr *miniredis.Miniredis)
		username  string
		wantToken string
		wantErr   error
	}{
		{
			name: "saved session is returned",
			setup: func(t *testing.T, repo *SessionRepository, mr *miniredis.Miniredis) {
				require.NoError(t, repo.SaveSession(context.Background(), "Rafa", "token-1", time.Hour))
			},
			username:  "Rafa",
			wantToken: "token-1",
		},
		{
			name: "later save replaces the session",
			setup: func(t *testing.T, repo *SessionRepository, mr *miniredis.Miniredis) {
				require.NoError(t, repo.SaveSession(context.Background(), "Rafa", "token-1", time.Hour))
				require.NoError(t, repo.SaveSession(context.Background(), "Rafa", "token-2", time.Hour))
			},
			username:  "Rafa",
			wantToken: "token-2",
		},
		{
			name:     "unknown user",
			setup:    func(t *testing.T, repo *SessionRepository, mr *miniredis.Miniredis) {},
			username: "nobody",
			wantErr:  ErrSessionNotFound,
		},
		{
			name: "expired session",
			setup: func(t *testing.T, repo *SessionRepository, mr *miniredis.Miniredis) {
				require.NoError(t, repo.SaveSession(context.Background(), "Caio", "token-1", time.Minute))
				mr.FastForward(2 * time.Minute)
			},
			username: "Caio",
			wantErr:  ErrSessionNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mr := newTestSessionRepository(t)
			tt.setup(t, repo, mr)

			token, err := repo.GetSession(context.Background(), tt.username)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestSessionRepository_SaveSessionSetsTTL(t *testing.T) {
	repo, mr := newTestSessionRepository(t)

	require.NoError(t, repo.SaveSession(context.Background(), "admin", "token", 30*time.Minute))

	got, err := mr.Get("session:admin")
	require.NoError(t, err)
	assert.Equal(t, "token", got)
	assert.Equal(t, 30*time.Minute, mr.TTL("session:admin"))
}

func TestSessionRepository_UnreachableRedis(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := NewSessionRepository(rdb)
	ctx := context.Background()

	err := repo.SaveSession(ctx, "admin", "token", time.Minute)
	require.Error(t, err)

	_, err = repo.GetSession(ctx, "admin")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSessionNotFound))
}
