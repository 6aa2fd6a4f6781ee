package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"user-management-service/internal/entity"
	"user-management-service/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
)

// EventWriter is satisfied by *kafka.Writer.
type EventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// SessionStore is satisfied by *repository.SessionRepository.
type SessionStore interface {
	SaveSession(ctx context.Context, username, token string, ttl time.Duration) error
	GetSession(ctx context.Context, username string) (string, error)
}

type UserService struct {
	repo      *repository.UserRepository
	events    EventWriter
	sessions  SessionStore
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewUserService creates a new instance of UserService. events and sessions may
// be nil; an empty jwtSecret disables token issuance.
func NewUserService(repo *repository.UserRepository, events EventWriter, sessions SessionStore, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		repo:      repo,
		events:    events,
		sessions:  sessions,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

type JwtCustomClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// GetUserByID returns the user with the given id, or false if there is none.
func (s *UserService) GetUserByID(ctx context.Context, id int) (*entity.User, bool) {
	u, ok := s.repo.GetUserByID(id)
	if !ok {
		logger.Debug().Int("id", id).Msg("user not found")
		return nil, false
	}
	return &u, true
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*entity.User, bool) {
	u, ok := s.repo.GetUserByUsername(username)
	if !ok {
		return nil, false
	}
	return &u, true
}

func (s *UserService) UserExists(ctx context.Context, username string) bool {
	_, ok := s.repo.GetUserByUsername(username)
	return ok
}

func (s *UserService) ListUsers(ctx context.Context) []entity.User {
	return s.repo.ListUsers()
}

// CreateUser registers username or, if it already exists, replaces its
// password. It reports whether a new user was created. A failure to publish the
// resulting event is logged and does not undo the change.
func (s *UserService) CreateUser(ctx context.Context, username, password string) (*entity.User, bool) {
	u, created := s.repo.UpsertUser(username, password)

	evt := entity.UserEvent{
		Type:       entity.UserPasswordUpdated,
		UserID:     u.ID,
		Username:   u.Username,
		OccurredAt: time.Now().UTC(),
	}
	if created {
		evt.Type = entity.UserCreated
		logger.Info().Int("id", u.ID).Str("username", u.Username).Msg("user created")
	} else {
		logger.Info().Int("id", u.ID).Str("username", u.Username).Msg("user password updated")
	}

	if err := s.publishUserEvent(ctx, evt); err != nil {
		logger.Error().Err(err).Msgf("Error publishing %s event for user %d", evt.Type, u.ID)
	}

	return &u, created
}

// Login checks the credentials and returns a signed token. The token is empty
// when no signing secret is configured.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	u, ok := s.repo.GetUserByUsernameAndPassword(username, password)
	if !ok {
		return "", ErrInvalidCredentials
	}
	if len(s.jwtSecret) == 0 {
		return "", nil
	}

	now := time.Now()
	claims := &JwtCustomClaims{
		Name: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.Itoa(u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if s.sessions != nil {
		if err := s.sessions.SaveSession(ctx, username, t, s.tokenTTL); err != nil {
			logger.Warn().Err(err).Str("username", username).Msg("Error caching session")
		}
	}

	return t, nil
}

// ValidateSession checks that token is the latest session of username. Without
// a session store every token that passed signature checks is accepted.
func (s *UserService) ValidateSession(ctx context.Context, username, token string) error {
	if s.sessions == nil {
		return nil
	}

	cached, err := s.sessions.GetSession(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return ErrInvalidSession
		}
		return fmt.Errorf("get session: %w", err)
	}
	if cached != token {
		return ErrInvalidSession
	}
	return nil
}

func (s *UserService) publishUserEvent(ctx context.Context, evt entity.UserEvent) error {
	if s.events == nil {
		return nil
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// user-created-3 or user-password_updated-1
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("user-%s-%d", evt.Type, evt.UserID)),
		Value: value,
	}
	return s.events.WriteMessages(ctx, msg)
}
