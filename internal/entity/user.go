package entity

import "time"

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"` // Stored and served in plaintext.
}

// UserEventType names what happened to a user record.
type UserEventType string

const (
	UserCreated         UserEventType = "created"
	UserPasswordUpdated UserEventType = "password_updated"
)

// UserEvent is published after every upsert. It never carries the password.
type UserEvent struct {
	Type       UserEventType `json:"type"`
	UserID     int           `json:"user_id"`
	Username   string        `json:"username"`
	OccurredAt time.Time     `json:"occurred_at"`
}
