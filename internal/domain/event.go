package domain

import "time"

const (
	ActionSignedUp           = "user.signed_up"
	ActionPreferencesUpdated = "user.preferences_updated"
)

// UserEvent is published after an identity mutation.
type UserEvent struct {
	Action      string    `json:"action"`
	UserID      int64     `json:"userId"`
	Email       string    `json:"email"`
	Preferences []string  `json:"preferences"`
	Timestamp   time.Time `json:"timestamp"`
}
