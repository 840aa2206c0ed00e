package domain

import "time"

// User is a registered account. PasswordHash never leaves the service layer.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Preferences  []string  `json:"preferences"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	c := *u
	c.Preferences = ClonePreferences(u.Preferences)
	return &c
}

// Public strips the password hash.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Preferences: ClonePreferences(u.Preferences),
		CreatedAt:   u.CreatedAt,
	}
}

// PublicUser is the user record as returned to callers.
type PublicUser struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Preferences []string  `json:"preferences"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserUpdate holds a partial update. Nil fields are left untouched.
type UserUpdate struct {
	Name        *string
	Email       *string
	Preferences *[]string
}

// Apply merges the non-nil fields into u.
func (upd UserUpdate) Apply(u *User) {
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Preferences != nil {
		u.Preferences = ClonePreferences(*upd.Preferences)
	}
}

// Claims is the identity asserted by a session token.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

// Preferences wraps a user's topic list for transport.
type Preferences struct {
	Preferences []string `json:"preferences"`
}

// ClonePreferences copies p, turning nil into an empty list.
func ClonePreferences(p []string) []string {
	out := make([]string, len(p))
	copy(out, p)
	return out
}
