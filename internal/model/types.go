package model

import "time"

// User is an account in the system. Accounts are immutable after
// registration; there is no update or delete path.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public returns the fields of a user that may cross the API boundary.
func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, Email: u.Email, Name: u.Name}
}

// PublicUser is the externally visible projection of a User.
type PublicUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is a per-browser session record. UserID is nil for guest
// sessions; attaching a user is a one-way transition. Exactly one of the
// two counters grows per successful analysis, chosen by the attachment
// state at the time of the call.
type Session struct {
	Token           string    `json:"token"`
	UserID          *int64    `json:"userId,omitempty"`
	GuestUsageCount int       `json:"guestUsageCount"`
	UserUsageCount  int       `json:"userUsageCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Authenticated reports whether a user is attached to the session.
func (s *Session) Authenticated() bool { return s.UserID != nil }

// UsageCount returns the counter for the session's current quota class.
func (s *Session) UsageCount() int {
	if s.Authenticated() {
		return s.UserUsageCount
	}
	return s.GuestUsageCount
}

// DreamRecord is an immutable pair of submitted dream text and its
// generated interpretation. UserID is nil for guest submissions.
type DreamRecord struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"userId,omitempty"`
	DreamText string    `json:"dreamText"`
	Analysis  string    `json:"analysis"`
	CreatedAt time.Time `json:"createdAt"`
}

// Usage is the read-only projection of a session's quota state.
type Usage struct {
	CurrentUsage   int  `json:"currentUsage"`
	MaxUsage       int  `json:"maxUsage"`
	RemainingUsage int  `json:"remainingUsage"`
	IsLoggedIn     bool `json:"isLoggedIn"`
}
