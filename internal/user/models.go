package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailTaken  = errors.New("email already registered")
	ErrBadPassword = errors.New("invalid credentials")
)

type EmailPreferences struct {
	Marketing     bool `json:"marketing"`
	CommunityNews bool `json:"community_news"`
}

type Profile struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	DisplayName      string           `json:"display_name"`
	Role             string           `json:"role"`
	EmailPreferences EmailPreferences `json:"email_preferences"`
	IsActive         bool             `json:"is_active"`
	LastActive       time.Time        `json:"last_active,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}
