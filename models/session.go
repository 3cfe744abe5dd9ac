package models

import "time"

// Session is a logged-in team session. The whole team shares one password;
// each login gets its own token so devices can be logged out independently.
type Session struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
