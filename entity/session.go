package entity

import "time"

// Session links an opaque token to a logged-in user. Stored in MongoDB
// with a TTL index on expires_at.
type Session struct {
	Token     string    `json:"token" bson:"token"`
	User      User      `json:"user" bson:"user"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
