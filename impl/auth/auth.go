package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"festreg/entity"
)

const sessionTTL = 7 * 24 * time.Hour

// Database is the session storage, implemented by internal/database.MongoDB.
type Database interface {
	CreateSession(session *entity.Session) error
	GetSession(token string) (*entity.Session, error)
	DeleteSession(token string) error
}

type Auth struct {
	db Database
}

func New(db Database) *Auth {
	return &Auth{db: db}
}

// UserByToken resolves a session token to its user, rejecting expired
// sessions.
func (a *Auth) UserByToken(token string) (*entity.User, error) {
	if a.db == nil {
		return nil, fmt.Errorf("database not connected")
	}
	session, err := a.db.GetSession(token)
	if err != nil {
		return nil, err
	}
	if session.Expired() {
		_ = a.db.DeleteSession(token)
		return nil, fmt.Errorf("session expired")
	}
	return &session.User, nil
}

// CreateSession opens a session for the user and returns its token.
func (a *Auth) CreateSession(user *entity.User) (string, error) {
	if a.db == nil {
		return "", fmt.Errorf("database not connected")
	}
	now := time.Now().UTC()
	session := &entity.Session{
		Token:     uuid.NewString(),
		User:      *user,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	if err := a.db.CreateSession(session); err != nil {
		return "", err
	}
	return session.Token, nil
}

func (a *Auth) DeleteSession(token string) error {
	if a.db == nil {
		return fmt.Errorf("database not connected")
	}
	return a.db.DeleteSession(token)
}
