package auth

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"festreg/entity"
)

type fakeDatabase struct {
	sessions map[string]*entity.Session
	deleted  []string
}

func newFakeDatabase() *fakeDatabase {
	return &fakeDatabase{sessions: map[string]*entity.Session{}}
}

func (f *fakeDatabase) CreateSession(session *entity.Session) error {
	f.sessions[session.Token] = session
	return nil
}

func (f *fakeDatabase) GetSession(token string) (*entity.Session, error) {
	session, ok := f.sessions[token]
	if !ok {
		return nil, fmt.Errorf("session not found")
	}
	return session, nil
}

func (f *fakeDatabase) DeleteSession(token string) error {
	delete(f.sessions, token)
	f.deleted = append(f.deleted, token)
	return nil
}

func TestCreateSession(t *testing.T) {
	db := newFakeDatabase()
	a := New(db)
	user := &entity.User{Id: "u1", Email: "ada@example.com"}

	token, err := a.CreateSession(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session := db.sessions[token]
	require.NotNil(t, session)
	assert.Equal(t, "ada@example.com", session.User.Email)
	assert.WithinDuration(t, time.Now().UTC().Add(sessionTTL), session.ExpiresAt, time.Minute)
}

func TestUserByToken(t *testing.T) {
	db := newFakeDatabase()
	a := New(db)

	token, err := a.CreateSession(&entity.User{Id: "u1", Email: "ada@example.com"})
	require.NoError(t, err)

	user, err := a.UserByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.Id)
}

func TestUserByToken_Unknown(t *testing.T) {
	a := New(newFakeDatabase())

	_, err := a.UserByToken("missing")
	assert.Error(t, err)
}

func TestUserByToken_Expired(t *testing.T) {
	db := newFakeDatabase()
	a := New(db)

	now := time.Now().UTC()
	db.sessions["old"] = &entity.Session{
		Token:     "old",
		User:      entity.User{Id: "u1"},
		CreatedAt: now.Add(-8 * 24 * time.Hour),
		ExpiresAt: now.Add(-24 * time.Hour),
	}

	_, err := a.UserByToken("old")
	require.Error(t, err)
	assert.Equal(t, []string{"old"}, db.deleted, "expired session must be removed")
}

func TestDeleteSession(t *testing.T) {
	db := newFakeDatabase()
	a := New(db)

	token, err := a.CreateSession(&entity.User{Id: "u1"})
	require.NoError(t, err)
	require.NoError(t, a.DeleteSession(token))

	_, err = a.UserByToken(token)
	assert.Error(t, err)
}

func TestNilDatabase(t *testing.T) {
	a := New(nil)

	_, err := a.CreateSession(&entity.User{Id: "u1"})
	assert.Error(t, err)
	_, err = a.UserByToken("tok")
	assert.Error(t, err)
	assert.Error(t, a.DeleteSession("tok"))
}
