package cont

import (
	"context"

	"festreg/entity"
)

type ctxKey string

const UserDataKey ctxKey = "userData"

// PutUser stores the authenticated user in the request context. Handlers
// receive the session identity this way instead of reading shared state.
func PutUser(c context.Context, user *entity.User) context.Context {
	return context.WithValue(c, UserDataKey, *user)
}

// GetUser returns the authenticated user, or nil when the request carried
// no valid session.
func GetUser(c context.Context) *entity.User {
	user, ok := c.Value(UserDataKey).(entity.User)
	if !ok {
		return nil
	}
	return &user
}
