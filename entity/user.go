package entity

import (
	"time"
)

// UserRole controls access to the admin surface.
type UserRole string

const (
	RoleParticipant UserRole = "participant"
	RoleAdmin       UserRole = "admin"
)

// User is a row in the users table, created on first OAuth login and
// updated on every subsequent one.
type User struct {
	Id        string    `json:"id" bson:"user_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone,omitempty" bson:"phone"`
	Country   string    `json:"country,omitempty" bson:"country"`
	Role      UserRole  `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
