package entity

import "time"

// RegistrationRecord is the nested join result the store returns for one
// registration: the solo user (if any), the team with its members (if any)
// and the event name. The admin view is produced by flattening these.
type RegistrationRecord struct {
	Id            string
	PaymentStatus PaymentStatus
	RegisteredAt  time.Time
	UserId        string
	TeamId        string
	PhoneNumber   string
	User          *UserInfo
	Team          *TeamRecord
	Event         *EventInfo
}

// TeamRecord is the nested team part of a RegistrationRecord.
type TeamRecord struct {
	TeamName  string
	TeamCode  string
	CreatedBy string
	Members   []MemberView
}

// UserInfo is the minimal user projection shown in the admin table.
type UserInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TeamView is the flattened team projection with the resolved leader email.
type TeamView struct {
	TeamName    string `json:"team_name"`
	TeamCode    string `json:"team_code"`
	CreatedBy   string `json:"created_by,omitempty"`
	LeaderEmail string `json:"leader_email"`
}

// MemberView is one team member in the flattened view.
type MemberView struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	UserId      string     `json:"user_id"`
	Role        MemberRole `json:"role"`
}

// EventInfo is the event name projection.
type EventInfo struct {
	Name string `json:"name"`
}

// RegistrationRow is one flattened admin-view row: teams is null for solo
// registrations, users is null for team ones, team_members is always
// present (possibly empty).
type RegistrationRow struct {
	Id            string        `json:"id"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	RegisteredAt  time.Time     `json:"registered_at"`
	UserId        string        `json:"user_id,omitempty"`
	TeamId        string        `json:"team_id,omitempty"`
	PhoneNumber   string        `json:"phone_number,omitempty"`
	Users         *UserInfo     `json:"users"`
	Teams         *TeamView     `json:"teams"`
	TeamMembers   []MemberView  `json:"team_members"`
	Events        *EventInfo    `json:"events"`
}
