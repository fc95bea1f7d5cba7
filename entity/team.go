package entity

import (
	"net/http"
	"time"

	"festreg/lib/validate"
)

// MemberRole marks the team creator apart from joiners.
type MemberRole string

const (
	RoleLeader MemberRole = "leader"
	RoleMember MemberRole = "member"
)

// Team is a row in the teams table. TeamCode is the short unique token
// other users submit to join.
type Team struct {
	Id        string    `json:"id"`
	TeamCode  string    `json:"team_code"`
	TeamName  string    `json:"team_name"`
	EventId   string    `json:"event_id"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamMember is a row in the team_members table. A user belongs to at most
// one team per event.
type TeamMember struct {
	Id       string     `json:"id"`
	TeamId   string     `json:"team_id"`
	UserId   string     `json:"user_id"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}

type CreateTeamRequest struct {
	EventId  string `json:"eventId" validate:"required"`
	TeamName string `json:"teamName" validate:"required"`
}

func (c *CreateTeamRequest) Bind(_ *http.Request) error {
	return validate.Struct(c)
}

type JoinTeamRequest struct {
	TeamCode string `json:"teamCode" validate:"required"`
}

func (j *JoinTeamRequest) Bind(_ *http.Request) error {
	return validate.Struct(j)
}

// TeamResult is returned from team creation.
type TeamResult struct {
	Team         Team         `json:"team"`
	Leader       TeamMember   `json:"leader"`
	Registration Registration `json:"registration"`
}

// JoinResult is returned from a successful join.
type JoinResult struct {
	Team         Team         `json:"team"`
	Member       TeamMember   `json:"member"`
	Registration Registration `json:"registration"`
}
