package entity

import (
	"net/http"
	"time"

	"festreg/lib/validate"
)

// Event is a row in the events table. MaxTeamSize of zero means the event
// does not limit team size.
type Event struct {
	Id               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	IsTeamEvent      bool      `json:"is_team_event"`
	MaxTeamSize      int       `json:"max_team_size,omitempty"`
	RegistrationOpen bool      `json:"registration_open"`
	CreatedAt        time.Time `json:"created_at"`
}

// EventSummary is the public catalogue entry.
type EventSummary struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// Coordinator is a contact person for an event, from the
// event_coordinators table.
type Coordinator struct {
	EventId string `json:"event_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
}

// EventDetail is the full event view with its coordinators.
type EventDetail struct {
	Event        Event         `json:"event"`
	Coordinators []Coordinator `json:"coordinators"`
}

type CreateEventRequest struct {
	Name             string `json:"name" validate:"required"`
	Description      string `json:"description" validate:"omitempty"`
	IsTeamEvent      bool   `json:"is_team_event"`
	MaxTeamSize      int    `json:"max_team_size" validate:"omitempty,min=0"`
	RegistrationOpen bool   `json:"registration_open"`
}

func (e *CreateEventRequest) Bind(_ *http.Request) error {
	return validate.Struct(e)
}
