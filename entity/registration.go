package entity

import (
	"fmt"
	"net/http"
	"time"

	"festreg/lib/validate"

	"github.com/biter777/countries"
)

// PaymentStatus is set outside the registration flow: registrations start
// pending and are moved by the payment webhook or manual reconciliation.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// Registration is a row in the registration table. Exactly one of UserId
// (solo) or TeamId (team) is set.
type Registration struct {
	Id            string        `json:"id"`
	EventId       string        `json:"event_id"`
	UserId        string        `json:"user_id,omitempty"`
	TeamId        string        `json:"team_id,omitempty"`
	PhoneNumber   string        `json:"phone_number,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	RegisteredAt  time.Time     `json:"registered_at"`
}

type RegisterRequest struct {
	EventId string `json:"eventId" validate:"required"`
	Phone   string `json:"phone" validate:"omitempty"`
	Country string `json:"country" validate:"omitempty"`
}

func (r *RegisterRequest) Bind(_ *http.Request) error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Country != "" {
		if countries.ByName(r.Country) == countries.Unknown {
			return fmt.Errorf("unknown country: %s", r.Country)
		}
	}
	return nil
}
