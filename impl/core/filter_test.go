package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"festreg/entity"
)

func filterRows() []entity.RegistrationRow {
	return []entity.RegistrationRow{
		{
			Id:            "r1",
			PaymentStatus: entity.PaymentPending,
			RegisteredAt:  time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
			UserId:        "u1",
			PhoneNumber:   "+1 (555) 010-0001",
			Users:         &entity.UserInfo{Name: "Ada Lovelace", Email: "ada@example.com"},
			TeamMembers:   []entity.MemberView{},
			Events:        &entity.EventInfo{Name: "Hackathon"},
		},
		{
			Id:            "r2",
			PaymentStatus: entity.PaymentApproved,
			RegisteredAt:  time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
			TeamId:        "t1",
			Teams:         &entity.TeamView{TeamName: "Gophers", TeamCode: "ABCD1234", LeaderEmail: "grace@example.com"},
			TeamMembers: []entity.MemberView{
				{Name: "Grace", Email: "grace@example.com", PhoneNumber: "+44 20 7946 0958", Role: entity.RoleLeader},
			},
			Events: &entity.EventInfo{Name: "Robotics"},
		},
		{
			Id:            "r3",
			PaymentStatus: entity.PaymentRejected,
			RegisteredAt:  time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC),
			UserId:        "u4",
			Users:         &entity.UserInfo{Name: "Linus", Email: "linus@example.com"},
			TeamMembers:   []entity.MemberView{},
			Events:        &entity.EventInfo{Name: "Hackathon"},
		},
	}
}

func ids(rows []entity.RegistrationRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Id)
	}
	return out
}

func TestFilterRegistrations_NoCriteria(t *testing.T) {
	rows := filterRows()
	assert.Equal(t, rows, FilterRegistrations(rows, Filter{}))
	assert.Equal(t, rows, FilterRegistrations(rows, Filter{Status: "all"}))
	assert.Equal(t, rows, FilterRegistrations(rows, Filter{Query: "   "}))
}

func TestFilterRegistrations_Status(t *testing.T) {
	out := FilterRegistrations(filterRows(), Filter{Status: "approved"})
	assert.Equal(t, []string{"r2"}, ids(out))

	out = FilterRegistrations(filterRows(), Filter{Status: "rejected"})
	assert.Equal(t, []string{"r3"}, ids(out))
}

func TestFilterRegistrations_Events(t *testing.T) {
	out := FilterRegistrations(filterRows(), Filter{Events: []string{"Hackathon"}})
	assert.Equal(t, []string{"r1", "r3"}, ids(out))

	out = FilterRegistrations(filterRows(), Filter{Events: []string{"Robotics", "Hackathon"}})
	assert.Equal(t, []string{"r1", "r2", "r3"}, ids(out))

	out = FilterRegistrations(filterRows(), Filter{Events: []string{"Chess"}})
	assert.Empty(t, out)
}

func TestFilterRegistrations_QueryCaseInsensitive(t *testing.T) {
	out := FilterRegistrations(filterRows(), Filter{Query: "ADA"})
	assert.Equal(t, []string{"r1"}, ids(out))

	out = FilterRegistrations(filterRows(), Filter{Query: "gophers"})
	assert.Equal(t, []string{"r2"}, ids(out))
}

func TestFilterRegistrations_QueryTeamCodeAndMembers(t *testing.T) {
	out := FilterRegistrations(filterRows(), Filter{Query: "abcd1234"})
	assert.Equal(t, []string{"r2"}, ids(out))

	out = FilterRegistrations(filterRows(), Filter{Query: "grace@"})
	assert.Equal(t, []string{"r2"}, ids(out))
}

func TestFilterRegistrations_QueryPhoneDigits(t *testing.T) {
	// punctuation differs between the stored number and the query
	out := FilterRegistrations(filterRows(), Filter{Query: "555-0100"})
	assert.Equal(t, []string{"r1"}, ids(out))

	// member phone numbers count too
	out = FilterRegistrations(filterRows(), Filter{Query: "2079460958"})
	assert.Equal(t, []string{"r2"}, ids(out))
}

func TestFilterRegistrations_Combined(t *testing.T) {
	out := FilterRegistrations(filterRows(), Filter{
		Status: "pending",
		Events: []string{"Hackathon"},
		Query:  "lovelace",
	})
	assert.Equal(t, []string{"r1"}, ids(out))

	// same query but a status nothing matches
	out = FilterRegistrations(filterRows(), Filter{Status: "approved", Query: "lovelace"})
	assert.Empty(t, out)
}

func TestFilterRegistrations_OrderPreserved(t *testing.T) {
	out := FilterRegistrations(filterRows(), Filter{Query: "example.com"})
	require.Len(t, out, 3)
	assert.Equal(t, []string{"r1", "r2", "r3"}, ids(out))
}
