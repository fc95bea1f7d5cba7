package core

import (
	"strings"

	"festreg/entity"
)

// Filter is the admin dashboard's search criteria. Status "all" (or empty)
// matches every payment status; an empty Events list matches every event.
type Filter struct {
	Query  string
	Status string
	Events []string
}

// FilterRegistrations returns the order-preserving subset of rows matching
// all active criteria. With no criteria active it returns the input
// unchanged. The free-text query matches names, emails, team codes and
// event names case-insensitively; when the query contains digits it also
// matches phone numbers with non-digits stripped from both sides.
func FilterRegistrations(rows []entity.RegistrationRow, f Filter) []entity.RegistrationRow {
	result := rows

	if f.Status != "" && f.Status != "all" {
		filtered := make([]entity.RegistrationRow, 0, len(result))
		for _, r := range result {
			if string(r.PaymentStatus) == f.Status {
				filtered = append(filtered, r)
			}
		}
		result = filtered
	}

	if len(f.Events) > 0 {
		filtered := make([]entity.RegistrationRow, 0, len(result))
		for _, r := range result {
			if r.Events != nil && contains(f.Events, r.Events.Name) {
				filtered = append(filtered, r)
			}
		}
		result = filtered
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query == "" {
		return result
	}

	numericQuery := digitsOnly(query)
	filtered := make([]entity.RegistrationRow, 0, len(result))
	for _, r := range result {
		if matchesText(r, query) || matchesPhone(r, numericQuery) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func matchesText(r entity.RegistrationRow, query string) bool {
	if r.Users != nil {
		if containsFold(r.Users.Name, query) || containsFold(r.Users.Email, query) {
			return true
		}
	}
	if r.Teams != nil {
		if containsFold(r.Teams.TeamName, query) ||
			containsFold(r.Teams.TeamCode, query) ||
			containsFold(r.Teams.LeaderEmail, query) {
			return true
		}
	}
	if r.Events != nil && containsFold(r.Events.Name, query) {
		return true
	}
	for _, m := range r.TeamMembers {
		if containsFold(m.Name, query) || containsFold(m.Email, query) {
			return true
		}
	}
	return false
}

func matchesPhone(r entity.RegistrationRow, numericQuery string) bool {
	if numericQuery == "" {
		return false
	}
	if r.PhoneNumber != "" && strings.Contains(digitsOnly(r.PhoneNumber), numericQuery) {
		return true
	}
	for _, m := range r.TeamMembers {
		if m.PhoneNumber != "" && strings.Contains(digitsOnly(m.PhoneNumber), numericQuery) {
			return true
		}
	}
	return false
}

func containsFold(s, query string) bool {
	return strings.Contains(strings.ToLower(s), query)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
