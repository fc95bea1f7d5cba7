package core

import "festreg/entity"

// FormatRegistrations flattens nested join results into one admin-view row
// per registration. Pure and deterministic: missing relations become nulls
// or placeholders, never errors, and re-running it over its own output
// yields the same names, emails and members.
func FormatRegistrations(records []entity.RegistrationRecord) []entity.RegistrationRow {
	rows := make([]entity.RegistrationRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, formatRecord(rec))
	}
	return rows
}

func formatRecord(rec entity.RegistrationRecord) entity.RegistrationRow {
	row := entity.RegistrationRow{
		Id:            rec.Id,
		PaymentStatus: rec.PaymentStatus,
		RegisteredAt:  rec.RegisteredAt,
		UserId:        rec.UserId,
		TeamId:        rec.TeamId,
		PhoneNumber:   rec.PhoneNumber,
		TeamMembers:   []entity.MemberView{},
	}

	if rec.User != nil {
		user := *rec.User
		row.Users = &user
	}
	if rec.Event != nil {
		event := *rec.Event
		row.Events = &event
	}

	if rec.Team == nil {
		return row
	}

	for _, m := range rec.Team.Members {
		name := m.Name
		if name == "" {
			name = "Unknown"
		}
		row.TeamMembers = append(row.TeamMembers, entity.MemberView{
			Name:        name,
			Email:       m.Email,
			PhoneNumber: m.PhoneNumber,
			UserId:      m.UserId,
			Role:        m.Role,
		})
	}

	leaderEmail := ""
	for _, m := range row.TeamMembers {
		if m.Role == entity.RoleLeader {
			leaderEmail = m.Email
			break
		}
	}

	row.Teams = &entity.TeamView{
		TeamName:    rec.Team.TeamName,
		TeamCode:    rec.Team.TeamCode,
		CreatedBy:   rec.Team.CreatedBy,
		LeaderEmail: leaderEmail,
	}
	return row
}
