package core

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"festreg/entity"
)

var csvHeader = []string{"#", "Event", "Participant/Team", "Email", "Phone", "Team Members", "Payment Status", "Registered At"}

// WriteCSV streams the admin-view rows as CSV with the dashboard's columns.
func WriteCSV(w io.Writer, rows []entity.RegistrationRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, row := range rows {
		if err := cw.Write(csvRecord(i+1, row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRecord(n int, row entity.RegistrationRow) []string {
	eventName := "—"
	if row.Events != nil {
		eventName = row.Events.Name
	}

	participant := "Solo Participant"
	email := "—"
	if row.TeamId != "" {
		teamName := "Unnamed Team"
		teamCode := ""
		if row.Teams != nil {
			teamName = row.Teams.TeamName
			teamCode = row.Teams.TeamCode
			if row.Teams.LeaderEmail != "" {
				email = row.Teams.LeaderEmail
			}
		}
		participant = teamName + " (" + teamCode + ")"
	} else if row.Users != nil {
		participant = row.Users.Name
		if row.Users.Email != "" {
			email = row.Users.Email
		}
	}

	phone := row.PhoneNumber
	if phone == "" && len(row.TeamMembers) > 0 {
		phone = row.TeamMembers[0].PhoneNumber
	}
	if phone == "" {
		phone = "—"
	}

	members := make([]string, 0, len(row.TeamMembers))
	for _, m := range row.TeamMembers {
		members = append(members, m.Name+" ("+m.Email+")")
	}
	memberList := strings.Join(members, "; ")
	if memberList == "" {
		memberList = "—"
	}

	return []string{
		strconv.Itoa(n),
		eventName,
		participant,
		email,
		phone,
		memberList,
		string(row.PaymentStatus),
		row.RegisteredAt.UTC().Format("2006-01-02 15:04:05"),
	}
}
