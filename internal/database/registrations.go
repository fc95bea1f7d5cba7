package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"festreg/entity"

	"github.com/google/uuid"
)

// ErrTeamFull is returned from JoinTeam when the transactional capacity
// re-check fails; the caller translates it into a conflict.
var ErrTeamFull = errors.New("team is full")

// SoloRegistration returns the user's solo registration for the event,
// nil when none exists.
func (s *MySql) SoloRegistration(ctx context.Context, eventId, userId string) (*entity.Registration, error) {
	stmt, err := s.stmtSelectSoloRegistration()
	if err != nil {
		return nil, err
	}
	reg, err := scanRegistration(stmt.QueryRowContext(ctx, eventId, userId))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return reg, err
}

func (s *MySql) CreateSoloRegistration(ctx context.Context, reg *entity.Registration) error {
	stmt, err := s.stmtInsertRegistration()
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx,
		reg.Id, reg.EventId, nullable(reg.UserId), nullable(reg.TeamId), reg.PhoneNumber, reg.PaymentStatus, reg.RegisteredAt)
	return err
}

// CreateTeam inserts the team, its leader membership and the pending team
// registration in one transaction.
func (s *MySql) CreateTeam(ctx context.Context, team *entity.Team, leader *entity.TeamMember, reg *entity.Registration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %steams (team_id, team_code, team_name, event_id, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`, s.prefix),
		team.Id, team.TeamCode, team.TeamName, team.EventId, team.CreatedBy, team.CreatedAt)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %steam_members (member_id, team_id, user_id, role, joined_at)
		 VALUES (?, ?, ?, ?, ?)`, s.prefix),
		leader.Id, leader.TeamId, leader.UserId, leader.Role, leader.JoinedAt)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %sregistration (registration_id, event_id, user_id, team_id, phone_number, payment_status, registered_at)
		 VALUES (?, ?, NULL, ?, ?, ?, ?)`, s.prefix),
		reg.Id, reg.EventId, reg.TeamId, reg.PhoneNumber, reg.PaymentStatus, reg.RegisteredAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// JoinTeam adds the member and ensures the team registration exists, all in
// one transaction. The team row is locked first so concurrent joins
// serialize on the capacity check; maxSize of zero means unlimited.
func (s *MySql) JoinTeam(ctx context.Context, team *entity.Team, maxSize int, member *entity.TeamMember) (*entity.Registration, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var lockedId string
	err = tx.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT team_id FROM %steams WHERE team_id = ? FOR UPDATE`, s.prefix), team.Id).Scan(&lockedId)
	if err != nil {
		return nil, fmt.Errorf("lock team: %w", err)
	}

	if maxSize > 0 {
		var count int
		err = tx.QueryRowContext(ctx, fmt.Sprintf(
			`SELECT COUNT(*) FROM %steam_members WHERE team_id = ?`, s.prefix), team.Id).Scan(&count)
		if err != nil {
			return nil, err
		}
		if count >= maxSize {
			return nil, ErrTeamFull
		}
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %steam_members (member_id, team_id, user_id, role, joined_at)
		 VALUES (?, ?, ?, ?, ?)`, s.prefix),
		member.Id, member.TeamId, member.UserId, member.Role, member.JoinedAt)
	if err != nil {
		return nil, err
	}

	reg, err := scanRegistration(tx.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT registration_id, event_id, user_id, team_id, phone_number, payment_status, registered_at
		 FROM %sregistration WHERE team_id = ?`, s.prefix), team.Id))
	if err == sql.ErrNoRows {
		reg = &entity.Registration{
			Id:            uuid.NewString(),
			EventId:       team.EventId,
			TeamId:        team.Id,
			PaymentStatus: entity.PaymentPending,
			RegisteredAt:  time.Now().UTC(),
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			`INSERT INTO %sregistration (registration_id, event_id, user_id, team_id, phone_number, payment_status, registered_at)
			 VALUES (?, ?, NULL, ?, '', ?, ?)`, s.prefix),
			reg.Id, reg.EventId, reg.TeamId, reg.PaymentStatus, reg.RegisteredAt)
	}
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return reg, nil
}

// SetPaymentStatus applies an out-of-band payment transition.
func (s *MySql) SetPaymentStatus(ctx context.Context, registrationId string, status entity.PaymentStatus) error {
	stmt, err := s.stmtUpdatePaymentStatus()
	if err != nil {
		return err
	}
	res, err := stmt.ExecContext(ctx, status, registrationId)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RegistrationRecords returns the nested join results for the admin view,
// newest first. Team members are loaded per team.
func (s *MySql) RegistrationRecords(ctx context.Context) ([]entity.RegistrationRecord, error) {
	stmt, err := s.stmtSelectRegistrations()
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []entity.RegistrationRecord
	for rows.Next() {
		var rec entity.RegistrationRecord
		var userId, teamId sql.NullString
		var userName, userEmail sql.NullString
		var teamName, teamCode, createdBy sql.NullString
		var eventName sql.NullString
		if err = rows.Scan(
			&rec.Id, new(string), &userId, &teamId, &rec.PhoneNumber, &rec.PaymentStatus, &rec.RegisteredAt,
			&userName, &userEmail,
			&teamName, &teamCode, &createdBy,
			&eventName,
		); err != nil {
			return nil, err
		}
		rec.UserId = userId.String
		rec.TeamId = teamId.String
		if userId.Valid {
			rec.User = &entity.UserInfo{Name: userName.String, Email: userEmail.String}
		}
		if teamId.Valid && teamName.Valid {
			rec.Team = &entity.TeamRecord{
				TeamName:  teamName.String,
				TeamCode:  teamCode.String,
				CreatedBy: createdBy.String,
			}
		}
		if eventName.Valid {
			rec.Event = &entity.EventInfo{Name: eventName.String}
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].Team == nil {
			continue
		}
		members, err := s.teamMembers(ctx, records[i].TeamId)
		if err != nil {
			return nil, err
		}
		records[i].Team.Members = members
	}

	return records, nil
}

func (s *MySql) teamMembers(ctx context.Context, teamId string) ([]entity.MemberView, error) {
	stmt, err := s.stmtSelectTeamMembers()
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, teamId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []entity.MemberView
	for rows.Next() {
		var m entity.MemberView
		var name, email, phone sql.NullString
		if err = rows.Scan(&m.UserId, &m.Role, &name, &email, &phone); err != nil {
			return nil, err
		}
		m.Name = name.String
		m.Email = email.String
		m.PhoneNumber = phone.String
		members = append(members, m)
	}
	return members, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRegistration(row rowScanner) (*entity.Registration, error) {
	var reg entity.Registration
	var userId, teamId sql.NullString
	err := row.Scan(&reg.Id, &reg.EventId, &userId, &teamId, &reg.PhoneNumber, &reg.PaymentStatus, &reg.RegisteredAt)
	if err != nil {
		return nil, err
	}
	reg.UserId = userId.String
	reg.TeamId = teamId.String
	return &reg, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
