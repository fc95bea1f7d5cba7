package database

import (
	"database/sql"
	"fmt"
)

func (s *MySql) prepareStmt(name, query string) (*sql.Stmt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stmt, ok := s.statements[name]; ok {
		return stmt, nil
	}

	stmt, err := s.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("prepare statement [%s]: %w", name, err)
	}

	s.statements[name] = stmt
	return stmt, nil
}

func (s *MySql) closeStmt() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, stmt := range s.statements {
		_ = stmt.Close()
		delete(s.statements, name)
	}
}

func (s *MySql) stmtSelectUserByEmail() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`SELECT user_id, name, email, phone, country, role, created_at
		 FROM %susers WHERE email = ?`,
		s.prefix,
	)
	return s.prepareStmt("selectUserByEmail", query)
}

func (s *MySql) stmtInsertUser() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`INSERT INTO %susers (user_id, name, email, phone, country, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.prefix,
	)
	return s.prepareStmt("insertUser", query)
}

func (s *MySql) stmtUpdateUserName() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`UPDATE %susers SET name = ? WHERE user_id = ?`,
		s.prefix,
	)
	return s.prepareStmt("updateUserName", query)
}

func (s *MySql) stmtSelectEvents() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`SELECT event_id, name FROM %sevents ORDER BY name`,
		s.prefix,
	)
	return s.prepareStmt("selectEvents", query)
}

func (s *MySql) stmtSelectEvent() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`SELECT event_id, name, description, is_team_event, max_team_size, registration_open, created_at
		 FROM %sevents WHERE event_id = ?`,
		s.prefix,
	)
	return s.prepareStmt("selectEvent", query)
}

func (s *MySql) stmtInsertEvent() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`INSERT INTO %sevents (event_id, name, description, is_team_event, max_team_size, registration_open, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.prefix,
	)
	return s.prepareStmt("insertEvent", query)
}

func (s *MySql) stmtSelectCoordinators() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`SELECT name, email, phone FROM %sevent_coordinators WHERE event_id = ?`,
		s.prefix,
	)
	return s.prepareStmt("selectCoordinators", query)
}

func (s *MySql) stmtSelectTeamByCode() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`SELECT team_id, team_code, team_name, event_id, created_by, created_at
		 FROM %steams WHERE team_code = ?`,
		s.prefix,
	)
	return s.prepareStmt("selectTeamByCode", query)
}

func (s *MySql) stmtSelectUserTeamForEvent() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`SELECT t.team_id, t.team_code, t.team_name, t.event_id, t.created_by, t.created_at
		 FROM %steam_members tm
		 JOIN %steams t ON t.team_id = tm.team_id
		 WHERE tm.user_id = ? AND t.event_id = ?`,
		s.prefix, s.prefix,
	)
	return s.prepareStmt("selectUserTeamForEvent", query)
}

func (s *MySql) stmtCountTeamMember() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM %steam_members WHERE team_id = ? AND user_id = ?`,
		s.prefix,
	)
	return s.prepareStmt("countTeamMember", query)
}

func (s *MySql) stmtCountTeamMembers() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM %steam_members WHERE team_id = ?`,
		s.prefix,
	)
	return s.prepareStmt("countTeamMembers", query)
}

func (s *MySql) stmtSelectSoloRegistration() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`SELECT registration_id, event_id, user_id, team_id, phone_number, payment_status, registered_at
		 FROM %sregistration WHERE event_id = ? AND user_id = ?`,
		s.prefix,
	)
	return s.prepareStmt("selectSoloRegistration", query)
}

func (s *MySql) stmtInsertRegistration() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`INSERT INTO %sregistration (registration_id, event_id, user_id, team_id, phone_number, payment_status, registered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.prefix,
	)
	return s.prepareStmt("insertRegistration", query)
}

func (s *MySql) stmtUpdatePaymentStatus() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`UPDATE %sregistration SET payment_status = ? WHERE registration_id = ?`,
		s.prefix,
	)
	return s.prepareStmt("updatePaymentStatus", query)
}

func (s *MySql) stmtSelectRegistrations() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`SELECT r.registration_id, r.event_id, r.user_id, r.team_id, r.phone_number, r.payment_status, r.registered_at,
		        u.name, u.email,
		        t.team_name, t.team_code, t.created_by,
		        e.name
		 FROM %sregistration r
		 LEFT JOIN %susers u ON u.user_id = r.user_id
		 LEFT JOIN %steams t ON t.team_id = r.team_id
		 LEFT JOIN %sevents e ON e.event_id = r.event_id
		 ORDER BY r.registered_at DESC`,
		s.prefix, s.prefix, s.prefix, s.prefix,
	)
	return s.prepareStmt("selectRegistrations", query)
}

func (s *MySql) stmtSelectTeamMembers() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`SELECT tm.user_id, tm.role, u.name, u.email, u.phone
		 FROM %steam_members tm
		 LEFT JOIN %susers u ON u.user_id = tm.user_id
		 WHERE tm.team_id = ?
		 ORDER BY tm.joined_at`,
		s.prefix, s.prefix,
	)
	return s.prepareStmt("selectTeamMembers", query)
}
