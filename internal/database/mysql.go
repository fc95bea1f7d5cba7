package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"festreg/entity"
	"festreg/internal/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// MySql is the client for the managed relational store that owns all
// registration data. Statements are prepared lazily and cached.
type MySql struct {
	db         *sql.DB
	prefix     string
	statements map[string]*sql.Stmt
	mu         sync.Mutex
}

func NewSQLClient(conf *config.Config) (*MySql, error) {
	connectionURI := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		conf.Store.UserName, conf.Store.Password, conf.Store.HostName, conf.Store.Port, conf.Store.Database)
	db, err := sql.Open("mysql", connectionURI)
	if err != nil {
		return nil, fmt.Errorf("sql connect: %w", err)
	}

	// try to ping three times with a 30-second interval; wait for a database to start
	for i := 0; i < 3; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		if i == 2 {
			return nil, fmt.Errorf("ping database: %w", err)
		}
		time.Sleep(30 * time.Second)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &MySql{
		db:         db,
		prefix:     conf.Store.Prefix,
		statements: make(map[string]*sql.Stmt),
	}

	if err = sdb.ensureSchema(); err != nil {
		return nil, err
	}

	return sdb, nil
}

func (s *MySql) Close() {
	s.closeStmt()
	_ = s.db.Close()
}

func (s *MySql) ensureSchema() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS %susers (
			user_id CHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(255) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(32) NOT NULL DEFAULT '',
			country VARCHAR(64) NOT NULL DEFAULT '',
			role VARCHAR(16) NOT NULL DEFAULT 'participant',
			created_at DATETIME NOT NULL,
			UNIQUE KEY uq_users_email (email)
		)`,
		`CREATE TABLE IF NOT EXISTS %sevents (
			event_id CHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			is_team_event TINYINT(1) NOT NULL DEFAULT 0,
			max_team_size INT NOT NULL DEFAULT 0,
			registration_open TINYINT(1) NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS %sevent_coordinators (
			event_id CHAR(36) NOT NULL,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(32) NOT NULL DEFAULT '',
			KEY idx_coordinators_event (event_id)
		)`,
		`CREATE TABLE IF NOT EXISTS %steams (
			team_id CHAR(36) NOT NULL PRIMARY KEY,
			team_code VARCHAR(16) NOT NULL,
			team_name VARCHAR(255) NOT NULL,
			event_id CHAR(36) NOT NULL,
			created_by CHAR(36) NOT NULL,
			created_at DATETIME NOT NULL,
			UNIQUE KEY uq_teams_code (team_code)
		)`,
		`CREATE TABLE IF NOT EXISTS %steam_members (
			member_id CHAR(36) NOT NULL PRIMARY KEY,
			team_id CHAR(36) NOT NULL,
			user_id CHAR(36) NOT NULL,
			role VARCHAR(16) NOT NULL DEFAULT 'member',
			joined_at DATETIME NOT NULL,
			UNIQUE KEY uq_members_team_user (team_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS %sregistration (
			registration_id CHAR(36) NOT NULL PRIMARY KEY,
			event_id CHAR(36) NOT NULL,
			user_id CHAR(36) NULL,
			team_id CHAR(36) NULL,
			phone_number VARCHAR(32) NOT NULL DEFAULT '',
			payment_status VARCHAR(16) NOT NULL DEFAULT 'pending',
			registered_at DATETIME NOT NULL,
			KEY idx_registration_event_user (event_id, user_id),
			KEY idx_registration_team (team_id)
		)`,
	}
	for _, ddl := range tables {
		if _, err := s.db.Exec(fmt.Sprintf(ddl, s.prefix)); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// GetOrCreateUser resolves the OAuth identity by email, creating the users
// row on first login and refreshing the name on later ones.
func (s *MySql) GetOrCreateUser(ctx context.Context, id, name, email string) (*entity.User, error) {
	stmt, err := s.stmtSelectUserByEmail()
	if err != nil {
		return nil, err
	}
	var user entity.User
	err = stmt.QueryRowContext(ctx, email).Scan(
		&user.Id, &user.Name, &user.Email, &user.Phone, &user.Country, &user.Role, &user.CreatedAt)
	if err == nil {
		if user.Name != name && name != "" {
			if upd, e := s.stmtUpdateUserName(); e == nil {
				_, _ = upd.ExecContext(ctx, name, user.Id)
				user.Name = name
			}
		}
		return &user, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	user = entity.User{
		Id:        id,
		Name:      name,
		Email:     email,
		Role:      entity.RoleParticipant,
		CreatedAt: time.Now().UTC(),
	}
	ins, err := s.stmtInsertUser()
	if err != nil {
		return nil, err
	}
	_, err = ins.ExecContext(ctx, user.Id, user.Name, user.Email, user.Phone, user.Country, user.Role, user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Events lists the public catalogue ordered by name.
func (s *MySql) Events(ctx context.Context) ([]entity.EventSummary, error) {
	stmt, err := s.stmtSelectEvents()
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []entity.EventSummary
	for rows.Next() {
		var ev entity.EventSummary
		if err = rows.Scan(&ev.Id, &ev.Name); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// EventByID returns the event or nil when absent.
func (s *MySql) EventByID(ctx context.Context, id string) (*entity.Event, error) {
	stmt, err := s.stmtSelectEvent()
	if err != nil {
		return nil, err
	}
	var ev entity.Event
	var description sql.NullString
	err = stmt.QueryRowContext(ctx, id).Scan(
		&ev.Id, &ev.Name, &description, &ev.IsTeamEvent, &ev.MaxTeamSize, &ev.RegistrationOpen, &ev.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ev.Description = description.String
	return &ev, nil
}

func (s *MySql) EventCoordinators(ctx context.Context, eventId string) ([]entity.Coordinator, error) {
	stmt, err := s.stmtSelectCoordinators()
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, eventId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []entity.Coordinator
	for rows.Next() {
		var c entity.Coordinator
		c.EventId = eventId
		if err = rows.Scan(&c.Name, &c.Email, &c.Phone); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (s *MySql) CreateEvent(ctx context.Context, ev *entity.Event) error {
	stmt, err := s.stmtInsertEvent()
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx,
		ev.Id, ev.Name, ev.Description, ev.IsTeamEvent, ev.MaxTeamSize, ev.RegistrationOpen, ev.CreatedAt)
	return err
}

// TeamByCode resolves a join token, nil when absent.
func (s *MySql) TeamByCode(ctx context.Context, code string) (*entity.Team, error) {
	stmt, err := s.stmtSelectTeamByCode()
	if err != nil {
		return nil, err
	}
	var team entity.Team
	err = stmt.QueryRowContext(ctx, code).Scan(
		&team.Id, &team.TeamCode, &team.TeamName, &team.EventId, &team.CreatedBy, &team.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// UserTeamForEvent returns the team the user already belongs to for the
// event, nil when none.
func (s *MySql) UserTeamForEvent(ctx context.Context, userId, eventId string) (*entity.Team, error) {
	stmt, err := s.stmtSelectUserTeamForEvent()
	if err != nil {
		return nil, err
	}
	var team entity.Team
	err = stmt.QueryRowContext(ctx, userId, eventId).Scan(
		&team.Id, &team.TeamCode, &team.TeamName, &team.EventId, &team.CreatedBy, &team.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *MySql) IsTeamMember(ctx context.Context, teamId, userId string) (bool, error) {
	stmt, err := s.stmtCountTeamMember()
	if err != nil {
		return false, err
	}
	var count int
	if err = stmt.QueryRowContext(ctx, teamId, userId).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MySql) TeamMemberCount(ctx context.Context, teamId string) (int, error) {
	stmt, err := s.stmtCountTeamMembers()
	if err != nil {
		return 0, err
	}
	var count int
	if err = stmt.QueryRowContext(ctx, teamId).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
