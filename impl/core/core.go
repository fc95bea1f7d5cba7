package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"

	"festreg/entity"
	"festreg/internal/oauth"
	"festreg/lib/sl"
)

// Store is the external-store surface the core depends on. Implemented by
// internal/database.MySql.
type Store interface {
	GetOrCreateUser(ctx context.Context, id, name, email string) (*entity.User, error)
	Events(ctx context.Context) ([]entity.EventSummary, error)
	EventByID(ctx context.Context, id string) (*entity.Event, error)
	EventCoordinators(ctx context.Context, eventId string) ([]entity.Coordinator, error)
	CreateEvent(ctx context.Context, ev *entity.Event) error
	SoloRegistration(ctx context.Context, eventId, userId string) (*entity.Registration, error)
	CreateSoloRegistration(ctx context.Context, reg *entity.Registration) error
	TeamByCode(ctx context.Context, code string) (*entity.Team, error)
	UserTeamForEvent(ctx context.Context, userId, eventId string) (*entity.Team, error)
	IsTeamMember(ctx context.Context, teamId, userId string) (bool, error)
	TeamMemberCount(ctx context.Context, teamId string) (int, error)
	CreateTeam(ctx context.Context, team *entity.Team, leader *entity.TeamMember, reg *entity.Registration) error
	JoinTeam(ctx context.Context, team *entity.Team, maxSize int, member *entity.TeamMember) (*entity.Registration, error)
	RegistrationRecords(ctx context.Context) ([]entity.RegistrationRecord, error)
	SetPaymentStatus(ctx context.Context, registrationId string, status entity.PaymentStatus) error
}

// AuthService manages sessions.
type AuthService interface {
	UserByToken(token string) (*entity.User, error)
	CreateSession(user *entity.User) (string, error)
	DeleteSession(token string) error
}

// OAuthService is the identity provider flow.
type OAuthService interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.Userinfo, error)
}

// StripeService verifies and applies payment webhooks.
type StripeService interface {
	VerifySignature(payload []byte, header string, tolerance time.Duration) bool
	HandleEvent(ctx context.Context, evt *stripe.Event)
}

// Notifier announces registrations to the organizers. May be absent.
type Notifier interface {
	SoloRegistered(eventName, userName string)
	TeamCreated(eventName, teamName, teamCode string)
	MemberJoined(teamName, userName string, members int)
}

type Core struct {
	db     Store
	auth   AuthService
	oauth  OAuthService
	stripe StripeService
	notify Notifier
	log    *slog.Logger
}

func New(db Store, log *slog.Logger) *Core {
	if db == nil {
		panic("store is nil")
	}
	return &Core{
		db:  db,
		log: log.With(sl.Module("core")),
	}
}

func (c *Core) SetAuthService(auth AuthService) { c.auth = auth }
func (c *Core) SetOAuthService(o OAuthService) { c.oauth = o }
func (c *Core) SetStripeService(s StripeService) { c.stripe = s }
func (c *Core) SetNotifier(n Notifier) { c.notify = n }

func (c *Core) AuthenticateByToken(token string) (*entity.User, error) {
	if c.auth == nil {
		return nil, fmt.Errorf("auth service not connected")
	}
	return c.auth.UserByToken(token)
}

func (c *Core) AuthURL(state string) string {
	if c.oauth == nil {
		return ""
	}
	return c.oauth.AuthURL(state)
}

// CompleteOAuth finishes the provider flow: exchange the code, upsert the
// user row, open a session. Returns the session token.
func (c *Core) CompleteOAuth(ctx context.Context, code string) (string, *entity.User, error) {
	if c.oauth == nil || c.auth == nil {
		return "", nil, entity.Service("Authentication not available", nil)
	}
	info, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", nil, entity.Service("Authentication failed", err)
	}
	// new user rows carry the provider's stable id
	userId := info.Id
	if userId == "" {
		userId = uuid.NewString()
	}
	user, err := c.db.GetOrCreateUser(ctx, userId, info.Name, info.Email)
	if err != nil {
		return "", nil, entity.Service("Error saving user", err)
	}
	token, err := c.auth.CreateSession(user)
	if err != nil {
		return "", nil, entity.Service("Error creating session", err)
	}
	c.log.With(
		slog.String("user", user.Email),
	).Info("user logged in")
	return token, user, nil
}

func (c *Core) Logout(token string) error {
	if c.auth == nil {
		return entity.Service("Authentication not available", nil)
	}
	if err := c.auth.DeleteSession(token); err != nil {
		return entity.Service("Error deleting session", err)
	}
	return nil
}

// Events returns the public catalogue.
func (c *Core) Events(ctx context.Context) ([]entity.EventSummary, error) {
	events, err := c.db.Events(ctx)
	if err != nil {
		return nil, entity.Service("Error fetching events", err)
	}
	if events == nil {
		events = []entity.EventSummary{}
	}
	return events, nil
}

func (c *Core) EventDetail(ctx context.Context, id string) (*entity.EventDetail, error) {
	event, err := c.db.EventByID(ctx, id)
	if err != nil {
		return nil, entity.Service("Error fetching event", err)
	}
	if event == nil {
		return nil, entity.NotFound("Event not found")
	}
	coordinators, err := c.db.EventCoordinators(ctx, id)
	if err != nil {
		return nil, entity.Service("Error fetching coordinators", err)
	}
	if coordinators == nil {
		coordinators = []entity.Coordinator{}
	}
	return &entity.EventDetail{Event: *event, Coordinators: coordinators}, nil
}

func (c *Core) CreateEvent(ctx context.Context, req *entity.CreateEventRequest) (*entity.Event, error) {
	event := &entity.Event{
		Id:               uuid.NewString(),
		Name:             req.Name,
		Description:      req.Description,
		IsTeamEvent:      req.IsTeamEvent,
		MaxTeamSize:      req.MaxTeamSize,
		RegistrationOpen: req.RegistrationOpen,
		CreatedAt:        time.Now().UTC(),
	}
	if err := c.db.CreateEvent(ctx, event); err != nil {
		return nil, entity.Service("Error creating event", err)
	}
	return event, nil
}

// RegisterSolo records a single user's registration, rejecting duplicates.
func (c *Core) RegisterSolo(ctx context.Context, user *entity.User, req *entity.RegisterRequest) (*entity.Registration, error) {
	if user == nil {
		return nil, entity.Unauthorized("Not authenticated")
	}
	event, err := c.db.EventByID(ctx, req.EventId)
	if err != nil {
		return nil, entity.Service("Error fetching event", err)
	}
	if event == nil {
		return nil, entity.NotFound("Event not found")
	}
	if !event.RegistrationOpen {
		return nil, entity.Conflict("Registrations for this event are closed.")
	}
	existing, err := c.db.SoloRegistration(ctx, event.Id, user.Id)
	if err != nil {
		return nil, entity.Service("Error checking registration", err)
	}
	if existing != nil {
		return nil, entity.Conflict("Already registered")
	}

	reg := &entity.Registration{
		Id:            uuid.NewString(),
		EventId:       event.Id,
		UserId:        user.Id,
		PhoneNumber:   req.Phone,
		PaymentStatus: entity.PaymentPending,
		RegisteredAt:  time.Now().UTC(),
	}
	if err = c.db.CreateSoloRegistration(ctx, reg); err != nil {
		return nil, entity.Service("Error creating registration", err)
	}

	if c.notify != nil {
		c.notify.SoloRegistered(event.Name, user.Name)
	}
	return reg, nil
}

// CreateTeam creates the team, its leader membership and a pending
// registration in one store transaction.
func (c *Core) CreateTeam(ctx context.Context, user *entity.User, req *entity.CreateTeamRequest) (*entity.TeamResult, error) {
	if user == nil {
		return nil, entity.Unauthorized("Not authenticated")
	}
	event, err := c.db.EventByID(ctx, req.EventId)
	if err != nil {
		return nil, entity.Service("Error fetching event", err)
	}
	if event == nil {
		return nil, entity.NotFound("Event not found")
	}
	if !event.RegistrationOpen {
		return nil, entity.Conflict("Registrations for this event are closed.")
	}
	if !event.IsTeamEvent {
		return nil, entity.Conflict("This event does not accept teams.")
	}
	solo, err := c.db.SoloRegistration(ctx, event.Id, user.Id)
	if err != nil {
		return nil, entity.Service("Error checking registration", err)
	}
	if solo != nil {
		return nil, entity.Conflict("You are already registered solo for this event.")
	}
	other, err := c.db.UserTeamForEvent(ctx, user.Id, event.Id)
	if err != nil {
		return nil, entity.Service("Error checking teams", err)
	}
	if other != nil {
		return nil, entity.Conflict("You already belong to another team for this event.")
	}

	now := time.Now().UTC()
	team := &entity.Team{
		Id:        uuid.NewString(),
		TeamCode:  NewTeamCode(),
		TeamName:  req.TeamName,
		EventId:   event.Id,
		CreatedBy: user.Id,
		CreatedAt: now,
	}
	leader := &entity.TeamMember{
		Id:       uuid.NewString(),
		TeamId:   team.Id,
		UserId:   user.Id,
		Role:     entity.RoleLeader,
		JoinedAt: now,
	}
	reg := &entity.Registration{
		Id:            uuid.NewString(),
		EventId:       event.Id,
		TeamId:        team.Id,
		PaymentStatus: entity.PaymentPending,
		RegisteredAt:  now,
	}
	if err = c.db.CreateTeam(ctx, team, leader, reg); err != nil {
		return nil, entity.Service("Error creating team", err)
	}

	if c.notify != nil {
		c.notify.TeamCreated(event.Name, team.TeamName, team.TeamCode)
	}
	return &entity.TeamResult{Team: *team, Leader: *leader, Registration: *reg}, nil
}

// Registrations returns the flattened admin view, newest first.
func (c *Core) Registrations(ctx context.Context) ([]entity.RegistrationRow, error) {
	records, err := c.db.RegistrationRecords(ctx)
	if err != nil {
		return nil, entity.Service("Error fetching registrations", err)
	}
	return FormatRegistrations(records), nil
}

func (c *Core) StripeVerifySignature(payload []byte, header string, tolerance time.Duration) bool {
	if c.stripe == nil {
		return false
	}
	return c.stripe.VerifySignature(payload, header, tolerance)
}

func (c *Core) StripeEvent(ctx context.Context, evt *stripe.Event) {
	if c.stripe == nil {
		return
	}
	c.stripe.HandleEvent(ctx, evt)
}
