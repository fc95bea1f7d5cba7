package core

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"festreg/entity"
	"festreg/internal/database"
)

type fakeStore struct {
	events      map[string]*entity.Event
	teamsByCode map[string]*entity.Team
	solo        map[string]*entity.Registration // eventId+"|"+userId
	userTeams   map[string]*entity.Team         // userId+"|"+eventId
	members     map[string]bool                 // teamId+"|"+userId
	counts      map[string]int                  // teamId
	teamRegs    map[string]*entity.Registration // teamId
	joinErr     error
	joinCalled  bool
	soloCreated []*entity.Registration
	createdTeam *entity.Team
	gotUserId   string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:      map[string]*entity.Event{},
		teamsByCode: map[string]*entity.Team{},
		solo:        map[string]*entity.Registration{},
		userTeams:   map[string]*entity.Team{},
		members:     map[string]bool{},
		counts:      map[string]int{},
		teamRegs:    map[string]*entity.Registration{},
	}
}

func (f *fakeStore) GetOrCreateUser(_ context.Context, id, name, email string) (*entity.User, error) {
	f.gotUserId = id
	return &entity.User{Id: id, Name: name, Email: email, Role: entity.RoleParticipant}, nil
}

func (f *fakeStore) Events(_ context.Context) ([]entity.EventSummary, error) {
	var list []entity.EventSummary
	for _, ev := range f.events {
		list = append(list, entity.EventSummary{Id: ev.Id, Name: ev.Name})
	}
	return list, nil
}

func (f *fakeStore) EventByID(_ context.Context, id string) (*entity.Event, error) {
	return f.events[id], nil
}

func (f *fakeStore) EventCoordinators(_ context.Context, _ string) ([]entity.Coordinator, error) {
	return nil, nil
}

func (f *fakeStore) CreateEvent(_ context.Context, ev *entity.Event) error {
	f.events[ev.Id] = ev
	return nil
}

func (f *fakeStore) SoloRegistration(_ context.Context, eventId, userId string) (*entity.Registration, error) {
	return f.solo[eventId+"|"+userId], nil
}

func (f *fakeStore) CreateSoloRegistration(_ context.Context, reg *entity.Registration) error {
	f.soloCreated = append(f.soloCreated, reg)
	f.solo[reg.EventId+"|"+reg.UserId] = reg
	return nil
}

func (f *fakeStore) TeamByCode(_ context.Context, code string) (*entity.Team, error) {
	return f.teamsByCode[code], nil
}

func (f *fakeStore) UserTeamForEvent(_ context.Context, userId, eventId string) (*entity.Team, error) {
	return f.userTeams[userId+"|"+eventId], nil
}

func (f *fakeStore) IsTeamMember(_ context.Context, teamId, userId string) (bool, error) {
	return f.members[teamId+"|"+userId], nil
}

func (f *fakeStore) TeamMemberCount(_ context.Context, teamId string) (int, error) {
	return f.counts[teamId], nil
}

func (f *fakeStore) CreateTeam(_ context.Context, team *entity.Team, leader *entity.TeamMember, reg *entity.Registration) error {
	f.createdTeam = team
	f.teamsByCode[team.TeamCode] = team
	f.members[team.Id+"|"+leader.UserId] = true
	f.counts[team.Id]++
	f.teamRegs[team.Id] = reg
	return nil
}

func (f *fakeStore) JoinTeam(_ context.Context, team *entity.Team, maxSize int, member *entity.TeamMember) (*entity.Registration, error) {
	f.joinCalled = true
	if f.joinErr != nil {
		return nil, f.joinErr
	}
	if maxSize > 0 && f.counts[team.Id] >= maxSize {
		return nil, database.ErrTeamFull
	}
	f.members[team.Id+"|"+member.UserId] = true
	f.counts[team.Id]++
	reg := f.teamRegs[team.Id]
	if reg == nil {
		reg = &entity.Registration{
			Id:            "reg-" + team.Id,
			EventId:       team.EventId,
			TeamId:        team.Id,
			PaymentStatus: entity.PaymentPending,
			RegisteredAt:  time.Now().UTC(),
		}
		f.teamRegs[team.Id] = reg
	}
	return reg, nil
}

func (f *fakeStore) RegistrationRecords(_ context.Context) ([]entity.RegistrationRecord, error) {
	return nil, nil
}

func (f *fakeStore) SetPaymentStatus(_ context.Context, _ string, _ entity.PaymentStatus) error {
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testUser() *entity.User {
	return &entity.User{Id: "u1", Name: "Ada", Email: "ada@example.com", Role: entity.RoleParticipant}
}

func setupJoin(t *testing.T) (*Core, *fakeStore, *entity.Event, *entity.Team) {
	t.Helper()
	store := newFakeStore()
	event := &entity.Event{Id: "e1", Name: "Hackathon", IsTeamEvent: true, MaxTeamSize: 4, RegistrationOpen: true}
	team := &entity.Team{Id: "t1", TeamCode: "ABCD1234", TeamName: "Gophers", EventId: "e1", CreatedBy: "leader"}
	store.events[event.Id] = event
	store.teamsByCode[team.TeamCode] = team
	store.counts[team.Id] = 1
	store.members[team.Id+"|leader"] = true
	return New(store, testLogger()), store, event, team
}

func requireConflict(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	var appErr *entity.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, entity.KindConflict, appErr.Kind)
	assert.Equal(t, message, err.Error())
}

func TestJoinTeam_Unauthenticated(t *testing.T) {
	c, _, _, _ := setupJoin(t)

	_, err := c.JoinTeam(context.Background(), nil, "ABCD1234")
	require.Error(t, err)
	assert.Equal(t, 401, entity.HTTPStatus(err))
	assert.Equal(t, "Not authenticated", err.Error())
}

func TestJoinTeam_UnknownCode(t *testing.T) {
	c, _, _, _ := setupJoin(t)

	_, err := c.JoinTeam(context.Background(), testUser(), "NOPE")
	require.Error(t, err)
	assert.Equal(t, 404, entity.HTTPStatus(err))
	assert.Equal(t, "Team not found", err.Error())
}

func TestJoinTeam_RegistrationClosed(t *testing.T) {
	c, _, event, team := setupJoin(t)
	event.RegistrationOpen = false

	_, err := c.JoinTeam(context.Background(), testUser(), team.TeamCode)
	requireConflict(t, err, "Registrations for this event are closed.")
}

func TestJoinTeam_AlreadySolo(t *testing.T) {
	c, store, event, team := setupJoin(t)
	store.solo[event.Id+"|u1"] = &entity.Registration{Id: "r1", EventId: event.Id, UserId: "u1"}

	_, err := c.JoinTeam(context.Background(), testUser(), team.TeamCode)
	requireConflict(t, err, "You are already registered solo for this event.")
	assert.False(t, store.joinCalled)
}

func TestJoinTeam_OnAnotherTeam(t *testing.T) {
	c, store, event, team := setupJoin(t)
	store.userTeams["u1|"+event.Id] = &entity.Team{Id: "t2", EventId: event.Id}

	_, err := c.JoinTeam(context.Background(), testUser(), team.TeamCode)
	requireConflict(t, err, "You already belong to another team for this event.")
}

func TestJoinTeam_AlreadyMember(t *testing.T) {
	c, store, event, team := setupJoin(t)
	// membership in this same team must not trip the other-team check
	store.userTeams["u1|"+event.Id] = team
	store.members[team.Id+"|u1"] = true

	_, err := c.JoinTeam(context.Background(), testUser(), team.TeamCode)
	requireConflict(t, err, "You are already a member of this team.")
}

func TestJoinTeam_TeamFull(t *testing.T) {
	c, store, event, team := setupJoin(t)
	event.MaxTeamSize = 2
	store.counts[team.Id] = 2

	_, err := c.JoinTeam(context.Background(), testUser(), team.TeamCode)
	requireConflict(t, err, "Team is already full.")
	assert.Equal(t, 400, entity.HTTPStatus(err))
	assert.False(t, store.joinCalled, "no membership row may be inserted for a full team")
	assert.Equal(t, 2, store.counts[team.Id])
}

func TestJoinTeam_TeamFullRace(t *testing.T) {
	// the pipeline count passes but the transactional re-check loses the
	// last slot to a concurrent join
	c, store, _, team := setupJoin(t)
	store.joinErr = database.ErrTeamFull

	_, err := c.JoinTeam(context.Background(), testUser(), team.TeamCode)
	requireConflict(t, err, "Team is already full.")
}

func TestJoinTeam_UnlimitedSize(t *testing.T) {
	c, store, event, team := setupJoin(t)
	event.MaxTeamSize = 0
	store.counts[team.Id] = 25

	result, err := c.JoinTeam(context.Background(), testUser(), team.TeamCode)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleMember, result.Member.Role)
}

func TestJoinTeam_Success(t *testing.T) {
	c, store, _, team := setupJoin(t)

	result, err := c.JoinTeam(context.Background(), testUser(), team.TeamCode)
	require.NoError(t, err)
	assert.Equal(t, team.Id, result.Member.TeamId)
	assert.Equal(t, "u1", result.Member.UserId)
	assert.Equal(t, entity.RoleMember, result.Member.Role)
	assert.Equal(t, entity.PaymentPending, result.Registration.PaymentStatus)
	assert.Equal(t, team.Id, result.Registration.TeamId)
	assert.True(t, store.members[team.Id+"|u1"])
}

func TestJoinTeam_ReusesExistingRegistration(t *testing.T) {
	c, store, _, team := setupJoin(t)
	existing := &entity.Registration{Id: "keep", EventId: team.EventId, TeamId: team.Id, PaymentStatus: entity.PaymentApproved}
	store.teamRegs[team.Id] = existing

	result, err := c.JoinTeam(context.Background(), testUser(), team.TeamCode)
	require.NoError(t, err)
	assert.Equal(t, "keep", result.Registration.Id)
	assert.Equal(t, entity.PaymentApproved, result.Registration.PaymentStatus)
}

func TestRegisterSolo_Duplicate(t *testing.T) {
	c, store, event, _ := setupJoin(t)
	store.solo[event.Id+"|u1"] = &entity.Registration{Id: "r1", EventId: event.Id, UserId: "u1"}

	_, err := c.RegisterSolo(context.Background(), testUser(), &entity.RegisterRequest{EventId: event.Id})
	requireConflict(t, err, "Already registered")
	assert.Empty(t, store.soloCreated)
}

func TestRegisterSolo_Success(t *testing.T) {
	c, store, event, _ := setupJoin(t)

	reg, err := c.RegisterSolo(context.Background(), testUser(), &entity.RegisterRequest{EventId: event.Id, Phone: "+1 555 0100"})
	require.NoError(t, err)
	assert.Equal(t, event.Id, reg.EventId)
	assert.Equal(t, "u1", reg.UserId)
	assert.Equal(t, entity.PaymentPending, reg.PaymentStatus)
	assert.Equal(t, "+1 555 0100", reg.PhoneNumber)
	require.Len(t, store.soloCreated, 1)
}

func TestCreateTeam_SetsLeaderAndRegistration(t *testing.T) {
	c, store, event, _ := setupJoin(t)

	result, err := c.CreateTeam(context.Background(), testUser(), &entity.CreateTeamRequest{EventId: event.Id, TeamName: "New Team"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleLeader, result.Leader.Role)
	assert.Equal(t, result.Team.Id, result.Registration.TeamId)
	assert.Equal(t, entity.PaymentPending, result.Registration.PaymentStatus)
	assert.Len(t, result.Team.TeamCode, 8)
	assert.NotNil(t, store.createdTeam)
}

func TestCreateTeam_NotTeamEvent(t *testing.T) {
	c, store, _, _ := setupJoin(t)
	store.events["solo-ev"] = &entity.Event{Id: "solo-ev", Name: "Quiz", RegistrationOpen: true}

	_, err := c.CreateTeam(context.Background(), testUser(), &entity.CreateTeamRequest{EventId: "solo-ev", TeamName: "X"})
	requireConflict(t, err, "This event does not accept teams.")
}

func TestNewTeamCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := NewTeamCode()
		assert.Len(t, code, 8)
		assert.False(t, seen[code], "codes must not repeat")
		seen[code] = true
	}
}
