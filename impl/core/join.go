package core

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"festreg/entity"
	"festreg/internal/database"
)

// joinCheck is one precondition of the join workflow. Checks run in the
// documented order and the first failure aborts the whole operation.
type joinCheck func(ctx context.Context) error

// JoinTeam adds the user to the team identified by teamCode and ensures a
// registration exists for the team. The capacity check runs twice: here for
// the friendly early error, and again inside the store transaction where the
// team row is locked, so a concurrent join for the last slot cannot slip
// through.
func (c *Core) JoinTeam(ctx context.Context, user *entity.User, teamCode string) (*entity.JoinResult, error) {
	if user == nil {
		return nil, entity.Unauthorized("Not authenticated")
	}

	team, err := c.db.TeamByCode(ctx, teamCode)
	if err != nil {
		return nil, entity.Service("Error fetching team", err)
	}
	if team == nil {
		return nil, entity.NotFound("Team not found")
	}

	event, err := c.db.EventByID(ctx, team.EventId)
	if err != nil {
		return nil, entity.Service("Error fetching event", err)
	}
	if event == nil {
		return nil, entity.NotFound("Event not found")
	}

	checks := []joinCheck{
		c.checkRegistrationOpen(event),
		c.checkNoSoloRegistration(event, user),
		c.checkNotOnAnotherTeam(event, team, user),
		c.checkNotAlreadyMember(team, user),
		c.checkTeamCapacity(team, event.MaxTeamSize),
	}
	for _, check := range checks {
		if err = check(ctx); err != nil {
			return nil, err
		}
	}

	member := &entity.TeamMember{
		Id:       uuid.NewString(),
		TeamId:   team.Id,
		UserId:   user.Id,
		Role:     entity.RoleMember,
		JoinedAt: time.Now().UTC(),
	}
	reg, err := c.db.JoinTeam(ctx, team, event.MaxTeamSize, member)
	if err != nil {
		if errors.Is(err, database.ErrTeamFull) {
			return nil, entity.Conflict("Team is already full.")
		}
		return nil, entity.Service("Error joining team", err)
	}

	c.log.With(
		slog.String("team", team.TeamName),
		slog.String("user", user.Email),
	).Info("member joined team")

	if c.notify != nil {
		count, cerr := c.db.TeamMemberCount(ctx, team.Id)
		if cerr != nil {
			count = 0
		}
		c.notify.MemberJoined(team.TeamName, user.Name, count)
	}

	return &entity.JoinResult{Team: *team, Member: *member, Registration: *reg}, nil
}

func (c *Core) checkRegistrationOpen(event *entity.Event) joinCheck {
	return func(_ context.Context) error {
		if !event.RegistrationOpen {
			return entity.Conflict("Registrations for this event are closed.")
		}
		return nil
	}
}

func (c *Core) checkNoSoloRegistration(event *entity.Event, user *entity.User) joinCheck {
	return func(ctx context.Context) error {
		reg, err := c.db.SoloRegistration(ctx, event.Id, user.Id)
		if err != nil {
			return entity.Service("Error checking registration", err)
		}
		if reg != nil {
			return entity.Conflict("You are already registered solo for this event.")
		}
		return nil
	}
}

func (c *Core) checkNotOnAnotherTeam(event *entity.Event, team *entity.Team, user *entity.User) joinCheck {
	return func(ctx context.Context) error {
		other, err := c.db.UserTeamForEvent(ctx, user.Id, event.Id)
		if err != nil {
			return entity.Service("Error checking teams", err)
		}
		if other != nil && other.Id != team.Id {
			return entity.Conflict("You already belong to another team for this event.")
		}
		return nil
	}
}

func (c *Core) checkNotAlreadyMember(team *entity.Team, user *entity.User) joinCheck {
	return func(ctx context.Context) error {
		member, err := c.db.IsTeamMember(ctx, team.Id, user.Id)
		if err != nil {
			return entity.Service("Error checking membership", err)
		}
		if member {
			return entity.Conflict("You are already a member of this team.")
		}
		return nil
	}
}

func (c *Core) checkTeamCapacity(team *entity.Team, maxSize int) joinCheck {
	return func(ctx context.Context) error {
		if maxSize <= 0 {
			return nil
		}
		count, err := c.db.TeamMemberCount(ctx, team.Id)
		if err != nil {
			return entity.Service("Error checking team size", err)
		}
		if count >= maxSize {
			return entity.Conflict("Team is already full.")
		}
		return nil
	}
}

// NewTeamCode generates a short join token. Uniqueness is enforced by the
// store's unique index on team_code.
func NewTeamCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}
