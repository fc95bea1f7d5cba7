package team

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"festreg/entity"
	"festreg/lib/api/cont"
	"festreg/lib/api/response"
	"festreg/lib/sl"
)

type Core interface {
	CreateTeam(ctx context.Context, user *entity.User, req *entity.CreateTeamRequest) (*entity.TeamResult, error)
	JoinTeam(ctx context.Context, user *entity.User, teamCode string) (*entity.JoinResult, error)
}

// Create makes a new team for an event with the caller as leader.
func Create(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.team")
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user := cont.GetUser(r.Context())
		if user == nil {
			render.Status(r, 401)
			render.JSON(w, r, response.Error("Not authenticated"))
			return
		}

		var req entity.CreateTeamRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Warn("bind request", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}
		logger = logger.With(
			slog.String("event_id", req.EventId),
			slog.String("team_name", req.TeamName),
		)

		result, err := handler.CreateTeam(r.Context(), user, &req)
		if err != nil {
			logger.Warn("create team", sl.Err(err))
			render.Status(r, entity.HTTPStatus(err))
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		logger.With(
			slog.String("team_code", result.Team.TeamCode),
		).Info("team created")

		render.JSON(w, r, response.Ok(result))
	}
}

// Join adds the caller to the team identified by the submitted team code.
func Join(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.team")
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user := cont.GetUser(r.Context())
		if user == nil {
			render.Status(r, 401)
			render.JSON(w, r, response.Error("Not authenticated"))
			return
		}

		var req entity.JoinTeamRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Warn("bind request", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("teamCode is required"))
			return
		}
		logger = logger.With(
			slog.String("team_code", req.TeamCode),
			slog.String("user", user.Email),
		)

		result, err := handler.JoinTeam(r.Context(), user, req.TeamCode)
		if err != nil {
			logger.Warn("join team", sl.Err(err))
			render.Status(r, entity.HTTPStatus(err))
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		logger.With(
			slog.String("member_id", result.Member.Id),
		).Info("member joined")

		render.JSON(w, r, response.Ok(result))
	}
}
