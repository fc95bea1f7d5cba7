package register

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
	RegisterSolo(ctx context.Context, user *entity.User, req *entity.RegisterRequest) (*entity.Registration, error)
}

// Solo records the caller's solo registration for an event.
func Solo(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.register")
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

		var req entity.RegisterRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Warn("bind request", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}
		logger = logger.With(
			slog.String("event_id", req.EventId),
			slog.String("user", user.Email),
		)

		reg, err := handler.RegisterSolo(r.Context(), user, &req)
		if err != nil {
			logger.Warn("solo registration", sl.Err(err))
			render.Status(r, entity.HTTPStatus(err))
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		logger.With(
			slog.String("registration_id", reg.Id),
		).Info("solo registration created")

		render.JSON(w, r, response.Ok(map[string]interface{}{"registration": reg}))
	}
}
