package events

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"festreg/entity"
	"festreg/lib/api/response"
	"festreg/lib/sl"
)

type Core interface {
	Events(ctx context.Context) ([]entity.EventSummary, error)
	EventDetail(ctx context.Context, id string) (*entity.EventDetail, error)
	CreateEvent(ctx context.Context, req *entity.CreateEventRequest) (*entity.Event, error)
}

// List returns the public event catalogue ordered by name.
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.events")
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		events, err := handler.Events(r.Context())
		if err != nil {
			logger.Error("fetch events", sl.Err(err))
			render.Status(r, entity.HTTPStatus(err))
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		render.JSON(w, r, response.Ok(events))
	}
}

// Detail returns one event with its coordinators.
func Detail(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.events")
		eventId := chi.URLParam(r, "id")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("event_id", eventId),
		)

		detail, err := handler.EventDetail(r.Context(), eventId)
		if err != nil {
			logger.Warn("fetch event", sl.Err(err))
			render.Status(r, entity.HTTPStatus(err))
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		render.JSON(w, r, response.Ok(detail))
	}
}

// Create adds an event to the catalogue. Admin only; the router guards it.
func Create(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.events")
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.CreateEventRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Warn("bind request", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		event, err := handler.CreateEvent(r.Context(), &req)
		if err != nil {
			logger.Error("create event", sl.Err(err))
			render.Status(r, entity.HTTPStatus(err))
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		logger.With(
			slog.String("event_id", event.Id),
		).Info("event created")

		render.JSON(w, r, response.Ok(event))
	}
}
