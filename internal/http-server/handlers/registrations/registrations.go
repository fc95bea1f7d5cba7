package registrations

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"festreg/entity"
	"festreg/impl/core"
	"festreg/lib/api/response"
	"festreg/lib/sl"
)

type Core interface {
	Registrations(ctx context.Context) ([]entity.RegistrationRow, error)
}

// List returns the flattened admin rows, optionally filtered by the q,
// status and events query parameters.
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.registrations")
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		rows, err := handler.Registrations(r.Context())
		if err != nil {
			logger.Error("fetch registrations", sl.Err(err))
			render.Status(r, entity.HTTPStatus(err))
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		rows = core.FilterRegistrations(rows, filterFromQuery(r))
		logger.With(
			slog.Int("rows", len(rows)),
		).Debug("registrations listed")

		render.JSON(w, r, response.Ok(rows))
	}
}

// Export streams the filtered rows as a CSV download.
func Export(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.registrations")
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		rows, err := handler.Registrations(r.Context())
		if err != nil {
			logger.Error("fetch registrations", sl.Err(err))
			render.Status(r, entity.HTTPStatus(err))
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		rows = core.FilterRegistrations(rows, filterFromQuery(r))

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="registrations.csv"`)
		if err = core.WriteCSV(w, rows); err != nil {
			logger.Error("write csv", sl.Err(err))
		}
	}
}

// filterFromQuery reads the dashboard's filter parameters. The events
// parameter repeats, one value per selected event, so names may contain
// any character.
func filterFromQuery(r *http.Request) core.Filter {
	f := core.Filter{
		Query:  r.URL.Query().Get("q"),
		Status: r.URL.Query().Get("status"),
	}
	for _, name := range r.URL.Query()["events"] {
		if name = strings.TrimSpace(name); name != "" {
			f.Events = append(f.Events, name)
		}
	}
	return f
}
