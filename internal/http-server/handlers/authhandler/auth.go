package authhandler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"festreg/entity"
	"festreg/lib/api/response"
	"festreg/lib/sl"
)

const (
	stateCookie   = "oauth_state"
	nextCookie    = "oauth_next"
	sessionCookie = "session"
	sessionMaxAge = 7 * 24 * time.Hour
)

type Core interface {
	AuthURL(state string) string
	CompleteOAuth(ctx context.Context, code string) (string, *entity.User, error)
	Logout(token string) error
}

// Login starts the provider flow: remember state and the return path, then
// redirect to the consent page.
func Login(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.auth")
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		state := uuid.NewString()
		url := handler.AuthURL(state)
		if url == "" {
			logger.Error("oauth not configured")
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Authentication not available"))
			return
		}

		next := r.URL.Query().Get("next")
		if next == "" {
			next = "/"
		}
		http.SetCookie(w, &http.Cookie{
			Name: stateCookie, Value: state, Path: "/", HttpOnly: true, MaxAge: 600,
		})
		http.SetCookie(w, &http.Cookie{
			Name: nextCookie, Value: next, Path: "/", HttpOnly: true, MaxAge: 600,
		})

		http.Redirect(w, r, url, http.StatusTemporaryRedirect)
	}
}

// Callback consumes the provider code, opens a session and redirects to the
// page the flow started from. Provider failures redirect to /?auth=failed.
func Callback(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.auth")
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		next := "/"
		if c, err := r.Cookie(nextCookie); err == nil && c.Value != "" {
			next = c.Value
		}

		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")
		stateCk, err := r.Cookie(stateCookie)
		if code == "" || err != nil || state != stateCk.Value {
			logger.Warn("callback state mismatch")
			http.Redirect(w, r, "/?auth=failed", http.StatusTemporaryRedirect)
			return
		}

		token, user, err := handler.CompleteOAuth(r.Context(), code)
		if err != nil {
			logger.Error("complete oauth", sl.Err(err))
			http.Redirect(w, r, "/?auth=failed", http.StatusTemporaryRedirect)
			return
		}
		logger.With(
			slog.String("user", user.Email),
		).Debug("session created")

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			MaxAge:   int(sessionMaxAge.Seconds()),
		})
		http.Redirect(w, r, next, http.StatusTemporaryRedirect)
	}
}

// Logout deletes the session and clears the cookie.
func Logout(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.auth")
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		token := ""
		if c, err := r.Cookie(sessionCookie); err == nil {
			token = c.Value
		}
		if token != "" {
			if err := handler.Logout(token); err != nil {
				logger.Warn("delete session", sl.Err(err))
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name: sessionCookie, Value: "", Path: "/", HttpOnly: true, MaxAge: -1,
		})
		render.JSON(w, r, response.Ok(nil))
	}
}
