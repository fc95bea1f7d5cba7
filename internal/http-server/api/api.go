package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"festreg/internal/config"
	"festreg/internal/http-server/handlers/authhandler"
	"festreg/internal/http-server/handlers/errors"
	"festreg/internal/http-server/handlers/events"
	"festreg/internal/http-server/handlers/register"
	"festreg/internal/http-server/handlers/registrations"
	"festreg/internal/http-server/handlers/stripehandler"
	"festreg/internal/http-server/handlers/team"
	"festreg/internal/http-server/middleware/authenticate"
	"festreg/internal/http-server/middleware/timeout"
	"festreg/lib/sl"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	authhandler.Core
	events.Core
	register.Core
	team.Core
	registrations.Core
	stripehandler.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(5))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/api", func(rootApi chi.Router) {
		// public surface
		rootApi.Get("/events", events.List(log, handler))
		rootApi.Get("/events/{id}", events.Detail(log, handler))
		rootApi.Get("/auth", authhandler.Login(log, handler))
		rootApi.Get("/auth/callback", authhandler.Callback(log, handler))
		rootApi.Post("/auth/logout", authhandler.Logout(log, handler))

		// session required
		rootApi.Group(func(private chi.Router) {
			private.Use(authenticate.New(log, handler))
			private.Post("/register", register.Solo(log, handler))
			private.Route("/team", func(t chi.Router) {
				t.Post("/create", team.Create(log, handler))
				t.Post("/join", team.Join(log, handler))
			})

			// admin surface
			private.Group(func(admin chi.Router) {
				admin.Use(authenticate.Admin(log))
				admin.Get("/registrations", registrations.List(log, handler))
				admin.Get("/registrations/export", registrations.Export(log, handler))
				admin.Post("/events", events.Create(log, handler))
			})
		})
	})
	router.Route("/webhook", func(rootWH chi.Router) {
		rootWH.Post("/stripe", stripehandler.Event(log, handler))
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      router,
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIp, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
