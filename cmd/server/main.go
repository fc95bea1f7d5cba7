package main

import (
	"flag"
	"log"
	"log/slog"
	"path/filepath"

	"festreg/impl/auth"
	"festreg/impl/core"
	"festreg/internal/config"
	"festreg/internal/database"
	"festreg/internal/http-server/api"
	"festreg/internal/notify"
	"festreg/internal/oauth"
	"festreg/internal/stripeclient"
	"festreg/lib/logger"
	"festreg/lib/sl"
)

const logFileName = "festreg.log"

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, filepath.Join(*logPath, logFileName))
	lg.Info("starting festreg", slog.String("config", *configPath), slog.String("env", conf.Env))

	var notifier *notify.Notifier
	if conf.Telegram.Enabled {
		var err error
		notifier, err = notify.New(conf.Telegram.ApiKey, conf.Telegram.ChatIds, lg)
		if err != nil {
			lg.Error("telegram notifier", sl.Err(err))
		} else {
			lg = slog.New(logger.NewTelegramHandler(lg.Handler(), notifier, slog.LevelWarn))
		}
	}

	store, err := database.NewSQLClient(conf)
	if err != nil {
		log.Fatal("store connection: ", err)
	}
	defer store.Close()

	sessions := database.NewMongoClient(conf)
	if sessions == nil {
		log.Fatal("session store is disabled in configuration")
	}

	handler := core.New(store, lg)
	handler.SetAuthService(auth.New(sessions))
	handler.SetOAuthService(oauth.New(conf, lg))
	handler.SetStripeService(stripeclient.New(conf, store, lg))
	if notifier != nil {
		handler.SetNotifier(notifier)
	}

	if err = api.New(conf, lg, handler); err != nil {
		lg.Error("api server stopped", sl.Err(err))
	}
}
