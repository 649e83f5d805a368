package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"request-tracker/adapters/db"
	"request-tracker/adapters/files"
	"request-tracker/adapters/rest"
	"request-tracker/config"
	"request-tracker/core"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "server configuration file")
	flag.Parse()

	var cfg config.Config
	if _, err := os.Stat(configPath); err == nil {
		cfg = config.MustLoad(configPath)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from env: %s", err)
		}
	}

	log := mustMakeLogger(cfg.LogLevel)

	log.Info("starting server")
	log.Debug("debug messages are enabled")

	storage, err := db.New(log, cfg.DBAddress)
	if err != nil {
		log.Error("failed to create storage", "error", err)
		return
	}

	if err := storage.Migrate(); err != nil {
		log.Error("failed to migrate db", "error", err)
		return
	}

	fileStore, err := files.New(log, cfg.Uploads.Dir)
	if err != nil {
		log.Error("failed to create file store", "error", err)
		return
	}

	service, err := core.NewService(log, storage, fileStore)
	if err != nil {
		log.Error("failed to create service", "error", err)
		return
	}

	if err := service.SyncMembers(context.Background(), teamFromConfig(cfg.Team)); err != nil {
		log.Error("failed to sync team roster", "error", err)
		return
	}

	directory := core.Directory{
		Admins:     cfg.Identity.Admins,
		Requesters: cfg.Identity.Requesters,
		Evaluators: cfg.Identity.Evaluators,
	}

	handler := rest.NewHandler(service, log, directory, cfg.Uploads.MaxSizeBytes)
	server := &http.Server{
		Addr:    cfg.HTTPConfig.Address,
		Handler: handler,
	}

	log.Info("server running", "address", cfg.HTTPConfig.Address)
	if err := server.ListenAndServe(); err != nil {
		log.Error("server failed", "error", err)
	}
}

func teamFromConfig(members []config.TeamMember) []core.TeamMember {
	team := make([]core.TeamMember, 0, len(members))
	for _, member := range members {
		team = append(team, core.TeamMember{ID: member.ID, Name: member.Name})
	}
	return team
}

func mustMakeLogger(logLevel string) *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "ERROR":
		level = slog.LevelError
	default:
		panic("unknown log level: " + logLevel)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level, AddSource: true})
	return slog.New(handler)
}
