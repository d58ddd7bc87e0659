package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"wakawaka/internal/auth"
	"wakawaka/internal/config"
	"wakawaka/internal/database"
	"wakawaka/internal/web"
)

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = zerolog.New(os.Stderr)
	if cfg.LogFormat == "pretty" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return out.Level(level).With().Timestamp().Logger()
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}
	log := newLogger(cfg)

	db, err := database.New(cfg.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("error migrating database")
	}
	log.Info().Str("dsn", cfg.DSN).Msg("database migrated")

	if len(os.Args) > 1 && os.Args[1] == "admin" {
		handleAdminCommands(db, os.Args[2:], log)
		return
	}

	if err := auth.InitSessionStore(cfg.SessionKey); err != nil {
		log.Fatal().Err(err).Msg("invalid session key (set WIKI_SESSION_KEY)")
	}

	server, err := web.NewServer(db, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error building server")
	}

	log.Info().Str("addr", cfg.Addr).Msg("starting server")
	if err := http.ListenAndServe(cfg.Addr, server); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
