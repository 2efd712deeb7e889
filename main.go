package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tsf/internal/config"
	"github.com/robalobadob/tsf/internal/db"
	"github.com/robalobadob/tsf/internal/game"
	"github.com/robalobadob/tsf/internal/httpserver"
	"github.com/robalobadob/tsf/internal/store"
)

func main() {
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	sqldb, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer sqldb.Close()
	if err := db.Migrate(context.Background(), sqldb); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	srv := httpserver.New(cfg, store.NewMemoryStore[*game.Game](), sqldb)
	log.Info().Str("port", cfg.Port).Int("dailyDigits", cfg.DailyDigits).Msg("starting tsf server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
