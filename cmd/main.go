// Package main starts the shared-expense ledger API.
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-budget/cmd/httpserver"
	"github.com/go-petr/pet-budget/internal/middleware"
	"github.com/go-petr/pet-budget/pkg/configpkg"
	"github.com/go-petr/pet-budget/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	if config.MigrateOnStart {
		if err := dbpkg.Migrate(config.DBDriver, config.DBSource); err != nil {
			logger.Fatal().Err(err).Msg("cannot migrate database")
		}

		logger.Info().Msg("database schema is up to date")
	}

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Str("address", config.ServerAddress).Msg("BUDGET API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
