// Package main seeds a demo book with two users and two months of expenses.
package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-budget/internal/bookrepo"
	"github.com/go-petr/pet-budget/internal/demoseed"
	"github.com/go-petr/pet-budget/internal/expenserepo"
	"github.com/go-petr/pet-budget/internal/memberrepo"
	"github.com/go-petr/pet-budget/internal/middleware"
	"github.com/go-petr/pet-budget/internal/userrepo"
	"github.com/go-petr/pet-budget/internal/userservice"
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

	if err := dbpkg.Migrate(config.DBDriver, config.DBSource); err != nil {
		logger.Fatal().Err(err).Msg("cannot migrate database")
	}

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer db.Close()

	seeder := demoseed.New(
		userservice.New(userrepo.NewRepoPGS(db)),
		bookrepo.NewRepoPGS(db),
		memberrepo.NewRepoPGS(db),
		expenserepo.NewRepoPGS(db),
	)

	ctx := logger.WithContext(context.Background())

	res, err := seeder.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot seed demo data")
	}

	logger.Info().
		Int64("book_id", res.BookID).
		Int("users", res.CreatedUsers).
		Int("expenses", res.CreatedExpenses).
		Msg("seeding finished")
}
