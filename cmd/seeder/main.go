// Command seeder fills a cinema-commerce schema with synthetic
// reservation and store transactions.  It runs as a small service: a
// health check, plus token-protected endpoints to trigger a generation
// run and poll its progress.  A run can also be triggered at boot with
// SEED_RUN_ON_START=true for one-shot container usage.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-transaction-seeder/internal/config"
	"github.com/iliyamo/cinema-transaction-seeder/internal/database"
	"github.com/iliyamo/cinema-transaction-seeder/internal/handler"
	"github.com/iliyamo/cinema-transaction-seeder/internal/router"
	"github.com/iliyamo/cinema-transaction-seeder/internal/seeder"
	"github.com/iliyamo/cinema-transaction-seeder/internal/utils"
)

func main() {
	printToken := flag.Bool("print-token", false, "print a fresh operator token and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "validity of the printed operator token")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	log := newLogger(cfg.Env)

	if *printToken {
		tok, err := utils.NewOperatorToken(cfg.SeedAPISecret, "cli", *tokenTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to sign operator token")
		}
		fmt.Println(tok.Token)
		return
	}

	gen := config.LoadGenerationConfig()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() { _ = db.Close() }()

	rdb := config.NewRedisClient()

	svc := seeder.New(db, rdb, gen, log)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterRunControl(e, handler.NewRunHandler(svc, log), cfg.SeedAPISecret)

	if gen.RunOnStart {
		if _, err := svc.Start(); err != nil {
			log.Error().Err(err).Msg("boot-time run could not start")
		}
	}

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Int64("seed", gen.Seed).
		Int("total_records", gen.TotalRecords).Msg("seeder listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("http server stopped")
	}
}

// newLogger builds the process logger: pretty console output in dev,
// JSON everywhere else.
func newLogger(env string) zerolog.Logger {
	if env == "dev" {
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		return zerolog.New(out).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
