package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bannerdle/go-server/internal/catalog"
	"github.com/bannerdle/go-server/internal/httpserver"
	"github.com/bannerdle/go-server/internal/ledger"
	"github.com/bannerdle/go-server/internal/mailer"
	"github.com/bannerdle/go-server/internal/scheduler"
	"github.com/bannerdle/go-server/internal/selector"
)

func main() {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := catalog.Seed(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed catalogs")
	}
	cancel()

	cat := catalog.NewStore(db)
	led := ledger.NewStore(db)
	sel := selector.New(cat, led)

	sched := scheduler.New(sel, hasBothModes(led), cfg.ScheduleUTC)
	if cfg.SchedulerStart {
		if err := sched.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start scheduler")
		}
	}

	mail := mailer.New(mailer.Config{
		Host: cfg.SMTPHost, Port: cfg.SMTPPort,
		Username: cfg.SMTPUsername, Password: cfg.SMTPPassword,
		From: cfg.MailFrom, To: cfg.MailTo,
	})

	srv := httpserver.New(httpserver.Config{
		ClientOrigin:      cfg.ClientOrigin,
		JWTSecret:         cfg.JWTSecret,
		AdminPasswordHash: cfg.AdminPasswordHash,
		AdminCookieName:   cfg.AdminCookieName,
		DonationURL:       cfg.DonationURL,
		Production:        cfg.Production,
	}, cat, led, sel, sched, mail)

	log.Info().Str("port", cfg.Port).Msg("starting bannerdle go-server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// hasBothModes reports a day as done only when both mode ledgers already
// hold a selection for it.
func hasBothModes(led *ledger.Store) scheduler.HasDayFunc {
	return func(ctx context.Context, day string) (bool, error) {
		troopDone, err := led.HasTroopDay(ctx, day)
		if err != nil {
			return false, err
		}
		areaDone, err := led.HasMapAreaDay(ctx, day)
		if err != nil {
			return false, err
		}
		return troopDone && areaDone, nil
	}
}
