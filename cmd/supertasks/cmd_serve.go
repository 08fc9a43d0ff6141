package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"super-tasks/internal/api"
	"super-tasks/internal/bot"
	"super-tasks/internal/service"
)

const (
	shutdownTimeout = 10 * time.Second
	reportTimeout   = 2 * time.Minute
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, when TELEGRAM_TOKEN is set, the notifier",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd.Context())
		},
	}
}

func (c *cli) serve(parent context.Context) error {
	cfg, logger := c.cfg, c.logger
	if cfg.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.WithError(err).Warn("close resources")
		}
	}()

	e := api.New(a.services, api.Options{
		SessionSecret:  []byte(cfg.SessionSecret),
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: api.ParseSameSite(cfg.CookieSameSite),
		CORSOrigins:    cfg.CORSOrigins,
		Location:       loc,
		Health:         a.health,
	}, logger)

	var notifier *bot.Bot
	if cfg.TelegramToken != "" {
		notifier, err = bot.New(cfg.TelegramToken, a.users, a.reminders, a.services.Mentor, loc, logger)
		if err != nil {
			return err
		}
		scheduler := service.NewSchedulerService(loc, logger)
		job := func() {
			jobCtx, cancel := context.WithTimeout(ctx, reportTimeout)
			defer cancel()
			if _, err := notifier.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Error("daily reports")
			}
		}
		if cfg.ReportInterval > 0 {
			_, err = scheduler.ScheduleInterval(cfg.ReportInterval, job)
		} else {
			_, err = scheduler.ScheduleDaily(cfg.ReportTime, job)
		}
		if err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		logger.Info("TELEGRAM_TOKEN not set, notifier disabled")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	if notifier != nil {
		g.Go(func() error { return notifier.Start(gctx) })
	}

	err = g.Wait()
	logger.Info("shutdown complete")
	return err
}
