package main

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"super-tasks/internal/api"
	"super-tasks/internal/cache"
	"super-tasks/internal/config"
	"super-tasks/internal/repository"
	"super-tasks/internal/service"
)

// app is the wired object graph shared by serve and digest.
type app struct {
	db        *gorm.DB
	cache     *cache.Cache
	users     *repository.UserRepository
	mentor    *repository.MentorRepository
	reminders *service.ReminderService
	services  api.Services
}

func openApp(cfg config.Config, logger *log.Logger) (*app, error) {
	db, err := repository.NewDB(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	c, err := cache.NewFromURL(cfg.RedisURL, cfg.CacheTTL, logger)
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("cache: %w", err)
	}

	users := repository.NewUserRepository(db)
	training := repository.NewTrainingRepository(db)
	meal := repository.NewMealRepository(db)
	study := repository.NewStudyRepository(db)
	mentor := repository.NewMentorRepository(db)

	return &app{
		db:        db,
		cache:     c,
		users:     users,
		mentor:    mentor,
		reminders: service.NewReminderService(mentor, c),
		services: api.Services{
			Auth:      service.NewAuthService(users, 0),
			Training:  service.NewTrainingService(training, c),
			Meal:      service.NewMealService(meal, c),
			Study:     service.NewStudyService(study),
			Mentor:    service.NewMentorService(mentor, c),
			Dashboard: service.NewDashboardService(training, meal, study, mentor),
			Category:  service.NewCategoryService(mentor, training, meal),
		},
	}, nil
}

// health pings the database and, when configured, Redis.
func (a *app) health(ctx context.Context) error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}
	if err := a.cache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

func (a *app) Close() error {
	var errs []error
	errs = append(errs, a.cache.Close())
	if sqlDB, err := a.db.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
