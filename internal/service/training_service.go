package service

import (
	"context"
	"fmt"
	"time"

	"super-tasks/internal/cache"
	"super-tasks/internal/model"
	"super-tasks/internal/repository"
)

type TrainingMenuInput struct {
	Name     model.Optional[string] `json:"name"`
	Category model.Optional[string] `json:"category"`
}

type TrainingLogInput struct {
	TrainingMenuID  model.Optional[uint]      `json:"training_menu_id"`
	Weight          model.Optional[float64]   `json:"weight"`
	Reps            model.Optional[int]       `json:"reps"`
	DurationMinutes model.Optional[int]       `json:"duration_minutes"`
	PerformedAt     model.Optional[time.Time] `json:"performed_at"`
}

// TrainingService manages shared training menus and the user's training logs.
type TrainingService struct {
	repo  *repository.TrainingRepository
	cache *cache.Cache
}

func NewTrainingService(repo *repository.TrainingRepository, c *cache.Cache) *TrainingService {
	return &TrainingService{repo: repo, cache: c}
}

func (s *TrainingService) ListMenus(ctx context.Context) ([]model.TrainingMenu, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyTrainingMenus, s.repo.ListMenus)
}

func (s *TrainingService) GetMenu(ctx context.Context, id uint) (*model.TrainingMenu, error) {
	return s.repo.FindMenu(ctx, id)
}

func (s *TrainingService) CreateMenu(ctx context.Context, in TrainingMenuInput) (*model.TrainingMenu, error) {
	var menu model.TrainingMenu
	in.apply(&menu)
	if err := validateTrainingMenu(&menu); err != nil {
		return nil, err
	}
	if err := s.repo.CreateMenu(ctx, &menu); err != nil {
		return nil, err
	}
	s.cache.Evict(ctx, cache.KeyTrainingMenus)
	return &menu, nil
}

func (s *TrainingService) UpdateMenu(ctx context.Context, id uint, in TrainingMenuInput) (*model.TrainingMenu, error) {
	menu, err := s.repo.FindMenu(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(menu)
	if err := validateTrainingMenu(menu); err != nil {
		return nil, err
	}
	if err := s.repo.SaveMenu(ctx, menu); err != nil {
		return nil, err
	}
	s.cache.Evict(ctx, cache.KeyTrainingMenus)
	return menu, nil
}

// DeleteMenu removes the menu; logs that used it keep their data without a menu.
func (s *TrainingService) DeleteMenu(ctx context.Context, id uint) error {
	if err := s.repo.DeleteMenu(ctx, id); err != nil {
		return err
	}
	s.cache.Evict(ctx, cache.KeyTrainingMenus)
	return nil
}

func (in TrainingMenuInput) apply(menu *model.TrainingMenu) {
	if in.Name.Set {
		menu.Name = deref(in.Name.Value)
	}
	if in.Category.Set {
		menu.Category = deref(in.Category.Value)
	}
}

func validateTrainingMenu(menu *model.TrainingMenu) error {
	var v ValidationError
	v.requireString("name", menu.Name)
	v.requireString("category", menu.Category)
	return v.Err()
}

func (s *TrainingService) ListLogs(ctx context.Context, userID uint, window repository.DateRange) ([]model.TrainingLog, error) {
	return s.repo.ListLogs(ctx, userID, window)
}

func (s *TrainingService) GetLog(ctx context.Context, userID, id uint) (*model.TrainingLog, error) {
	return s.repo.FindLog(ctx, userID, id)
}

func (s *TrainingService) CreateLog(ctx context.Context, userID uint, in TrainingLogInput) (*model.TrainingLog, error) {
	log := model.TrainingLog{UserID: userID}
	if err := s.applyLog(ctx, &log, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreateLog(ctx, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

func (s *TrainingService) UpdateLog(ctx context.Context, userID, id uint, in TrainingLogInput) (*model.TrainingLog, error) {
	log, err := s.repo.FindLog(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyLog(ctx, log, in); err != nil {
		return nil, err
	}
	if err := s.repo.SaveLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *TrainingService) DeleteLog(ctx context.Context, userID, id uint) error {
	return s.repo.DeleteLog(ctx, userID, id)
}

func (s *TrainingService) applyLog(ctx context.Context, log *model.TrainingLog, in TrainingLogInput) error {
	in.TrainingMenuID.Apply(&log.TrainingMenuID)
	in.Weight.Apply(&log.Weight)
	in.Reps.Apply(&log.Reps)
	in.DurationMinutes.Apply(&log.DurationMinutes)
	if in.PerformedAt.Set {
		log.PerformedAt = deref(in.PerformedAt.Value)
	}

	var v ValidationError
	v.requireTime("performed_at", log.PerformedAt)
	nonNegative(&v, "weight", log.Weight)
	nonNegative(&v, "reps", log.Reps)
	nonNegative(&v, "duration_minutes", log.DurationMinutes)
	if err := v.Err(); err != nil {
		return err
	}

	if in.TrainingMenuID.Set && log.TrainingMenuID != nil {
		ok, err := s.repo.MenuExists(ctx, *log.TrainingMenuID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("training menu %d: %w", *log.TrainingMenuID, repository.ErrNotFound)
		}
	}
	return nil
}
