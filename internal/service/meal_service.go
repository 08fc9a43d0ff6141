package service

import (
	"context"
	"errors"
	"time"

	"super-tasks/internal/cache"
	"super-tasks/internal/model"
	"super-tasks/internal/repository"
)

type MealMenuInput struct {
	Name         model.Optional[string]  `json:"name"`
	TimeCategory model.Optional[string]  `json:"time_category"`
	FoodCategory model.Optional[string]  `json:"food_category"`
	Calories     model.Optional[float64] `json:"calories"`
}

type MealLogInput struct {
	MealMenuID model.Optional[uint]      `json:"meal_menu_id"`
	Amount     model.Optional[float64]   `json:"amount"`
	MealDate   model.Optional[time.Time] `json:"meal_date"`
}

// MealService manages shared meal menus and the user's meal logs.
type MealService struct {
	repo  *repository.MealRepository
	cache *cache.Cache
}

func NewMealService(repo *repository.MealRepository, c *cache.Cache) *MealService {
	return &MealService{repo: repo, cache: c}
}

func (s *MealService) ListMenus(ctx context.Context) ([]model.MealMenu, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyMealMenus, s.repo.ListMenus)
}

func (s *MealService) GetMenu(ctx context.Context, id uint) (*model.MealMenu, error) {
	return s.repo.FindMenu(ctx, id)
}

func (s *MealService) CreateMenu(ctx context.Context, in MealMenuInput) (*model.MealMenu, error) {
	var menu model.MealMenu
	in.apply(&menu)
	if err := validateMealMenu(&menu); err != nil {
		return nil, err
	}
	if err := s.repo.CreateMenu(ctx, &menu); err != nil {
		return nil, err
	}
	s.cache.Evict(ctx, cache.KeyMealMenus)
	return &menu, nil
}

func (s *MealService) UpdateMenu(ctx context.Context, id uint, in MealMenuInput) (*model.MealMenu, error) {
	menu, err := s.repo.FindMenu(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(menu)
	if err := validateMealMenu(menu); err != nil {
		return nil, err
	}
	if err := s.repo.SaveMenu(ctx, menu); err != nil {
		return nil, err
	}
	s.cache.Evict(ctx, cache.KeyMealMenus)
	return menu, nil
}

// DeleteMenu refuses to remove a menu that still has logs.
func (s *MealService) DeleteMenu(ctx context.Context, id uint) error {
	err := s.repo.DeleteMenu(ctx, id)
	if errors.Is(err, repository.ErrInUse) {
		var v ValidationError
		v.Add(fieldBase, "Cannot delete record because dependent meal logs exist")
		return v.Err()
	}
	if err != nil {
		return err
	}
	s.cache.Evict(ctx, cache.KeyMealMenus)
	return nil
}

func (in MealMenuInput) apply(menu *model.MealMenu) {
	if in.Name.Set {
		menu.Name = deref(in.Name.Value)
	}
	in.TimeCategory.Apply(&menu.TimeCategory)
	in.FoodCategory.Apply(&menu.FoodCategory)
	in.Calories.Apply(&menu.Calories)
}

func validateMealMenu(menu *model.MealMenu) error {
	var v ValidationError
	v.requireString("name", menu.Name)
	nonNegative(&v, "calories", menu.Calories)
	return v.Err()
}

func (s *MealService) ListLogs(ctx context.Context, userID uint, window repository.DateRange) ([]model.MealLog, error) {
	return s.repo.ListLogs(ctx, userID, window)
}

func (s *MealService) GetLog(ctx context.Context, userID, id uint) (*model.MealLog, error) {
	return s.repo.FindLog(ctx, userID, id)
}

func (s *MealService) CreateLog(ctx context.Context, userID uint, in MealLogInput) (*model.MealLog, error) {
	log := model.MealLog{UserID: userID}
	if err := s.applyLog(ctx, &log, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreateLog(ctx, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

func (s *MealService) UpdateLog(ctx context.Context, userID, id uint, in MealLogInput) (*model.MealLog, error) {
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

func (s *MealService) DeleteLog(ctx context.Context, userID, id uint) error {
	return s.repo.DeleteLog(ctx, userID, id)
}

func (s *MealService) applyLog(ctx context.Context, log *model.MealLog, in MealLogInput) error {
	if in.MealMenuID.Set {
		log.MealMenuID = deref(in.MealMenuID.Value)
	}
	in.Amount.Apply(&log.Amount)
	if in.MealDate.Set {
		log.MealDate = deref(in.MealDate.Value)
	}

	var v ValidationError
	nonNegative(&v, "amount", log.Amount)
	v.requireTime("meal_date", log.MealDate)
	if log.MealMenuID == 0 {
		v.Add("meal_menu_id", msgMissing)
	} else if in.MealMenuID.Set {
		ok, err := s.repo.MenuExists(ctx, log.MealMenuID)
		if err != nil {
			return err
		}
		if !ok {
			v.Add("meal_menu_id", msgMissing)
		}
	}
	return v.Err()
}
