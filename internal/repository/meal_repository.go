package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"super-tasks/internal/model"
)

// MealRepository stores shared meal menus and per-user meal logs.
type MealRepository struct {
	db *gorm.DB
}

func NewMealRepository(db *gorm.DB) *MealRepository {
	return &MealRepository{db: db}
}

func (r *MealRepository) ListMenus(ctx context.Context) ([]model.MealMenu, error) {
	var menus []model.MealMenu
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&menus).Error; err != nil {
		return nil, translate("list meal menus", err)
	}
	return menus, nil
}

func (r *MealRepository) FindMenu(ctx context.Context, id uint) (*model.MealMenu, error) {
	return findByID[model.MealMenu](ctx, r.db, id, "find meal menu")
}

func (r *MealRepository) MenuExists(ctx context.Context, id uint) (bool, error) {
	ok, err := exists[model.MealMenu](ctx, r.db, id)
	if err != nil {
		return false, translate("check meal menu", err)
	}
	return ok, nil
}

func (r *MealRepository) CreateMenu(ctx context.Context, menu *model.MealMenu) error {
	if err := r.db.WithContext(ctx).Create(menu).Error; err != nil {
		return translate("create meal menu", err)
	}
	return nil
}

func (r *MealRepository) SaveMenu(ctx context.Context, menu *model.MealMenu) error {
	if err := r.db.WithContext(ctx).Save(menu).Error; err != nil {
		return translate("update meal menu", err)
	}
	return nil
}

// DeleteMenu refuses with ErrInUse while any log references the menu.
func (r *MealRepository) DeleteMenu(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&model.MealLog{}).Where("meal_menu_id = ?", id).Count(&refs).Error; err != nil {
			return translate("count meal logs", err)
		}
		if refs > 0 {
			return fmt.Errorf("delete meal menu: %w", ErrInUse)
		}
		res := tx.Delete(&model.MealMenu{}, id)
		if res.Error != nil {
			return translate("delete meal menu", res.Error)
		}
		if res.RowsAffected == 0 {
			return translate("delete meal menu", gorm.ErrRecordNotFound)
		}
		return nil
	})
}

// TimeCategories lists the distinct time_category values of meal menus.
func (r *MealRepository) TimeCategories(ctx context.Context) ([]string, error) {
	return distinctValues[model.MealMenu](ctx, r.db, "time_category", "list meal time categories")
}

func (r *MealRepository) FoodCategories(ctx context.Context) ([]string, error) {
	return distinctValues[model.MealMenu](ctx, r.db, "food_category", "list meal food categories")
}

func (r *MealRepository) ListLogs(ctx context.Context, userID uint, window DateRange) ([]model.MealLog, error) {
	var logs []model.MealLog
	q := window.apply(r.db.WithContext(ctx).Where("user_id = ?", userID), "meal_date")
	if err := q.Order("meal_date DESC, created_at DESC").Find(&logs).Error; err != nil {
		return nil, translate("list meal logs", err)
	}
	return logs, nil
}

func (r *MealRepository) CountLogs(ctx context.Context, userID uint, window DateRange) (int64, error) {
	var n int64
	q := window.apply(r.db.WithContext(ctx).Model(&model.MealLog{}).Where("user_id = ?", userID), "meal_date")
	if err := q.Count(&n).Error; err != nil {
		return 0, translate("count meal logs", err)
	}
	return n, nil
}

func (r *MealRepository) FindLog(ctx context.Context, userID, id uint) (*model.MealLog, error) {
	return findOwned[model.MealLog](ctx, r.db, userID, id, "find meal log")
}

func (r *MealRepository) CreateLog(ctx context.Context, log *model.MealLog) error {
	log.MealDate = log.MealDate.UTC()
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return translate("create meal log", err)
	}
	return nil
}

func (r *MealRepository) SaveLog(ctx context.Context, log *model.MealLog) error {
	log.MealDate = log.MealDate.UTC()
	if err := r.db.WithContext(ctx).Save(log).Error; err != nil {
		return translate("update meal log", err)
	}
	return nil
}

func (r *MealRepository) DeleteLog(ctx context.Context, userID, id uint) error {
	return deleteOwned[model.MealLog](ctx, r.db, userID, id, "delete meal log")
}
