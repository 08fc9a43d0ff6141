package repository

import (
	"context"

	"gorm.io/gorm"

	"super-tasks/internal/model"
)

// TrainingRepository stores shared training menus and per-user training logs.
type TrainingRepository struct {
	db *gorm.DB
}

func NewTrainingRepository(db *gorm.DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

func (r *TrainingRepository) ListMenus(ctx context.Context) ([]model.TrainingMenu, error) {
	var menus []model.TrainingMenu
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&menus).Error; err != nil {
		return nil, translate("list training menus", err)
	}
	return menus, nil
}

func (r *TrainingRepository) FindMenu(ctx context.Context, id uint) (*model.TrainingMenu, error) {
	return findByID[model.TrainingMenu](ctx, r.db, id, "find training menu")
}

func (r *TrainingRepository) MenuExists(ctx context.Context, id uint) (bool, error) {
	ok, err := exists[model.TrainingMenu](ctx, r.db, id)
	if err != nil {
		return false, translate("check training menu", err)
	}
	return ok, nil
}

func (r *TrainingRepository) CreateMenu(ctx context.Context, menu *model.TrainingMenu) error {
	if err := r.db.WithContext(ctx).Create(menu).Error; err != nil {
		return translate("create training menu", err)
	}
	return nil
}

func (r *TrainingRepository) SaveMenu(ctx context.Context, menu *model.TrainingMenu) error {
	if err := r.db.WithContext(ctx).Save(menu).Error; err != nil {
		return translate("update training menu", err)
	}
	return nil
}

// Categories lists the distinct menu categories in name order.
func (r *TrainingRepository) Categories(ctx context.Context) ([]string, error) {
	return distinctValues[model.TrainingMenu](ctx, r.db, "category", "list training categories")
}

// DeleteMenu removes a menu and detaches the logs that referenced it.
func (r *TrainingRepository) DeleteMenu(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.TrainingLog{}).Where("training_menu_id = ?", id).
			Update("training_menu_id", nil).Error; err != nil {
			return translate("detach training logs", err)
		}
		res := tx.Delete(&model.TrainingMenu{}, id)
		if res.Error != nil {
			return translate("delete training menu", res.Error)
		}
		if res.RowsAffected == 0 {
			return translate("delete training menu", gorm.ErrRecordNotFound)
		}
		return nil
	})
}

func (r *TrainingRepository) ListLogs(ctx context.Context, userID uint, window DateRange) ([]model.TrainingLog, error) {
	var logs []model.TrainingLog
	q := window.apply(r.db.WithContext(ctx).Where("user_id = ?", userID), "performed_at")
	if err := q.Order("performed_at DESC, created_at DESC").Find(&logs).Error; err != nil {
		return nil, translate("list training logs", err)
	}
	return logs, nil
}

func (r *TrainingRepository) CountLogs(ctx context.Context, userID uint, window DateRange) (int64, error) {
	var n int64
	q := window.apply(r.db.WithContext(ctx).Model(&model.TrainingLog{}).Where("user_id = ?", userID), "performed_at")
	if err := q.Count(&n).Error; err != nil {
		return 0, translate("count training logs", err)
	}
	return n, nil
}

func (r *TrainingRepository) FindLog(ctx context.Context, userID, id uint) (*model.TrainingLog, error) {
	return findOwned[model.TrainingLog](ctx, r.db, userID, id, "find training log")
}

func (r *TrainingRepository) CreateLog(ctx context.Context, log *model.TrainingLog) error {
	log.PerformedAt = log.PerformedAt.UTC()
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return translate("create training log", err)
	}
	return nil
}

func (r *TrainingRepository) SaveLog(ctx context.Context, log *model.TrainingLog) error {
	log.PerformedAt = log.PerformedAt.UTC()
	if err := r.db.WithContext(ctx).Save(log).Error; err != nil {
		return translate("update training log", err)
	}
	return nil
}

func (r *TrainingRepository) DeleteLog(ctx context.Context, userID, id uint) error {
	return deleteOwned[model.TrainingLog](ctx, r.db, userID, id, "delete training log")
}
